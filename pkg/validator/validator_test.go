package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type otpPayload struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,notblank"`
}

type contactPayload struct {
	Name    string `json:"name" validate:"notblank"`
	Message string `json:"message" validate:"required,notblank"`
}

type projectLinks struct {
	LiveURL string `json:"live_url" validate:"omitempty,httpurl"`
}

func TestValidateStructSuccess(t *testing.T) {
	require.NoError(t, ValidateStruct(otpPayload{Email: "admin@portfolio.com", OTP: "004213"}))
}

func TestValidateStructFailures(t *testing.T) {
	err := ValidateStruct(otpPayload{Email: "invalid", OTP: "  "})
	require.Error(t, err)

	vErrs, ok := err.(ValidationErrors)
	require.True(t, ok, "expected ValidationErrors, got %T", err)
	require.Len(t, vErrs, 2)

	require.Equal(t, map[string]string{
		"email": "email must be a valid email address",
		"otp":   "otp is required",
	}, vErrs.Fields())
	require.Equal(t, "email must be a valid email address; otp is required", vErrs.Error())
}

func TestHTTPURLRule(t *testing.T) {
	require.NoError(t, ValidateStruct(projectLinks{}))
	require.NoError(t, ValidateStruct(projectLinks{LiveURL: "https://example.com/demo"}))
	require.Error(t, ValidateStruct(projectLinks{LiveURL: "javascript:alert(1)"}))
	require.Error(t, ValidateStruct(projectLinks{LiveURL: "example.com"}))
}

func TestNotBlankRule(t *testing.T) {
	err := ValidateStruct(contactPayload{Name: "   ", Message: "\t"})
	require.Error(t, err)

	vErrs := err.(ValidationErrors)
	require.Len(t, vErrs, 2)
	for _, v := range vErrs {
		require.Equal(t, "notblank", v.Tag)
		require.Contains(t, v.Message(), "is required")
	}

	require.NoError(t, ValidateStruct(contactPayload{Name: "Ada", Message: "Hello"}))
}

func TestValidationErrorMessageFallback(t *testing.T) {
	require.Equal(t, "image url failed validation: oneof=a b", ValidationError{Field: "image_url", Tag: "oneof", Param: "a b"}.Message())
	require.Equal(t, "field failed validation: custom", ValidationError{Tag: "custom"}.Message())
}

func TestRegisterValidation(t *testing.T) {
	err := RegisterValidation("portfolio", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "portfolio"
	})
	require.NoError(t, err)

	type custom struct {
		Value string `validate:"portfolio"`
	}

	require.NoError(t, ValidateStruct(custom{Value: "portfolio"}))
	require.Error(t, ValidateStruct(custom{Value: "other"}))
}
