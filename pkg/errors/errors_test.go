package errors

import (
	stdErrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrorIncludesInternal(t *testing.T) {
	err := Wrap(stdErrors.New("boom"), "failed")
	require.Equal(t, "failed: boom", err.Error())
}

func TestWithInternalAndDetailsCopy(t *testing.T) {
	base := New("TEST", "test", http.StatusBadRequest)

	with := base.WithInternal(stdErrors.New("oops")).WithDetails("smtp: dial timeout")
	require.NotSame(t, base, with)
	require.Nil(t, base.Internal)
	require.Empty(t, base.Details)
	require.Equal(t, "smtp: dial timeout", with.Details)
	require.Error(t, with.Internal)
}

func TestFromError(t *testing.T) {
	require.Same(t, ErrNotFound, FromError(ErrNotFound))

	out := FromError(stdErrors.New("raw"))
	require.Equal(t, ErrInternalServer.Code, out.Code)
	require.Error(t, out.Internal)

	require.Nil(t, FromError(nil))
}

func TestFromErrorFindsWrappedAppError(t *testing.T) {
	wrapped := stdErrors.Join(stdErrors.New("context"), ErrOTPInvalid)
	require.Same(t, ErrOTPInvalid, FromError(wrapped))
}

func TestNewBadRequestAndNotFound(t *testing.T) {
	bad := NewBadRequest("email is required")
	require.Equal(t, ErrBadRequest.Code, bad.Code)
	require.Equal(t, http.StatusBadRequest, bad.StatusCode)

	missing := NewNotFound("Skill")
	require.Equal(t, "Skill not found", missing.Message)
	require.Equal(t, http.StatusNotFound, missing.StatusCode)
}
