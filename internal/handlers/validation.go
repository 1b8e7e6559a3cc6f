package handlers

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/charlesng35/portfolio/pkg/errors"
	"github.com/charlesng35/portfolio/pkg/response"
	appValidator "github.com/charlesng35/portfolio/pkg/validator"
)

// normaliser is implemented by payloads that canonicalise fields, such as
// trimming and lower-casing emails, before validation.
type normaliser interface {
	normalise()
}

// bindAndValidate binds the JSON payload into dest, normalises it and runs
// struct validation rules. When validation fails, an error response is
// automatically written and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload"))
		return false
	}

	if n, ok := any(dest).(normaliser); ok {
		n.normalise()
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, validationError(err))
		return false
	}

	return true
}

// validationError reports every failing field; details carry a field to message map.
func validationError(err error) *appErrors.AppError {
	failures, ok := err.(appValidator.ValidationErrors)
	if !ok || len(failures) == 0 {
		return appErrors.NewBadRequest("invalid request payload")
	}
	return appErrors.NewBadRequest(failures.Error()).WithDetails(failures.Fields())
}
