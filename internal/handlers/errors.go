package handlers

import (
	stdErrors "errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/portfolio/internal/auth/otp"
	"github.com/charlesng35/portfolio/internal/services"
	"github.com/charlesng35/portfolio/pkg/errors"
	"github.com/charlesng35/portfolio/pkg/logger"
	"github.com/charlesng35/portfolio/pkg/response"
)

// mapServiceError translates domain sentinels into API errors. Anything
// unrecognised becomes a 500 and keeps the cause for logging.
func mapServiceError(err error) *errors.AppError {
	switch {
	case err == nil:
		return nil
	case stdErrors.Is(err, services.ErrInvalidInput):
		return errors.NewBadRequest(strings.TrimPrefix(err.Error(), services.ErrInvalidInput.Error()+": "))
	case stdErrors.Is(err, otp.ErrInvalidInput):
		return errors.NewBadRequest("email and otp are required")
	case stdErrors.Is(err, services.ErrAdminNotFound):
		return errors.ErrAdminNotFound
	case stdErrors.Is(err, otp.ErrInvalidOrExpired):
		return errors.ErrOTPInvalid
	case stdErrors.Is(err, otp.ErrDeliveryFailed):
		return errors.ErrOTPDeliveryFailed.WithInternal(err)
	case stdErrors.Is(err, services.ErrProjectNotFound):
		return errors.NewNotFound("Project")
	case stdErrors.Is(err, services.ErrSkillNotFound):
		return errors.NewNotFound("Skill")
	case stdErrors.Is(err, services.ErrContactNotFound):
		return errors.NewNotFound("Contact message")
	default:
		return errors.ErrInternalServer.WithInternal(err)
	}
}

func respondError(c *gin.Context, err error) {
	appErr := mapServiceError(err)
	if appErr.StatusCode >= 500 {
		logger.WithModule("handlers").Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	response.Error(c, appErr)
}
