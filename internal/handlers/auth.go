package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/charlesng35/portfolio/internal/auth"
	"github.com/charlesng35/portfolio/internal/auth/otp"
	"github.com/charlesng35/portfolio/internal/models"
	"github.com/charlesng35/portfolio/pkg/errors"
	"github.com/charlesng35/portfolio/pkg/logger"
	"github.com/charlesng35/portfolio/pkg/response"
)

// AuthHandler manages the one-time password login flow and the session cookie.
type AuthHandler struct {
	otp        *otp.Service
	sessionTTL time.Duration
	cookie     iauth.CookieOptions
	log        *zap.Logger
}

// NewAuthHandler wires the OTP flow. sessionTTL sets the cookie Max-Age and
// should match the lifetime of the issued tokens.
func NewAuthHandler(otpSvc *otp.Service, sessionTTL time.Duration, cookie iauth.CookieOptions) *AuthHandler {
	if sessionTTL <= 0 {
		sessionTTL = iauth.DefaultSessionTTL
	}
	return &AuthHandler{
		otp:        otpSvc,
		sessionTTL: sessionTTL,
		cookie:     cookie,
		log:        logger.WithModule("auth"),
	}
}

type requestOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *requestOTPRequest) normalise() {
	r.Email = models.NormaliseEmail(r.Email)
}

// verifyOTPRequest only requires a code. Malformed codes fail the store match
// like any other wrong code.
type verifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,notblank"`
}

func (r *verifyOTPRequest) normalise() {
	r.Email = models.NormaliseEmail(r.Email)
	r.OTP = strings.TrimSpace(r.OTP)
}

type adminPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GET /api/auth/check
func (h *AuthHandler) Check(c *gin.Context) {
	claims, ok := currentClaims(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"authenticated": true,
		"admin": adminPayload{
			ID:    claims.AdminID,
			Email: claims.Email,
			Name:  claims.Name,
		},
	})
}

// POST /api/auth/request-otp
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req requestOTPRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.otp.RequestCode(requestContext(c), req.Email); err != nil {
		respondError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":    "OTP sent to your email",
		"expires_in": int64(h.otp.TTL().Seconds()),
	})
}

// POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if !bindAndValidate(c, &req) {
		return
	}

	session, admin, err := h.otp.VerifyCode(requestContext(c), req.Email, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}

	iauth.SetSessionCookie(c, session.Token, h.sessionTTL, h.cookie)
	h.log.Info("admin signed in", zap.String("admin_id", admin.ID), zap.String("ip", c.ClientIP()))

	response.Success(c, http.StatusOK, gin.H{
		"admin": adminPayload{
			ID:    admin.ID,
			Email: admin.Email,
			Name:  admin.Name,
		},
		"expires_at": session.ExpiresAt,
	})
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	iauth.ClearSessionCookie(c, h.cookie)
	response.Success(c, http.StatusOK, gin.H{"message": "Logged out"})
}
