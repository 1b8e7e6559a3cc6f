package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/charlesng35/portfolio/internal/models"
	"github.com/charlesng35/portfolio/internal/services"
	"github.com/charlesng35/portfolio/pkg/logger"
	"github.com/charlesng35/portfolio/pkg/response"
)

// ContactHandler accepts public contact submissions and lets the admin triage them.
type ContactHandler struct {
	svc *services.ContactService
}

func NewContactHandler(svc *services.ContactService) *ContactHandler {
	return &ContactHandler{svc: svc}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,notblank,max=120"`
	Email   string `json:"email" validate:"required,email,max=320"`
	Message string `json:"message" validate:"required,notblank,max=5000"`
}

func (r *contactRequest) normalise() {
	r.Email = models.NormaliseEmail(r.Email)
}

// POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var body contactRequest
	if !bindAndValidate(c, &body) {
		return
	}

	message, err := h.svc.Create(requestContext(c), services.ContactInput{
		Name:    body.Name,
		Email:   body.Email,
		Message: body.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": message.ID, "message": "Message sent"})
}

// GET /api/contact
func (h *ContactHandler) List(c *gin.Context) {
	messages, err := h.svc.List(requestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, messages)
}

// PATCH /api/contact/:id
func (h *ContactHandler) MarkRead(c *gin.Context) {
	message, err := h.svc.MarkRead(requestContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, message)
}

// DELETE /api/contact/:id
func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	logger.WithModule("contact").Info("contact message deleted",
		zap.String("id", c.Param("id")),
		zap.String("admin_id", currentAdminID(c)),
	)
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
