package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/portfolio/internal/services"
	"github.com/charlesng35/portfolio/pkg/errors"
	"github.com/charlesng35/portfolio/pkg/response"
)

type SkillHandler struct {
	svc *services.SkillService
}

func NewSkillHandler(svc *services.SkillService) *SkillHandler {
	return &SkillHandler{svc: svc}
}

type createSkillRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=120"`
	Category string `json:"category" validate:"required,notblank,max=120"`
	Level    int    `json:"level" validate:"min=0,max=100"`
	Icon     string `json:"icon" validate:"omitempty,max=64"`
	Order    int    `json:"order"`
}

type updateSkillRequest struct {
	Name     *string `json:"name" validate:"omitempty,notblank,max=120"`
	Category *string `json:"category" validate:"omitempty,notblank,max=120"`
	Level    *int    `json:"level" validate:"omitempty,min=0,max=100"`
	Icon     *string `json:"icon" validate:"omitempty,max=64"`
	Order    *int    `json:"order"`
}

// GET /api/skills
func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.svc.List(requestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, skills)
}

// POST /api/skills
func (h *SkillHandler) Create(c *gin.Context) {
	var body createSkillRequest
	if !bindAndValidate(c, &body) {
		return
	}

	skill, err := h.svc.Create(requestContext(c), services.SkillInput{
		Name:     body.Name,
		Category: body.Category,
		Level:    body.Level,
		Icon:     body.Icon,
		Order:    body.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, skill)
}

// PUT /api/skills/:id
func (h *SkillHandler) Update(c *gin.Context) {
	var body updateSkillRequest
	if !bindAndValidate(c, &body) {
		return
	}
	if body.Name == nil && body.Category == nil && body.Level == nil && body.Icon == nil && body.Order == nil {
		response.Error(c, errors.NewBadRequest("no fields provided for update"))
		return
	}

	skill, err := h.svc.Update(requestContext(c), c.Param("id"), services.UpdateSkillInput{
		Name:     body.Name,
		Category: body.Category,
		Level:    body.Level,
		Icon:     body.Icon,
		Order:    body.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, skill)
}

// DELETE /api/skills/:id
func (h *SkillHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
