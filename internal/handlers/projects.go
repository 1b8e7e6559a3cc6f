package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/portfolio/internal/services"
	"github.com/charlesng35/portfolio/pkg/errors"
	"github.com/charlesng35/portfolio/pkg/response"
)

// ProjectHandler exposes portfolio projects.
type ProjectHandler struct {
	svc *services.ProjectService
}

func NewProjectHandler(svc *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

type createProjectRequest struct {
	Title        string   `json:"title" validate:"required,notblank,max=200"`
	Description  string   `json:"description" validate:"required,notblank"`
	Technologies []string `json:"technologies" validate:"omitempty,dive,max=64"`
	ImageURL     string   `json:"image_url" validate:"required,notblank"`
	LiveURL      *string  `json:"live_url" validate:"omitempty,max=2048,httpurl"`
	GithubURL    *string  `json:"github_url" validate:"omitempty,max=2048,httpurl"`
	Featured     bool     `json:"featured"`
	Order        int      `json:"order"`
}

type updateProjectRequest struct {
	Title        *string   `json:"title" validate:"omitempty,notblank,max=200"`
	Description  *string   `json:"description" validate:"omitempty,notblank"`
	Technologies *[]string `json:"technologies"`
	ImageURL     *string   `json:"image_url" validate:"omitempty,notblank"`
	LiveURL      *string   `json:"live_url" validate:"omitempty,max=2048,httpurl"`
	GithubURL    *string   `json:"github_url" validate:"omitempty,max=2048,httpurl"`
	Featured     *bool     `json:"featured"`
	Order        *int      `json:"order"`
}

func (r updateProjectRequest) empty() bool {
	return r.Title == nil && r.Description == nil && r.Technologies == nil && r.ImageURL == nil &&
		r.LiveURL == nil && r.GithubURL == nil && r.Featured == nil && r.Order == nil
}

// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.svc.List(requestContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, projects)
}

// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var body createProjectRequest
	if !bindAndValidate(c, &body) {
		return
	}

	project, err := h.svc.Create(requestContext(c), services.ProjectInput{
		Title:        body.Title,
		Description:  body.Description,
		Technologies: body.Technologies,
		ImageURL:     body.ImageURL,
		LiveURL:      body.LiveURL,
		GithubURL:    body.GithubURL,
		Featured:     body.Featured,
		Order:        body.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, project)
}

// PUT /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var body updateProjectRequest
	if !bindAndValidate(c, &body) {
		return
	}
	if body.empty() {
		response.Error(c, errors.NewBadRequest("no fields provided for update"))
		return
	}

	project, err := h.svc.Update(requestContext(c), c.Param("id"), services.UpdateProjectInput{
		Title:        body.Title,
		Description:  body.Description,
		Technologies: body.Technologies,
		ImageURL:     body.ImageURL,
		LiveURL:      body.LiveURL,
		GithubURL:    body.GithubURL,
		Featured:     body.Featured,
		Order:        body.Order,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, project)
}

// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
