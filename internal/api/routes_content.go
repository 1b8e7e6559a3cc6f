package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/portfolio/internal/handlers"
)

func registerProjectRoutes(api, admin *gin.RouterGroup, h *handlers.ProjectHandler) {
	api.GET("/projects", h.List)

	projects := admin.Group("/projects")
	{
		projects.POST("", h.Create)
		projects.PUT("/:id", h.Update)
		projects.DELETE("/:id", h.Delete)
	}
}

func registerSkillRoutes(api, admin *gin.RouterGroup, h *handlers.SkillHandler) {
	api.GET("/skills", h.List)

	skills := admin.Group("/skills")
	{
		skills.POST("", h.Create)
		skills.PUT("/:id", h.Update)
		skills.DELETE("/:id", h.Delete)
	}
}

func registerContactRoutes(api, admin *gin.RouterGroup, h *handlers.ContactHandler, limit gin.HandlerFunc) {
	api.POST("/contact", limit, h.Submit)

	contact := admin.Group("/contact")
	{
		contact.GET("", h.List)
		contact.PATCH("/:id", h.MarkRead)
		contact.DELETE("/:id", h.Delete)
	}
}
