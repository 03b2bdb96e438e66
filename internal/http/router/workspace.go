package router

import (
	"github.com/gin-gonic/gin"

	"operon.app/server/internal/http/handler"
)

func WorkspaceRouter(rg *gin.RouterGroup, h *handler.WorkspaceHandler) {
	rg.GET("", h.List)
	rg.POST("/add-member", h.AddMember)
}
