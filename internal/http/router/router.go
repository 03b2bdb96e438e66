package router

import (
	"github.com/gin-gonic/gin"

	"operon.app/server/internal/http/handler"
	"operon.app/server/internal/http/handler/webhook"
	"operon.app/server/internal/http/middleware"
	"operon.app/server/internal/service"
)

type RouterConfig struct {
	JWTSecret     string
	WebhookSecret string
}

func SetupRoutes(router *gin.Engine, services *service.Services, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	identityHandler := webhook.NewIdentityWebhookHandler(services.Identity(), cfg.WebhookSecret)
	router.POST("/webhooks/identity", identityHandler.HandleEvent)

	api := router.Group("/api")
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		workspaceHandler := handler.NewWorkspaceHandler(services.Workspaces())
		WorkspaceRouter(api.Group("/workspaces"), workspaceHandler)

		projectHandler := handler.NewProjectHandler(services.Projects())
		ProjectRouter(api.Group("/projects"), projectHandler)

		taskHandler := handler.NewTaskHandler(services.Tasks())
		TaskRouter(api.Group("/tasks"), taskHandler)

		commentHandler := handler.NewCommentHandler(services.Comments())
		CommentRouter(api.Group("/comments"), commentHandler)
	}
}
