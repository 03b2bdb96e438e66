package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"operon.app/server/internal/http/middleware"
	"operon.app/server/internal/model"
	"operon.app/server/internal/service"
)

type WorkspaceHandler struct {
	workspaceService service.WorkspaceService
}

func NewWorkspaceHandler(workspaceService service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// List returns every workspace the caller belongs to, fully hydrated.
func (h *WorkspaceHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	workspaces, err := h.workspaceService.ListForUser(ctx, userID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list workspaces", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

type addWorkspaceMemberRequest struct {
	Email       string  `json:"email" binding:"required"`
	Role        string  `json:"role" binding:"required"`
	WorkspaceID string  `json:"workspaceId" binding:"required"`
	Message     *string `json:"message"`
}

func (h *WorkspaceHandler) AddMember(c *gin.Context) {
	ctx := c.Request.Context()

	var req addWorkspaceMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required parameters."})
		return
	}

	member, err := h.workspaceService.AddMember(ctx, middleware.UserID(c), service.AddWorkspaceMemberParams{
		WorkspaceID: req.WorkspaceID,
		Email:       req.Email,
		Role:        model.Role(req.Role),
		Message:     req.Message,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRole):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid role provided."})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
		case errors.Is(err, service.ErrWorkspaceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Workspace not found."})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "You don't have admin privileges."})
		case errors.Is(err, service.ErrMemberExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": "User is already a member of this workspace."})
		default:
			slog.ErrorContext(ctx, "failed to add workspace member", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member":  member,
		"message": "Member added successfully.",
	})
}
