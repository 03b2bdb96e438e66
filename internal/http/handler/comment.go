package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"operon.app/server/internal/http/middleware"
	"operon.app/server/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

type addCommentRequest struct {
	TaskID  int64  `json:"taskId,string" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *CommentHandler) Add(c *gin.Context) {
	ctx := c.Request.Context()

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required parameters."})
		return
	}

	comment, err := h.commentService.Add(ctx, middleware.UserID(c), req.TaskID, req.Content)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	taskID, err := strconv.ParseInt(c.Param("taskId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		return
	}

	comments, err := h.commentService.List(ctx, middleware.UserID(c), taskID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (h *CommentHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
	case errors.Is(err, service.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "You are not a member of this project"})
	default:
		slog.ErrorContext(c.Request.Context(), "comment operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	}
}
