package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"operon.app/server/internal/http/middleware"
	"operon.app/server/internal/model"
	"operon.app/server/internal/service"
)

type TaskHandler struct {
	taskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type createTaskRequest struct {
	ProjectID   int64      `json:"projectId,string" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description *string    `json:"description"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *string    `json:"assigneeId"`
}

func (h *TaskHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required parameters."})
		return
	}

	params := service.CreateTaskParams{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		Type:        model.TaskType(req.Type),
		Status:      model.TaskStatus(req.Status),
		Priority:    model.Priority(req.Priority),
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
	}
	if params.Type == "" {
		params.Type = model.TaskTypeFeature
	}
	if params.Status == "" {
		params.Status = model.TaskStatusTodo
	}
	if params.Priority == "" {
		params.Priority = model.PriorityMedium
	}
	if !params.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task type provided."})
		return
	}
	if !params.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task status provided."})
		return
	}
	if !params.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid priority provided."})
		return
	}

	task, err := h.taskService.Create(ctx, middleware.UserID(c), params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "You don't have admin privileges for this project"})
		case errors.Is(err, service.ErrAssigneeNotMember):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Assignee must be a project member"})
		default:
			slog.ErrorContext(ctx, "failed to create task", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":    task,
		"message": "Task created successfully",
	})
}

type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Type        *string    `json:"type"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *string    `json:"assigneeId"`
}

func (h *TaskHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required parameters."})
		return
	}

	params := service.UpdateTaskParams{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
	}
	if req.Type != nil {
		t := model.TaskType(*req.Type)
		if !t.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task type provided."})
			return
		}
		params.Type = &t
	}
	if req.Status != nil {
		s := model.TaskStatus(*req.Status)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task status provided."})
			return
		}
		params.Status = &s
	}
	if req.Priority != nil {
		p := model.Priority(*req.Priority)
		if !p.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid priority provided."})
			return
		}
		params.Priority = &p
	}

	task, err := h.taskService.Update(ctx, middleware.UserID(c), taskID, params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		case errors.Is(err, service.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "You don't have permission to update this task."})
		case errors.Is(err, service.ErrAssigneeNotMember):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Assignee must be a project member"})
		default:
			slog.ErrorContext(ctx, "failed to update task", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":    task,
		"message": "Task updated successfully",
	})
}

type deleteTasksRequest struct {
	TaskIDs []string `json:"tasksIds" binding:"required"`
}

func (h *TaskHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	var req deleteTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required parameters."})
		return
	}

	// IDs arrive as strings on the wire; unparsable entries simply match
	// nothing, like any other unknown id.
	ids := make([]int64, 0, len(req.TaskIDs))
	for _, raw := range req.TaskIDs {
		id, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			continue
		}
		ids = append(ids, id)
	}

	err := h.taskService.Delete(ctx, middleware.UserID(c), ids)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Task not found"})
		case errors.Is(err, service.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "You don't have admin privileges for this project"})
		default:
			slog.ErrorContext(ctx, "failed to delete tasks", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
