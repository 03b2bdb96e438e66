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

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type createProjectRequest struct {
	WorkspaceID string     `json:"workspaceId" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Progress    int32      `json:"progress"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	TeamLead    *string    `json:"team_lead"`
	TeamMembers []string   `json:"team_members"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required parameters."})
		return
	}

	params := service.CreateProjectParams{
		WorkspaceID:      req.WorkspaceID,
		Name:             req.Name,
		Description:      req.Description,
		Status:           model.ProjectStatus(req.Status),
		Priority:         model.Priority(req.Priority),
		Progress:         req.Progress,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		TeamLeadEmail:    req.TeamLead,
		TeamMemberEmails: req.TeamMembers,
	}
	if params.Status == "" {
		params.Status = model.ProjectStatusPlanning
	}
	if params.Priority == "" {
		params.Priority = model.PriorityMedium
	}
	if !params.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project status provided."})
		return
	}
	if !params.Priority.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid priority provided."})
		return
	}

	project, err := h.projectService.Create(ctx, middleware.UserID(c), params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkspaceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "No workspace found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "You don't have admin privileges!"})
		default:
			slog.ErrorContext(ctx, "failed to create project", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": project,
		"message": "Project created successfully",
	})
}

type updateProjectRequest struct {
	ID          int64      `json:"id,string" binding:"required"`
	WorkspaceID string     `json:"workspaceId" binding:"required"`
	Name        string     `json:"name" binding:"required"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	Progress    int32      `json:"progress"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

func (h *ProjectHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required parameters."})
		return
	}
	if req.Status != "" && !model.ProjectStatus(req.Status).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid project status provided."})
		return
	}
	if req.Priority != "" && !model.Priority(req.Priority).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid priority provided."})
		return
	}

	project, err := h.projectService.Update(ctx, middleware.UserID(c), service.UpdateProjectParams{
		ID:          req.ID,
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Description: req.Description,
		Status:      model.ProjectStatus(req.Status),
		Priority:    model.Priority(req.Priority),
		Progress:    req.Progress,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkspaceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "No workspace found"})
		case errors.Is(err, service.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "No project found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "You don't have permission to update this project."})
		default:
			slog.ErrorContext(ctx, "failed to update project", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": project,
		"message": "Project updated successfully",
	})
}

type addProjectMemberRequest struct {
	Email string `json:"email" binding:"required"`
}

func (h *ProjectHandler) AddMember(c *gin.Context) {
	ctx := c.Request.Context()

	projectID, err := strconv.ParseInt(c.Param("projectId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No project found"})
		return
	}

	var req addProjectMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required parameters."})
		return
	}

	member, err := h.projectService.AddMember(ctx, middleware.UserID(c), projectID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProjectNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "No project found"})
		case errors.Is(err, service.ErrWorkspaceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "No workspace found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": "You don't have permission to add members."})
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		case errors.Is(err, service.ErrMemberExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": "User is already a member."})
		default:
			slog.ErrorContext(ctx, "failed to add project member", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"member":  member,
		"message": "Member added successfully",
	})
}
