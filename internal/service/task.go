package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"operon.app/server/internal/authz"
	"operon.app/server/internal/model"
	"operon.app/server/internal/store"
)

// Notifier enqueues asynchronous notification work. Delivery is
// at-least-once and happens outside the request.
type Notifier interface {
	TaskAssigned(ctx context.Context, taskID int64) error
	DueReminder(ctx context.Context, taskID int64, dueDate time.Time) error
}

type CreateTaskParams struct {
	ProjectID   int64
	Title       string
	Description *string
	Type        model.TaskType
	Status      model.TaskStatus
	Priority    model.Priority
	DueDate     *time.Time
	AssigneeID  *string
}

// UpdateTaskParams is an explicit allow-list of mutable task fields.
// Nil pointers leave the field unchanged.
type UpdateTaskParams struct {
	Title       *string
	Description *string
	Type        *model.TaskType
	Status      *model.TaskStatus
	Priority    *model.Priority
	DueDate     *time.Time
	AssigneeID  *string
}

type TaskService interface {
	Create(ctx context.Context, actorID string, params CreateTaskParams) (*model.Task, error)
	Update(ctx context.Context, actorID string, taskID int64, params UpdateTaskParams) (*model.Task, error)
	// Delete removes every task in ids. Authorization is evaluated against
	// the project of the first matched task only; the remaining tasks are
	// deleted without their own check. This mirrors the historical batch
	// behavior and is covered by tests.
	Delete(ctx context.Context, actorID string, ids []int64) error
}

type taskService struct {
	projects       store.ProjectStore
	projectMembers store.ProjectMemberStore
	tasks          store.TaskStore
	notifier       Notifier
}

func NewTaskService(
	projects store.ProjectStore,
	projectMembers store.ProjectMemberStore,
	tasks store.TaskStore,
	notifier Notifier,
) TaskService {
	return &taskService{
		projects:       projects,
		projectMembers: projectMembers,
		tasks:          tasks,
		notifier:       notifier,
	}
}

func (s *taskService) loadProject(ctx context.Context, projectID int64) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	project.Members, err = s.projectMembers.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project members: %w", err)
	}
	return project, nil
}

func (s *taskService) Create(ctx context.Context, actorID string, params CreateTaskParams) (*model.Task, error) {
	project, err := s.loadProject(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	if d := authz.Decide(actorID, authz.ActionCreateTask, authz.Input{Project: project}); !d.Allowed() {
		return nil, ErrForbidden
	}

	if params.AssigneeID != nil && !authz.IsProjectMember(project, *params.AssigneeID) {
		return nil, ErrAssigneeNotMember
	}

	task := &model.Task{
		ProjectID:   project.ID,
		Title:       params.Title,
		Description: params.Description,
		Type:        params.Type,
		Status:      params.Status,
		Priority:    params.Priority,
		DueDate:     params.DueDate,
		AssigneeID:  params.AssigneeID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	// Notification enqueue failures never fail the request; the task is
	// already committed.
	if task.AssigneeID != nil {
		if err := s.notifier.TaskAssigned(ctx, task.ID); err != nil {
			slog.ErrorContext(ctx, "enqueueing assignment notification", "task_id", task.ID, "error", err)
		}
	}
	if task.DueDate != nil {
		if err := s.notifier.DueReminder(ctx, task.ID, *task.DueDate); err != nil {
			slog.ErrorContext(ctx, "enqueueing due reminder", "task_id", task.ID, "error", err)
		}
	}

	return task, nil
}

func (s *taskService) Update(ctx context.Context, actorID string, taskID int64, params UpdateTaskParams) (*model.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("loading task: %w", err)
	}

	project, err := s.loadProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	if d := authz.Decide(actorID, authz.ActionUpdateTask, authz.Input{Project: project}); !d.Allowed() {
		return nil, ErrForbidden
	}

	if params.Title != nil {
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = params.Description
	}
	if params.Type != nil {
		task.Type = *params.Type
	}
	if params.Status != nil {
		task.Status = *params.Status
	}
	if params.Priority != nil {
		task.Priority = *params.Priority
	}
	if params.DueDate != nil {
		task.DueDate = params.DueDate
	}
	if params.AssigneeID != nil {
		if !authz.IsProjectMember(project, *params.AssigneeID) {
			return nil, ErrAssigneeNotMember
		}
		task.AssigneeID = params.AssigneeID
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}

	return task, nil
}

func (s *taskService) Delete(ctx context.Context, actorID string, ids []int64) error {
	tasks, err := s.tasks.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}
	if len(tasks) == 0 {
		return ErrTaskNotFound
	}

	project, err := s.loadProject(ctx, tasks[0].ProjectID)
	if err != nil {
		return err
	}

	if d := authz.Decide(actorID, authz.ActionDeleteTasks, authz.Input{Project: project}); !d.Allowed() {
		return ErrForbidden
	}

	deleted, err := s.tasks.DeleteByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("deleting tasks: %w", err)
	}

	slog.InfoContext(ctx, "tasks deleted", "project_id", project.ID, "count", deleted)
	return nil
}
