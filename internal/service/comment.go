package service

import (
	"context"
	"errors"
	"fmt"

	"operon.app/server/internal/authz"
	"operon.app/server/internal/model"
	"operon.app/server/internal/store"
)

type CommentService interface {
	Add(ctx context.Context, actorID string, taskID int64, content string) (*model.Comment, error)
	List(ctx context.Context, actorID string, taskID int64) ([]model.Comment, error)
}

type commentService struct {
	users          store.UserStore
	projects       store.ProjectStore
	projectMembers store.ProjectMemberStore
	tasks          store.TaskStore
	comments       store.CommentStore
}

func NewCommentService(
	users store.UserStore,
	projects store.ProjectStore,
	projectMembers store.ProjectMemberStore,
	tasks store.TaskStore,
	comments store.CommentStore,
) CommentService {
	return &commentService{
		users:          users,
		projects:       projects,
		projectMembers: projectMembers,
		tasks:          tasks,
		comments:       comments,
	}
}

// authorize checks that the actor is a member of the task's project.
// Both adding and reading comments require membership.
func (s *commentService) authorize(ctx context.Context, actorID string, taskID int64) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("loading task: %w", err)
	}

	project, err := s.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProjectNotFound
		}
		return fmt.Errorf("loading project: %w", err)
	}
	project.Members, err = s.projectMembers.ListByProject(ctx, project.ID)
	if err != nil {
		return fmt.Errorf("loading project members: %w", err)
	}

	if d := authz.Decide(actorID, authz.ActionComment, authz.Input{Project: project}); !d.Allowed() {
		return ErrForbidden
	}
	return nil
}

func (s *commentService) Add(ctx context.Context, actorID string, taskID int64, content string) (*model.Comment, error) {
	if err := s.authorize(ctx, actorID, taskID); err != nil {
		return nil, err
	}

	comment := &model.Comment{
		TaskID:  taskID,
		UserID:  actorID,
		Content: content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	author, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("loading author: %w", err)
	}
	comment.User = author

	return comment, nil
}

func (s *commentService) List(ctx context.Context, actorID string, taskID int64) ([]model.Comment, error) {
	if err := s.authorize(ctx, actorID, taskID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	return comments, nil
}
