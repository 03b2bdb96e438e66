package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"operon.app/server/internal/authz"
	"operon.app/server/internal/model"
	"operon.app/server/internal/store"
)

type AddWorkspaceMemberParams struct {
	WorkspaceID string
	Email       string
	Role        model.Role
	Message     *string
}

type WorkspaceService interface {
	// ListForUser returns every workspace the user belongs to, fully
	// hydrated: members with profiles, projects with their members,
	// tasks with assignees and comments, and the workspace owner.
	ListForUser(ctx context.Context, userID string) ([]model.Workspace, error)
	AddMember(ctx context.Context, actorID string, params AddWorkspaceMemberParams) (*model.WorkspaceMember, error)
}

type workspaceService struct {
	users            store.UserStore
	workspaces       store.WorkspaceStore
	workspaceMembers store.WorkspaceMemberStore
	projects         store.ProjectStore
	projectMembers   store.ProjectMemberStore
	tasks            store.TaskStore
	comments         store.CommentStore
}

func NewWorkspaceService(
	users store.UserStore,
	workspaces store.WorkspaceStore,
	workspaceMembers store.WorkspaceMemberStore,
	projects store.ProjectStore,
	projectMembers store.ProjectMemberStore,
	tasks store.TaskStore,
	comments store.CommentStore,
) WorkspaceService {
	return &workspaceService{
		users:            users,
		workspaces:       workspaces,
		workspaceMembers: workspaceMembers,
		projects:         projects,
		projectMembers:   projectMembers,
		tasks:            tasks,
		comments:         comments,
	}
}

func (s *workspaceService) ListForUser(ctx context.Context, userID string) ([]model.Workspace, error) {
	workspaces, err := s.workspaces.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing workspaces: %w", err)
	}
	if len(workspaces) == 0 {
		return []model.Workspace{}, nil
	}

	workspaceIDs := make([]string, 0, len(workspaces))
	ownerIDs := make([]string, 0, len(workspaces))
	for _, ws := range workspaces {
		workspaceIDs = append(workspaceIDs, ws.ID)
		ownerIDs = append(ownerIDs, ws.OwnerID)
	}

	members, err := s.workspaceMembers.ListByWorkspaces(ctx, workspaceIDs)
	if err != nil {
		return nil, fmt.Errorf("listing workspace members: %w", err)
	}
	projects, err := s.projects.ListByWorkspaces(ctx, workspaceIDs)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	projectIDs := make([]int64, 0, len(projects))
	for _, p := range projects {
		projectIDs = append(projectIDs, p.ID)
	}
	projectMembers, err := s.projectMembers.ListByProjects(ctx, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("listing project members: %w", err)
	}
	tasks, err := s.tasks.ListByProjects(ctx, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	taskIDs := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		taskIDs = append(taskIDs, t.ID)
	}
	comments, err := s.comments.ListByTasks(ctx, taskIDs)
	if err != nil {
		return nil, fmt.Errorf("listing comments: %w", err)
	}
	owners, err := s.users.ListByIDs(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("listing owners: %w", err)
	}

	attachCommentsToTasks(tasks, comments)
	attachToProjects(projects, projectMembers, tasks)
	attachToWorkspaces(workspaces, members, projects, owners)

	return workspaces, nil
}

func (s *workspaceService) AddMember(ctx context.Context, actorID string, params AddWorkspaceMemberParams) (*model.WorkspaceMember, error) {
	if !params.Role.Valid() {
		return nil, ErrInvalidRole
	}

	user, err := s.users.GetByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	ws, err := s.workspaces.GetByID(ctx, params.WorkspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("loading workspace: %w", err)
	}
	ws.Members, err = s.workspaceMembers.ListByWorkspace(ctx, ws.ID)
	if err != nil {
		return nil, fmt.Errorf("loading workspace members: %w", err)
	}

	if d := authz.Decide(actorID, authz.ActionAddWorkspaceMember, authz.Input{Workspace: ws}); !d.Allowed() {
		return nil, ErrForbidden
	}

	for _, m := range ws.Members {
		if m.UserID == user.ID {
			return nil, ErrMemberExists
		}
	}

	member := &model.WorkspaceMember{
		UserID:      user.ID,
		WorkspaceID: ws.ID,
		Role:        params.Role,
		Message:     params.Message,
	}
	if err := s.workspaceMembers.Create(ctx, member); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrMemberExists
		}
		return nil, fmt.Errorf("creating workspace member: %w", err)
	}
	member.User = user

	slog.InfoContext(ctx, "workspace member added",
		"workspace_id", ws.ID,
		"user_id", user.ID,
		"role", member.Role,
	)

	return member, nil
}
