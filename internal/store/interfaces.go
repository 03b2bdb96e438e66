package store

import (
	"context"

	"operon.app/server/internal/model"
)

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.User, error)
	Upsert(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// WorkspaceStore defines the contract for workspace data access
type WorkspaceStore interface {
	GetByID(ctx context.Context, id string) (*model.Workspace, error)
	Create(ctx context.Context, ws *model.Workspace) error
	Update(ctx context.Context, ws *model.Workspace) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]model.Workspace, error)
}

// WorkspaceMemberStore defines the contract for workspace membership data access
type WorkspaceMemberStore interface {
	Create(ctx context.Context, m *model.WorkspaceMember) error
	GetByUserAndWorkspace(ctx context.Context, userID, workspaceID string) (*model.WorkspaceMember, error)
	ListByWorkspace(ctx context.Context, workspaceID string) ([]model.WorkspaceMember, error)
	ListByWorkspaces(ctx context.Context, workspaceIDs []string) ([]model.WorkspaceMember, error)
}

// ProjectStore defines the contract for project data access
type ProjectStore interface {
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	Create(ctx context.Context, p *model.Project) error
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id int64) error
	ListByWorkspace(ctx context.Context, workspaceID string) ([]model.Project, error)
	ListByWorkspaces(ctx context.Context, workspaceIDs []string) ([]model.Project, error)
}

// ProjectMemberStore defines the contract for project membership data access
type ProjectMemberStore interface {
	Create(ctx context.Context, m *model.ProjectMember) error
	GetByUserAndProject(ctx context.Context, userID string, projectID int64) (*model.ProjectMember, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.ProjectMember, error)
	ListByProjects(ctx context.Context, projectIDs []int64) ([]model.ProjectMember, error)
}

// TaskStore defines the contract for task data access
type TaskStore interface {
	GetByID(ctx context.Context, id int64) (*model.Task, error)
	Create(ctx context.Context, t *model.Task) error
	Update(ctx context.Context, t *model.Task) error
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
	ListByIDs(ctx context.Context, ids []int64) ([]model.Task, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.Task, error)
	ListByProjects(ctx context.Context, projectIDs []int64) ([]model.Task, error)
}

// CommentStore defines the contract for comment data access
type CommentStore interface {
	Create(ctx context.Context, c *model.Comment) error
	ListByTask(ctx context.Context, taskID int64) ([]model.Comment, error)
	ListByTasks(ctx context.Context, taskIDs []int64) ([]model.Comment, error)
}
