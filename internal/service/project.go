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

type CreateProjectParams struct {
	WorkspaceID string
	Name        string
	Description *string
	Status      model.ProjectStatus
	Priority    model.Priority
	Progress    int32
	StartDate   *time.Time
	EndDate     *time.Time

	// TeamLeadEmail is resolved to a user id. An unknown email stores a
	// null team lead rather than failing.
	TeamLeadEmail *string

	// TeamMemberEmails is filtered against the workspace's actual members.
	// Emails that do not belong to a member are dropped silently.
	TeamMemberEmails []string
}

type UpdateProjectParams struct {
	ID          int64
	WorkspaceID string
	Name        string
	Description *string
	Status      model.ProjectStatus
	Priority    model.Priority
	Progress    int32
	StartDate   *time.Time
	EndDate     *time.Time
}

type ProjectService interface {
	Create(ctx context.Context, actorID string, params CreateProjectParams) (*model.Project, error)
	Update(ctx context.Context, actorID string, params UpdateProjectParams) (*model.Project, error)
	AddMember(ctx context.Context, actorID string, projectID int64, email string) (*model.ProjectMember, error)
}

type projectService struct {
	users            store.UserStore
	workspaces       store.WorkspaceStore
	workspaceMembers store.WorkspaceMemberStore
	projects         store.ProjectStore
	projectMembers   store.ProjectMemberStore
	tasks            store.TaskStore
	txRunner         TxRunner
}

func NewProjectService(
	users store.UserStore,
	workspaces store.WorkspaceStore,
	workspaceMembers store.WorkspaceMemberStore,
	projects store.ProjectStore,
	projectMembers store.ProjectMemberStore,
	tasks store.TaskStore,
	txRunner TxRunner,
) ProjectService {
	return &projectService{
		users:            users,
		workspaces:       workspaces,
		workspaceMembers: workspaceMembers,
		projects:         projects,
		projectMembers:   projectMembers,
		tasks:            tasks,
		txRunner:         txRunner,
	}
}

func (s *projectService) loadWorkspace(ctx context.Context, workspaceID string) (*model.Workspace, error) {
	ws, err := s.workspaces.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrWorkspaceNotFound
		}
		return nil, fmt.Errorf("loading workspace: %w", err)
	}
	ws.Members, err = s.workspaceMembers.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("loading workspace members: %w", err)
	}
	return ws, nil
}

func (s *projectService) Create(ctx context.Context, actorID string, params CreateProjectParams) (*model.Project, error) {
	ws, err := s.loadWorkspace(ctx, params.WorkspaceID)
	if err != nil {
		return nil, err
	}

	if d := authz.Decide(actorID, authz.ActionCreateProject, authz.Input{Workspace: ws}); !d.Allowed() {
		return nil, ErrForbidden
	}

	var teamLead *string
	if params.TeamLeadEmail != nil && *params.TeamLeadEmail != "" {
		lead, err := s.users.GetByEmail(ctx, *params.TeamLeadEmail)
		switch {
		case err == nil:
			teamLead = &lead.ID
		case errors.Is(err, store.ErrNotFound):
			// Unknown lead email stores null rather than failing.
		default:
			return nil, fmt.Errorf("resolving team lead: %w", err)
		}
	}

	project := &model.Project{
		WorkspaceID: ws.ID,
		Name:        params.Name,
		Description: params.Description,
		Status:      params.Status,
		Priority:    params.Priority,
		Progress:    params.Progress,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		TeamLead:    teamLead,
	}

	wanted := make(map[string]bool, len(params.TeamMemberEmails))
	for _, email := range params.TeamMemberEmails {
		wanted[email] = true
	}

	err = s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Projects().Create(ctx, project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		for _, m := range ws.Members {
			if m.User == nil || !wanted[m.User.Email] {
				continue
			}
			pm := &model.ProjectMember{UserID: m.UserID, ProjectID: project.ID}
			if err := stores.ProjectMembers().Create(ctx, pm); err != nil {
				return fmt.Errorf("creating project member: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	project.Members, err = s.projectMembers.ListByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("loading project members: %w", err)
	}
	project.Tasks = []model.Task{}

	slog.InfoContext(ctx, "project created",
		"project_id", project.ID,
		"workspace_id", ws.ID,
		"members", len(project.Members),
	)

	return project, nil
}

func (s *projectService) Update(ctx context.Context, actorID string, params UpdateProjectParams) (*model.Project, error) {
	ws, err := s.loadWorkspace(ctx, params.WorkspaceID)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, params.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}

	if d := authz.Decide(actorID, authz.ActionUpdateProject, authz.Input{Workspace: ws, Project: project}); !d.Allowed() {
		return nil, ErrForbidden
	}

	project.Name = params.Name
	project.Description = params.Description
	if params.Status != "" {
		project.Status = params.Status
	}
	if params.Priority != "" {
		project.Priority = params.Priority
	}
	project.Progress = params.Progress
	project.StartDate = params.StartDate
	project.EndDate = params.EndDate

	if err := s.projects.Update(ctx, project); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	return project, nil
}

func (s *projectService) AddMember(ctx context.Context, actorID string, projectID int64, email string) (*model.ProjectMember, error) {
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

	ws, err := s.loadWorkspace(ctx, project.WorkspaceID)
	if err != nil {
		return nil, err
	}

	if d := authz.Decide(actorID, authz.ActionAddProjectMember, authz.Input{Workspace: ws, Project: project}); !d.Allowed() {
		return nil, ErrForbidden
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	for _, m := range project.Members {
		if m.UserID == user.ID {
			return nil, ErrMemberExists
		}
	}

	member := &model.ProjectMember{UserID: user.ID, ProjectID: projectID}
	if err := s.projectMembers.Create(ctx, member); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrMemberExists
		}
		return nil, fmt.Errorf("creating project member: %w", err)
	}
	member.User = user

	return member, nil
}
