// Package mirror keeps a client-side replica of the workspace graph returned
// by the workspace listing endpoint, updated through the same mutation
// vocabulary the server exposes.
package mirror

import (
	"context"
	"log/slog"

	"operon.app/server/internal/model"
)

// Fetcher loads the full workspace graph for the signed-in user.
type Fetcher interface {
	ListWorkspaces(ctx context.Context) ([]model.Workspace, error)
}

// Persistence stores the selected workspace ID across sessions.
type Persistence interface {
	CurrentWorkspaceID() string
	SetCurrentWorkspaceID(id string)
}

// Store is the replica's state container. It is owned by the application
// root and mutated one action at a time; it is not safe for concurrent use.
//
// The store keeps two views of the same data: the flat workspace list and a
// snapshot of the currently selected workspace. The snapshot is not a live
// reference into the list, so every mutation re-derives it after rewriting
// the list.
type Store struct {
	fetcher     Fetcher
	persistence Persistence

	workspaces []model.Workspace
	current    *model.Workspace
	loading    bool
}

func NewStore(fetcher Fetcher, persistence Persistence) *Store {
	return &Store{
		fetcher:     fetcher,
		persistence: persistence,
		workspaces:  []model.Workspace{},
	}
}

// Load performs the initial fetch and restores the persisted workspace
// selection. A fetch failure is logged and leaves the store with an empty
// list; the caller is not surfaced an error.
func (s *Store) Load(ctx context.Context) {
	s.loading = true
	defer func() { s.loading = false }()

	workspaces, err := s.fetcher.ListWorkspaces(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "initial workspace fetch failed", "error", err)
		workspaces = []model.Workspace{}
	}
	s.workspaces = workspaces
	s.current = nil

	if len(workspaces) == 0 {
		return
	}

	if id := s.persistence.CurrentWorkspaceID(); id != "" {
		if ws := s.snapshot(id); ws != nil {
			s.current = ws
			return
		}
	}
	s.current = s.snapshot(workspaces[0].ID)
	s.persistence.SetCurrentWorkspaceID(workspaces[0].ID)
}

func (s *Store) Workspaces() []model.Workspace {
	return s.workspaces
}

// CurrentWorkspace returns the selected workspace snapshot, or nil when
// nothing is selected.
func (s *Store) CurrentWorkspace() *model.Workspace {
	return s.current
}

// Loading reports whether the initial fetch is in flight.
func (s *Store) Loading() bool {
	return s.loading
}

func (s *Store) SetWorkspaces(workspaces []model.Workspace) {
	s.workspaces = workspaces
	s.refreshCurrent()
}

// SetCurrentWorkspace selects a workspace by ID and persists the selection.
func (s *Store) SetCurrentWorkspace(id string) {
	s.persistence.SetCurrentWorkspaceID(id)
	s.current = s.snapshot(id)
}

// AddWorkspace appends a workspace and selects it.
func (s *Store) AddWorkspace(ws model.Workspace) {
	s.workspaces = append(s.workspaces, ws)
	if s.current == nil || s.current.ID != ws.ID {
		s.current = s.snapshot(ws.ID)
	}
}

func (s *Store) UpdateWorkspace(ws model.Workspace) {
	for i := range s.workspaces {
		if s.workspaces[i].ID == ws.ID {
			s.workspaces[i] = ws
		}
	}
	s.refreshCurrent()
}

func (s *Store) DeleteWorkspace(id string) {
	kept := s.workspaces[:0:0]
	for _, ws := range s.workspaces {
		if ws.ID != id {
			kept = append(kept, ws)
		}
	}
	s.workspaces = kept
	s.refreshCurrent()
}

func (s *Store) AddProject(project model.Project) {
	for i := range s.workspaces {
		if s.workspaces[i].ID == project.WorkspaceID {
			projects := make([]model.Project, len(s.workspaces[i].Projects), len(s.workspaces[i].Projects)+1)
			copy(projects, s.workspaces[i].Projects)
			s.workspaces[i].Projects = append(projects, project)
		}
	}
	s.refreshCurrent()
}

func (s *Store) AddTask(task model.Task) {
	s.mapProjectTasks(task.ProjectID, func(tasks []model.Task) []model.Task {
		out := make([]model.Task, len(tasks), len(tasks)+1)
		copy(out, tasks)
		return append(out, task)
	})
}

func (s *Store) UpdateTask(task model.Task) {
	s.mapProjectTasks(task.ProjectID, func(tasks []model.Task) []model.Task {
		out := make([]model.Task, len(tasks))
		for i, t := range tasks {
			if t.ID == task.ID {
				out[i] = task
			} else {
				out[i] = t
			}
		}
		return out
	})
}

func (s *Store) DeleteTasks(projectID int64, ids []int64) {
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	s.mapProjectTasks(projectID, func(tasks []model.Task) []model.Task {
		kept := make([]model.Task, 0, len(tasks))
		for _, t := range tasks {
			if _, gone := drop[t.ID]; !gone {
				kept = append(kept, t)
			}
		}
		return kept
	})
}

// mapProjectTasks rewrites the task slice of the project identified by
// projectID wherever it appears in the flat list, then re-derives the
// current snapshot. All task mutations go through here so the two views
// cannot diverge.
func (s *Store) mapProjectTasks(projectID int64, fn func([]model.Task) []model.Task) {
	for wi := range s.workspaces {
		projects := s.workspaces[wi].Projects
		for pi := range projects {
			if projects[pi].ID == projectID {
				rewritten := make([]model.Project, len(projects))
				copy(rewritten, projects)
				rewritten[pi].Tasks = fn(projects[pi].Tasks)
				s.workspaces[wi].Projects = rewritten
			}
		}
	}
	s.refreshCurrent()
}

// snapshot copies the workspace with the given ID out of the flat list.
func (s *Store) snapshot(id string) *model.Workspace {
	for i := range s.workspaces {
		if s.workspaces[i].ID == id {
			ws := s.workspaces[i]
			return &ws
		}
	}
	return nil
}

func (s *Store) refreshCurrent() {
	if s.current == nil {
		return
	}
	s.current = s.snapshot(s.current.ID)
}
