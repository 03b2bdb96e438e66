package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"operon.app/server/common/id"
	"operon.app/server/core/db"
	"operon.app/server/internal/model"
)

type projectStore struct {
	q db.Querier
}

func newProjectStore(q db.Querier) ProjectStore {
	return &projectStore{q: q}
}

const projectColumns = `id, workspace_id, name, description, status, priority, progress,
	start_date, end_date, team_lead, created_at, updated_at`

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID, &p.WorkspaceID, &p.Name, &p.Description, &p.Status, &p.Priority,
		&p.Progress, &p.StartDate, &p.EndDate, &p.TeamLead, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return &p, nil
}

func (s *projectStore) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	row := s.q.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	return scanProject(row)
}

func (s *projectStore) Create(ctx context.Context, p *model.Project) error {
	if p.ID == 0 {
		p.ID = id.New()
	}
	row := s.q.QueryRow(ctx, `
		INSERT INTO projects (id, workspace_id, name, description, status, priority, progress, start_date, end_date, team_lead)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+projectColumns,
		p.ID, p.WorkspaceID, p.Name, p.Description, p.Status, p.Priority,
		p.Progress, p.StartDate, p.EndDate, p.TeamLead)
	created, err := scanProject(row)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

func (s *projectStore) Update(ctx context.Context, p *model.Project) error {
	row := s.q.QueryRow(ctx, `
		UPDATE projects
		SET name = $2, description = $3, status = $4, priority = $5, progress = $6,
		    start_date = $7, end_date = $8, team_lead = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+projectColumns,
		p.ID, p.Name, p.Description, p.Status, p.Priority, p.Progress,
		p.StartDate, p.EndDate, p.TeamLead)
	updated, err := scanProject(row)
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

func (s *projectStore) Delete(ctx context.Context, id int64) error {
	_, err := s.q.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return err
}

func (s *projectStore) ListByWorkspace(ctx context.Context, workspaceID string) ([]model.Project, error) {
	rows, err := s.q.Query(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE workspace_id = $1
		ORDER BY created_at`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func (s *projectStore) ListByWorkspaces(ctx context.Context, workspaceIDs []string) ([]model.Project, error) {
	if len(workspaceIDs) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx, `
		SELECT `+projectColumns+` FROM projects
		WHERE workspace_id = ANY($1)
		ORDER BY created_at`,
		workspaceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func collectProjects(rows pgx.Rows) ([]model.Project, error) {
	var out []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
