package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"operon.app/server/common/id"
	"operon.app/server/core/db"
	"operon.app/server/internal/model"
)

type projectMemberStore struct {
	q db.Querier
}

func newProjectMemberStore(q db.Querier) ProjectMemberStore {
	return &projectMemberStore{q: q}
}

func (s *projectMemberStore) Create(ctx context.Context, m *model.ProjectMember) error {
	if m.ID == 0 {
		m.ID = id.New()
	}
	row := s.q.QueryRow(ctx, `
		INSERT INTO project_members (id, user_id, project_id)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, project_id, created_at`,
		m.ID, m.UserID, m.ProjectID)
	if err := row.Scan(&m.ID, &m.UserID, &m.ProjectID, &m.CreatedAt); err != nil {
		return translateErr(err)
	}
	return nil
}

func (s *projectMemberStore) GetByUserAndProject(ctx context.Context, userID string, projectID int64) (*model.ProjectMember, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, user_id, project_id, created_at
		FROM project_members
		WHERE user_id = $1 AND project_id = $2`,
		userID, projectID)
	var m model.ProjectMember
	if err := row.Scan(&m.ID, &m.UserID, &m.ProjectID, &m.CreatedAt); err != nil {
		return nil, translateErr(err)
	}
	return &m, nil
}

const projectMemberWithUser = `
	SELECT m.id, m.user_id, m.project_id, m.created_at,
	       u.id, u.email, u.name, u.image, u.created_at, u.updated_at
	FROM project_members m
	JOIN users u ON u.id = m.user_id`

func (s *projectMemberStore) ListByProject(ctx context.Context, projectID int64) ([]model.ProjectMember, error) {
	rows, err := s.q.Query(ctx, projectMemberWithUser+`
		WHERE m.project_id = $1
		ORDER BY m.created_at`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjectMembers(rows)
}

func (s *projectMemberStore) ListByProjects(ctx context.Context, projectIDs []int64) ([]model.ProjectMember, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx, projectMemberWithUser+`
		WHERE m.project_id = ANY($1)
		ORDER BY m.created_at`,
		projectIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjectMembers(rows)
}

func collectProjectMembers(rows pgx.Rows) ([]model.ProjectMember, error) {
	var out []model.ProjectMember
	for rows.Next() {
		var m model.ProjectMember
		var u model.User
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.ProjectID, &m.CreatedAt,
			&u.ID, &u.Email, &u.Name, &u.Image, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		m.User = &u
		out = append(out, m)
	}
	return out, rows.Err()
}
