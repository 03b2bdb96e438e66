package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"operon.app/server/common/id"
	"operon.app/server/core/db"
	"operon.app/server/internal/model"
)

type workspaceMemberStore struct {
	q db.Querier
}

func newWorkspaceMemberStore(q db.Querier) WorkspaceMemberStore {
	return &workspaceMemberStore{q: q}
}

func (s *workspaceMemberStore) Create(ctx context.Context, m *model.WorkspaceMember) error {
	if m.ID == 0 {
		m.ID = id.New()
	}
	row := s.q.QueryRow(ctx, `
		INSERT INTO workspace_members (id, user_id, workspace_id, role, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, workspace_id, role, message, created_at`,
		m.ID, m.UserID, m.WorkspaceID, m.Role, m.Message)
	if err := row.Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.Role, &m.Message, &m.CreatedAt); err != nil {
		return translateErr(err)
	}
	return nil
}

func (s *workspaceMemberStore) GetByUserAndWorkspace(ctx context.Context, userID, workspaceID string) (*model.WorkspaceMember, error) {
	row := s.q.QueryRow(ctx, `
		SELECT id, user_id, workspace_id, role, message, created_at
		FROM workspace_members
		WHERE user_id = $1 AND workspace_id = $2`,
		userID, workspaceID)
	var m model.WorkspaceMember
	if err := row.Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.Role, &m.Message, &m.CreatedAt); err != nil {
		return nil, translateErr(err)
	}
	return &m, nil
}

const workspaceMemberWithUser = `
	SELECT m.id, m.user_id, m.workspace_id, m.role, m.message, m.created_at,
	       u.id, u.email, u.name, u.image, u.created_at, u.updated_at
	FROM workspace_members m
	JOIN users u ON u.id = m.user_id`

func (s *workspaceMemberStore) ListByWorkspace(ctx context.Context, workspaceID string) ([]model.WorkspaceMember, error) {
	rows, err := s.q.Query(ctx, workspaceMemberWithUser+`
		WHERE m.workspace_id = $1
		ORDER BY m.created_at`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkspaceMembers(rows)
}

func (s *workspaceMemberStore) ListByWorkspaces(ctx context.Context, workspaceIDs []string) ([]model.WorkspaceMember, error) {
	if len(workspaceIDs) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx, workspaceMemberWithUser+`
		WHERE m.workspace_id = ANY($1)
		ORDER BY m.created_at`,
		workspaceIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectWorkspaceMembers(rows)
}

func collectWorkspaceMembers(rows pgx.Rows) ([]model.WorkspaceMember, error) {
	var out []model.WorkspaceMember
	for rows.Next() {
		var m model.WorkspaceMember
		var u model.User
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.WorkspaceID, &m.Role, &m.Message, &m.CreatedAt,
			&u.ID, &u.Email, &u.Name, &u.Image, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		m.User = &u
		out = append(out, m)
	}
	return out, rows.Err()
}
