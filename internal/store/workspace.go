package store

import (
	"context"

	"operon.app/server/core/db"
	"operon.app/server/internal/model"
)

type workspaceStore struct {
	q db.Querier
}

func newWorkspaceStore(q db.Querier) WorkspaceStore {
	return &workspaceStore{q: q}
}

const workspaceColumns = `id, name, slug, owner_id, image_url, created_at, updated_at`

func (s *workspaceStore) GetByID(ctx context.Context, id string) (*model.Workspace, error) {
	row := s.q.QueryRow(ctx, `SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, id)
	var ws model.Workspace
	if err := row.Scan(&ws.ID, &ws.Name, &ws.Slug, &ws.OwnerID, &ws.ImageURL, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
		return nil, translateErr(err)
	}
	return &ws, nil
}

func (s *workspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	row := s.q.QueryRow(ctx, `
		INSERT INTO workspaces (id, name, slug, owner_id, image_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+workspaceColumns,
		ws.ID, ws.Name, ws.Slug, ws.OwnerID, ws.ImageURL)
	if err := row.Scan(&ws.ID, &ws.Name, &ws.Slug, &ws.OwnerID, &ws.ImageURL, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
		return translateErr(err)
	}
	return nil
}

func (s *workspaceStore) Update(ctx context.Context, ws *model.Workspace) error {
	row := s.q.QueryRow(ctx, `
		UPDATE workspaces
		SET name = $2, slug = $3, image_url = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+workspaceColumns,
		ws.ID, ws.Name, ws.Slug, ws.ImageURL)
	if err := row.Scan(&ws.ID, &ws.Name, &ws.Slug, &ws.OwnerID, &ws.ImageURL, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
		return translateErr(err)
	}
	return nil
}

func (s *workspaceStore) Delete(ctx context.Context, id string) error {
	_, err := s.q.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	return err
}

// ListByUser returns every workspace the user is a member of, oldest first.
func (s *workspaceStore) ListByUser(ctx context.Context, userID string) ([]model.Workspace, error) {
	rows, err := s.q.Query(ctx, `
		SELECT w.id, w.name, w.slug, w.owner_id, w.image_url, w.created_at, w.updated_at
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = $1
		ORDER BY w.created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Workspace
	for rows.Next() {
		var ws model.Workspace
		if err := rows.Scan(&ws.ID, &ws.Name, &ws.Slug, &ws.OwnerID, &ws.ImageURL, &ws.CreatedAt, &ws.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}
