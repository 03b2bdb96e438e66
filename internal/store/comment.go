package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"operon.app/server/common/id"
	"operon.app/server/core/db"
	"operon.app/server/internal/model"
)

type commentStore struct {
	q db.Querier
}

func newCommentStore(q db.Querier) CommentStore {
	return &commentStore{q: q}
}

func (s *commentStore) Create(ctx context.Context, c *model.Comment) error {
	if c.ID == 0 {
		c.ID = id.New()
	}
	row := s.q.QueryRow(ctx, `
		INSERT INTO comments (id, task_id, user_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, task_id, user_id, content, created_at`,
		c.ID, c.TaskID, c.UserID, c.Content)
	if err := row.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
		return translateErr(err)
	}
	return nil
}

const commentWithUser = `
	SELECT c.id, c.task_id, c.user_id, c.content, c.created_at,
	       u.id, u.email, u.name, u.image, u.created_at, u.updated_at
	FROM comments c
	JOIN users u ON u.id = c.user_id`

// ListByTask returns the task's comments oldest first, each with its author.
func (s *commentStore) ListByTask(ctx context.Context, taskID int64) ([]model.Comment, error) {
	rows, err := s.q.Query(ctx, commentWithUser+`
		WHERE c.task_id = $1
		ORDER BY c.created_at`,
		taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

func (s *commentStore) ListByTasks(ctx context.Context, taskIDs []int64) ([]model.Comment, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx, commentWithUser+`
		WHERE c.task_id = ANY($1)
		ORDER BY c.created_at`,
		taskIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComments(rows)
}

func collectComments(rows pgx.Rows) ([]model.Comment, error) {
	var out []model.Comment
	for rows.Next() {
		var c model.Comment
		var u model.User
		if err := rows.Scan(
			&c.ID, &c.TaskID, &c.UserID, &c.Content, &c.CreatedAt,
			&u.ID, &u.Email, &u.Name, &u.Image, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.User = &u
		out = append(out, c)
	}
	return out, rows.Err()
}
