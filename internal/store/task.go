package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"operon.app/server/common/id"
	"operon.app/server/core/db"
	"operon.app/server/internal/model"
)

type taskStore struct {
	q db.Querier
}

func newTaskStore(q db.Querier) TaskStore {
	return &taskStore{q: q}
}

// Tasks are always read with their assignee joined in so callers never
// need a second round trip for the profile.
const taskWithAssignee = `
	SELECT t.id, t.project_id, t.title, t.description, t.type, t.status, t.priority,
	       t.due_date, t.assignee_id, t.created_at, t.updated_at,
	       u.id, u.email, u.name, u.image, u.created_at, u.updated_at
	FROM tasks t
	LEFT JOIN users u ON u.id = t.assignee_id`

func scanTask(row pgx.Row) (*model.Task, error) {
	var t model.Task
	var u model.User
	var uID, uEmail, uName *string
	var uImage *string
	var uCreated, uUpdated *time.Time
	err := row.Scan(
		&t.ID, &t.ProjectID, &t.Title, &t.Description, &t.Type, &t.Status, &t.Priority,
		&t.DueDate, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt,
		&uID, &uEmail, &uName, &uImage, &uCreated, &uUpdated,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	if uID != nil {
		u = model.User{ID: *uID, Email: *uEmail, Name: *uName, Image: uImage, CreatedAt: *uCreated, UpdatedAt: *uUpdated}
		t.Assignee = &u
	}
	return &t, nil
}

func (s *taskStore) GetByID(ctx context.Context, taskID int64) (*model.Task, error) {
	row := s.q.QueryRow(ctx, taskWithAssignee+` WHERE t.id = $1`, taskID)
	return scanTask(row)
}

func (s *taskStore) Create(ctx context.Context, t *model.Task) error {
	if t.ID == 0 {
		t.ID = id.New()
	}
	_, err := s.q.Exec(ctx, `
		INSERT INTO tasks (id, project_id, title, description, type, status, priority, due_date, assignee_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.ProjectID, t.Title, t.Description, t.Type, t.Status, t.Priority, t.DueDate, t.AssigneeID)
	if err != nil {
		return translateErr(err)
	}
	created, err := s.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *created
	return nil
}

func (s *taskStore) Update(ctx context.Context, t *model.Task) error {
	tag, err := s.q.Exec(ctx, `
		UPDATE tasks
		SET title = $2, description = $3, type = $4, status = $5, priority = $6,
		    due_date = $7, assignee_id = $8, updated_at = now()
		WHERE id = $1`,
		t.ID, t.Title, t.Description, t.Type, t.Status, t.Priority, t.DueDate, t.AssigneeID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	updated, err := s.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	*t = *updated
	return nil
}

// DeleteByIDs removes every task in the id set, regardless of project.
// Returns the number of rows deleted.
func (s *taskStore) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.q.Exec(ctx, `DELETE FROM tasks WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *taskStore) ListByIDs(ctx context.Context, ids []int64) ([]model.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx, taskWithAssignee+`
		WHERE t.id = ANY($1)
		ORDER BY t.created_at`,
		ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *taskStore) ListByProject(ctx context.Context, projectID int64) ([]model.Task, error) {
	rows, err := s.q.Query(ctx, taskWithAssignee+`
		WHERE t.project_id = $1
		ORDER BY t.created_at`,
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func (s *taskStore) ListByProjects(ctx context.Context, projectIDs []int64) ([]model.Task, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	rows, err := s.q.Query(ctx, taskWithAssignee+`
		WHERE t.project_id = ANY($1)
		ORDER BY t.created_at`,
		projectIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTasks(rows)
}

func collectTasks(rows pgx.Rows) ([]model.Task, error) {
	var out []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}
