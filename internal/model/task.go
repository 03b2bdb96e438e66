package model

import "time"

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusInReview   TaskStatus = "IN_REVIEW"
	TaskStatusDone       TaskStatus = "DONE"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusInReview, TaskStatusDone:
		return true
	}
	return false
}

type TaskType string

const (
	TaskTypeFeature TaskType = "FEATURE"
	TaskTypeBug     TaskType = "BUG"
	TaskTypeChore   TaskType = "CHORE"
)

func (t TaskType) Valid() bool {
	switch t {
	case TaskTypeFeature, TaskTypeBug, TaskTypeChore:
		return true
	}
	return false
}

type Task struct {
	ID          int64      `json:"id,string"`
	ProjectID   int64      `json:"projectId,string"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Type        TaskType   `json:"type"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	DueDate     *time.Time `json:"due_date,omitempty"`

	// AssigneeID, if set, must reference a member of the owning project.
	AssigneeID *string `json:"assigneeId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Assignee *User     `json:"assignee,omitempty"`
	Comments []Comment `json:"comments,omitempty"`
}
