package model

import "time"

// Comment on a task. The author must be a member of the task's owning
// project at creation time.
type Comment struct {
	ID        int64     `json:"id,string"`
	TaskID    int64     `json:"taskId,string"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`

	User *User `json:"user,omitempty"`
}
