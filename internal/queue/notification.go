package queue

import "time"

type NotificationType string

const (
	// NotificationTaskAssigned emails the assignee that a task landed on
	// their plate.
	NotificationTaskAssigned NotificationType = "task_assigned"

	// NotificationDueReminder emails the assignee ahead of the task's due
	// date. Carries the due date so the worker can requeue until it is ripe.
	NotificationDueReminder NotificationType = "due_reminder"
)

type Notification struct {
	Type    NotificationType
	TaskID  int64
	DueAt   *time.Time
	TraceID *string
	Attempt int
}
