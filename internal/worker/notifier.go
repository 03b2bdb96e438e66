package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"operon.app/server/internal/model"
	"operon.app/server/internal/queue"
	"operon.app/server/internal/store"
)

// Mailer delivers a single email.
type Mailer interface {
	Send(ctx context.Context, toName, toAddress, subject, body string) error
}

// DefaultRemindWindow is how far ahead of the due date a reminder fires.
const DefaultRemindWindow = 24 * time.Hour

// Notifier turns queue messages into emails. Every path re-fetches the task
// first: by the time a message is processed the task may have been
// reassigned, completed, or deleted, and a stale notification must not go
// out. Check-then-act, not a hard guarantee against concurrent updates.
type Notifier struct {
	tasks        store.TaskStore
	projects     store.ProjectStore
	mailer       Mailer
	dashboardURL string
	remindWindow time.Duration
	now          func() time.Time
}

func NewNotifier(tasks store.TaskStore, projects store.ProjectStore, mailer Mailer, dashboardURL string) *Notifier {
	return &Notifier{
		tasks:        tasks,
		projects:     projects,
		mailer:       mailer,
		dashboardURL: dashboardURL,
		remindWindow: DefaultRemindWindow,
		now:          time.Now,
	}
}

func (n *Notifier) Process(ctx context.Context, msg queue.Message) error {
	switch msg.Type {
	case queue.NotificationTaskAssigned:
		return n.processAssigned(ctx, msg)
	case queue.NotificationDueReminder:
		return n.processReminder(ctx, msg)
	default:
		return fmt.Errorf("unknown notification type %q", msg.Type)
	}
}

func (n *Notifier) processAssigned(ctx context.Context, msg queue.Message) error {
	task, project, skip, err := n.loadFresh(ctx, msg.TaskID)
	if err != nil || skip {
		return err
	}
	if task.Assignee == nil {
		slog.InfoContext(ctx, "task no longer assigned, skipping notification")
		return nil
	}

	subject := fmt.Sprintf("New task assigned to you in %s", project.Name)
	body := fmt.Sprintf(
		"Hi %s,<br><br>You have been assigned a new task: <strong>%s</strong>.<br><br>View it at %s",
		task.Assignee.Name, task.Title, n.dashboardURL,
	)
	if err := n.mailer.Send(ctx, task.Assignee.Name, task.Assignee.Email, subject, body); err != nil {
		return fmt.Errorf("sending assignment email: %w", err)
	}

	slog.InfoContext(ctx, "assignment notification sent", "assignee_id", task.Assignee.ID)
	return nil
}

func (n *Notifier) processReminder(ctx context.Context, msg queue.Message) error {
	task, project, skip, err := n.loadFresh(ctx, msg.TaskID)
	if err != nil || skip {
		return err
	}

	// The message carries the due date it was scheduled for. If the task's
	// due date moved since, this reminder is stale.
	if task.DueDate == nil || msg.DueAt == nil || !task.DueDate.Equal(*msg.DueAt) {
		slog.InfoContext(ctx, "due date changed, dropping stale reminder")
		return nil
	}
	if task.Status == model.TaskStatusDone {
		slog.InfoContext(ctx, "task already done, skipping reminder")
		return nil
	}
	if task.Assignee == nil {
		slog.InfoContext(ctx, "task has no assignee, skipping reminder")
		return nil
	}

	// Streams have no delayed delivery; not-yet-ripe reminders go back on
	// the stream until the window opens.
	if task.DueDate.Sub(n.now()) > n.remindWindow {
		return ErrNotReady
	}

	subject := fmt.Sprintf("Reminder: %q is due soon", task.Title)
	body := fmt.Sprintf(
		"Hi %s,<br><br>Your task <strong>%s</strong> in %s is due on %s.<br><br>View it at %s",
		task.Assignee.Name, task.Title, project.Name, task.DueDate.Format("Jan 2, 2006"), n.dashboardURL,
	)
	if err := n.mailer.Send(ctx, task.Assignee.Name, task.Assignee.Email, subject, body); err != nil {
		return fmt.Errorf("sending reminder email: %w", err)
	}

	slog.InfoContext(ctx, "due reminder sent", "assignee_id", task.Assignee.ID)
	return nil
}

// loadFresh re-reads the task and its project. skip=true means the entities
// are gone and the message should be acked without delivery.
func (n *Notifier) loadFresh(ctx context.Context, taskID int64) (*model.Task, *model.Project, bool, error) {
	task, err := n.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.InfoContext(ctx, "task deleted before delivery, skipping")
			return nil, nil, true, nil
		}
		return nil, nil, false, fmt.Errorf("loading task: %w", err)
	}

	project, err := n.projects.GetByID(ctx, task.ProjectID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.InfoContext(ctx, "project deleted before delivery, skipping")
			return nil, nil, true, nil
		}
		return nil, nil, false, fmt.Errorf("loading project: %w", err)
	}

	return task, project, false, nil
}
