package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

type Producer interface {
	Enqueue(ctx context.Context, n Notification) error
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisProducer) Enqueue(ctx context.Context, n Notification) error {
	attempt := n.Attempt
	if attempt <= 0 {
		attempt = 1
	}

	fields := map[string]any{
		"notify_type": string(n.Type),
		"task_id":     n.TaskID,
		"attempt":     attempt,
	}
	if n.DueAt != nil {
		fields["due_at"] = n.DueAt.UTC().Format(time.RFC3339)
	}
	if n.TraceID != nil && *n.TraceID != "" {
		fields["trace_id"] = *n.TraceID
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Err(); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued notification", "notify_type", n.Type, "task_id", n.TaskID, "attempt", attempt)
	return nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

// TaskNotifier adapts a Producer to the hooks the mutation services call.
type TaskNotifier struct {
	producer Producer
}

func NewTaskNotifier(producer Producer) *TaskNotifier {
	return &TaskNotifier{producer: producer}
}

func (n *TaskNotifier) TaskAssigned(ctx context.Context, taskID int64) error {
	return n.producer.Enqueue(ctx, Notification{Type: NotificationTaskAssigned, TaskID: taskID})
}

func (n *TaskNotifier) DueReminder(ctx context.Context, taskID int64, dueDate time.Time) error {
	return n.producer.Enqueue(ctx, Notification{Type: NotificationDueReminder, TaskID: taskID, DueAt: &dueDate})
}
