// Package worker consumes the notification stream and delivers emails.
// Delivery is at-least-once: a message is retried until it succeeds, is
// found to be stale, or exhausts its attempts and lands in the DLQ.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"operon.app/server/common/logger"
	"operon.app/server/internal/queue"
)

// Processor handles a single notification message. Returning ErrNotReady
// asks the worker to requeue without burning an attempt.
type Processor interface {
	Process(ctx context.Context, msg queue.Message) error
}

// ErrNotReady signals that the message is valid but its time has not come
// yet (a reminder ahead of its window).
var ErrNotReady = errors.New("notification not ready")

type Config struct {
	MaxAttempts int
}

type Worker struct {
	consumer  *queue.RedisConsumer
	processor Processor
	cfg       Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer *queue.RedisConsumer, processor Processor, cfg Config) *Worker {
	return &Worker{
		consumer:  consumer,
		processor: processor,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				// Brief backoff on error
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		w.processMessage(ctx, msg)
	}

	return nil
}

func (w *Worker) processMessage(ctx context.Context, msg queue.Message) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		TaskID:    logger.Ptr(msg.TaskID),
		MessageID: logger.Ptr(msg.ID),
		Component: "operon.worker",
	})

	err := w.processSafe(ctx, msg)
	switch {
	case err == nil:
		if ackErr := w.consumer.Ack(ctx, msg); ackErr != nil {
			// Message will be redelivered; processing is repeat-safe.
			slog.WarnContext(ctx, "failed to ACK message", "error", ackErr)
		}
	case errors.Is(err, ErrNotReady):
		if rqErr := w.consumer.RequeueWithAttempt(ctx, msg, msg.Attempt, "not ready"); rqErr != nil {
			slog.ErrorContext(ctx, "failed to requeue pending reminder", "error", rqErr)
		}
	default:
		slog.ErrorContext(ctx, "message processing failed",
			"error", err,
			"attempt", msg.Attempt)
		w.handleFailedMessage(ctx, msg, err)
	}
}

func (w *Worker) processSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in message processing", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.processor.Process(ctx, msg)
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "max attempts reached, sending to DLQ")
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send message to DLQ", "error", dlqErr)
		}
		return
	}

	if rqErr := w.consumer.Requeue(ctx, msg, err.Error()); rqErr != nil {
		slog.ErrorContext(ctx, "failed to requeue message", "error", rqErr)
	}
}
