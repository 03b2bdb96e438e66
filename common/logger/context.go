package logger

import "context"

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within
// a context. Fields flow through context enrichment, so business context
// (workspace_id, task_id, etc.) shows up in every log statement without being
// threaded through call sites by hand.
type LogFields struct {
	WorkspaceID *string // Workspace ID (identity-provider issued)
	ProjectID   *int64  // Project ID
	TaskID      *int64  // Task ID
	ActorID     *string // Authenticated user performing the request
	MessageID   *string // Redis stream message ID
	Component   string  // Component name, e.g. "operon.worker.notifier"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking
// precedence. Context timeouts and cancellation are preserved.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, next LogFields) LogFields {
	result := existing

	if next.WorkspaceID != nil {
		result.WorkspaceID = next.WorkspaceID
	}
	if next.ProjectID != nil {
		result.ProjectID = next.ProjectID
	}
	if next.TaskID != nil {
		result.TaskID = next.TaskID
	}
	if next.ActorID != nil {
		result.ActorID = next.ActorID
	}
	if next.MessageID != nil {
		result.MessageID = next.MessageID
	}
	if next.Component != "" {
		result.Component = next.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline.
func Ptr[T any](v T) *T {
	return &v
}
