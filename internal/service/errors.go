package service

import "errors"

// Sentinel errors shared across services. Handlers map these to HTTP
// statuses and endpoint-specific messages.
var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrProjectNotFound   = errors.New("project not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrUserNotFound      = errors.New("user not found")

	// ErrForbidden means the actor exists but lacks the role the action needs.
	ErrForbidden = errors.New("forbidden")

	// ErrMemberExists is returned when a membership row already exists.
	ErrMemberExists = errors.New("member already exists")

	// ErrAssigneeNotMember is a validation failure, distinct from ErrForbidden:
	// the actor was allowed to act, the payload was not.
	ErrAssigneeNotMember = errors.New("assignee must be a project member")

	ErrInvalidRole = errors.New("invalid role")
)
