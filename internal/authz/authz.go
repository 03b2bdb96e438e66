// Package authz holds the pure authorization decision logic for workspace,
// project and task mutations. It never touches storage: callers load the
// membership data a decision needs and pass it in.
package authz

import "operon.app/server/internal/model"

type Action string

const (
	ActionAddWorkspaceMember Action = "workspace.add_member"
	ActionCreateProject      Action = "project.create"
	ActionUpdateProject      Action = "project.update"
	ActionAddProjectMember   Action = "project.add_member"
	ActionCreateTask         Action = "task.create"
	ActionUpdateTask         Action = "task.update"
	ActionDeleteTasks        Action = "task.delete"
	ActionComment            Action = "comment"
)

type Effect int

const (
	// Allow grants the action.
	Allow Effect = iota

	// DenyForbidden means the actor exists in the right place but lacks the
	// required role. Maps to 403 upstream.
	DenyForbidden

	// DenyNotFound means an entity the decision depends on was not supplied,
	// i.e. it does not exist. Evaluated before any role check so callers can
	// map it to 404 without leaking role information.
	DenyNotFound
)

type Decision struct {
	Effect Effect
	Reason string
}

func (d Decision) Allowed() bool {
	return d.Effect == Allow
}

// Input carries the entity graph a decision is evaluated against. Workspace
// and Project must have their Members hydrated when present.
type Input struct {
	Workspace *model.Workspace
	Project   *model.Project
}

func allow() Decision {
	return Decision{Effect: Allow}
}

func forbidden(reason string) Decision {
	return Decision{Effect: DenyForbidden, Reason: reason}
}

func notFound(reason string) Decision {
	return Decision{Effect: DenyNotFound, Reason: reason}
}

// Decide evaluates whether actorID may perform action given the loaded
// entity graph. Missing required entities yield DenyNotFound before any
// role is examined.
func Decide(actorID string, action Action, in Input) Decision {
	switch action {
	case ActionAddWorkspaceMember, ActionCreateProject:
		if in.Workspace == nil {
			return notFound("workspace not found")
		}
		if !IsWorkspaceAdmin(in.Workspace, actorID) {
			return forbidden("workspace admin role required")
		}
		return allow()

	case ActionUpdateProject, ActionAddProjectMember:
		if in.Workspace == nil {
			return notFound("workspace not found")
		}
		if in.Project == nil {
			return notFound("project not found")
		}
		if IsWorkspaceAdmin(in.Workspace, actorID) || IsTeamLead(in.Project, actorID) {
			return allow()
		}
		return forbidden("workspace admin or team lead required")

	case ActionCreateTask, ActionUpdateTask, ActionDeleteTasks:
		if in.Project == nil {
			return notFound("project not found")
		}
		// Workspace ADMIN alone is not enough: tasks belong to the team lead.
		if !IsTeamLead(in.Project, actorID) {
			return forbidden("project team lead required")
		}
		return allow()

	case ActionComment:
		if in.Project == nil {
			return notFound("project not found")
		}
		if !IsProjectMember(in.Project, actorID) {
			return forbidden("project membership required")
		}
		return allow()
	}

	return forbidden("unknown action")
}

// IsWorkspaceAdmin reports whether userID holds the ADMIN role in ws.
func IsWorkspaceAdmin(ws *model.Workspace, userID string) bool {
	for _, m := range ws.Members {
		if m.UserID == userID && m.Role == model.RoleAdmin {
			return true
		}
	}
	return false
}

// IsWorkspaceMember reports whether userID has any membership in ws.
func IsWorkspaceMember(ws *model.Workspace, userID string) bool {
	for _, m := range ws.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// IsTeamLead reports whether userID is the project's team lead.
func IsTeamLead(p *model.Project, userID string) bool {
	return p.TeamLead != nil && *p.TeamLead == userID
}

// IsProjectMember reports whether userID has a membership row in p.
func IsProjectMember(p *model.Project, userID string) bool {
	for _, m := range p.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}
