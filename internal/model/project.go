package model

import "time"

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "PLANNING"
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusOnHold    ProjectStatus = "ON_HOLD"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Project struct {
	ID          int64         `json:"id,string"`
	WorkspaceID string        `json:"workspaceId"`
	Name        string        `json:"name"`
	Description *string       `json:"description,omitempty"`
	Status      ProjectStatus `json:"status"`
	Priority    Priority      `json:"priority"`
	Progress    int32         `json:"progress"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`

	// TeamLead references the single user with elevated authority over this
	// project. If set, the user must be a member of the owning workspace at
	// assignment time.
	TeamLead *string `json:"team_lead,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Members []ProjectMember `json:"members,omitempty"`
	Tasks   []Task          `json:"tasks,omitempty"`
}

// ProjectMember links a user to a project. Membership in a project implies
// nothing about the user's workspace role.
type ProjectMember struct {
	ID        int64     `json:"id,string"`
	UserID    string    `json:"userId"`
	ProjectID int64     `json:"projectId,string"`
	CreatedAt time.Time `json:"createdAt"`

	User *User `json:"user,omitempty"`
}
