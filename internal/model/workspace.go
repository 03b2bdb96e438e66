package model

import "time"

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Workspace maps to an organization at the identity provider; its ID is the
// provider-issued string ID. The creator is always its first ADMIN member.
type Workspace struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	OwnerID   string    `json:"ownerId"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Hydrated relationships, populated by the service layer.
	Owner    *User             `json:"owner,omitempty"`
	Members  []WorkspaceMember `json:"members,omitempty"`
	Projects []Project         `json:"projects,omitempty"`
}

// WorkspaceMember links a user to a workspace. A user has at most one
// membership per workspace.
type WorkspaceMember struct {
	ID          int64     `json:"id,string"`
	UserID      string    `json:"userId"`
	WorkspaceID string    `json:"workspaceId"`
	Role        Role      `json:"role"`
	Message     *string   `json:"message,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`

	User *User `json:"user,omitempty"`
}
