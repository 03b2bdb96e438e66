package model

import "time"

// User is owned by the identity provider: created, updated and deleted only
// through identity-sync events. Its ID is the provider-issued string ID.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Image     *string   `json:"image,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
