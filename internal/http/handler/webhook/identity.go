// Package webhook receives sync events from the external identity provider.
// Users and workspaces are owned by the provider; this endpoint is how their
// state reaches the local database.
package webhook

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"operon.app/server/internal/model"
	"operon.app/server/internal/service"
)

type IdentityWebhookHandler struct {
	identityService service.IdentityService
	secret          string
}

func NewIdentityWebhookHandler(identityService service.IdentityService, secret string) *IdentityWebhookHandler {
	return &IdentityWebhookHandler{
		identityService: identityService,
		secret:          secret,
	}
}

type identityEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type userPayload struct {
	ID             string `json:"id"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	ImageURL  *string `json:"image_url"`
}

type organizationPayload struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	CreatedBy string  `json:"created_by"`
	ImageURL  *string `json:"image_url"`
}

type membershipPayload struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	RoleName       string `json:"role_name"`
}

func (h *IdentityWebhookHandler) HandleEvent(c *gin.Context) {
	ctx := c.Request.Context()

	secretHeader := c.GetHeader("X-Webhook-Secret")
	if subtle.ConstantTimeCompare([]byte(secretHeader), []byte(h.secret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid webhook secret"})
		return
	}

	var event identityEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid payload"})
		return
	}

	slog.InfoContext(ctx, "received identity event", "event_type", event.Type)

	var err error
	switch event.Type {
	case "user.created", "user.updated":
		err = h.syncUser(c, event.Data)
	case "user.deleted":
		err = h.deleteUser(c, event.Data)
	case "organization.created":
		err = h.createWorkspace(c, event.Data)
	case "organization.updated":
		err = h.updateWorkspace(c, event.Data)
	case "organization.deleted":
		err = h.deleteWorkspace(c, event.Data)
	case "organizationInvitation.accepted":
		err = h.addMembership(c, event.Data)
	default:
		// Unknown events are acknowledged so the provider stops retrying.
		slog.InfoContext(ctx, "ignoring identity event", "event_type", event.Type)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to apply identity event", "event_type", event.Type, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *IdentityWebhookHandler) syncUser(c *gin.Context, data json.RawMessage) error {
	var p userPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var email string
	if len(p.EmailAddresses) > 0 {
		email = p.EmailAddresses[0].EmailAddress
	}
	user := &model.User{
		ID:    p.ID,
		Email: email,
		Name:  strings.TrimSpace(p.FirstName + " " + p.LastName),
		Image: p.ImageURL,
	}
	return h.identityService.UpsertUser(c.Request.Context(), user)
}

func (h *IdentityWebhookHandler) deleteUser(c *gin.Context, data json.RawMessage) error {
	var p userPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	return h.identityService.DeleteUser(c.Request.Context(), p.ID)
}

func (h *IdentityWebhookHandler) createWorkspace(c *gin.Context, data json.RawMessage) error {
	var p organizationPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	ws := &model.Workspace{
		ID:       p.ID,
		Name:     p.Name,
		Slug:     p.Slug,
		OwnerID:  p.CreatedBy,
		ImageURL: p.ImageURL,
	}
	return h.identityService.CreateWorkspace(c.Request.Context(), ws)
}

func (h *IdentityWebhookHandler) updateWorkspace(c *gin.Context, data json.RawMessage) error {
	var p organizationPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	ws := &model.Workspace{
		ID:       p.ID,
		Name:     p.Name,
		Slug:     p.Slug,
		ImageURL: p.ImageURL,
	}
	return h.identityService.UpdateWorkspace(c.Request.Context(), ws)
}

func (h *IdentityWebhookHandler) deleteWorkspace(c *gin.Context, data json.RawMessage) error {
	var p organizationPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	return h.identityService.DeleteWorkspace(c.Request.Context(), p.ID)
}

func (h *IdentityWebhookHandler) addMembership(c *gin.Context, data json.RawMessage) error {
	var p membershipPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	role := model.Role(strings.ToUpper(p.RoleName))
	return h.identityService.AddMembership(c.Request.Context(), p.UserID, p.OrganizationID, role)
}
