package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"operon.app/server/internal/model"
	"operon.app/server/internal/store"
)

// IdentityService applies identity-provider sync events. The provider may
// redeliver or reorder events, so every operation here is safe to repeat.
type IdentityService interface {
	UpsertUser(ctx context.Context, user *model.User) error
	DeleteUser(ctx context.Context, userID string) error

	// CreateWorkspace records a provider-created organization and makes the
	// creator its first member with the ADMIN role.
	CreateWorkspace(ctx context.Context, ws *model.Workspace) error
	UpdateWorkspace(ctx context.Context, ws *model.Workspace) error
	DeleteWorkspace(ctx context.Context, workspaceID string) error

	AddMembership(ctx context.Context, userID, workspaceID string, role model.Role) error
}

type identityService struct {
	users    store.UserStore
	txRunner TxRunner
}

func NewIdentityService(users store.UserStore, txRunner TxRunner) IdentityService {
	return &identityService{users: users, txRunner: txRunner}
}

func (s *identityService) UpsertUser(ctx context.Context, user *model.User) error {
	if err := s.users.Upsert(ctx, user); err != nil {
		return fmt.Errorf("upserting user: %w", err)
	}
	slog.InfoContext(ctx, "user synced", "user_id", user.ID)
	return nil
}

func (s *identityService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.users.Delete(ctx, userID); err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	slog.InfoContext(ctx, "user deleted", "user_id", userID)
	return nil
}

func (s *identityService) CreateWorkspace(ctx context.Context, ws *model.Workspace) error {
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		if err := stores.Workspaces().Create(ctx, ws); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				// Redelivered event; the workspace is already recorded.
				return nil
			}
			return fmt.Errorf("creating workspace: %w", err)
		}
		member := &model.WorkspaceMember{
			UserID:      ws.OwnerID,
			WorkspaceID: ws.ID,
			Role:        model.RoleAdmin,
		}
		if err := stores.WorkspaceMembers().Create(ctx, member); err != nil && !errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("creating admin member: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "workspace synced", "workspace_id", ws.ID, "owner_id", ws.OwnerID)
	return nil
}

func (s *identityService) UpdateWorkspace(ctx context.Context, ws *model.Workspace) error {
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		current, err := stores.Workspaces().GetByID(ctx, ws.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrWorkspaceNotFound
			}
			return fmt.Errorf("loading workspace: %w", err)
		}
		current.Name = ws.Name
		current.Slug = ws.Slug
		current.ImageURL = ws.ImageURL
		if err := stores.Workspaces().Update(ctx, current); err != nil {
			return fmt.Errorf("updating workspace: %w", err)
		}
		*ws = *current
		return nil
	})
	return err
}

func (s *identityService) DeleteWorkspace(ctx context.Context, workspaceID string) error {
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		return stores.Workspaces().Delete(ctx, workspaceID)
	})
	if err != nil {
		return fmt.Errorf("deleting workspace: %w", err)
	}
	slog.InfoContext(ctx, "workspace deleted", "workspace_id", workspaceID)
	return nil
}

func (s *identityService) AddMembership(ctx context.Context, userID, workspaceID string, role model.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	err := s.txRunner.WithTx(ctx, func(stores StoreProvider) error {
		member := &model.WorkspaceMember{
			UserID:      userID,
			WorkspaceID: workspaceID,
			Role:        role,
		}
		if err := stores.WorkspaceMembers().Create(ctx, member); err != nil && !errors.Is(err, store.ErrDuplicate) {
			return fmt.Errorf("creating membership: %w", err)
		}
		return nil
	})
	return err
}
