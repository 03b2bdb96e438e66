package service

import (
	"operon.app/server/internal/store"
)

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	notifier Notifier
}

func NewServices(stores *store.Stores, txRunner TxRunner, notifier Notifier) *Services {
	return &Services{
		stores:   stores,
		txRunner: txRunner,
		notifier: notifier,
	}
}

func (s *Services) Workspaces() WorkspaceService {
	return NewWorkspaceService(
		s.stores.Users(),
		s.stores.Workspaces(),
		s.stores.WorkspaceMembers(),
		s.stores.Projects(),
		s.stores.ProjectMembers(),
		s.stores.Tasks(),
		s.stores.Comments(),
	)
}

func (s *Services) Projects() ProjectService {
	return NewProjectService(
		s.stores.Users(),
		s.stores.Workspaces(),
		s.stores.WorkspaceMembers(),
		s.stores.Projects(),
		s.stores.ProjectMembers(),
		s.stores.Tasks(),
		s.txRunner,
	)
}

func (s *Services) Tasks() TaskService {
	return NewTaskService(
		s.stores.Projects(),
		s.stores.ProjectMembers(),
		s.stores.Tasks(),
		s.notifier,
	)
}

func (s *Services) Comments() CommentService {
	return NewCommentService(
		s.stores.Users(),
		s.stores.Projects(),
		s.stores.ProjectMembers(),
		s.stores.Tasks(),
		s.stores.Comments(),
	)
}

func (s *Services) Identity() IdentityService {
	return NewIdentityService(s.stores.Users(), s.txRunner)
}
