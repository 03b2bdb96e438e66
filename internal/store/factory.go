package store

import (
	"operon.app/server/core/db"
)

type Stores struct {
	q db.Querier
}

func NewStores(q db.Querier) *Stores {
	return &Stores{q: q}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.q)
}

func (s *Stores) Workspaces() WorkspaceStore {
	return newWorkspaceStore(s.q)
}

func (s *Stores) WorkspaceMembers() WorkspaceMemberStore {
	return newWorkspaceMemberStore(s.q)
}

func (s *Stores) Projects() ProjectStore {
	return newProjectStore(s.q)
}

func (s *Stores) ProjectMembers() ProjectMemberStore {
	return newProjectMemberStore(s.q)
}

func (s *Stores) Tasks() TaskStore {
	return newTaskStore(s.q)
}

func (s *Stores) Comments() CommentStore {
	return newCommentStore(s.q)
}
