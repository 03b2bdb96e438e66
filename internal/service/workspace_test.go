package service_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"operon.app/server/internal/model"
	"operon.app/server/internal/service"
	"operon.app/server/internal/store"
)

var _ = Describe("WorkspaceService", func() {
	var (
		ctx     context.Context
		users   *mockUserStore
		wss     *mockWorkspaceStore
		members *mockWorkspaceMemberStore
		svc     service.WorkspaceService
	)

	newSvc := func() service.WorkspaceService {
		return service.NewWorkspaceService(
			users, wss, members,
			&mockProjectStore{}, &mockProjectMemberStore{}, &mockTaskStore{}, &mockCommentStore{},
		)
	}

	BeforeEach(func() {
		ctx = context.Background()
		users = &mockUserStore{}
		wss = &mockWorkspaceStore{}
		members = &mockWorkspaceMemberStore{}
	})

	Describe("AddMember", func() {
		var params service.AddWorkspaceMemberParams

		BeforeEach(func() {
			params = service.AddWorkspaceMemberParams{
				WorkspaceID: "ws_1",
				Email:       "new@example.com",
				Role:        model.RoleMember,
			}
			users.getByEmailFn = func(_ context.Context, email string) (*model.User, error) {
				if email == "new@example.com" {
					return &model.User{ID: "user_new", Email: email}, nil
				}
				return nil, store.ErrNotFound
			}
			wss.getByIDFn = func(_ context.Context, id string) (*model.Workspace, error) {
				return &model.Workspace{ID: id, OwnerID: "user_admin"}, nil
			}
			members.listByWorkspaceFn = func(_ context.Context, _ string) ([]model.WorkspaceMember, error) {
				return []model.WorkspaceMember{
					{UserID: "user_admin", WorkspaceID: "ws_1", Role: model.RoleAdmin},
					{UserID: "user_plain", WorkspaceID: "ws_1", Role: model.RoleMember},
				}, nil
			}
		})

		It("creates the membership when the actor is an admin", func() {
			svc = newSvc()
			member, err := svc.AddMember(ctx, "user_admin", params)

			Expect(err).NotTo(HaveOccurred())
			Expect(member.UserID).To(Equal("user_new"))
			Expect(member.WorkspaceID).To(Equal("ws_1"))
			Expect(member.Role).To(Equal(model.RoleMember))
			Expect(member.User).NotTo(BeNil())
			Expect(members.createCalls).To(Equal(1))
		})

		It("returns ErrForbidden for a non-admin actor", func() {
			svc = newSvc()
			_, err := svc.AddMember(ctx, "user_plain", params)

			Expect(err).To(MatchError(service.ErrForbidden))
			Expect(members.createCalls).To(BeZero())
		})

		It("returns ErrUserNotFound for an unknown email", func() {
			params.Email = "nobody@example.com"
			svc = newSvc()
			_, err := svc.AddMember(ctx, "user_admin", params)

			Expect(err).To(MatchError(service.ErrUserNotFound))
		})

		It("returns ErrWorkspaceNotFound when the workspace does not exist", func() {
			wss.getByIDFn = func(_ context.Context, _ string) (*model.Workspace, error) {
				return nil, store.ErrNotFound
			}
			svc = newSvc()
			_, err := svc.AddMember(ctx, "user_admin", params)

			Expect(err).To(MatchError(service.ErrWorkspaceNotFound))
		})

		It("returns ErrMemberExists when the user already belongs to the workspace", func() {
			users.getByEmailFn = func(_ context.Context, _ string) (*model.User, error) {
				return &model.User{ID: "user_plain", Email: "new@example.com"}, nil
			}
			svc = newSvc()
			_, err := svc.AddMember(ctx, "user_admin", params)

			Expect(err).To(MatchError(service.ErrMemberExists))
			Expect(members.createCalls).To(BeZero())
		})

		It("maps a constraint violation on insert to ErrMemberExists", func() {
			members.createFn = func(_ context.Context, _ *model.WorkspaceMember) error {
				return store.ErrDuplicate
			}
			svc = newSvc()
			_, err := svc.AddMember(ctx, "user_admin", params)

			Expect(err).To(MatchError(service.ErrMemberExists))
		})

		It("rejects an unknown role", func() {
			params.Role = model.Role("OWNER")
			svc = newSvc()
			_, err := svc.AddMember(ctx, "user_admin", params)

			Expect(err).To(MatchError(service.ErrInvalidRole))
		})
	})

	Describe("ListForUser", func() {
		It("returns an empty slice when the user has no workspaces", func() {
			svc = newSvc()
			out, err := svc.ListForUser(ctx, "user_lonely")

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(BeEmpty())
			Expect(out).NotTo(BeNil())
		})

		It("assembles the nested workspace graph", func() {
			wss.listByUserFn = func(_ context.Context, _ string) ([]model.Workspace, error) {
				return []model.Workspace{{ID: "ws_1", OwnerID: "user_owner"}}, nil
			}
			members.listByWorkspacesFn = func(_ context.Context, _ []string) ([]model.WorkspaceMember, error) {
				return []model.WorkspaceMember{{ID: 1, UserID: "user_owner", WorkspaceID: "ws_1", Role: model.RoleAdmin}}, nil
			}
			users.listByIDsFn = func(_ context.Context, _ []string) ([]model.User, error) {
				return []model.User{{ID: "user_owner", Email: "owner@example.com"}}, nil
			}
			projects := &mockProjectStore{
				listByWorkspacesFn: func(_ context.Context, _ []string) ([]model.Project, error) {
					return []model.Project{{ID: 10, WorkspaceID: "ws_1", Name: "Launch"}}, nil
				},
			}
			tasks := &mockTaskStore{
				listByProjectsFn: func(_ context.Context, _ []int64) ([]model.Task, error) {
					return []model.Task{{ID: 100, ProjectID: 10, Title: "Ship it"}}, nil
				},
			}
			comments := &mockCommentStore{
				listByTasksFn: func(_ context.Context, _ []int64) ([]model.Comment, error) {
					return []model.Comment{{ID: 1000, TaskID: 100, Content: "on it"}}, nil
				},
			}
			svc = service.NewWorkspaceService(users, wss, members, projects, &mockProjectMemberStore{}, tasks, comments)

			out, err := svc.ListForUser(ctx, "user_owner")

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(HaveLen(1))
			ws := out[0]
			Expect(ws.Owner).NotTo(BeNil())
			Expect(ws.Owner.Email).To(Equal("owner@example.com"))
			Expect(ws.Members).To(HaveLen(1))
			Expect(ws.Projects).To(HaveLen(1))
			Expect(ws.Projects[0].Tasks).To(HaveLen(1))
			Expect(ws.Projects[0].Tasks[0].Comments).To(HaveLen(1))
		})
	})
})
