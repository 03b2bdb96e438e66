package service_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"operon.app/server/internal/model"
	"operon.app/server/internal/service"
	"operon.app/server/internal/store"
)

var _ = Describe("TaskService", func() {
	const (
		leadID     = "user_lead"
		memberID   = "user_member"
		outsiderID = "user_outsider"
	)

	var (
		ctx            context.Context
		projects       *mockProjectStore
		projectMembers *mockProjectMemberStore
		tasks          *mockTaskStore
		notifier       *mockNotifier
		svc            service.TaskService
	)

	BeforeEach(func() {
		ctx = context.Background()
		projects = &mockProjectStore{}
		projectMembers = &mockProjectMemberStore{}
		tasks = &mockTaskStore{}
		notifier = &mockNotifier{}

		lead := leadID
		projects.getByIDFn = func(_ context.Context, id int64) (*model.Project, error) {
			if id != 10 {
				return nil, store.ErrNotFound
			}
			return &model.Project{ID: 10, WorkspaceID: "ws_1", TeamLead: &lead}, nil
		}
		projectMembers.listByProjectFn = func(_ context.Context, _ int64) ([]model.ProjectMember, error) {
			return []model.ProjectMember{
				{UserID: leadID, ProjectID: 10},
				{UserID: memberID, ProjectID: 10},
			}, nil
		}

		svc = service.NewTaskService(projects, projectMembers, tasks, notifier)
	})

	Describe("Create", func() {
		var params service.CreateTaskParams

		BeforeEach(func() {
			params = service.CreateTaskParams{
				ProjectID: 10,
				Title:     "Write release notes",
				Type:      model.TaskTypeChore,
				Status:    model.TaskStatusTodo,
				Priority:  model.PriorityMedium,
			}
		})

		It("creates the task for the team lead", func() {
			task, err := svc.Create(ctx, leadID, params)

			Expect(err).NotTo(HaveOccurred())
			Expect(task.Title).To(Equal("Write release notes"))
			Expect(tasks.createCalls).To(Equal(1))
			Expect(notifier.assignedTaskIDs).To(BeEmpty())
		})

		It("forbids a project member who is not the lead", func() {
			_, err := svc.Create(ctx, memberID, params)

			Expect(err).To(MatchError(service.ErrForbidden))
			Expect(tasks.createCalls).To(BeZero())
		})

		It("rejects an assignee outside the project even for an authorized actor", func() {
			assignee := outsiderID
			params.AssigneeID = &assignee

			_, err := svc.Create(ctx, leadID, params)

			Expect(err).To(MatchError(service.ErrAssigneeNotMember))
			Expect(tasks.createCalls).To(BeZero())
		})

		It("enqueues an assignment notification when an assignee is set", func() {
			assignee := memberID
			params.AssigneeID = &assignee
			tasks.createFn = func(_ context.Context, t *model.Task) error {
				t.ID = 100
				return nil
			}

			_, err := svc.Create(ctx, leadID, params)

			Expect(err).NotTo(HaveOccurred())
			Expect(notifier.assignedTaskIDs).To(Equal([]int64{100}))
		})

		It("enqueues a due reminder when a due date is set", func() {
			due := time.Now().Add(48 * time.Hour)
			params.DueDate = &due
			tasks.createFn = func(_ context.Context, t *model.Task) error {
				t.ID = 101
				return nil
			}

			_, err := svc.Create(ctx, leadID, params)

			Expect(err).NotTo(HaveOccurred())
			Expect(notifier.reminderTaskIDs).To(Equal([]int64{101}))
		})

		It("still succeeds when enqueueing fails", func() {
			assignee := memberID
			params.AssigneeID = &assignee
			notifier.taskAssignedFn = func(_ context.Context, _ int64) error {
				return context.DeadlineExceeded
			}

			_, err := svc.Create(ctx, leadID, params)

			Expect(err).NotTo(HaveOccurred())
		})

		It("returns ErrProjectNotFound for an unknown project", func() {
			params.ProjectID = 99
			_, err := svc.Create(ctx, leadID, params)
			Expect(err).To(MatchError(service.ErrProjectNotFound))
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			tasks.getByIDFn = func(_ context.Context, id int64) (*model.Task, error) {
				if id != 100 {
					return nil, store.ErrNotFound
				}
				return &model.Task{
					ID:        100,
					ProjectID: 10,
					Title:     "Old title",
					Status:    model.TaskStatusTodo,
					Priority:  model.PriorityLow,
					Type:      model.TaskTypeFeature,
				}, nil
			}
		})

		It("applies only the supplied fields", func() {
			title := "New title"
			status := model.TaskStatusInProgress

			task, err := svc.Update(ctx, leadID, 100, service.UpdateTaskParams{
				Title:  &title,
				Status: &status,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(task.Title).To(Equal("New title"))
			Expect(task.Status).To(Equal(model.TaskStatusInProgress))
			Expect(task.Priority).To(Equal(model.PriorityLow))
			Expect(task.Type).To(Equal(model.TaskTypeFeature))
		})

		It("forbids anyone but the team lead", func() {
			title := "New title"
			_, err := svc.Update(ctx, memberID, 100, service.UpdateTaskParams{Title: &title})
			Expect(err).To(MatchError(service.ErrForbidden))
		})

		It("validates a new assignee against project membership", func() {
			assignee := outsiderID
			_, err := svc.Update(ctx, leadID, 100, service.UpdateTaskParams{AssigneeID: &assignee})
			Expect(err).To(MatchError(service.ErrAssigneeNotMember))
		})

		It("accepts a project member as the new assignee", func() {
			assignee := memberID
			task, err := svc.Update(ctx, leadID, 100, service.UpdateTaskParams{AssigneeID: &assignee})

			Expect(err).NotTo(HaveOccurred())
			Expect(task.AssigneeID).To(HaveValue(Equal(memberID)))
		})

		It("returns ErrTaskNotFound for an unknown task", func() {
			_, err := svc.Update(ctx, leadID, 999, service.UpdateTaskParams{})
			Expect(err).To(MatchError(service.ErrTaskNotFound))
		})
	})

	Describe("Delete", func() {
		BeforeEach(func() {
			otherLead := "user_other_lead"
			projects.getByIDFn = func(_ context.Context, id int64) (*model.Project, error) {
				lead := leadID
				switch id {
				case 10:
					return &model.Project{ID: 10, WorkspaceID: "ws_1", TeamLead: &lead}, nil
				case 20:
					return &model.Project{ID: 20, WorkspaceID: "ws_1", TeamLead: &otherLead}, nil
				}
				return nil, store.ErrNotFound
			}
			tasks.listByIDsFn = func(_ context.Context, ids []int64) ([]model.Task, error) {
				var out []model.Task
				for _, id := range ids {
					switch id {
					case 100:
						out = append(out, model.Task{ID: 100, ProjectID: 10})
					case 200:
						out = append(out, model.Task{ID: 200, ProjectID: 20})
					}
				}
				return out, nil
			}
		})

		It("deletes matched tasks for the first task's team lead", func() {
			err := svc.Delete(ctx, leadID, []int64{100})

			Expect(err).NotTo(HaveOccurred())
			Expect(tasks.deletedIDs).To(Equal([]int64{100}))
		})

		It("authorizes only against the first task's project in a mixed batch", func() {
			// Task 200 belongs to a project led by someone else; the batch
			// still goes through because task 100 comes first.
			err := svc.Delete(ctx, leadID, []int64{100, 200})

			Expect(err).NotTo(HaveOccurred())
			Expect(tasks.deletedIDs).To(Equal([]int64{100, 200}))
		})

		It("rejects the same batch when the first task's lead is someone else", func() {
			err := svc.Delete(ctx, leadID, []int64{200, 100})

			Expect(err).To(MatchError(service.ErrForbidden))
			Expect(tasks.deletedIDs).To(BeEmpty())
		})

		It("returns ErrTaskNotFound when no ids match", func() {
			err := svc.Delete(ctx, leadID, []int64{998, 999})
			Expect(err).To(MatchError(service.ErrTaskNotFound))
		})
	})
})
