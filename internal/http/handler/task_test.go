package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"operon.app/server/internal/http/handler"
	"operon.app/server/internal/model"
	"operon.app/server/internal/service"
)

var _ = Describe("TaskHandler", func() {
	var (
		router *gin.Engine
		svc    *mockTaskService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		router.Use(asUser("user_lead"))
		svc = &mockTaskService{}
		h := handler.NewTaskHandler(svc)
		router.POST("/tasks", h.Create)
		router.PUT("/tasks/:id", h.Update)
		router.POST("/tasks/delete", h.Delete)
	})

	postJSON := func(path string, body map[string]any) *httptest.ResponseRecorder {
		raw, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	Describe("Create", func() {
		It("creates the task and returns it with the assignee hydrated", func() {
			assignee := "user_dev"
			svc.createFn = func(_ context.Context, actorID string, params service.CreateTaskParams) (*model.Task, error) {
				Expect(actorID).To(Equal("user_lead"))
				Expect(params.ProjectID).To(Equal(int64(10)))
				Expect(params.Type).To(Equal(model.TaskTypeFeature))
				Expect(params.Status).To(Equal(model.TaskStatusTodo))
				Expect(params.Priority).To(Equal(model.PriorityMedium))
				return &model.Task{
					ID:         100,
					ProjectID:  10,
					Title:      params.Title,
					AssigneeID: &assignee,
					Assignee:   &model.User{ID: "user_dev", Email: "dev@example.com"},
				}, nil
			}

			w := postJSON("/tasks", map[string]any{
				"projectId":  "10",
				"title":      "Ship it",
				"assigneeId": "user_dev",
			})

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp struct {
				Task    model.Task `json:"task"`
				Message string     `json:"message"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Message).To(Equal("Task created successfully"))
			Expect(resp.Task.ID).To(Equal(int64(100)))
			Expect(resp.Task.Assignee).NotTo(BeNil())
			Expect(resp.Task.Assignee.Email).To(Equal("dev@example.com"))
		})

		It("returns 403 when the actor is not the team lead", func() {
			svc.createFn = func(_ context.Context, _ string, _ service.CreateTaskParams) (*model.Task, error) {
				return nil, service.ErrForbidden
			}

			w := postJSON("/tasks", map[string]any{"projectId": "10", "title": "Ship it"})

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(w.Body.String()).To(ContainSubstring("You don't have admin privileges for this project"))
		})

		It("returns 400 when the assignee is not a project member", func() {
			svc.createFn = func(_ context.Context, _ string, _ service.CreateTaskParams) (*model.Task, error) {
				return nil, service.ErrAssigneeNotMember
			}

			w := postJSON("/tasks", map[string]any{"projectId": "10", "title": "Ship it", "assigneeId": "user_x"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Assignee must be a project member"))
		})

		It("returns 400 for an unknown status value without calling the service", func() {
			called := false
			svc.createFn = func(_ context.Context, _ string, _ service.CreateTaskParams) (*model.Task, error) {
				called = true
				return nil, nil
			}

			w := postJSON("/tasks", map[string]any{"projectId": "10", "title": "Ship it", "status": "BOGUS"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Invalid task status provided."))
			Expect(called).To(BeFalse())
		})

		It("returns 400 for an unknown type value", func() {
			w := postJSON("/tasks", map[string]any{"projectId": "10", "title": "Ship it", "type": "EPIC"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Invalid task type provided."))
		})

		It("returns 400 for an unknown priority value", func() {
			w := postJSON("/tasks", map[string]any{"projectId": "10", "title": "Ship it", "priority": "URGENT"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Invalid priority provided."))
		})

		It("returns 404 when the project does not exist", func() {
			svc.createFn = func(_ context.Context, _ string, _ service.CreateTaskParams) (*model.Task, error) {
				return nil, service.ErrProjectNotFound
			}

			w := postJSON("/tasks", map[string]any{"projectId": "999", "title": "Ship it"})

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("Project not found"))
		})
	})

	Describe("Update", func() {
		putJSON := func(path string, body map[string]any) *httptest.ResponseRecorder {
			raw, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			req := httptest.NewRequest(http.MethodPut, path, bytes.NewBuffer(raw))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		It("forwards only the fields present in the request", func() {
			svc.updateFn = func(_ context.Context, _ string, taskID int64, params service.UpdateTaskParams) (*model.Task, error) {
				Expect(taskID).To(Equal(int64(100)))
				Expect(params.Status).NotTo(BeNil())
				Expect(*params.Status).To(Equal(model.TaskStatusDone))
				Expect(params.Title).To(BeNil())
				Expect(params.AssigneeID).To(BeNil())
				return &model.Task{ID: 100, Status: model.TaskStatusDone}, nil
			}

			w := putJSON("/tasks/100", map[string]any{"status": "DONE"})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("Task updated successfully"))
		})

		It("returns 400 for an unknown status value", func() {
			w := putJSON("/tasks/100", map[string]any{"status": "BOGUS"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Invalid task status provided."))
		})

		It("returns 404 for a malformed task id", func() {
			w := putJSON("/tasks/abc", map[string]any{"status": "DONE"})

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("Task not found"))
		})

		It("returns 403 when the actor may not update the task", func() {
			svc.updateFn = func(_ context.Context, _ string, _ int64, _ service.UpdateTaskParams) (*model.Task, error) {
				return nil, service.ErrForbidden
			}

			w := putJSON("/tasks/100", map[string]any{"status": "DONE"})

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(w.Body.String()).To(ContainSubstring("You don't have permission to update this task."))
		})
	})

	Describe("Delete", func() {
		It("parses string ids and skips unparsable entries", func() {
			var got []int64
			svc.deleteFn = func(_ context.Context, actorID string, ids []int64) error {
				Expect(actorID).To(Equal("user_lead"))
				got = ids
				return nil
			}

			w := postJSON("/tasks/delete", map[string]any{"tasksIds": []string{"100", "oops", "200"}})

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(got).To(Equal([]int64{100, 200}))
			Expect(w.Body.String()).To(ContainSubstring("Task deleted successfully"))
		})

		It("returns 404 when no task matches", func() {
			svc.deleteFn = func(_ context.Context, _ string, _ []int64) error {
				return service.ErrTaskNotFound
			}

			w := postJSON("/tasks/delete", map[string]any{"tasksIds": []string{"999"}})

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("Task not found"))
		})

		It("returns 403 when the actor is not the team lead", func() {
			svc.deleteFn = func(_ context.Context, _ string, _ []int64) error {
				return service.ErrForbidden
			}

			w := postJSON("/tasks/delete", map[string]any{"tasksIds": []string{"100"}})

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(w.Body.String()).To(ContainSubstring("You don't have admin privileges for this project"))
		})
	})
})
