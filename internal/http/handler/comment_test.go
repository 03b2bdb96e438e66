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

var _ = Describe("CommentHandler", func() {
	var (
		router *gin.Engine
		svc    *mockCommentService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		router.Use(asUser("user_member"))
		svc = &mockCommentService{}
		h := handler.NewCommentHandler(svc)
		router.POST("/comments", h.Add)
		router.GET("/comments/:taskId", h.List)
	})

	Describe("Add", func() {
		post := func(body map[string]any) *httptest.ResponseRecorder {
			raw, err := json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
			req := httptest.NewRequest(http.MethodPost, "/comments", bytes.NewBuffer(raw))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}

		It("creates the comment with its author attached", func() {
			svc.addFn = func(_ context.Context, actorID string, taskID int64, content string) (*model.Comment, error) {
				Expect(actorID).To(Equal("user_member"))
				Expect(taskID).To(Equal(int64(100)))
				Expect(content).To(Equal("Looks good"))
				return &model.Comment{
					ID: 7, TaskID: 100, UserID: actorID, Content: content,
					User: &model.User{ID: actorID, Name: "Member"},
				}, nil
			}

			w := post(map[string]any{"taskId": "100", "content": "Looks good"})

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp struct {
				Comment model.Comment `json:"comment"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Comment.ID).To(Equal(int64(7)))
			Expect(resp.Comment.User).NotTo(BeNil())
		})

		It("returns 400 when content is missing", func() {
			w := post(map[string]any{"taskId": "100"})

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("Missing required parameters."))
		})

		It("returns 403 when the actor is not a project member", func() {
			svc.addFn = func(_ context.Context, _ string, _ int64, _ string) (*model.Comment, error) {
				return nil, service.ErrForbidden
			}

			w := post(map[string]any{"taskId": "100", "content": "Looks good"})

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(w.Body.String()).To(ContainSubstring("You are not a member of this project"))
		})

		It("returns 404 when the task does not exist", func() {
			svc.addFn = func(_ context.Context, _ string, _ int64, _ string) (*model.Comment, error) {
				return nil, service.ErrTaskNotFound
			}

			w := post(map[string]any{"taskId": "999", "content": "Looks good"})

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("Task not found"))
		})
	})

	Describe("List", func() {
		It("returns the task's comments", func() {
			svc.listFn = func(_ context.Context, actorID string, taskID int64) ([]model.Comment, error) {
				Expect(actorID).To(Equal("user_member"))
				Expect(taskID).To(Equal(int64(100)))
				return []model.Comment{{ID: 7, TaskID: 100, Content: "Looks good"}}, nil
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/comments/100", nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp struct {
				Comments []model.Comment `json:"comments"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Comments).To(HaveLen(1))
		})

		It("returns 404 for a malformed task id", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/comments/abc", nil))

			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Body.String()).To(ContainSubstring("Task not found"))
		})

		It("returns 403 when the actor is not a project member", func() {
			svc.listFn = func(_ context.Context, _ string, _ int64) ([]model.Comment, error) {
				return nil, service.ErrForbidden
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/comments/100", nil))

			Expect(w.Code).To(Equal(http.StatusForbidden))
		})
	})
})
