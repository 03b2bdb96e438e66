package worker

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"operon.app/server/internal/model"
	"operon.app/server/internal/queue"
	"operon.app/server/internal/store"
)

type stubTaskStore struct {
	store.TaskStore
	getByIDFn func(ctx context.Context, id int64) (*model.Task, error)
}

func (s *stubTaskStore) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	return s.getByIDFn(ctx, id)
}

type stubProjectStore struct {
	store.ProjectStore
	getByIDFn func(ctx context.Context, id int64) (*model.Project, error)
}

func (s *stubProjectStore) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	return s.getByIDFn(ctx, id)
}

type sentMail struct {
	toAddress string
	subject   string
}

type stubMailer struct {
	sent []sentMail
	err  error
}

func (m *stubMailer) Send(_ context.Context, _, toAddress, subject, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{toAddress: toAddress, subject: subject})
	return nil
}

var _ = Describe("Notifier", func() {
	var (
		ctx      context.Context
		tasks    *stubTaskStore
		projects *stubProjectStore
		mailer   *stubMailer
		notifier *Notifier

		now      time.Time
		assignee *model.User
		task     *model.Task
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

		assignee = &model.User{ID: "user_1", Email: "dev@example.com", Name: "Dev"}
		assigneeID := assignee.ID
		task = &model.Task{
			ID:         100,
			ProjectID:  10,
			Title:      "Fix login flow",
			Status:     model.TaskStatusInProgress,
			AssigneeID: &assigneeID,
			Assignee:   assignee,
		}

		tasks = &stubTaskStore{getByIDFn: func(_ context.Context, _ int64) (*model.Task, error) {
			return task, nil
		}}
		projects = &stubProjectStore{getByIDFn: func(_ context.Context, _ int64) (*model.Project, error) {
			return &model.Project{ID: 10, Name: "Website"}, nil
		}}
		mailer = &stubMailer{}

		notifier = NewNotifier(tasks, projects, mailer, "https://operon.app")
		notifier.now = func() time.Time { return now }
	})

	Describe("task assigned", func() {
		It("emails the current assignee", func() {
			err := notifier.Process(ctx, queue.Message{Type: queue.NotificationTaskAssigned, TaskID: 100})

			Expect(err).NotTo(HaveOccurred())
			Expect(mailer.sent).To(HaveLen(1))
			Expect(mailer.sent[0].toAddress).To(Equal("dev@example.com"))
			Expect(mailer.sent[0].subject).To(ContainSubstring("Website"))
		})

		It("skips silently when the task was deleted", func() {
			tasks.getByIDFn = func(_ context.Context, _ int64) (*model.Task, error) {
				return nil, store.ErrNotFound
			}

			err := notifier.Process(ctx, queue.Message{Type: queue.NotificationTaskAssigned, TaskID: 100})

			Expect(err).NotTo(HaveOccurred())
			Expect(mailer.sent).To(BeEmpty())
		})

		It("skips when the task was unassigned in the meantime", func() {
			task.Assignee = nil
			task.AssigneeID = nil

			err := notifier.Process(ctx, queue.Message{Type: queue.NotificationTaskAssigned, TaskID: 100})

			Expect(err).NotTo(HaveOccurred())
			Expect(mailer.sent).To(BeEmpty())
		})

		It("propagates mailer failures for retry", func() {
			mailer.err = context.DeadlineExceeded

			err := notifier.Process(ctx, queue.Message{Type: queue.NotificationTaskAssigned, TaskID: 100})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("due reminder", func() {
		var due time.Time

		BeforeEach(func() {
			due = now.Add(12 * time.Hour)
			task.DueDate = &due
		})

		reminderMsg := func() queue.Message {
			return queue.Message{Type: queue.NotificationDueReminder, TaskID: 100, DueAt: &due}
		}

		It("sends the reminder inside the window", func() {
			err := notifier.Process(ctx, reminderMsg())

			Expect(err).NotTo(HaveOccurred())
			Expect(mailer.sent).To(HaveLen(1))
			Expect(mailer.sent[0].subject).To(ContainSubstring("due soon"))
		})

		It("returns ErrNotReady ahead of the window", func() {
			due = now.Add(72 * time.Hour)
			task.DueDate = &due

			err := notifier.Process(ctx, reminderMsg())

			Expect(err).To(MatchError(ErrNotReady))
			Expect(mailer.sent).To(BeEmpty())
		})

		It("drops a stale reminder when the due date moved", func() {
			moved := due.Add(24 * time.Hour)
			task.DueDate = &moved

			err := notifier.Process(ctx, reminderMsg())

			Expect(err).NotTo(HaveOccurred())
			Expect(mailer.sent).To(BeEmpty())
		})

		It("skips a task that was completed before the reminder fired", func() {
			task.Status = model.TaskStatusDone

			err := notifier.Process(ctx, reminderMsg())

			Expect(err).NotTo(HaveOccurred())
			Expect(mailer.sent).To(BeEmpty())
		})
	})
})
