// Package reminder sends verified users a periodic digest of their
// incomplete todos.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caxgpt/todo-api/internal/domain"
	"github.com/caxgpt/todo-api/internal/email"
	"github.com/caxgpt/todo-api/internal/metrics"
	"github.com/caxgpt/todo-api/internal/repository"
	"github.com/robfig/cron/v3"
)

// digestLimit bounds items per email; beyond this the digest stops
// being a nudge and starts being a backlog dump.
const digestLimit = 20

type Reminder struct {
	users  repository.UserRepository
	todos  repository.TodoRepository
	email  email.Sender
	logger *slog.Logger
	cron   *cron.Cron
}

func New(users repository.UserRepository, todos repository.TodoRepository, emailSender email.Sender, logger *slog.Logger) *Reminder {
	return &Reminder{
		users:  users,
		todos:  todos,
		email:  emailSender,
		logger: logger.With("component", "reminder"),
	}
}

// Start schedules the digest with a standard 5-field cron spec and
// begins running it in the background.
func (r *Reminder) Start(spec string) error {
	r.cron = cron.New()
	_, err := r.cron.AddFunc(spec, func() {
		if err := r.RunOnce(context.Background()); err != nil {
			r.logger.Error("reminder cycle", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	r.cron.Start()
	return nil
}

// Stop waits for any in-flight cycle to finish.
func (r *Reminder) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

// RunOnce executes a single digest cycle. A failing user never blocks
// the rest.
func (r *Reminder) RunOnce(ctx context.Context) error {
	metrics.ReminderRunsTotal.Inc()

	users, err := r.users.ListVerified(ctx)
	if err != nil {
		return fmt.Errorf("list verified users: %w", err)
	}

	for _, user := range users {
		todos, err := r.todos.ListIncomplete(ctx, user.ID, digestLimit)
		if err != nil {
			metrics.ReminderEmailsTotal.WithLabelValues("error").Inc()
			r.logger.Error("list incomplete todos", "user_id", user.ID, "error", err)
			continue
		}
		if len(todos) == 0 {
			continue
		}

		subject := fmt.Sprintf("You have %d open todo(s)", len(todos))
		if err := r.email.Send(ctx, user.Email, subject, digestBody(todos)); err != nil {
			metrics.ReminderEmailsTotal.WithLabelValues("error").Inc()
			r.logger.Error("send digest", "user_id", user.ID, "error", err)
			continue
		}
		metrics.ReminderEmailsTotal.WithLabelValues("success").Inc()
	}

	return nil
}

func digestBody(todos []*domain.Todo) string {
	var b strings.Builder
	b.WriteString("<p>Still on your list:</p><ul>")
	for _, t := range todos {
		b.WriteString("<li>")
		b.WriteString(t.Title)
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
	return b.String()
}
