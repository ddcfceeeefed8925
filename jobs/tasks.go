// Package jobs defines the background tasks processed by cmd/worker.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeVerificationEmail is the task type for sending account
	// verification emails.
	TaskTypeVerificationEmail = "mail:verification"
)

// VerificationEmailPayload describes the account awaiting verification.
type VerificationEmailPayload struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

// NewVerificationEmailTask constructs an Asynq task.
func NewVerificationEmailTask(payload VerificationEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeVerificationEmail, data), nil
}

// EmailSender delivers a single email.
type EmailSender interface {
	Send(to, subject, body string) error
}

// HandleVerificationEmailTask returns the handler for verification email
// tasks. A payload that cannot be decoded is dropped rather than retried.
func HandleVerificationEmailTask(sender EmailSender, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload VerificationEmailPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		body := fmt.Sprintf("Hi,\n\nplease verify the email address for account %d.\n", payload.UserID)
		if err := sender.Send(payload.Email, "Verify your email", body); err != nil {
			return err
		}
		if logger != nil {
			logger.Info("verification email sent", slog.Int64("user_id", payload.UserID))
		}
		return nil
	}
}
