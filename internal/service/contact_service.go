package service

import (
	"context"

	"github.com/NdeyeSokhna722/loumshoes/internal/model"
	"github.com/NdeyeSokhna722/loumshoes/internal/notify"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit validates in, persists a new message and notifies the submitter
	// and the administrator. Notification failures do not affect the result.
	Submit(ctx context.Context, in model.SubmitInput) (*model.Receipt, error)

	// List returns every message, most recent first.
	List(ctx context.Context) ([]*model.ContactMessage, error)

	// MarkRead flags a message as read. Returns repository.ErrNotFound if absent.
	MarkRead(ctx context.Context, id int64) error

	// Delete removes a message. Returns repository.ErrNotFound if absent.
	Delete(ctx context.Context, id int64) error

	// Stats aggregates counts over every stored message.
	Stats(ctx context.Context) (*model.Stats, error)
}

// Notifier sends the two emails triggered by a submission.
// Implementations report failures in the Result and never panic or block persistence.
type Notifier interface {
	NotifyConfirmation(ctx context.Context, msg *model.ContactMessage) notify.Result
	NotifyAdmin(ctx context.Context, msg *model.ContactMessage) notify.Result
}
