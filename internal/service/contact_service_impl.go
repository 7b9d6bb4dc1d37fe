package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/NdeyeSokhna722/loumshoes/internal/metrics"
	"github.com/NdeyeSokhna722/loumshoes/internal/model"
	"github.com/NdeyeSokhna722/loumshoes/internal/repository"
)

// contactServiceImpl is the production implementation of ContactService.
type contactServiceImpl struct {
	repo     repository.ContactRepository
	notifier Notifier
	ids      *IDGenerator
	now      func() time.Time
	loc      *time.Location
}

// Option customises a ContactService.
type Option func(*contactServiceImpl)

// WithClock overrides the time source used for ids, timestamps and readAt.
func WithClock(now func() time.Time) Option {
	return func(s *contactServiceImpl) { s.now = now }
}

// WithLocation sets the location used to bucket messages by month.
func WithLocation(loc *time.Location) Option {
	return func(s *contactServiceImpl) { s.loc = loc }
}

// NewContactService creates a ContactService backed by the given repository and notifier.
func NewContactService(repo repository.ContactRepository, notifier Notifier, opts ...Option) ContactService {
	s := &contactServiceImpl{
		repo:     repo,
		notifier: notifier,
		ids:      &IDGenerator{},
		now:      time.Now,
		loc:      time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates, persists, then notifies. Persistence always completes
// before the first notification is attempted.
func (s *contactServiceImpl) Submit(ctx context.Context, in model.SubmitInput) (*model.Receipt, error) {
	in = normalize(in)
	if err := Validate(in); err != nil {
		metrics.Submissions.WithLabelValues("invalid").Inc()
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Millisecond)
	phone := in.Phone
	if phone == "" {
		phone = model.PhoneNotProvided
	}
	msg := &model.ContactMessage{
		ID:         s.ids.Next(now),
		Timestamp:  now,
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Email:      in.Email,
		Phone:      phone,
		Subject:    in.Subject,
		Message:    in.Message,
		Newsletter: in.Newsletter,
		Status:     model.StatusNew,
		Read:       false,
	}

	if err := s.repo.Put(ctx, msg); err != nil {
		metrics.Submissions.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("save contact message: %w", err)
	}
	metrics.Submissions.WithLabelValues("accepted").Inc()
	slog.Info("contact message saved", "message_id", msg.ID, "subject", msg.Subject)

	// The record is durable now; a client disconnect must not cancel the mails.
	notifyCtx := context.WithoutCancel(ctx)
	_ = s.notifier.NotifyConfirmation(notifyCtx, msg)
	_ = s.notifier.NotifyAdmin(notifyCtx, msg)

	return &model.Receipt{ID: msg.ID, Timestamp: msg.Timestamp}, nil
}

// List returns every message sorted by timestamp, newest first.
func (s *contactServiceImpl) List(ctx context.Context) ([]*model.ContactMessage, error) {
	messages, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	sort.SliceStable(messages, func(i, j int) bool {
		a, b := messages[i], messages[j]
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.ID > b.ID
	})
	metrics.StoredMessages.Set(float64(len(messages)))
	return messages, nil
}

// MarkRead sets Read and ReadAt and writes the record back; other fields are untouched.
func (s *contactServiceImpl) MarkRead(ctx context.Context, id int64) error {
	msg, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	readAt := s.now().UTC().Truncate(time.Millisecond)
	msg.Read = true
	msg.ReadAt = &readAt
	if err := s.repo.Put(ctx, msg); err != nil {
		return fmt.Errorf("update contact message %d: %w", id, err)
	}
	return nil
}

func (s *contactServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Stats recomputes every aggregate from the current store contents.
func (s *contactServiceImpl) Stats(ctx context.Context) (*model.Stats, error) {
	messages, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	metrics.StoredMessages.Set(float64(len(messages)))
	return ComputeStats(messages, s.loc), nil
}

// ComputeStats aggregates messages. Month keys are "month/year" with a 1-based
// month, taken from each timestamp in loc.
func ComputeStats(messages []*model.ContactMessage, loc *time.Location) *model.Stats {
	stats := &model.Stats{
		Total:     len(messages),
		BySubject: make(map[string]int),
		ByMonth:   make(map[string]int),
	}
	for _, m := range messages {
		if m.Read {
			stats.Read++
		} else {
			stats.Unread++
		}
		if m.Newsletter {
			stats.NewsletterSubscribers++
		}
		stats.BySubject[m.Subject]++
		ts := m.Timestamp.In(loc)
		stats.ByMonth[fmt.Sprintf("%d/%d", int(ts.Month()), ts.Year())]++
	}
	return stats
}
