// Package contact accepts and lists contact form submissions.
package contact

import (
	"context"
	"strings"

	"formd/internal/notify"
	"formd/pkg/types"
)

// Store persists accepted submissions.
type Store interface {
	InsertSubmission(ctx context.Context, sub types.Submission) (int64, error)
	ListSubmissions(ctx context.Context, limit int) ([]types.Submission, error)
}

type Service struct {
	store Store
	pub   notify.Publisher
}

// NewService builds the contact service. pub may be nil, in which case
// notifications are dropped.
func NewService(store Store, pub notify.Publisher) *Service {
	if pub == nil {
		pub = notify.Noop{}
	}
	return &Service{store: store, pub: pub}
}

// Accept validates and persists one submission, then queues an owner
// notification. It returns the stored submission id.
func (s *Service) Accept(ctx context.Context, sub types.Submission) (int64, error) {
	normalize(&sub)
	if err := validate(sub); err != nil {
		return 0, err
	}

	id, err := s.store.InsertSubmission(ctx, sub)
	if err != nil {
		return 0, err
	}

	s.pub.Publish(notify.Event{
		Kind:  "contact",
		Title: "お問い合わせを受け付けました",
		Body:  sub.Name + " <" + sub.Email + "> " + excerpt(sub.Message, 80),
	})
	return id, nil
}

// Recent returns the newest submissions, at most limit of them.
func (s *Service) Recent(ctx context.Context, limit int) ([]types.Submission, error) {
	return s.store.ListSubmissions(ctx, limit)
}

func normalize(sub *types.Submission) {
	sub.Name = strings.TrimSpace(sub.Name)
	sub.Email = strings.TrimSpace(sub.Email)
	sub.Phone = strings.TrimSpace(sub.Phone)
	sub.Subject = strings.TrimSpace(sub.Subject)
	sub.Message = strings.TrimSpace(sub.Message)
}

func validate(sub types.Submission) error {
	if sub.Name == "" {
		return ErrInvalidSubmission("name is required")
	}
	if sub.Email == "" {
		return ErrInvalidSubmission("email is required")
	}
	if !strings.Contains(sub.Email, "@") {
		return ErrInvalidSubmission("invalid email address")
	}
	if sub.Message == "" {
		return ErrInvalidSubmission("message is required")
	}
	return nil
}

func excerpt(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
