// Package reservation implements the LINE reservation conversation: a user
// types 予約, picks a slot with the datetime picker, enters a party size, and
// confirms. State between messages lives in the store keyed by LINE user id.
package reservation

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"formd/internal/notify"
	"formd/pkg/types"
)

// Store persists conversation state and confirmed reservations.
type Store interface {
	GetUserState(ctx context.Context, userID string) (string, []byte, bool, error)
	SetUserState(ctx context.Context, userID, state string, data []byte) error
	DeleteUserState(ctx context.Context, userID string) error
	InsertReservation(ctx context.Context, r types.Reservation) (int64, error)
	CountConfirmedAt(ctx context.Context, at time.Time) (int, error)
	ListConfirmedOn(ctx context.Context, day time.Time) ([]types.Reservation, error)
}

type Config struct {
	Store    Store
	Notifier notify.Publisher // nil drops notifications
	Settings Settings         // zero fields take defaults
	Log      *zerolog.Logger  // nil disables logging
	Now      func() time.Time // test hook, nil means time.Now
}

type Service struct {
	store Store
	pub   notify.Publisher
	set   Settings
	log   zerolog.Logger
	now   func() time.Time
}

func New(cfg Config) (*Service, error) {
	set := cfg.Settings.withDefaults()
	if err := set.Validate(); err != nil {
		return nil, err
	}
	pub := cfg.Notifier
	if pub == nil {
		pub = notify.Noop{}
	}
	log := zerolog.Nop()
	if cfg.Log != nil {
		log = *cfg.Log
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{store: cfg.Store, pub: pub, set: set, log: log, now: now}, nil
}

// Settings returns the effective booking rules.
func (s *Service) Settings() Settings { return s.set }

// ConfirmedOn lists confirmed reservations for the given day.
func (s *Service) ConfirmedOn(ctx context.Context, day time.Time) ([]types.Reservation, error) {
	return s.store.ListConfirmedOn(ctx, day)
}
