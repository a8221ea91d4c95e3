package reservation

import (
	"fmt"
	"time"
)

// Settings holds the store's booking rules. Zero fields fall back to the
// defaults: open 10:00 to 22:00, 30 minute slots, two confirmed reservations
// per slot, bookable from 30 minutes out, parties of 1 to 10.
type Settings struct {
	OpenTime    string        // "HH:MM", inclusive
	CloseTime   string        // "HH:MM", exclusive
	SlotMinutes int           // reservation grid
	Capacity    int           // confirmed reservations per slot
	MinLead     time.Duration // earliest bookable offset from now
	MinPeople   int
	MaxPeople   int
}

func DefaultSettings() Settings {
	return Settings{
		OpenTime:    "10:00",
		CloseTime:   "22:00",
		SlotMinutes: 30,
		Capacity:    2,
		MinLead:     30 * time.Minute,
		MinPeople:   1,
		MaxPeople:   10,
	}
}

func (s Settings) withDefaults() Settings {
	def := DefaultSettings()
	if s.OpenTime == "" {
		s.OpenTime = def.OpenTime
	}
	if s.CloseTime == "" {
		s.CloseTime = def.CloseTime
	}
	if s.SlotMinutes == 0 {
		s.SlotMinutes = def.SlotMinutes
	}
	if s.Capacity == 0 {
		s.Capacity = def.Capacity
	}
	if s.MinLead == 0 {
		s.MinLead = def.MinLead
	}
	if s.MinPeople == 0 {
		s.MinPeople = def.MinPeople
	}
	if s.MaxPeople == 0 {
		s.MaxPeople = def.MaxPeople
	}
	return s
}

// Validate checks that the settings are internally consistent.
func (s Settings) Validate() error {
	open, err := parseClock(s.OpenTime)
	if err != nil {
		return fmt.Errorf("open time: %w", err)
	}
	closing, err := parseClock(s.CloseTime)
	if err != nil {
		return fmt.Errorf("close time: %w", err)
	}
	if closing <= open {
		return fmt.Errorf("close time %s is not after open time %s", s.CloseTime, s.OpenTime)
	}
	if s.SlotMinutes <= 0 || s.SlotMinutes > 60 {
		return fmt.Errorf("slot minutes must be in 1..60, got %d", s.SlotMinutes)
	}
	if s.Capacity <= 0 {
		return fmt.Errorf("slot capacity must be positive, got %d", s.Capacity)
	}
	if s.MinLead < 0 {
		return fmt.Errorf("minimum lead must not be negative, got %s", s.MinLead)
	}
	if s.MinPeople < 1 || s.MaxPeople < s.MinPeople {
		return fmt.Errorf("party size range %d..%d is invalid", s.MinPeople, s.MaxPeople)
	}
	return nil
}

// parseClock converts "HH:MM" to minutes since midnight.
func parseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", v, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// withinHours reports whether t falls inside opening hours. Closing time is
// exclusive, so the slot starting exactly at closing is rejected.
func (s Settings) withinHours(t time.Time) bool {
	open, err1 := parseClock(s.OpenTime)
	closing, err2 := parseClock(s.CloseTime)
	if err1 != nil || err2 != nil {
		return false
	}
	m := t.Hour()*60 + t.Minute()
	return m >= open && m < closing
}

// onGrid reports whether t sits on the reservation interval.
func (s Settings) onGrid(t time.Time) bool {
	return t.Minute()%s.SlotMinutes == 0
}
