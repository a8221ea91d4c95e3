package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"formd/pkg/types"
)

// GetUserState loads a user's conversation state and its JSON payload.
// The second return is false when the user has no stored state.
func (s *Store) GetUserState(ctx context.Context, userID string) (string, []byte, bool, error) {
	if s == nil || s.sqlDB == nil {
		return "", nil, false, fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", nil, false, fmt.Errorf("user id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT state, data FROM user_states WHERE user_id = ?`,
		userID,
	)
	var state, data string
	if err := row.Scan(&state, &data); err != nil {
		if err == sql.ErrNoRows {
			return "", nil, false, nil
		}
		return "", nil, false, fmt.Errorf("get user state: %w", err)
	}
	return state, []byte(data), true, nil
}

// SetUserState upserts a user's conversation state and JSON payload.
func (s *Store) SetUserState(ctx context.Context, userID, state string, data []byte) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return fmt.Errorf("user id is required")
	}
	if len(data) == 0 {
		data = []byte("{}")
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO user_states (user_id, state, data) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET state = excluded.state, data = excluded.data`,
		userID, state, string(data),
	)
	if err != nil {
		return fmt.Errorf("set user state: %w", err)
	}
	return nil
}

// DeleteUserState removes a user's conversation state. Missing rows are fine.
func (s *Store) DeleteUserState(ctx context.Context, userID string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM user_states WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete user state: %w", err)
	}
	return nil
}

// InsertReservation stores a reservation row and returns its id.
func (s *Store) InsertReservation(ctx context.Context, r types.Reservation) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	res, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO reservations (user_id, reservation_datetime, num_people, status, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		r.UserID,
		r.ReservedAt.Format(isoLayout),
		r.NumPeople,
		r.Status,
		r.CreatedAt.Format(isoLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("insert reservation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reservation id: %w", err)
	}
	return id, nil
}

// CountConfirmedAt counts confirmed reservations for the exact slot datetime.
func (s *Store) CountConfirmedAt(ctx context.Context, at time.Time) (int, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE reservation_datetime = ? AND status = 'confirmed'`,
		at.Format(isoLayout),
	)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count reservations: %w", err)
	}
	return n, nil
}

// ListConfirmedOn returns confirmed reservations whose slot falls on the given
// day, earliest first.
func (s *Store) ListConfirmedOn(ctx context.Context, day time.Time) ([]types.Reservation, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	prefix := day.Format("2006-01-02") + "%"
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, user_id, reservation_datetime, num_people, status, created_at
		 FROM reservations
		 WHERE reservation_datetime LIKE ? AND status = 'confirmed'
		 ORDER BY reservation_datetime`,
		prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	var out []types.Reservation
	for rows.Next() {
		var r types.Reservation
		var reservedAt, createdAt string
		if err := rows.Scan(&r.ID, &r.UserID, &reservedAt, &r.NumPeople, &r.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		r.ReservedAt, _ = time.ParseInLocation(isoLayout, reservedAt, time.Local)
		r.CreatedAt, _ = time.ParseInLocation(isoLayout, createdAt, time.Local)
		out = append(out, r)
	}
	return out, rows.Err()
}
