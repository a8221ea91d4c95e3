package sqlite

import (
	"context"
	"fmt"
	"time"

	"formd/pkg/types"
)

// isoLayout matches the second-precision ISO-8601 strings the schema stores,
// without a timezone suffix. Times are interpreted in the server's location.
const isoLayout = "2006-01-02T15:04:05"

// InsertSubmission stores a submission and its attachment metadata in one
// transaction and returns the new row id.
func (s *Store) InsertSubmission(ctx context.Context, sub types.Submission) (int64, error) {
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin insert submission: %w", err)
	}

	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO contact_submissions (name, email, phone, subject, message, client_ip, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.Name, sub.Email, sub.Phone, sub.Subject, sub.Message, sub.ClientIP,
		sub.CreatedAt.Format(isoLayout),
	)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("submission id: %w", err)
	}

	for _, att := range sub.Attachments {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO contact_attachments (submission_id, filename, content_type, size_bytes)
			 VALUES (?, ?, ?, ?)`,
			id, att.Filename, att.ContentType, att.SizeBytes,
		); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert attachment %s: %w", att.Filename, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit submission: %w", err)
	}
	return id, nil
}

// ListSubmissions returns the most recent submissions, newest first, with
// attachment metadata attached.
func (s *Store) ListSubmissions(ctx context.Context, limit int) ([]types.Submission, error) {
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, name, email, phone, subject, message, client_ip, created_at
		 FROM contact_submissions
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []types.Submission
	for rows.Next() {
		var sub types.Submission
		var createdAt string
		if err := rows.Scan(&sub.ID, &sub.Name, &sub.Email, &sub.Phone, &sub.Subject, &sub.Message, &sub.ClientIP, &createdAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		sub.CreatedAt, _ = time.ParseInLocation(isoLayout, createdAt, time.Local)
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}

	for i := range subs {
		atts, err := s.listAttachments(ctx, subs[i].ID)
		if err != nil {
			return nil, err
		}
		subs[i].Attachments = atts
	}
	return subs, nil
}

func (s *Store) listAttachments(ctx context.Context, submissionID int64) ([]types.Attachment, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT id, filename, content_type, size_bytes
		 FROM contact_attachments
		 WHERE submission_id = ?
		 ORDER BY id`,
		submissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var atts []types.Attachment
	for rows.Next() {
		var att types.Attachment
		if err := rows.Scan(&att.ID, &att.Filename, &att.ContentType, &att.SizeBytes); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		atts = append(atts, att)
	}
	return atts, rows.Err()
}
