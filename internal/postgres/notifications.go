package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"facegate/internal/model"
)

// NotificationRepository records check-in notifications dispatched by the
// worker.
type NotificationRepository struct {
	db *sql.DB
}

// Record writes one delivery row. Duplicate deliveries for the same
// attendance record are ignored so a replayed queue message stays
// idempotent.
func (r *NotificationRepository) Record(ctx context.Context, n model.Notification) (model.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.SentAt.IsZero() {
		n.SentAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, record_id, student_id, class_id, status, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (record_id) DO NOTHING
	`, n.ID, n.RecordID, n.StudentID, n.ClassID, n.Status, n.SentAt)
	if err != nil {
		return model.Notification{}, err
	}
	return n, nil
}

// ListByStudent returns a student's notification history, newest first.
func (r *NotificationRepository) ListByStudent(ctx context.Context, studentID string, limit int) ([]model.Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, record_id, student_id, class_id, status, sent_at
		FROM notifications WHERE student_id = $1
		ORDER BY sent_at DESC LIMIT $2
	`, studentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecordID, &n.StudentID, &n.ClassID, &n.Status, &n.SentAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
