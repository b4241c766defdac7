package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"facegate/internal/checkin"
	"facegate/internal/model"
)

// AttendanceRepository is the attendance ledger. A unique index on
// (student_id, class_id, attended_on) enforces the one-record-per-day
// invariant; Insert maps its violation to ErrDuplicateCheckIn so a
// concurrent duplicate surfaces from the write, not the earlier read.
type AttendanceRepository struct {
	db *sql.DB
}

// Existing returns today's record for (student, class), or nil.
func (r *AttendanceRepository) Existing(ctx context.Context, studentID, classID, day string) (*model.AttendanceRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, class_id, attended_on::text, status, checked_in_at, confidence, wifi_ssid, gps_lat, gps_lng, device, created_at
		FROM attendance_records
		WHERE student_id = $1 AND class_id = $2 AND attended_on = $3
	`, studentID, classID, day)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Insert writes a new record, relying on the unique key for the duplicate
// guard.
func (r *AttendanceRepository) Insert(ctx context.Context, rec model.AttendanceRecord) (model.AttendanceRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO attendance_records (id, student_id, class_id, attended_on, status, checked_in_at, confidence, wifi_ssid, gps_lat, gps_lng, device)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`, rec.ID, rec.StudentID, rec.ClassID, rec.AttendedOn, rec.Status, rec.CheckedInAt, rec.Confidence, rec.WifiSSID, rec.GPSLat, rec.GPSLng, rec.Device)
	if err := row.Scan(&rec.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return model.AttendanceRecord{}, checkin.ErrDuplicateCheckIn
		}
		return model.AttendanceRecord{}, fmt.Errorf("insert attendance: %w", err)
	}
	return rec, nil
}

// ByID returns a single record.
func (r *AttendanceRepository) ByID(ctx context.Context, id string) (*model.AttendanceRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, class_id, attended_on::text, status, checked_in_at, confidence, wifi_ssid, gps_lat, gps_lng, device, created_at
		FROM attendance_records WHERE id = $1
	`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// ListByStudent returns a student's records, newest first, optionally
// filtered by class.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID, classID string, limit, offset int) ([]model.AttendanceRecord, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT id, student_id, class_id, attended_on::text, status, checked_in_at, confidence, wifi_ssid, gps_lat, gps_lng, device, created_at
		FROM attendance_records WHERE student_id = $1`
	args := []any{studentID}
	if classID != "" {
		query += ` AND class_id = $2`
		args = append(args, classID)
	}
	query += fmt.Sprintf(` ORDER BY checked_in_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(ctx, query, args...)
}

// ListByClass returns all records for a class on a given day (empty day
// means all days), newest first.
func (r *AttendanceRepository) ListByClass(ctx context.Context, classID, day string, limit, offset int) ([]model.AttendanceRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT id, student_id, class_id, attended_on::text, status, checked_in_at, confidence, wifi_ssid, gps_lat, gps_lng, device, created_at
		FROM attendance_records WHERE class_id = $1`
	args := []any{classID}
	if day != "" {
		query += ` AND attended_on = $2`
		args = append(args, day)
	}
	query += fmt.Sprintf(` ORDER BY checked_in_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.list(ctx, query, args...)
}

func (r *AttendanceRepository) list(ctx context.Context, query string, args ...any) ([]model.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.AttendanceRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func scanRecord(row rowScanner) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	if err := row.Scan(&rec.ID, &rec.StudentID, &rec.ClassID, &rec.AttendedOn, &rec.Status, &rec.CheckedInAt,
		&rec.Confidence, &rec.WifiSSID, &rec.GPSLat, &rec.GPSLng, &rec.Device, &rec.CreatedAt); err != nil {
		return nil, err
	}
	return &rec, nil
}
