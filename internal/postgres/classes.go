package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"facegate/internal/model"
)

// ClassRepository persists classes together with their room. The room's
// SSID allow-list is stored as a JSON array column.
type ClassRepository struct {
	db *sql.DB
}

// ErrInvalidSchedule is returned when end time is not after start time.
var ErrInvalidSchedule = errors.New("class end must be after start")

// Create inserts a class and its room.
func (r *ClassRepository) Create(ctx context.Context, c model.Class) (model.Class, error) {
	if c.EndMinute <= c.StartMinute {
		return model.Class{}, ErrInvalidSchedule
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Room.ID == "" {
		c.Room.ID = uuid.NewString()
	}
	ssids, err := json.Marshal(c.Room.AllowedSSIDs)
	if err != nil {
		return model.Class{}, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Class{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO rooms (id, name, allowed_ssids, gps_lat, gps_lng, radius_m)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, c.Room.ID, c.Room.Name, ssids, c.Room.GPSLat, c.Room.GPSLng, c.Room.RadiusM); err != nil {
		return model.Class{}, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO classes (id, name, lecturer_id, room_id, weekday, start_minute, end_minute, late_threshold)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, c.ID, c.Name, c.LecturerID, c.Room.ID, int(c.Weekday), c.StartMinute, c.EndMinute, c.LateThreshold)
	if err := row.Scan(&c.CreatedAt); err != nil {
		return model.Class{}, err
	}
	return c, tx.Commit()
}

// ByID returns a class with its room, or nil when unknown.
func (r *ClassRepository) ByID(ctx context.Context, id string) (*model.Class, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT c.id, c.name, c.lecturer_id, c.weekday, c.start_minute, c.end_minute, c.late_threshold, c.created_at,
		       r.id, r.name, r.allowed_ssids, r.gps_lat, r.gps_lng, r.radius_m
		FROM classes c JOIN rooms r ON r.id = c.room_id
		WHERE c.id = $1
	`, id)
	c, err := scanClass(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// List returns all classes ordered by creation time.
func (r *ClassRepository) List(ctx context.Context) ([]model.Class, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.lecturer_id, c.weekday, c.start_minute, c.end_minute, c.late_threshold, c.created_at,
		       r.id, r.name, r.allowed_ssids, r.gps_lat, r.gps_lng, r.radius_m
		FROM classes c JOIN rooms r ON r.id = c.room_id
		ORDER BY c.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClass(row rowScanner) (*model.Class, error) {
	var (
		c       model.Class
		weekday int
		ssids   []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &c.LecturerID, &weekday, &c.StartMinute, &c.EndMinute, &c.LateThreshold, &c.CreatedAt,
		&c.Room.ID, &c.Room.Name, &ssids, &c.Room.GPSLat, &c.Room.GPSLng, &c.Room.RadiusM); err != nil {
		return nil, err
	}
	c.Weekday = time.Weekday(weekday)
	if len(ssids) > 0 {
		if err := json.Unmarshal(ssids, &c.Room.AllowedSSIDs); err != nil {
			return nil, err
		}
	}
	return &c, nil
}
