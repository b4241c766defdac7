package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"facegate/internal/model"
)

// ProfileRepository persists enrolled face profiles. The descriptor vector
// is stored as a JSON array column; one profile exists per student.
type ProfileRepository struct {
	db *sql.DB
}

// Enroll creates the student's profile or replaces its descriptor,
// bumping the version counter on re-enrollment.
func (r *ProfileRepository) Enroll(ctx context.Context, studentID string, descriptor []float64, quality, threshold float64) (model.FaceProfile, error) {
	desc, err := json.Marshal(descriptor)
	if err != nil {
		return model.FaceProfile{}, err
	}
	p := model.FaceProfile{
		StudentID:  studentID,
		Descriptor: descriptor,
		Quality:    quality,
		Threshold:  threshold,
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO face_profiles (student_id, descriptor, quality, threshold, version, enrolled_at)
		VALUES ($1, $2, $3, $4, 1, NOW())
		ON CONFLICT (student_id) DO UPDATE SET
			descriptor = EXCLUDED.descriptor,
			quality = EXCLUDED.quality,
			threshold = EXCLUDED.threshold,
			version = face_profiles.version + 1,
			enrolled_at = NOW()
		RETURNING version, enrolled_at
	`, studentID, desc, quality, threshold)
	if err := row.Scan(&p.Version, &p.EnrolledAt); err != nil {
		return model.FaceProfile{}, err
	}
	return p, nil
}

// FaceProfile returns the student's profile, or nil when not enrolled.
func (r *ProfileRepository) FaceProfile(ctx context.Context, studentID string) (*model.FaceProfile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT student_id, descriptor, quality, threshold, version, enrolled_at
		FROM face_profiles WHERE student_id = $1
	`, studentID)
	var (
		p    model.FaceProfile
		desc []byte
	)
	if err := row.Scan(&p.StudentID, &desc, &p.Quality, &p.Threshold, &p.Version, &p.EnrolledAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(desc, &p.Descriptor); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetThreshold overrides a profile's match threshold (admin operation).
func (r *ProfileRepository) SetThreshold(ctx context.Context, studentID string, threshold float64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE face_profiles SET threshold = $2 WHERE student_id = $1
	`, studentID, threshold)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
