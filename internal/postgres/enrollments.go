package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"facegate/internal/model"
)

// EnrollmentRepository links students to classes.
type EnrollmentRepository struct {
	db *sql.DB
}

// Upsert creates an enrollment or reactivates an inactive one.
func (r *EnrollmentRepository) Upsert(ctx context.Context, studentID, classID string) (model.Enrollment, error) {
	e := model.Enrollment{
		ID:        uuid.NewString(),
		StudentID: studentID,
		ClassID:   classID,
		Status:    model.EnrollmentActive,
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO enrollments (id, student_id, class_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (student_id, class_id) DO UPDATE SET status = EXCLUDED.status
		RETURNING id, created_at
	`, e.ID, e.StudentID, e.ClassID, e.Status)
	if err := row.Scan(&e.ID, &e.CreatedAt); err != nil {
		return model.Enrollment{}, err
	}
	return e, nil
}

// Deactivate marks an enrollment inactive; the row is kept for history.
func (r *EnrollmentRepository) Deactivate(ctx context.Context, studentID, classID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE enrollments SET status = $3 WHERE student_id = $1 AND class_id = $2
	`, studentID, classID, model.EnrollmentInactive)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ActiveEnrollment returns the enrollment row for (student, class)
// regardless of status, or nil when none exists. The caller decides what
// an inactive row means.
func (r *EnrollmentRepository) ActiveEnrollment(ctx context.Context, studentID, classID string) (*model.Enrollment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, student_id, class_id, status, created_at
		FROM enrollments WHERE student_id = $1 AND class_id = $2
	`, studentID, classID)
	var e model.Enrollment
	if err := row.Scan(&e.ID, &e.StudentID, &e.ClassID, &e.Status, &e.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}
