// Package postgres implements the application's repositories over
// database/sql with the pgx driver.
package postgres

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique-constraint
// rejection.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Repositories bundles every store over one connection pool.
type Repositories struct {
	Students      *StudentRepository
	Classes       *ClassRepository
	Enrollments   *EnrollmentRepository
	Profiles      *ProfileRepository
	Attendance    *AttendanceRepository
	Notifications *NotificationRepository
}

// New builds all repositories on db.
func New(db *sql.DB) *Repositories {
	return &Repositories{
		Students:      &StudentRepository{db: db},
		Classes:       &ClassRepository{db: db},
		Enrollments:   &EnrollmentRepository{db: db},
		Profiles:      &ProfileRepository{db: db},
		Attendance:    &AttendanceRepository{db: db},
		Notifications: &NotificationRepository{db: db},
	}
}
