package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"facegate/internal/model"
)

// StudentRepository persists student accounts.
type StudentRepository struct {
	db *sql.DB
}

// ErrEmailTaken is returned when registering an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// Create inserts a new pending account and returns it.
func (r *StudentRepository) Create(ctx context.Context, email, name, passwordHash, role string) (model.Student, error) {
	s := model.Student{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       model.AccountPending,
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO students (id, email, name, password_hash, role, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, s.ID, s.Email, s.Name, s.PasswordHash, s.Role, s.Status)
	if err := row.Scan(&s.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return model.Student{}, ErrEmailTaken
		}
		return model.Student{}, err
	}
	return s, nil
}

// ByEmail returns the account for email, or nil when none exists.
func (r *StudentRepository) ByEmail(ctx context.Context, email string) (*model.Student, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role, status, created_at
		FROM students WHERE email = $1
	`, email))
}

// ByID returns the account for id, or nil when none exists.
func (r *StudentRepository) ByID(ctx context.Context, id string) (*model.Student, error) {
	return r.scanOne(r.db.QueryRowContext(ctx, `
		SELECT id, email, name, password_hash, role, status, created_at
		FROM students WHERE id = $1
	`, id))
}

// Approve flips a pending account to approved. Approving an already
// approved account is a no-op.
func (r *StudentRepository) Approve(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE students SET status = $2 WHERE id = $1
	`, id, model.AccountApproved)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *StudentRepository) scanOne(row *sql.Row) (*model.Student, error) {
	var s model.Student
	if err := row.Scan(&s.ID, &s.Email, &s.Name, &s.PasswordHash, &s.Role, &s.Status, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
