// Package checkin implements the attendance admission decision: the
// per-request policy that accepts or rejects a check-in and assigns its
// status.
package checkin

import (
	"context"
	"fmt"
	"time"

	"facegate/internal/geo"
	"facegate/internal/match"
	"facegate/internal/model"
	"facegate/internal/schedule"
)

// EnrollmentStore resolves a student's enrollment in a class. A nil result
// with nil error means no enrollment row exists.
type EnrollmentStore interface {
	ActiveEnrollment(ctx context.Context, studentID, classID string) (*model.Enrollment, error)
}

// ProfileStore resolves the student's enrolled face profile; nil means the
// student never enrolled.
type ProfileStore interface {
	FaceProfile(ctx context.Context, studentID string) (*model.FaceProfile, error)
}

// ClassStore resolves a class and its room; nil means unknown class id.
type ClassStore interface {
	ByID(ctx context.Context, classID string) (*model.Class, error)
}

// Ledger is the attendance record store. Insert must enforce uniqueness on
// (student, class, day) atomically and return ErrDuplicateCheckIn on
// conflict; this — not the Existing read — is what closes the concurrent
// duplicate-submission race.
type Ledger interface {
	Existing(ctx context.Context, studentID, classID, day string) (*model.AttendanceRecord, error)
	Insert(ctx context.Context, rec model.AttendanceRecord) (model.AttendanceRecord, error)
}

// Clock supplies the current instant; injected so window logic is testable.
type Clock func() time.Time

// Request is one check-in attempt.
type Request struct {
	StudentID  string
	ClassID    string
	Descriptor []float64
	WifiSSID   *string
	GPSLat     *float64
	GPSLng     *float64
	Device     string
}

// Service orchestrates the admission decision.
type Service struct {
	enrollments EnrollmentStore
	profiles    ProfileStore
	classes     ClassStore
	ledger      Ledger
	scorer      match.Scorer
	locator     geo.Validator
	window      schedule.Checker
	now         Clock

	// DefaultThreshold applies when a profile carries no threshold of
	// its own.
	DefaultThreshold float64
}

// NewService wires the decision's collaborators. A nil clock defaults to
// time.Now.
func NewService(
	enrollments EnrollmentStore,
	profiles ProfileStore,
	classes ClassStore,
	ledger Ledger,
	scorer match.Scorer,
	locator geo.Validator,
	window schedule.Checker,
	now Clock,
	defaultThreshold float64,
) *Service {
	if now == nil {
		now = time.Now
	}
	if defaultThreshold <= 0 || defaultThreshold > 1 {
		defaultThreshold = 0.8
	}
	return &Service{
		enrollments:      enrollments,
		profiles:         profiles,
		classes:          classes,
		ledger:           ledger,
		scorer:           scorer,
		locator:          locator,
		window:           window,
		now:              now,
		DefaultThreshold: defaultThreshold,
	}
}

// Record runs the full admission decision for one request. Every step
// before the final insert is read-only; the first failing check aborts
// with its specific error. On success the created AttendanceRecord is
// returned.
func (s *Service) Record(ctx context.Context, req Request) (model.AttendanceRecord, error) {
	now := s.now().UTC()
	day := now.Format("2006-01-02")

	enr, err := s.enrollments.ActiveEnrollment(ctx, req.StudentID, req.ClassID)
	if err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("resolve enrollment: %w", err)
	}
	if enr == nil || enr.Status != model.EnrollmentActive {
		return model.AttendanceRecord{}, ErrNotEnrolled
	}

	profile, err := s.profiles.FaceProfile(ctx, req.StudentID)
	if err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("resolve face profile: %w", err)
	}
	if profile == nil {
		return model.AttendanceRecord{}, ErrFaceProfileMissing
	}

	confidence, err := s.scorer.Score(profile.Descriptor, req.Descriptor)
	if err != nil {
		return model.AttendanceRecord{}, err
	}
	threshold := profile.Threshold
	if threshold <= 0 || threshold > 1 {
		threshold = s.DefaultThreshold
	}
	if confidence < threshold {
		return model.AttendanceRecord{}, fmt.Errorf("%w: confidence %.3f below threshold %.3f", ErrFaceMismatch, confidence, threshold)
	}

	// Fast path only; the insert's unique key is the real duplicate guard.
	if existing, err := s.ledger.Existing(ctx, req.StudentID, req.ClassID, day); err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("duplicate lookup: %w", err)
	} else if existing != nil {
		return model.AttendanceRecord{}, ErrDuplicateCheckIn
	}

	class, err := s.classes.ByID(ctx, req.ClassID)
	if err != nil {
		return model.AttendanceRecord{}, fmt.Errorf("resolve class: %w", err)
	}
	if class == nil {
		return model.AttendanceRecord{}, ErrClassNotFound
	}

	if res := s.locator.Validate(class.Room, geo.Evidence{WifiSSID: req.WifiSSID, GPSLat: req.GPSLat, GPSLng: req.GPSLng}); !res.OK {
		return model.AttendanceRecord{}, &LocationError{Reason: res.Reason}
	}

	status, ok := s.window.Classify(*class, now)
	if !ok {
		return model.AttendanceRecord{}, ErrOutsideWindow
	}

	rec := model.AttendanceRecord{
		StudentID:   req.StudentID,
		ClassID:     req.ClassID,
		AttendedOn:  day,
		Status:      status,
		CheckedInAt: now,
		Confidence:  confidence,
		WifiSSID:    req.WifiSSID,
		GPSLat:      req.GPSLat,
		GPSLng:      req.GPSLng,
		Device:      req.Device,
	}
	return s.ledger.Insert(ctx, rec)
}
