// Package schedule decides whether a check-in instant falls inside a
// class's allowed window and classifies it as on-time or late.
package schedule

import (
	"time"

	"facegate/internal/model"
)

// DefaultEarlyAllowance is how long before the scheduled start a check-in
// is accepted.
const DefaultEarlyAllowance = 15 * time.Minute

// Checker evaluates recurring weekly class windows. The window is
// [start-EarlyAllowance, end]; check-ins after the class end are rejected
// outright.
type Checker struct {
	EarlyAllowance time.Duration
}

// NewChecker builds a checker, defaulting the early allowance.
func NewChecker(early time.Duration) Checker {
	if early <= 0 {
		early = DefaultEarlyAllowance
	}
	return Checker{EarlyAllowance: early}
}

// Classify returns the attendance status for a check-in at now, or ok=false
// when now is outside the class's window (wrong weekday, too early, or past
// the class end).
func (c Checker) Classify(class model.Class, now time.Time) (model.AttendanceStatus, bool) {
	if now.Weekday() != class.Weekday {
		return "", false
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := midnight.Add(time.Duration(class.StartMinute) * time.Minute)
	end := midnight.Add(time.Duration(class.EndMinute) * time.Minute)

	if now.Before(start.Add(-c.EarlyAllowance)) || now.After(end) {
		return "", false
	}

	lateAt := start.Add(time.Duration(class.LateThreshold) * time.Minute)
	if now.After(lateAt) {
		return model.StatusLate, true
	}
	return model.StatusPresent, true
}
