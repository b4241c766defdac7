package schedule

import (
	"testing"
	"time"

	"facegate/internal/model"
)

// mondayClass runs Mondays 09:00-11:00 with a 15 minute late threshold.
func mondayClass() model.Class {
	return model.Class{
		Weekday:       time.Monday,
		StartMinute:   9 * 60,
		EndMinute:     11 * 60,
		LateThreshold: 15,
	}
}

// 2026-08-24 is a Monday.
func monday(hour, min int) time.Time {
	return time.Date(2026, 8, 24, hour, min, 0, 0, time.UTC)
}

func TestClassifyWindow(t *testing.T) {
	c := NewChecker(15 * time.Minute)
	class := mondayClass()

	cases := []struct {
		name   string
		now    time.Time
		status model.AttendanceStatus
		ok     bool
	}{
		{"on time", monday(9, 10), model.StatusPresent, true},
		{"late", monday(9, 20), model.StatusLate, true},
		{"after end", monday(11, 5), "", false},
		{"early allowance", monday(8, 50), model.StatusPresent, true},
		{"too early", monday(8, 40), "", false},
		{"exactly at start", monday(9, 0), model.StatusPresent, true},
		{"exactly at late threshold", monday(9, 15), model.StatusPresent, true},
		{"exactly at end", monday(11, 0), model.StatusLate, true},
	}
	for _, tc := range cases {
		status, ok := c.Classify(class, tc.now)
		if ok != tc.ok {
			t.Errorf("%s: expected ok=%v, got %v", tc.name, tc.ok, ok)
			continue
		}
		if ok && status != tc.status {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.status, status)
		}
	}
}

func TestClassifyWrongWeekday(t *testing.T) {
	c := NewChecker(15 * time.Minute)
	tuesday := monday(9, 30).AddDate(0, 0, 1)
	if _, ok := c.Classify(mondayClass(), tuesday); ok {
		t.Error("check-in on the wrong weekday should be rejected")
	}
}

func TestNewCheckerDefaultsAllowance(t *testing.T) {
	c := NewChecker(0)
	if c.EarlyAllowance != DefaultEarlyAllowance {
		t.Errorf("expected default allowance %v, got %v", DefaultEarlyAllowance, c.EarlyAllowance)
	}
	// 08:50 still passes under the 15 minute default.
	if _, ok := c.Classify(mondayClass(), monday(8, 50)); !ok {
		t.Error("08:50 should be inside the default early allowance")
	}
}
