package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"facegate/internal/checkin"
	"facegate/internal/match"
)

func TestCheckInFailureMapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		outcome string
	}{
		{checkin.ErrNotEnrolled, http.StatusForbidden, "not_enrolled"},
		{checkin.ErrDuplicateCheckIn, http.StatusConflict, "duplicate"},
		{checkin.ErrClassNotFound, http.StatusNotFound, "class_not_found"},
		{checkin.ErrFaceProfileMissing, http.StatusBadRequest, "face_profile_missing"},
		{checkin.ErrFaceMismatch, http.StatusBadRequest, "face_mismatch"},
		{checkin.ErrOutsideWindow, http.StatusBadRequest, "outside_window"},
		{match.ErrDescriptorMismatch, http.StatusBadRequest, "descriptor_mismatch"},
		{&checkin.LocationError{Reason: "too far from room"}, http.StatusBadRequest, "location_rejected"},
		{errors.New("dial tcp: connection refused"), http.StatusInternalServerError, "internal"},
	}
	for _, tc := range cases {
		status, outcome := checkInFailure(tc.err)
		if status != tc.status || outcome != tc.outcome {
			t.Errorf("%v: expected (%d, %s), got (%d, %s)", tc.err, tc.status, tc.outcome, status, outcome)
		}
	}
}

func TestCheckInFailureWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: confidence 0.512 below threshold 0.800", checkin.ErrFaceMismatch)
	status, outcome := checkInFailure(wrapped)
	if status != http.StatusBadRequest || outcome != "face_mismatch" {
		t.Errorf("wrapped mismatch mapped to (%d, %s)", status, outcome)
	}
}
