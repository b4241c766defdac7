package checkin

import (
	"errors"
	"fmt"
)

// The admission decision's failure taxonomy. Every one of these is a
// legitimate "no" answer to the caller, not a system fault.
var (
	ErrNotEnrolled        = errors.New("not enrolled in class")
	ErrFaceProfileMissing = errors.New("no enrolled face profile")
	ErrFaceMismatch       = errors.New("face does not match enrolled profile")
	ErrDuplicateCheckIn   = errors.New("already checked in today")
	ErrOutsideWindow      = errors.New("outside check-in window")
	ErrClassNotFound      = errors.New("class not found")
)

// LocationError carries the validator's rejection reason.
type LocationError struct {
	Reason string
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("location rejected: %s", e.Reason)
}

// IsUserFacing reports whether err belongs to the admission taxonomy, as
// opposed to a storage or collaborator failure.
func IsUserFacing(err error) bool {
	var locErr *LocationError
	return errors.Is(err, ErrNotEnrolled) ||
		errors.Is(err, ErrFaceProfileMissing) ||
		errors.Is(err, ErrFaceMismatch) ||
		errors.Is(err, ErrDuplicateCheckIn) ||
		errors.Is(err, ErrOutsideWindow) ||
		errors.Is(err, ErrClassNotFound) ||
		errors.As(err, &locErr)
}
