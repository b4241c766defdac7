package model

import "time"

// AttendanceStatus classifies a recorded check-in.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "PRESENT"
	StatusLate    AttendanceStatus = "LATE"
	// StatusAbsent is assigned only by administrative correction, never by
	// the check-in path.
	StatusAbsent AttendanceStatus = "ABSENT"
)

// AccountStatus gates what a student account may do before approval.
type AccountStatus string

const (
	AccountPending  AccountStatus = "PENDING"
	AccountApproved AccountStatus = "APPROVED"
)

// EnrollmentStatus marks whether a class enrollment counts for attendance.
type EnrollmentStatus string

const (
	EnrollmentActive   EnrollmentStatus = "ACTIVE"
	EnrollmentInactive EnrollmentStatus = "INACTIVE"
)

// Student is a registered account.
type Student struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	PasswordHash string        `json:"-"`
	Role         string        `json:"role"`
	Status       AccountStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
}

// FaceProfile is a student's enrolled biometric descriptor. The descriptor
// is an opaque fixed-length vector produced by an external feature
// extractor; Version increments on every re-enrollment.
type FaceProfile struct {
	StudentID  string    `json:"student_id"`
	Descriptor []float64 `json:"descriptor"`
	Quality    float64   `json:"quality"`
	Threshold  float64   `json:"threshold"`
	Version    int       `json:"version"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// Room is the physical location a class meets in. Location evidence on a
// check-in is validated against its SSID set and geofence.
type Room struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	AllowedSSIDs []string `json:"allowed_ssids"`
	GPSLat       *float64 `json:"gps_lat,omitempty"`
	GPSLng       *float64 `json:"gps_lng,omitempty"`
	RadiusM      float64  `json:"radius_m"`
}

// Class is a weekly recurring scheduled session. StartMinute and EndMinute
// are minutes since midnight in the class's local day; EndMinute > StartMinute.
type Class struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	LecturerID    string       `json:"lecturer_id"`
	Room          Room         `json:"room"`
	Weekday       time.Weekday `json:"weekday"`
	StartMinute   int          `json:"start_minute"`
	EndMinute     int          `json:"end_minute"`
	LateThreshold int          `json:"late_threshold_minutes"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Enrollment links a student to a class.
type Enrollment struct {
	ID        string           `json:"id"`
	StudentID string           `json:"student_id"`
	ClassID   string           `json:"class_id"`
	Status    EnrollmentStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

// AttendanceRecord is the single durable outcome of an admitted check-in.
// Exactly one exists per (student, class, calendar day).
type AttendanceRecord struct {
	ID          string           `json:"id"`
	StudentID   string           `json:"student_id"`
	ClassID     string           `json:"class_id"`
	AttendedOn  string           `json:"attended_on"` // YYYY-MM-DD
	Status      AttendanceStatus `json:"status"`
	CheckedInAt time.Time        `json:"checked_in_at"`
	Confidence  float64          `json:"confidence"`
	WifiSSID    *string          `json:"wifi_ssid,omitempty"`
	GPSLat      *float64         `json:"gps_lat,omitempty"`
	GPSLng      *float64         `json:"gps_lng,omitempty"`
	Device      string           `json:"device,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Notification records a dispatched check-in notification, written by the
// worker after it consumes a checkin.recorded message.
type Notification struct {
	ID        string    `json:"id"`
	RecordID  string    `json:"record_id"`
	StudentID string    `json:"student_id"`
	ClassID   string    `json:"class_id"`
	Status    string    `json:"status"`
	SentAt    time.Time `json:"sent_at"`
}
