package checkin

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"facegate/internal/geo"
	"facegate/internal/match"
	"facegate/internal/model"
	"facegate/internal/schedule"
)

type fakeEnrollments struct {
	rows map[string]*model.Enrollment // key student|class
}

func (f *fakeEnrollments) ActiveEnrollment(_ context.Context, studentID, classID string) (*model.Enrollment, error) {
	return f.rows[studentID+"|"+classID], nil
}

type fakeProfiles struct {
	rows map[string]*model.FaceProfile
}

func (f *fakeProfiles) FaceProfile(_ context.Context, studentID string) (*model.FaceProfile, error) {
	return f.rows[studentID], nil
}

type fakeClasses struct {
	rows map[string]*model.Class
}

func (f *fakeClasses) ByID(_ context.Context, classID string) (*model.Class, error) {
	return f.rows[classID], nil
}

// fakeLedger mimics the storage unique index: Insert rejects a second
// record for the same (student, class, day) atomically.
type fakeLedger struct {
	mu   sync.Mutex
	rows map[string]model.AttendanceRecord
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[string]model.AttendanceRecord)}
}

func ledgerKey(studentID, classID, day string) string {
	return studentID + "|" + classID + "|" + day
}

func (f *fakeLedger) Existing(_ context.Context, studentID, classID, day string) (*model.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.rows[ledgerKey(studentID, classID, day)]; ok {
		return &rec, nil
	}
	return nil, nil
}

func (f *fakeLedger) Insert(_ context.Context, rec model.AttendanceRecord) (model.AttendanceRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := ledgerKey(rec.StudentID, rec.ClassID, rec.AttendedOn)
	if _, ok := f.rows[key]; ok {
		return model.AttendanceRecord{}, ErrDuplicateCheckIn
	}
	rec.ID = key
	f.rows[key] = rec
	return rec, nil
}

func fixedDescriptor() []float64 {
	d := make([]float64, 128)
	for i := range d {
		d[i] = 0.1
	}
	return d
}

// Monday 2026-08-24 09:10 UTC, ten minutes into the scheduled class.
func onTime() time.Time {
	return time.Date(2026, 8, 24, 9, 10, 0, 0, time.UTC)
}

type fixture struct {
	svc         *Service
	enrollments *fakeEnrollments
	profiles    *fakeProfiles
	classes     *fakeClasses
	ledger      *fakeLedger
}

func newFixture(now time.Time) *fixture {
	lat, lng := 52.52, 13.405
	f := &fixture{
		enrollments: &fakeEnrollments{rows: map[string]*model.Enrollment{
			"stu1|cls1": {ID: "enr1", StudentID: "stu1", ClassID: "cls1", Status: model.EnrollmentActive},
		}},
		profiles: &fakeProfiles{rows: map[string]*model.FaceProfile{
			"stu1": {StudentID: "stu1", Descriptor: fixedDescriptor(), Threshold: 0.8, Version: 1},
		}},
		classes: &fakeClasses{rows: map[string]*model.Class{
			"cls1": {
				ID:            "cls1",
				Weekday:       time.Monday,
				StartMinute:   9 * 60,
				EndMinute:     11 * 60,
				LateThreshold: 15,
				Room: model.Room{
					AllowedSSIDs: []string{"campus-a"},
					GPSLat:       &lat,
					GPSLng:       &lng,
					RadiusM:      50,
				},
			},
		}},
		ledger: newFakeLedger(),
	}
	f.svc = NewService(
		f.enrollments, f.profiles, f.classes, f.ledger,
		match.NewScorer(1.0),
		geo.Validator{},
		schedule.NewChecker(15*time.Minute),
		func() time.Time { return now },
		0.8,
	)
	return f
}

func validRequest() Request {
	ssid := "campus-a"
	return Request{
		StudentID:  "stu1",
		ClassID:    "cls1",
		Descriptor: fixedDescriptor(),
		WifiSSID:   &ssid,
		Device:     "test-device",
	}
}

func TestRecordAccepted(t *testing.T) {
	f := newFixture(onTime())
	rec, err := f.svc.Record(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if rec.Status != model.StatusPresent {
		t.Errorf("expected PRESENT, got %s", rec.Status)
	}
	if rec.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %v", rec.Confidence)
	}
	if rec.AttendedOn != "2026-08-24" {
		t.Errorf("unexpected attended_on %q", rec.AttendedOn)
	}
	if len(f.ledger.rows) != 1 {
		t.Errorf("expected one ledger row, got %d", len(f.ledger.rows))
	}
}

func TestRecordLate(t *testing.T) {
	f := newFixture(time.Date(2026, 8, 24, 9, 20, 0, 0, time.UTC))
	rec, err := f.svc.Record(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if rec.Status != model.StatusLate {
		t.Errorf("expected LATE at 09:20, got %s", rec.Status)
	}
}

func TestRecordNotEnrolled(t *testing.T) {
	f := newFixture(onTime())
	delete(f.enrollments.rows, "stu1|cls1")
	if _, err := f.svc.Record(context.Background(), validRequest()); !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("expected ErrNotEnrolled, got %v", err)
	}
	if len(f.ledger.rows) != 0 {
		t.Error("failed check-in must not write")
	}
}

func TestRecordInactiveEnrollment(t *testing.T) {
	f := newFixture(onTime())
	f.enrollments.rows["stu1|cls1"].Status = model.EnrollmentInactive
	if _, err := f.svc.Record(context.Background(), validRequest()); !errors.Is(err, ErrNotEnrolled) {
		t.Errorf("expected ErrNotEnrolled for inactive enrollment, got %v", err)
	}
}

func TestRecordProfileMissing(t *testing.T) {
	f := newFixture(onTime())
	delete(f.profiles.rows, "stu1")
	if _, err := f.svc.Record(context.Background(), validRequest()); !errors.Is(err, ErrFaceProfileMissing) {
		t.Errorf("expected ErrFaceProfileMissing, got %v", err)
	}
}

func TestRecordFaceMismatch(t *testing.T) {
	f := newFixture(onTime())
	req := validRequest()
	for i := range req.Descriptor {
		req.Descriptor[i] += 0.5
	}
	if _, err := f.svc.Record(context.Background(), req); !errors.Is(err, ErrFaceMismatch) {
		t.Errorf("expected ErrFaceMismatch, got %v", err)
	}
	if len(f.ledger.rows) != 0 {
		t.Error("rejected check-in must not write")
	}
}

func TestRecordDescriptorMismatch(t *testing.T) {
	f := newFixture(onTime())
	req := validRequest()
	req.Descriptor = req.Descriptor[:64]
	if _, err := f.svc.Record(context.Background(), req); !errors.Is(err, match.ErrDescriptorMismatch) {
		t.Errorf("expected ErrDescriptorMismatch, got %v", err)
	}
}

func TestRecordDuplicate(t *testing.T) {
	f := newFixture(onTime())
	if _, err := f.svc.Record(context.Background(), validRequest()); err != nil {
		t.Fatalf("first check-in failed: %v", err)
	}
	if _, err := f.svc.Record(context.Background(), validRequest()); !errors.Is(err, ErrDuplicateCheckIn) {
		t.Errorf("expected ErrDuplicateCheckIn, got %v", err)
	}
	if len(f.ledger.rows) != 1 {
		t.Errorf("expected exactly one ledger row, got %d", len(f.ledger.rows))
	}
}

func TestRecordLocationRejected(t *testing.T) {
	f := newFixture(onTime())
	req := validRequest()
	ssid := "home-network"
	req.WifiSSID = &ssid
	_, err := f.svc.Record(context.Background(), req)
	var locErr *LocationError
	if !errors.As(err, &locErr) {
		t.Fatalf("expected LocationError, got %v", err)
	}
	if locErr.Reason != "wifi not allowed" {
		t.Errorf("unexpected reason %q", locErr.Reason)
	}
}

func TestRecordOutsideWindow(t *testing.T) {
	f := newFixture(time.Date(2026, 8, 24, 11, 5, 0, 0, time.UTC))
	if _, err := f.svc.Record(context.Background(), validRequest()); !errors.Is(err, ErrOutsideWindow) {
		t.Errorf("expected ErrOutsideWindow at 11:05, got %v", err)
	}
}

func TestRecordUnknownClass(t *testing.T) {
	f := newFixture(onTime())
	f.enrollments.rows["stu1|cls2"] = &model.Enrollment{StudentID: "stu1", ClassID: "cls2", Status: model.EnrollmentActive}
	req := validRequest()
	req.ClassID = "cls2"
	if _, err := f.svc.Record(context.Background(), req); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("expected ErrClassNotFound, got %v", err)
	}
}

func TestRecordProfileThresholdFallback(t *testing.T) {
	f := newFixture(onTime())
	f.profiles.rows["stu1"].Threshold = 0 // unset; service default applies
	req := validRequest()
	req.Descriptor[0] += 0.25 // confidence 0.75, below the 0.8 default
	if _, err := f.svc.Record(context.Background(), req); !errors.Is(err, ErrFaceMismatch) {
		t.Errorf("expected ErrFaceMismatch under default threshold, got %v", err)
	}
}

// Two concurrent submissions for the same (student, class, day) must
// produce exactly one record; the loser observes the duplicate from the
// insert, not the earlier read.
func TestRecordConcurrentDuplicate(t *testing.T) {
	f := newFixture(onTime())

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.svc.Record(context.Background(), validRequest())
		}(i)
	}
	close(start)
	wg.Wait()

	var ok, dup int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrDuplicateCheckIn):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Errorf("expected exactly one accepted check-in, got %d", ok)
	}
	if dup != attempts-1 {
		t.Errorf("expected %d duplicates, got %d", attempts-1, dup)
	}
	if len(f.ledger.rows) != 1 {
		t.Errorf("expected one ledger row, got %d", len(f.ledger.rows))
	}
}

func TestIsUserFacing(t *testing.T) {
	facing := []error{
		ErrNotEnrolled, ErrFaceProfileMissing, ErrFaceMismatch,
		ErrDuplicateCheckIn, ErrOutsideWindow, ErrClassNotFound,
		&LocationError{Reason: "wifi not allowed"},
	}
	for _, err := range facing {
		if !IsUserFacing(err) {
			t.Errorf("%v should be user-facing", err)
		}
	}
	if IsUserFacing(errors.New("connection refused")) {
		t.Error("systemic errors are not user-facing")
	}
}
