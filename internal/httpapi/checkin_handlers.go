package httpapi

import (
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"facegate/internal/checkin"
	"facegate/internal/match"
	"facegate/internal/metrics"
	"facegate/internal/model"
	"facegate/internal/queue"
)

func isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }

func (a *API) enrollFace(c *gin.Context) {
	claims, ok := claimed(c)
	if !ok {
		return
	}
	if _, ok := a.requireApproved(c, claims.Subject); !ok {
		return
	}

	var req struct {
		Descriptor []float64 `json:"descriptor" binding:"required"`
		Quality    float64   `json:"quality"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Descriptor) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "descriptor required"})
		return
	}
	if req.Quality < 0 || req.Quality > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quality must be in [0,1]"})
		return
	}

	profile, err := a.Repos.Profiles.Enroll(c.Request.Context(), claims.Subject, req.Descriptor, req.Quality, a.Cfg.FaceMatchThreshold)
	if err != nil {
		internalError(c, "face enroll", err)
		return
	}

	kind := "initial"
	if profile.Version > 1 {
		kind = "re-enroll"
	}
	metrics.Enrollments.WithLabelValues(kind).Inc()

	c.JSON(http.StatusOK, gin.H{
		"student_id":  profile.StudentID,
		"version":     profile.Version,
		"threshold":   profile.Threshold,
		"enrolled_at": profile.EnrolledAt,
	})
}

func (a *API) recordCheckIn(c *gin.Context) {
	claims, ok := claimed(c)
	if !ok {
		return
	}
	if _, ok := a.requireApproved(c, claims.Subject); !ok {
		return
	}

	var req struct {
		ClassID    string    `json:"class_id" binding:"required"`
		Descriptor []float64 `json:"descriptor" binding:"required"`
		WifiSSID   *string   `json:"wifi_ssid"`
		GPSLat     *float64  `json:"gps_lat"`
		GPSLng     *float64  `json:"gps_lng"`
		Device     string    `json:"device"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (req.GPSLat == nil) != (req.GPSLng == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gps_lat and gps_lng must be supplied together"})
		return
	}

	rec, err := a.CheckIns.Record(c.Request.Context(), checkin.Request{
		StudentID:  claims.Subject,
		ClassID:    req.ClassID,
		Descriptor: req.Descriptor,
		WifiSSID:   req.WifiSSID,
		GPSLat:     req.GPSLat,
		GPSLng:     req.GPSLng,
		Device:     req.Device,
	})
	if err != nil {
		status, outcome := checkInFailure(err)
		metrics.CheckIns.WithLabelValues(outcome).Inc()
		if status == http.StatusInternalServerError {
			internalError(c, "record attendance", err)
			return
		}
		c.JSON(status, gin.H{"error": err.Error(), "kind": outcome})
		return
	}

	metrics.CheckIns.WithLabelValues(string(rec.Status)).Inc()
	a.publishCheckIn(c, rec)
	c.JSON(http.StatusCreated, rec)
}

// checkInFailure maps the admission taxonomy onto HTTP statuses: 403 for
// not-enrolled, 409 for duplicates, 404 for unknown classes, 400 for the
// rest of the user-facing rejections, 500 otherwise.
func checkInFailure(err error) (int, string) {
	var locErr *checkin.LocationError
	switch {
	case errors.Is(err, checkin.ErrNotEnrolled):
		return http.StatusForbidden, "not_enrolled"
	case errors.Is(err, checkin.ErrDuplicateCheckIn):
		return http.StatusConflict, "duplicate"
	case errors.Is(err, checkin.ErrClassNotFound):
		return http.StatusNotFound, "class_not_found"
	case errors.Is(err, checkin.ErrFaceProfileMissing):
		return http.StatusBadRequest, "face_profile_missing"
	case errors.Is(err, checkin.ErrFaceMismatch):
		return http.StatusBadRequest, "face_mismatch"
	case errors.Is(err, checkin.ErrOutsideWindow):
		return http.StatusBadRequest, "outside_window"
	case errors.Is(err, match.ErrDescriptorMismatch):
		return http.StatusBadRequest, "descriptor_mismatch"
	case errors.As(err, &locErr):
		return http.StatusBadRequest, "location_rejected"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (a *API) publishCheckIn(c *gin.Context, rec model.AttendanceRecord) {
	msg, err := queue.NewCheckInMessage(queue.CheckInRecorded{
		RecordID:  rec.ID,
		StudentID: rec.StudentID,
		ClassID:   rec.ClassID,
		Status:    string(rec.Status),
	})
	if err == nil {
		err = a.Queue.Publish(c.Request.Context(), msg)
	}
	if err != nil {
		// The record is already durable; notification delivery is best
		// effort.
		log.Printf("queue publish failed for record %s: %v", rec.ID, err)
	}
}

func (a *API) listCheckIns(c *gin.Context) {
	claims, ok := claimed(c)
	if !ok {
		return
	}
	limit, offset := intQuery(c, "limit", 50), intQuery(c, "offset", 0)
	records, err := a.Repos.Attendance.ListByStudent(c.Request.Context(), claims.Subject, c.Query("class_id"), limit, offset)
	if err != nil {
		internalError(c, "list attendance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}
