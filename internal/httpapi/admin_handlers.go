package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"facegate/internal/model"
	"facegate/internal/postgres"
)

func (a *API) createClass(c *gin.Context) {
	var req struct {
		Name          string   `json:"name" binding:"required"`
		LecturerID    string   `json:"lecturer_id" binding:"required"`
		Weekday       int      `json:"weekday" binding:"min=0,max=6"`
		StartMinute   int      `json:"start_minute" binding:"min=0,max=1439"`
		EndMinute     int      `json:"end_minute" binding:"min=1,max=1440"`
		LateThreshold int      `json:"late_threshold_minutes"`
		RoomName      string   `json:"room_name" binding:"required"`
		AllowedSSIDs  []string `json:"allowed_ssids"`
		GPSLat        *float64 `json:"gps_lat"`
		GPSLng        *float64 `json:"gps_lng"`
		RadiusM       float64  `json:"radius_m"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if (req.GPSLat == nil) != (req.GPSLng == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "gps_lat and gps_lng must be supplied together"})
		return
	}
	if req.LateThreshold <= 0 {
		req.LateThreshold = 15
	}

	class, err := a.Repos.Classes.Create(c.Request.Context(), model.Class{
		Name:          req.Name,
		LecturerID:    req.LecturerID,
		Weekday:       time.Weekday(req.Weekday),
		StartMinute:   req.StartMinute,
		EndMinute:     req.EndMinute,
		LateThreshold: req.LateThreshold,
		Room: model.Room{
			Name:         req.RoomName,
			AllowedSSIDs: req.AllowedSSIDs,
			GPSLat:       req.GPSLat,
			GPSLng:       req.GPSLng,
			RadiusM:      req.RadiusM,
		},
	})
	if err != nil {
		if errors.Is(err, postgres.ErrInvalidSchedule) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		internalError(c, "class create", err)
		return
	}
	c.JSON(http.StatusCreated, class)
}

func (a *API) listClasses(c *gin.Context) {
	classes, err := a.Repos.Classes.List(c.Request.Context())
	if err != nil {
		internalError(c, "list classes", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": classes})
}

func (a *API) classAttendance(c *gin.Context) {
	classID := c.Param("id")
	limit, offset := intQuery(c, "limit", 100), intQuery(c, "offset", 0)
	records, err := a.Repos.Attendance.ListByClass(c.Request.Context(), classID, c.Query("day"), limit, offset)
	if err != nil {
		internalError(c, "class attendance", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": records})
}

func (a *API) upsertEnrollment(c *gin.Context) {
	var req struct {
		StudentID string `json:"student_id" binding:"required"`
		ClassID   string `json:"class_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	enr, err := a.Repos.Enrollments.Upsert(c.Request.Context(), req.StudentID, req.ClassID)
	if err != nil {
		internalError(c, "enrollment", err)
		return
	}
	c.JSON(http.StatusCreated, enr)
}

func (a *API) deactivateEnrollment(c *gin.Context) {
	var req struct {
		StudentID string `json:"student_id" binding:"required"`
		ClassID   string `json:"class_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Repos.Enrollments.Deactivate(c.Request.Context(), req.StudentID, req.ClassID); err != nil {
		if isNoRows(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "enrollment not found"})
			return
		}
		internalError(c, "enrollment deactivate", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": model.EnrollmentInactive})
}

func (a *API) setThreshold(c *gin.Context) {
	studentID := c.Param("id")
	var req struct {
		Threshold float64 `json:"threshold" binding:"required,gt=0,lte=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Repos.Profiles.SetThreshold(c.Request.Context(), studentID, req.Threshold); err != nil {
		if isNoRows(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "face profile not found"})
			return
		}
		internalError(c, "threshold update", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"student_id": studentID, "threshold": req.Threshold})
}
