// Package httpapi wires the service's HTTP surface: route handlers,
// request binding, and the mapping from the check-in error taxonomy to
// status codes.
package httpapi

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"facegate/internal/auth"
	"facegate/internal/checkin"
	"facegate/internal/config"
	"facegate/internal/model"
	"facegate/internal/postgres"
	"facegate/internal/queue"
)

// API bundles the handlers' collaborators.
type API struct {
	Cfg      config.App
	Repos    *postgres.Repositories
	CheckIns *checkin.Service
	Queue    queue.Queue
	Healthy  func(ctx *gin.Context) (redis, db bool)
}

// Register mounts all routes on r. The bearer group carries every
// authenticated route; admin routes additionally require the admin role.
func (a *API) Register(r *gin.Engine) {
	r.GET("/healthz", a.health)

	r.POST("/v1/auth/register", a.register)
	r.POST("/v1/auth/login", a.login)

	authed := r.Group("/v1", auth.Bearer(a.Cfg.JWTSigningKey, a.Cfg.JWTIssuer))
	authed.POST("/faces/enroll", a.enrollFace)
	authed.POST("/checkins", a.recordCheckIn)
	authed.GET("/checkins", a.listCheckIns)

	admin := authed.Group("/admin", auth.RequireRole("admin"))
	admin.POST("/students/:id/approve", a.approveStudent)
	admin.POST("/classes", a.createClass)
	admin.GET("/classes", a.listClasses)
	admin.GET("/classes/:id/attendance", a.classAttendance)
	admin.POST("/enrollments", a.upsertEnrollment)
	admin.DELETE("/enrollments", a.deactivateEnrollment)
	admin.POST("/faces/:id/threshold", a.setThreshold)
}

func (a *API) health(c *gin.Context) {
	redisOK, dbOK := true, true
	if a.Healthy != nil {
		redisOK, dbOK = a.Healthy(c)
	}
	status := http.StatusOK
	if !redisOK || !dbOK {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "redis": redisOK, "db": dbOK})
}

func internalError(c *gin.Context, what string, err error) {
	log.Printf("%s failed: %v", what, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": what + " failed"})
}

func claimed(c *gin.Context) (auth.Claims, bool) {
	claims, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing claims"})
	}
	return claims, ok
}

// requireApproved loads the caller's account and rejects unapproved ones.
func (a *API) requireApproved(c *gin.Context, studentID string) (*model.Student, bool) {
	student, err := a.Repos.Students.ByID(c.Request.Context(), studentID)
	if err != nil {
		internalError(c, "account lookup", err)
		return nil, false
	}
	if student == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
		return nil, false
	}
	if student.Status != model.AccountApproved {
		c.JSON(http.StatusForbidden, gin.H{"error": "account pending approval"})
		return nil, false
	}
	return student, true
}
