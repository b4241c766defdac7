package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"facegate/internal/auth"
	"facegate/internal/postgres"
)

func (a *API) register(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Name     string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		internalError(c, "password hash", err)
		return
	}

	student, err := a.Repos.Students.Create(c.Request.Context(), req.Email, req.Name, hash, "student")
	if err != nil {
		if errors.Is(err, postgres.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}
		internalError(c, "account create", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     student.ID,
		"email":  student.Email,
		"status": student.Status,
	})
}

func (a *API) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := a.Repos.Students.ByEmail(c.Request.Context(), req.Email)
	if err != nil {
		internalError(c, "account lookup", err)
		return
	}
	if student == nil || !auth.CheckPassword(student.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	tokens, err := auth.Issue(student.ID, student.Role, a.Cfg.JWTIssuer, a.Cfg.JWTSigningKey, a.Cfg.AccessTTL, a.Cfg.RefreshTTL)
	if err != nil {
		internalError(c, "token issue", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"expires_at":    tokens.AccessExp.Unix(),
		"status":        student.Status,
	})
}

func (a *API) approveStudent(c *gin.Context) {
	id := c.Param("id")
	if err := a.Repos.Students.Approve(c.Request.Context(), id); err != nil {
		if isNoRows(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown student"})
			return
		}
		internalError(c, "approve", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": "APPROVED"})
}
