package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/osirisarpit/Technorage/internal/auth"
	"github.com/osirisarpit/Technorage/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterRequest represents the registration payload
type RegisterRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	Role     models.Role     `json:"role" binding:"required"`
	Vertical models.Vertical `json:"vertical" binding:"required"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token    string          `json:"token"`
	UserID   string          `json:"user_id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Role     models.Role     `json:"role"`
	Vertical models.Vertical `json:"vertical"`
	Message  string          `json:"message"`
}

// Register handles POST /api/register
func (a *API) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}
	if req.Vertical == models.VerticalOverallClub || !models.ValidVertical(req.Vertical) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vertical"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var existing models.Member
	if err := a.db.Where("email = ?", email).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check existing member"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	member := models.Member{
		ID:       "usr-" + uuid.NewString(),
		Name:     req.Name,
		Email:    email,
		Password: hash,
		Avatar:   "https://api.dicebear.com/7.x/avataaars/svg?seed=" + req.Name,
		Role:     req.Role,
		Vertical: req.Vertical,
		JoinedAt: timeNow(),
	}
	if err := a.db.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create member"})
		return
	}

	token, err := auth.GenerateToken(&member)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, LoginResponse{
		Token:    token,
		UserID:   member.ID,
		Name:     member.Name,
		Email:    member.Email,
		Role:     member.Role,
		Vertical: member.Vertical,
		Message:  "Registration successful",
	})
}

// Login handles POST /api/login
func (a *API) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Email and password are required.",
		})
		return
	}

	var member models.Member
	err := a.db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&member).Error
	if err != nil || !auth.CheckPassword(member.Password, req.Password) {
		// Same response for unknown email and wrong password
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := auth.GenerateToken(&member)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:    token,
		UserID:   member.ID,
		Name:     member.Name,
		Email:    member.Email,
		Role:     member.Role,
		Vertical: member.Vertical,
		Message:  "Login successful",
	})
}

// Me handles GET /api/me and returns the authenticated member's profile
func (a *API) Me(c *gin.Context) {
	var member models.Member
	if err := a.db.Where("id = ?", c.GetString("user_id")).First(&member).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	stats, err := a.store.MemberStats(&member)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}

	c.JSON(http.StatusOK, models.MemberWithStats{Member: member, MemberStats: stats})
}
