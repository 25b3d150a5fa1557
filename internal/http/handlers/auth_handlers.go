package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/adminconsole/domain"
)

// AuthHandlers exposes the console session over HTTP
type AuthHandlers struct {
	sessions domain.SessionManager
	logger   *slog.Logger
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(sessions domain.SessionManager, logger *slog.Logger) *AuthHandlers {
	return &AuthHandlers{sessions: sessions, logger: logger}
}

// LoginRequest represents login request. Empty fields are rejected by the gateway.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OTPVerifyRequest represents OTP verification request
type OTPVerifyRequest struct {
	OTP string `json:"otp" binding:"required"`
}

// RegisterRequest represents registration request
type RegisterRequest struct {
	Name           string `json:"name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=6"`
	Role           string `json:"role,omitempty"`
	AdminSecretKey string `json:"adminSecretKey,omitempty"`
}

// Session returns the current session snapshot
func (h *AuthHandlers) Session(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.sessions.Snapshot()})
}

// Login handles credential submission
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.sessions.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"requiresOTP": snap.OTPPending(),
			"session":     snap,
		},
	})
}

// VerifyOTP handles OTP verification for the pending login
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.sessions.VerifyOTP(c.Request.Context(), req.OTP)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": snap})
}

// ResendOTP asks the backend to send a new code
func (h *AuthHandlers) ResendOTP(c *gin.Context) {
	message, err := h.sessions.ResendOTP(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"message": message}})
}

// CancelOTP abandons the pending OTP verification
func (h *AuthHandlers) CancelOTP(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.sessions.CancelOTP(c.Request.Context())})
}

// Register handles account registration
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role := req.Role
	if role == "" {
		role = "user"
	}

	snap, err := h.sessions.Register(c.Request.Context(), domain.RegisterRequest{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           role,
		AdminSecretKey: req.AdminSecretKey,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": snap})
}

// Me fetches the signed-in profile from the backend (requires authentication)
func (h *AuthHandlers) Me(c *gin.Context) {
	profile, err := h.sessions.Refresh(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": profile})
}

// Logout always succeeds locally
func (h *AuthHandlers) Logout(c *gin.Context) {
	snap := h.sessions.Logout(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Logged out successfully",
			"session": snap,
		},
	})
}
