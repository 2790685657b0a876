package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/smartq/backend/internal/services"
	"github.com/smartq/backend/pkg/validation"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService         *services.AuthService
	verificationService *services.VerificationService
	emailService        *services.EmailService
	frontendURL         string
}

func NewAuthHandler(authService *services.AuthService, verificationService *services.VerificationService, emailService *services.EmailService, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authService:         authService,
		verificationService: verificationService,
		emailService:        emailService,
		frontendURL:         frontendURL,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Phone    string `json:"phone"`
		Role     string `json:"role" binding:"required,oneof=customer salon_owner"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validation.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}

	if !validation.ValidatePassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must contain at least one uppercase letter, one lowercase letter and one number"})
		return
	}

	user, err := h.authService.Register(req.Name, req.Email, req.Password, req.Phone, req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Send welcome email in the background
	go h.emailService.SendWelcomeEmail(user.Email, user.Name)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, refreshToken, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":             user.ID,
			"name":           user.Name,
			"email":          user.Email,
			"role":           user.Role,
			"email_verified": user.EmailVerified,
			"phone_verified": user.PhoneVerified,
		},
	})
}

// RefreshToken handles token refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	accessToken, err := h.authService.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
	})
}

// Logout handles user logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.authService.Logout(userID.(uuid.UUID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

// RequestVerification issues and delivers a verification code for the
// authenticated user's email or phone.
func (h *AuthHandler) RequestVerification(c *gin.Context) {
	var req struct {
		Purpose     string `json:"purpose" binding:"required,oneof=email phone"`
		Destination string `json:"destination"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("userID").(uuid.UUID)

	record, err := h.verificationService.RequestCode(userID, req.Purpose, req.Destination)
	switch {
	case errors.Is(err, services.ErrInvalidDestination):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid destination address"})
		return
	case errors.Is(err, services.ErrDeliveryFailed):
		// The code is persisted and stays valid; the user can retry delivery
		// through the resend endpoint.
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not deliver the verification code. Please try resending."})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Verification code sent",
		"expires_at": record.ExpiresAt,
	})
}

// SubmitVerification checks a submitted code. Every verification failure maps
// to the same response so callers cannot distinguish wrong, expired and
// already-used codes.
func (h *AuthHandler) SubmitVerification(c *gin.Context) {
	var req struct {
		Purpose string `json:"purpose" binding:"required,oneof=email phone"`
		Code    string `json:"code" binding:"required,len=6"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.MustGet("userID").(uuid.UUID)

	if err := h.verificationService.SubmitCode(userID, req.Purpose, req.Code); err != nil {
		if errors.Is(err, services.ErrOTPPersistence) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed, please try again"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification successful"})
}

// ForgotPassword mints a reset token and emails a reset link. Responds
// identically whether or not the email exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := h.authService.CreatePasswordReset(req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	if err == nil {
		resetURL := h.frontendURL + "/auth/reset-password?token=" + token
		go h.emailService.SendPasswordResetLinkEmail(user.Email, user.Name, resetURL)
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email exists, a reset link has been sent"})
}

// ResetPassword consumes a reset token and sets a new password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !validation.ValidatePassword(req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must contain at least one uppercase letter, one lowercase letter and one number"})
		return
	}

	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
