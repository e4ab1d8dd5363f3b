package api

import (
	"fmt"
	"net/http"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request Structs ---

type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ClientLoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	ClientID string `json:"clientId" binding:"required"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

type AdminResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required"`
}

type ForgotPasswordRequest struct {
	Phone string `json:"phone" binding:"required"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required"`
}

// --- Handler Methods ---

// Login authenticates a staff member with phone and password.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"token": token, "user": user})
}

// LoginClient authenticates a gym member with the phone + clientId pairing.
// POST /api/v1/auth/login-client
func (h *AuthHandler) LoginClient(c *gin.Context) {
	var req ClientLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, client, err := h.authService.LoginClient(c.Request.Context(), req.Phone, req.ClientID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"token": token, "client": client})
}

// Me returns the caller's own record; a user for staff tokens, a client for
// client tokens.
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	user, client, err := h.authService.Me(c.Request.Context(), actor)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if client != nil {
		respondOK(c, gin.H{"client": client})
		return
	}
	respondOK(c, gin.H{"user": user})
}

// UpdatePassword changes the caller's own password after verifying the
// current one. A fresh token is returned so the session survives.
// PATCH /api/v1/auth/update-password
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	var req UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.UpdatePassword(c.Request.Context(), actor, req.CurrentPassword, req.NewPassword)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"token": token, "user": user})
}

// AdminResetPassword lets an administrator set another staff member's
// password without knowing the current one.
// PATCH /api/v1/auth/users/:id/reset-password
func (h *AuthHandler) AdminResetPassword(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	targetID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}
	var req AdminResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	if err := h.authService.AdminResetPassword(c.Request.Context(), actor, targetID, req.NewPassword); err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"message": "password has been reset"})
}

// ForgotPassword issues a short-lived reset token for the given phone. The
// token is returned in the response until SMS delivery is wired up.
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	resetToken, err := h.authService.ForgotPassword(c.Request.Context(), req.Phone)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"resetToken": resetToken})
}

// ResetPassword consumes a reset token, sets the new password and logs the
// user in.
// PATCH /api/v1/auth/reset-password/:token
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), req.NewPassword)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"token": token, "user": user})
}
