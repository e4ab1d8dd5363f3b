package api

import (
	"fmt"
	"net/http"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler holds the session-management service dependency.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

type SessionStatusRequest struct {
	Status domain.SessionStatus `json:"status" binding:"required"`
	Reason string               `json:"reason,omitempty"`
}

// List returns the sessions visible to the caller.
// GET /api/v1/sessions
func (h *SessionHandler) List(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	sessions, err := h.sessionService.List(c.Request.Context(), actor)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"sessions": sessions})
}

// Get returns one session.
// GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), actor, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"session": session})
}

// Create schedules a new training session.
// POST /api/v1/sessions
func (h *SessionHandler) Create(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	var input service.CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.sessionService.Create(c.Request.Context(), actor, input)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"session": session})
}

// Update edits a session; non-admin participants may only mark it
// completed.
// PATCH /api/v1/sessions/:id
func (h *SessionHandler) Update(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}
	var input service.UpdateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.sessionService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"session": session})
}

// Delete removes a session.
// DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	if err := h.sessionService.Delete(c.Request.Context(), actor, id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateStatus is the completed-only transition for the session's coach or
// client.
// PATCH /api/v1/sessions/:id/status
func (h *SessionHandler) UpdateStatus(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}
	var req SessionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, err := h.sessionService.UpdateStatus(c.Request.Context(), actor, id, req.Status, req.Reason)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"session": session})
}

// ByClient returns all sessions of one client.
// GET /api/v1/sessions/client/:clientId
func (h *SessionHandler) ByClient(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	sessions, err := h.sessionService.ByClient(c.Request.Context(), actor, clientID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"sessions": sessions})
}
