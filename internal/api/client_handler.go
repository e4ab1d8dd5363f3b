package api

import (
	"fmt"
	"net/http"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ClientHandler holds the member-management service dependency.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List returns the clients visible to the caller.
// GET /api/v1/clients
func (h *ClientHandler) List(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	clients, err := h.clientService.List(c.Request.Context(), actor)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"clients": clients})
}

// Get returns one client.
// GET /api/v1/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	client, err := h.clientService.Get(c.Request.Context(), actor, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"client": client})
}

// Create registers a new gym member.
// POST /api/v1/clients
func (h *ClientHandler) Create(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	var input service.CreateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), actor, input)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"client": client})
}

// Update modifies a gym member.
// PATCH /api/v1/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}
	var input service.UpdateClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"client": client})
}

// Delete removes a gym member.
// DELETE /api/v1/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), actor, id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscription returns a client's subscription details including the
// remaining private sessions.
// GET /api/v1/clients/:id/subscription
func (h *ClientHandler) Subscription(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	details, err := h.clientService.Subscription(c.Request.Context(), actor, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, details)
}

// Sessions returns a client's training sessions.
// GET /api/v1/clients/:id/sessions
func (h *ClientHandler) Sessions(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	sessions, err := h.clientService.Sessions(c.Request.Context(), actor, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"sessions": sessions})
}
