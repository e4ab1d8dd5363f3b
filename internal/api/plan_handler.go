package api

import (
	"fmt"
	"net/http"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the catalog service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// List returns the full plan catalog, optionally filtered by ?type=.
// GET /api/v1/subscriptions
func (h *PlanHandler) List(c *gin.Context) {
	h.list(c, domain.PlanType(c.Query("type")))
}

// ListMain returns only main membership plans.
// GET /api/v1/subscriptions/main
func (h *PlanHandler) ListMain(c *gin.Context) {
	h.list(c, domain.PlanTypeMain)
}

// ListPrivate returns only private training plans.
// GET /api/v1/subscriptions/private
func (h *PlanHandler) ListPrivate(c *gin.Context) {
	h.list(c, domain.PlanTypePrivate)
}

func (h *PlanHandler) list(c *gin.Context, planType domain.PlanType) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	plans, err := h.planService.List(c.Request.Context(), actor, planType)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"plans": plans})
}

// Get returns one plan.
// GET /api/v1/subscriptions/:id
func (h *PlanHandler) Get(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	plan, err := h.planService.Get(c.Request.Context(), actor, id)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"plan": plan})
}

// Create adds a plan to the catalog.
// POST /api/v1/subscriptions
func (h *PlanHandler) Create(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	var input service.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), actor, input)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondCreated(c, gin.H{"plan": plan})
}

// Update edits a catalog plan.
// PATCH /api/v1/subscriptions/:id
func (h *PlanHandler) Update(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}
	var input service.PlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), actor, id, input)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"plan": plan})
}

// Delete removes a plan that no client references.
// DELETE /api/v1/subscriptions/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	if err := h.planService.Delete(c.Request.Context(), actor, id); err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
