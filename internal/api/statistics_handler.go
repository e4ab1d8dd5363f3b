package api

import (
	"net/http"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// StatisticsHandler holds the statistics service dependency.
type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

// Full returns the complete cross-entity rollup.
// GET /api/v1/statistics
func (h *StatisticsHandler) Full(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	stats, err := h.statisticsService.Full(c.Request.Context(), actor)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"statistics": stats})
}

// Quick returns the reduced overview computed with store-side sums.
// GET /api/v1/statistics/quick
func (h *StatisticsHandler) Quick(c *gin.Context) {
	actor, err := actorFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, err.Error())
		return
	}

	stats, err := h.statisticsService.Quick(c.Request.Context(), actor)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respondOK(c, gin.H{"statistics": stats})
}
