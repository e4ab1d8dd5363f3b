package api

import (
	"errors"
	"net/http"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/authz"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/logger"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/repository"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Every response uses the same envelope: {"status": "...", "data": ...} on
// success, {"status": "...", "message": ...} on failure. Status is "success",
// "fail" for client errors, or "error" for server errors.

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": data})
}

func abortWithError(c *gin.Context, code int, message string) {
	status := "fail"
	if code >= http.StatusInternalServerError {
		status = "error"
	}
	c.AbortWithStatusJSON(code, gin.H{"status": status, "message": message})
}

// abortWithServiceError translates service and repository errors into HTTP
// responses. Unrecognized errors become an opaque 500 so internals never
// leak to the client.
func abortWithServiceError(c *gin.Context, err error) {
	var validation service.ValidationError
	var duplicate *repository.DuplicateKeyError

	switch {
	case errors.Is(err, authz.ErrForbidden),
		errors.Is(err, service.ErrOnlySuperAdmin),
		errors.Is(err, service.ErrRoleChangeDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrClientNotFound),
		errors.Is(err, service.ErrSessionNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAuthenticationFailed),
		errors.Is(err, service.ErrClientLoginFailed),
		errors.Is(err, service.ErrWrongPassword):
		abortWithError(c, http.StatusUnauthorized, err.Error())
	case errors.As(err, &validation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &duplicate):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGenerationExhausted):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		logger.FromContext(c.Request.Context()).Error("unhandled service error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		abortWithError(c, http.StatusInternalServerError, "an unexpected error occurred")
	}
}
