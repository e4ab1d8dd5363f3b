package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/authz"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/logger"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Constants for context keys
const (
	ContextActorKey     = "actor"
	ContextRequestIDKey = "requestID"
	requestIDHeader     = "X-Request-ID"
)

// AuthMiddleware creates a Gin middleware for JWT authentication. It accepts
// both staff tokens and client tokens; the resulting actor carries the
// document id and role for the authorization checks downstream.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		claims := &service.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}
		if !token.Valid || claims.Subject == "" || claims.Role == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.Subject)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid token subject")
			return
		}

		c.Set(ContextActorKey, authz.Actor{ID: id, Role: claims.Role})
		c.Next()
	}
}

// RequireRoles creates middleware that rejects any actor outside the given
// roles. Must run AFTER AuthMiddleware. Finer-grained ownership checks stay
// in the services; this is only the coarse route gate.
func RequireRoles(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := actorFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "actor not found in context")
			return
		}
		for _, role := range allowed {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: Role '%s' does not have permission", actor.Role))
	}
}

// actorFromContext returns the authenticated actor set by AuthMiddleware.
func actorFromContext(c *gin.Context) (authz.Actor, error) {
	raw, exists := c.Get(ContextActorKey)
	if !exists {
		return authz.Actor{}, errors.New("actor not found in context")
	}
	actor, ok := raw.(authz.Actor)
	if !ok {
		return authz.Actor{}, errors.New("invalid actor type in context")
	}
	return actor, nil
}

// RequestID assigns every request an id, honoring one supplied by the
// caller, and threads a request-scoped logger through the context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(ContextRequestIDKey, requestID)
		c.Header(requestIDHeader, requestID)

		reqLogger := logger.GetLogger().With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLogger))

		c.Next()
	}
}

// RequestLogger logs one line per request with latency and status.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.FromContext(c.Request.Context()).Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
