package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	auditdomain "github.com/tavolohq/tavolo/internal/audit/domain"
	"github.com/tavolohq/tavolo/internal/auditctx"
	"go.uber.org/zap"
)

// Identity headers set by the upstream gateway, which has already
// authenticated the caller. This service only enforces the role.
const (
	HeaderUserID    = "X-User-Id"
	HeaderUserRole  = "X-User-Role"
	HeaderRequestID = "X-Request-Id"

	RoleAdmin = "admin"

	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

// RequestContextMiddleware threads request metadata into the context so
// audit rows can record where a change came from.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := auditctx.WithRequestID(c.Request.Context(), requestID)
		ctx = auditctx.WithIPAddress(ctx, c.ClientIP())
		ctx = auditctx.WithUserAgent(ctx, c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// IdentityMiddleware rejects requests that arrive without an upstream
// identity and records the actor for auditing.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(HeaderUserID)
		if userID == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		role := c.GetHeader(HeaderUserRole)

		c.Set(ctxUserIDKey, userID)
		c.Set(ctxUserRoleKey, role)

		ctx := auditctx.WithActor(c.Request.Context(), auditdomain.ActorTypeUser, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// AdminRequired gates inventory mutations on the admin role.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxUserRoleKey) != RoleAdmin {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// AccessLogMiddleware emits one structured line per request.
func AccessLogMiddleware(log *zap.Logger) gin.HandlerFunc {
	accessLog := log.Named("http.access")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		if requestID := auditctx.RequestIDFromContext(c.Request.Context()); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("error", c.Errors.Last().Error()))
			accessLog.Warn("request failed", fields...)
			return
		}
		accessLog.Info("request completed", fields...)
	}
}
