package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mishgunpstlt/EventsApp/internal/models"
	"github.com/mishgunpstlt/EventsApp/internal/services"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"client_ip", clientIP,
		)
	}
}

// ErrorHandler provides centralized error handling for errors that escaped
// the handlers themselves
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			requestID, _ := c.Get("request_id")

			logger.Error("Request error",
				"request_id", requestID,
				"error", err.Error(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)

			if !c.Writer.Written() {
				c.JSON(http.StatusInternalServerError, models.ErrorResponse(models.ErrorFromCode(models.CodeInternal, "internal server error")))
			}
		}
	}
}

// Auth validates the bearer token and loads a fresh principal from the
// store, so a role change takes effect on the next request, not at token
// expiry. The principal is stored in the context under "user".
func Auth(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse(models.ErrorFromCode(models.CodeAuth, "missing bearer token")))
			return
		}

		claims, err := userService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse(models.ErrorFromCode(models.CodeAuth, "invalid or expired token")))
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse(models.ErrorFromCode(models.CodeAuth, "invalid token subject")))
			return
		}

		user, err := userService.GetUser(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse(models.ErrorFromCode(models.CodeAuth, "unknown principal")))
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// OptionalAuth loads the principal when a valid bearer token is present and
// stays silent otherwise, for endpoints with public and personalized views.
func OptionalAuth(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.Next()
			return
		}

		claims, err := userService.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			c.Next()
			return
		}
		if user, err := userService.GetUser(c.Request.Context(), userID); err == nil {
			c.Set("user", user)
		}
		c.Next()
	}
}

// RequireAdmin sits behind Auth and gates moderation endpoints.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("user")
		user, ok := v.(*models.User)
		if !exists || !ok || !user.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse(models.ErrorFromCode(models.CodeForbidden, "admin role required")))
			return
		}
		c.Next()
	}
}

// RateLimit: token-bucket per client IP, with idle buckets collected after
// a TTL so the map does not grow without bound.
func RateLimit(perSecond float64, burst int) gin.HandlerFunc {
	type bucket struct {
		lim *rate.Limiter
		ts  time.Time
	}
	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
		ttl     = 5 * time.Minute
	)
	ticker := time.NewTicker(1 * time.Minute)
	go func() {
		for range ticker.C {
			now := time.Now()
			mu.Lock()
			for k, b := range buckets {
				if now.Sub(b.ts) > ttl {
					delete(buckets, k)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}

		mu.Lock()
		b, ok := buckets[ip]
		if !ok {
			b = &bucket{lim: rate.NewLimiter(rate.Limit(perSecond), burst)}
			buckets[ip] = b
		}
		b.ts = time.Now()
		mu.Unlock()

		if !b.lim.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse(models.ErrorFromCode(models.CodeInternal, "rate limit exceeded")))
			return
		}
		c.Next()
	}
}
