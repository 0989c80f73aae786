package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mishgunpstlt/EventsApp/internal/models"
)

// statusFor maps a domain error to its HTTP status. Duplicate registration
// wraps ErrAuth but is a conflict, not a challenge, so it is special-cased
// at the call site.
func statusFor(err error) int {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrCapacityExceeded), errors.Is(err, models.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), models.ErrorResponse(err))
}

// principal returns the authenticated user set by the auth middleware. The
// second return is false when the route ran without it, which is a wiring
// bug, not a client error.
func principal(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// optionalPrincipal is for endpoints that serve both anonymous and
// authenticated callers.
func optionalPrincipal(c *gin.Context) *models.User {
	user, ok := principal(c)
	if !ok {
		return nil
	}
	return user
}

func mustPrincipal(c *gin.Context) (*models.User, bool) {
	user, ok := principal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(models.ErrorFromCode(models.CodeAuth, "authentication required")))
		return nil, false
	}
	return user, true
}
