package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/internal/metrics"
	"github.com/mishgunpstlt/EventsApp/internal/models"
	"github.com/mishgunpstlt/EventsApp/internal/services"
)

// RsvpStatus serves both views: anonymous callers get count and average,
// authenticated callers additionally get their own going flag and rating.
func RsvpStatus(rs *services.RsvpService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var userID *uuid.UUID
		if user := optionalPrincipal(c); user != nil {
			userID = &user.ID
		}

		status, err := rs.Status(c.Request.Context(), id, userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(status, ""))
	}
}

func ToggleRsvp(rs *services.RsvpService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		status, err := rs.Toggle(c.Request.Context(), id, user.ID)
		if err != nil {
			metrics.CountToggle(toggleOutcome(err))
			respondError(c, err)
			return
		}
		metrics.CountToggle("applied")
		c.JSON(http.StatusOK, models.SuccessResponse(status, ""))
	}
}

// toggleOutcome keeps the rejected series meaning "event was full"; every
// other failure counts separately so capacity pressure stays readable.
func toggleOutcome(err error) string {
	if errors.Is(err, models.ErrCapacityExceeded) {
		return "rejected"
	}
	return "failed"
}

func RateEvent(rs *services.RsvpService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		rating, err := strconv.Atoi(c.Query("rating"))
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(models.NewValidationError("rating", "must be an integer")))
			return
		}

		status, err := rs.Rate(c.Request.Context(), id, user.ID, rating)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(status, ""))
	}
}
