package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mishgunpstlt/EventsApp/internal/metrics"
	"github.com/mishgunpstlt/EventsApp/internal/models"
	"github.com/mishgunpstlt/EventsApp/internal/services"
)

func ListPendingRequests(ms *services.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requests, err := ms.ListPending(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(requests, ""))
	}
}

func ApproveRequest(ms *services.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		event, err := ms.Approve(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		metrics.CountDecision("approved")
		c.JSON(http.StatusOK, models.SuccessResponse(event, "request approved"))
	}
}

func RejectRequest(ms *services.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		if err := ms.Reject(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		metrics.CountDecision("rejected")
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "request rejected"))
	}
}
