package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/internal/models"
	"github.com/mishgunpstlt/EventsApp/internal/services"
)

type submitRequestBody struct {
	models.EventPayload
	OriginalEventID *uuid.UUID `json:"original_event_id,omitempty"`
}

// SubmitRequest files a CREATE request, or an EDIT request when
// original_event_id is present.
func SubmitRequest(ms *services.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}

		var body submitRequestBody
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(models.NewValidationError("body", "malformed JSON")))
			return
		}

		req, err := ms.SubmitRequest(c.Request.Context(), body.EventPayload, user, body.OriginalEventID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(req, "request submitted"))
	}
}

func MyRequests(ms *services.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}

		requests, err := ms.ListByAuthor(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(requests, ""))
	}
}

func GetRequest(ms *services.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		req, err := ms.GetRequest(c.Request.Context(), id, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(req, ""))
	}
}

func UploadRequestImages(ms *services.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		paths, cleanup, err := stageUploads(c)
		if err != nil {
			respondError(c, err)
			return
		}
		defer cleanup()

		images, err := ms.AttachRequestImages(c.Request.Context(), id, paths, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(images, "images uploaded"))
	}
}

func DeleteRequestImage(ms *services.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		filename := c.Param("filename")

		if err := ms.RemoveRequestImage(c.Request.Context(), id, filename, user); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "image deleted"))
	}
}
