package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/internal/models"
	"github.com/mishgunpstlt/EventsApp/internal/services"
)

func parseID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(models.NewValidationError(param, "must be a valid UUID")))
		return uuid.Nil, false
	}
	return id, true
}

// stageUploads writes the multipart files to a temp dir and returns their
// paths plus a cleanup func. The image store works from file paths.
func stageUploads(c *gin.Context) ([]string, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}
	files := form.File["images"]
	if len(files) == 0 {
		return nil, nil, models.NewValidationError("images", "at least one file is required")
	}

	dir, err := os.MkdirTemp("", "eventsapp-upload-*")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	var paths []string
	for _, f := range files {
		dst := filepath.Join(dir, filepath.Base(f.Filename))
		if err := c.SaveUploadedFile(f, dst); err != nil {
			cleanup()
			return nil, nil, err
		}
		paths = append(paths, dst)
	}
	return paths, cleanup, nil
}

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.EventFilter{
			Text:     c.Query("q"),
			Category: c.Query("category"),
			Format:   c.Query("format"),
			City:     c.Query("city"),
			Level:    c.Query("level"),
			Sort:     c.DefaultQuery("sort", "date"),
		}

		events, err := es.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		event, err := es.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func CreateEvent(ms *services.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}

		var payload models.EventPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(models.NewValidationError("body", "malformed JSON")))
			return
		}

		event, err := ms.CreateEvent(c.Request.Context(), payload, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(event, "event created"))
	}
}

func UpdateEvent(ms *services.ModerationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		var payload models.EventPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(models.NewValidationError("body", "malformed JSON")))
			return
		}

		event, err := ms.UpdateEvent(c.Request.Context(), id, payload, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "event updated"))
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id")
		if !ok {
			return
		}

		if err := es.Delete(c.Request.Context(), id, user); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "event deleted"))
	}
}

func MyEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}

		my, err := es.MyAll(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(my, ""))
	}
}

func UploadEventImages(es *services.EventService) gin.HandlerFunc {
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

		images, err := es.AttachEventImages(c.Request.Context(), id, paths, user)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(images, "images uploaded"))
	}
}

func DeleteEventImage(es *services.EventService) gin.HandlerFunc {
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

		if err := es.RemoveEventImage(c.Request.Context(), id, filename, user); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "image deleted"))
	}
}
