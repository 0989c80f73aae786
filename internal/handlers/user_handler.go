package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mishgunpstlt/EventsApp/internal/models"
	"github.com/mishgunpstlt/EventsApp/internal/services"
)

func GetProfile(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}

		profile, err := us.GetProfile(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, ""))
	}
}

func UpdateProfile(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := mustPrincipal(c)
		if !ok {
			return
		}

		var upd models.ProfileUpdate
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(models.NewValidationError("body", "malformed JSON")))
			return
		}

		profile, err := us.UpdateProfile(c.Request.Context(), user.ID, upd)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, "profile updated"))
	}
}
