package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mishgunpstlt/EventsApp/internal/models"
	"github.com/mishgunpstlt/EventsApp/internal/services"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func Register(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(models.NewValidationError("body", "malformed JSON")))
			return
		}

		token, err := us.Register(c.Request.Context(), creds.Username, creds.Password)
		if err != nil {
			// A taken username is a conflict, not an auth challenge.
			if errors.Is(err, models.ErrAuth) {
				c.JSON(http.StatusConflict, models.ErrorResponse(err))
				return
			}
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, models.SuccessResponse(tokenResponse{Token: token}, "registered"))
	}
}

func Login(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var creds credentials
		if err := c.ShouldBindJSON(&creds); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(models.NewValidationError("body", "malformed JSON")))
			return
		}

		token, err := us.Login(c.Request.Context(), creds.Username, creds.Password)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.SuccessResponse(tokenResponse{Token: token}, "logged in"))
	}
}
