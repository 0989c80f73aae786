package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mishgunpstlt/EventsApp/internal/container"
	"github.com/mishgunpstlt/EventsApp/internal/handlers"
	"github.com/mishgunpstlt/EventsApp/internal/metrics"
	"github.com/mishgunpstlt/EventsApp/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(middleware.RateLimit(float64(container.Config.RateLimitPerSecond), container.Config.RateLimitBurst))
	r.Use(metrics.Instrument())
	r.Use(gin.Recovery())

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "eventsapp-api",
			})
		})

		// public routes
		v1.POST("/auth/register", handlers.Register(container.UserService))
		v1.POST("/auth/login", handlers.Login(container.UserService))

		v1.GET("/events", handlers.ListEvents(container.EventService))
		v1.GET("/events/:id", handlers.GetEvent(container.EventService))

		// public count and average, personal fields with a token
		v1.GET("/events/:id/rsvp", middleware.OptionalAuth(container.UserService), handlers.RsvpStatus(container.RsvpService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.Auth(container.UserService))

	userRoutes := protected.Group("/users")
	{
		userRoutes.GET("/me", handlers.GetProfile(container.UserService))
		userRoutes.PUT("/me", handlers.UpdateProfile(container.UserService))
	}

	eventRoutes := protected.Group("/events")
	{
		eventRoutes.POST("", handlers.CreateEvent(container.ModerationService))
		eventRoutes.PUT("/:id", handlers.UpdateEvent(container.ModerationService))
		eventRoutes.DELETE("/:id", handlers.DeleteEvent(container.EventService))
		eventRoutes.GET("/my/all", handlers.MyEvents(container.EventService))

		eventRoutes.POST("/:id/images", handlers.UploadEventImages(container.EventService))
		eventRoutes.DELETE("/:id/images/:filename", handlers.DeleteEventImage(container.EventService))

		eventRoutes.POST("/:id/rsvp/toggle", handlers.ToggleRsvp(container.RsvpService))
		eventRoutes.POST("/:id/rsvp/rate", handlers.RateEvent(container.RsvpService))
	}

	requestRoutes := protected.Group("/event-requests")
	{
		requestRoutes.POST("", handlers.SubmitRequest(container.ModerationService))
		requestRoutes.GET("/my", handlers.MyRequests(container.ModerationService))
		requestRoutes.GET("/:id", handlers.GetRequest(container.ModerationService))
		requestRoutes.POST("/:id/images", handlers.UploadRequestImages(container.ModerationService))
		requestRoutes.DELETE("/:id/images/:filename", handlers.DeleteRequestImage(container.ModerationService))
	}

	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(middleware.RequireAdmin())
	{
		adminRoutes.GET("/requests", handlers.ListPendingRequests(container.ModerationService))
		adminRoutes.POST("/requests/:id/approve", handlers.ApproveRequest(container.ModerationService))
		adminRoutes.POST("/requests/:id/reject", handlers.RejectRequest(container.ModerationService))
	}

	return r
}
