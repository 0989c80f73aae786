package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mishgunpstlt/EventsApp/internal/config"
	"github.com/mishgunpstlt/EventsApp/internal/models"
	"github.com/mishgunpstlt/EventsApp/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *slog.Logger
	Cloudinary    *cloudinary.Cloudinary
	MongoDBClient *mongo.Client

	UserService       *services.UserService
	EventService      *services.EventService
	RsvpService       *services.RsvpService
	ModerationService *services.ModerationService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	cld *cloudinary.Cloudinary,
	mongoDBClient *mongo.Client,
) (*Container, error) {
	repo := models.MongodbNewRepo(mongoDBClient, cfg.MongoDatabase)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	images := services.NewCloudinaryStore(cld)
	userService := services.NewUserService(repo, []byte(cfg.JWTSecret), cfg.JWTTTL)
	rsvpService := services.NewRsvpService(repo, repo, logger)
	eventService := services.NewEventService(repo, repo, rsvpService, images, logger)
	moderationService := services.NewModerationService(repo, repo, images, logger)

	return &Container{
		Config:            cfg,
		Logger:            logger,
		Cloudinary:        cld,
		MongoDBClient:     mongoDBClient,
		UserService:       userService,
		EventService:      eventService,
		RsvpService:       rsvpService,
		ModerationService: moderationService,
	}, nil
}
