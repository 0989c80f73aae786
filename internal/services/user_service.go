package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mishgunpstlt/EventsApp/internal/helpers"
	"github.com/mishgunpstlt/EventsApp/internal/models"
)

type UserService struct {
	userRepo models.UserRepo
	secret   []byte
	tokenTTL time.Duration
}

func NewUserService(userRepo models.UserRepo, secret []byte, tokenTTL time.Duration) *UserService {
	return &UserService{
		userRepo: userRepo,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Register creates a USER principal and returns a fresh token, so the
// caller is logged in immediately after registration.
func (us *UserService) Register(ctx context.Context, username, password string) (string, error) {
	if err := models.Validate.Var(username, "required,min=3,max=64"); err != nil {
		return "", models.NewValidationError("username", "must be 3-64 characters")
	}
	if !helpers.IsPasswordStrong(password) {
		return "", models.NewValidationError("password", "must be at least 8 characters with upper, lower and digit")
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %v", err)
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := us.userRepo.GetUserByUsername(ctx, username); err == nil {
		return "", fmt.Errorf("%w: username already taken", models.ErrAuth)
	}

	if err := us.userRepo.CreateUser(ctx, user); err != nil {
		return "", err
	}

	return helpers.GenerateToken(us.secret, user.ID, user.Username, string(user.Role), us.tokenTTL)
}

func (us *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := us.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", fmt.Errorf("%w: bad credentials", models.ErrAuth)
		}
		return "", err
	}

	if err := helpers.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", fmt.Errorf("%w: bad credentials", models.ErrAuth)
	}

	return helpers.GenerateToken(us.secret, user.ID, user.Username, string(user.Role), us.tokenTTL)
}

func (us *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return us.userRepo.GetUserByID(ctx, id)
}

func (us *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	user, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.ToProfile(), nil
}

func (us *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, upd models.ProfileUpdate) (*models.Profile, error) {
	if err := models.Validate.Struct(upd); err != nil {
		return nil, models.NewValidationError("email", "must be a valid email address")
	}

	user, err := us.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Email = helpers.StringTrim(upd.Email)
	user.FullName = helpers.StringTrim(upd.FullName)
	user.City = helpers.StringTrim(upd.City)
	user.Gender = helpers.StringTrim(upd.Gender)
	user.BirthDate = helpers.StringTrim(upd.BirthDate)

	if err := us.userRepo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user.ToProfile(), nil
}

// ValidateToken parses a bearer token into claims.
func (us *UserService) ValidateToken(tokenStr string) (*helpers.Claims, error) {
	return helpers.ValidateToken(us.secret, tokenStr)
}
