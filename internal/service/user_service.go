package service

import (
	"context"
	"strings"
	"time"

	"github.com/Baaaki/vwap/internal/models"
	"github.com/Baaaki/vwap/internal/repository"
	"github.com/Baaaki/vwap/pkg/logger"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type RegisterInput struct {
	Username           string
	Email              string
	Password           string
	FirstName          string
	LastName           string
	DietaryPreferences []string
	CookingLevel       models.CookingLevel
}

// ProfileUpdate holds the profile fields a user may change. Nil fields are
// left untouched.
type ProfileUpdate struct {
	FirstName          *string
	LastName           *string
	Bio                *string
	ProfilePicture     *string
	DietaryPreferences []string
	CookingLevel       *models.CookingLevel
}

type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	start := time.Now()

	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	logger.Log.Debug("Processing user registration",
		zap.String("username", username),
		zap.String("email", email),
	)

	user := models.NewUser(username, email)
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	if in.DietaryPreferences != nil {
		user.DietaryPreferences = models.StringList(in.DietaryPreferences)
	}
	if in.CookingLevel != "" {
		user.CookingLevel = in.CookingLevel
	}

	if err := user.Validate(); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, err
	}
	if len(in.Password) < minPasswordLength {
		return nil, models.Invalid("user", "password", "must be at least 8 characters")
	}

	existing, err := s.store.Users.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Error("Failed to check email existence", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	if existing != nil {
		logger.Log.Warn("Email already exists", zap.String("email", email))
		return nil, repository.Duplicate("user", "email")
	}

	existing, err = s.store.Users.GetUserByUsername(ctx, username)
	if err != nil {
		logger.Log.Error("Failed to check username existence", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	if existing != nil {
		logger.Log.Warn("Username already exists", zap.String("username", username))
		return nil, repository.Duplicate("user", "username")
	}

	if err := user.SetPassword(in.Password); err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, err
	}

	// The unique indexes still guard against a concurrent registration.
	if err := s.store.Users.CreateUser(ctx, user); err != nil {
		logger.Log.Error("Failed to create user", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	logger.Log.Info("User registered",
		zap.Uint("user_id", user.ID),
		zap.String("username", user.Username),
		zap.Duration("duration", time.Since(start)),
	)
	return user, nil
}

// GetUser loads the user with their recipe ids, so views can count them.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.store.Users.GetUserByID(ctx, id)
}

func (s *UserService) UpdateProfile(ctx context.Context, id uint, upd ProfileUpdate) (*models.User, error) {
	user, err := s.store.Users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.FirstName != nil {
		user.FirstName = *upd.FirstName
	}
	if upd.LastName != nil {
		user.LastName = *upd.LastName
	}
	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	if upd.ProfilePicture != nil {
		user.ProfilePicture = *upd.ProfilePicture
	}
	if upd.DietaryPreferences != nil {
		user.DietaryPreferences = models.StringList(upd.DietaryPreferences)
	}
	if upd.CookingLevel != nil {
		user.CookingLevel = *upd.CookingLevel
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Users.UpdateUser(ctx, user); err != nil {
		logger.Log.Error("Failed to update profile", zap.Uint("user_id", id), zap.Error(err))
		return nil, err
	}

	logger.Log.Debug("Profile updated", zap.Uint("user_id", id))
	return user, nil
}

// CheckPassword verifies plain against the stored hash and records the
// login time on success. Session handling lives outside this service.
func (s *UserService) CheckPassword(ctx context.Context, username, plain string) (*models.User, bool, error) {
	user, err := s.store.Users.GetUserByUsername(ctx, username)
	if err != nil || user == nil {
		return nil, false, err
	}
	if !user.CheckPassword(plain) {
		logger.Log.Warn("Password mismatch", zap.String("username", username))
		return user, false, nil
	}

	user.MarkLogin(time.Now().UTC())
	if err := s.store.Users.UpdateUser(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// DeleteUser removes the account with its recipes, reviews, follows and
// collections in one transaction.
func (s *UserService) DeleteUser(ctx context.Context, id uint) error {
	if err := s.store.Users.DeleteUser(ctx, id); err != nil {
		logger.Log.Warn("Failed to delete user", zap.Uint("user_id", id), zap.Error(err))
		return err
	}
	logger.Log.Info("User deleted", zap.Uint("user_id", id))
	return nil
}
