package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dias221467/Recipe_Manager/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateDietaryRestrictions(ctx context.Context, id primitive.ObjectID, restrictionIDs []primitive.ObjectID) error
	UpdateNotificationPreferences(ctx context.Context, id primitive.ObjectID, prefs models.NotificationPreferences) error
}

// UserService encapsulates the business logic for user operations.
type UserService struct {
	repo UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserStore) *UserService {
	return &UserService{
		repo: repo,
	}
}

// RegisterUser registers a new user after hashing their password.
// The plain password arrives in HashedPassword and is replaced by its hash.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User) (*models.User, error) {
	logrus.Info("Registering new user")

	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	if user.Email == "" || user.Username == "" || user.HashedPassword == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("%w: missing required user fields", ErrInvalidInput)
	}

	if !emailRegex.MatchString(user.Email) {
		logrus.WithField("email", user.Email).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}

	existing, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err == nil && existing != nil {
		logrus.WithField("email", user.Email).Warn("Email already in use")
		return nil, fmt.Errorf("%w: email already in use", ErrConflict)
	}
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(user.HashedPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.ID = primitive.NilObjectID
	user.HashedPassword = string(hashedPwd)
	user.Role = "user"
	user.NotificationPreferences = models.DefaultNotificationPreferences()
	if user.DietaryRestrictionIDs == nil {
		user.DietaryRestrictionIDs = []primitive.ObjectID{}
	}

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"userID": createdUser.ID.Hex(),
		"role":   createdUser.Role,
	}).Info("User registered successfully")

	return createdUser, nil
}

// AuthenticateUser verifies the email and password and returns the user if credentials are valid.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	logrus.WithField("email", email).Info("Authenticating user")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logrus.WithField("email", email).Warn("User not found")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid password")
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// UpdateDietaryRestrictions replaces the user's restriction set, dropping duplicates.
func (s *UserService) UpdateDietaryRestrictions(ctx context.Context, id primitive.ObjectID, restrictionIDs []primitive.ObjectID) (*models.User, error) {
	seen := make(map[primitive.ObjectID]bool, len(restrictionIDs))
	unique := make([]primitive.ObjectID, 0, len(restrictionIDs))
	for _, rid := range restrictionIDs {
		if rid.IsZero() {
			return nil, fmt.Errorf("%w: empty restriction id", ErrInvalidInput)
		}
		if !seen[rid] {
			seen[rid] = true
			unique = append(unique, rid)
		}
	}

	if err := s.repo.UpdateDietaryRestrictions(ctx, id, unique); err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}

func (s *UserService) UpdateNotificationPreferences(ctx context.Context, id primitive.ObjectID, prefs models.NotificationPreferences) (*models.User, error) {
	if err := s.repo.UpdateNotificationPreferences(ctx, id, prefs); err != nil {
		return nil, err
	}
	return s.repo.GetUserByID(ctx, id)
}
