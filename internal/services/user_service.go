package services

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/savepath/savepath-api/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService encapsulates the business logic for user accounts: registration,
// authentication, profile/preference patches, the login streak and the
// account-deletion cascade.
type UserService struct {
	repo      UserStore
	goalRepo  GoalStore
	notifRepo NotificationStore

	now func() time.Time
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserStore, goalRepo GoalStore, notifRepo NotificationStore) *UserService {
	return &UserService{
		repo:      repo,
		goalRepo:  goalRepo,
		notifRepo: notifRepo,
		now:       time.Now,
	}
}

// RegisterUser registers a new user after hashing their password. New accounts
// get the default preferences and a streak of 1.
func (s *UserService) RegisterUser(ctx context.Context, user *models.User, password string) (*models.User, error) {
	logrus.Info("Registering new user")

	if user.Email == "" || user.Name == "" || password == "" {
		logrus.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("missing required user fields")
	}
	if !emailRegex.MatchString(user.Email) {
		logrus.WithField("email", user.Email).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("invalid email format")
	}

	existingUser, err := s.repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %v", err)
	}
	if existingUser != nil {
		logrus.WithField("email", user.Email).Warn("Email already in use")
		return nil, fmt.Errorf("email already in use")
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user.HashedPassword = string(hashedPwd)
	user.Preferences = models.DefaultPreferences()
	user.Streak = 1
	user.LastLoginDate = s.now()

	createdUser, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %v", err)
	}

	logrus.WithField("userID", createdUser.ID.Hex()).Info("User registered successfully")
	return createdUser, nil
}

// AuthenticateUser verifies the email and password and returns the user if
// credentials are valid.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	logrus.WithField("email", email).Info("Authenticating user")

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %v", err)
	}
	if user == nil {
		logrus.WithField("email", email).Warn("User not found")
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("email", email).Warn("Invalid credentials")
		return nil, fmt.Errorf("invalid credentials")
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// RecordLogin updates the login streak: consecutive-day logins increment it,
// a same-day repeat leaves it unchanged, a gap resets it to 1.
func (s *UserService) RecordLogin(ctx context.Context, user *models.User) (*models.User, error) {
	now := s.now()
	today := dateOnly(now)
	last := dateOnly(user.LastLoginDate)

	streak := user.Streak
	switch {
	case last == today:
		// already counted today
	case last == dateOnly(now.AddDate(0, 0, -1)):
		streak++
	default:
		streak = 1
	}

	updated, err := s.repo.PatchUser(ctx, user.ID, map[string]interface{}{
		"streak":          streak,
		"last_login_date": now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record login: %v", err)
	}
	if updated == nil {
		return nil, fmt.Errorf("user not found")
	}

	logrus.WithFields(logrus.Fields{
		"userID": user.ID.Hex(),
		"streak": streak,
	}).Info("Login recorded")
	return updated, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logrus.WithError(err).Warn("Invalid user ID")
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	user, err := s.repo.GetUserByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %v", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}
	return user, nil
}

// PatchUser applies a partial update (profile fields or preferences) and
// returns the user as re-read from the store.
func (s *UserService) PatchUser(ctx context.Context, id string, updates map[string]interface{}) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logrus.WithError(err).Warn("Invalid user ID")
		return nil, fmt.Errorf("invalid user ID: %v", err)
	}

	user, err := s.repo.PatchUser(ctx, objID, updates)
	if err != nil {
		logrus.WithError(err).Error("Failed to patch user in service")
		return nil, fmt.Errorf("failed to update user: %v", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	logrus.WithField("userID", user.ID.Hex()).Info("User updated successfully in service")
	return user, nil
}

// DeleteAccount removes the user together with all their goals and
// notifications. Deletion is terminal and cascades.
func (s *UserService) DeleteAccount(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid user ID: %v", err)
	}

	if err := s.goalRepo.DeleteGoalsByUser(ctx, objID); err != nil {
		return fmt.Errorf("failed to delete user goals: %v", err)
	}
	if err := s.notifRepo.DeleteAllByUser(ctx, objID); err != nil {
		return fmt.Errorf("failed to delete user notifications: %v", err)
	}
	if err := s.repo.DeleteUser(ctx, objID); err != nil {
		return err
	}

	logrus.WithField("userID", id).Info("Account deleted with cascade")
	return nil
}

func dateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}
