package services

import (
	"context"

	"github.com/savepath/savepath-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces consumed by the service layer. The mongo repositories in
// internal/repository satisfy them; tests substitute in-memory fakes.

type GoalStore interface {
	CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error)
	GetGoals(ctx context.Context, userID primitive.ObjectID) ([]models.Goal, error)
	UpdateGoal(ctx context.Context, id primitive.ObjectID, goal *models.Goal) (*models.Goal, error)
	DeleteGoal(ctx context.Context, id primitive.ObjectID) error
	DeleteGoalsByUser(ctx context.Context, userID primitive.ObjectID) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	PatchUser(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
}

type NotificationStore interface {
	InsertNotification(ctx context.Context, notif *models.Notification) error
	GetNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	DeleteOldest(ctx context.Context, userID primitive.ObjectID, n int64) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
	DeleteAllByUser(ctx context.Context, userID primitive.ObjectID) error
}
