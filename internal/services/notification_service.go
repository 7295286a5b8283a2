package services

import (
	"context"
	"fmt"

	"github.com/savepath/savepath-api/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationService struct {
	repo NotificationStore
}

func NewNotificationService(repo NotificationStore) *NotificationService {
	return &NotificationService{repo: repo}
}

// AddNotification records a new in-app notification and enforces the retention
// bound: once more than models.MaxNotificationsPerUser are stored, the oldest
// are evicted so only the newest remain.
func (s *NotificationService) AddNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string) error {
	notif := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Read:    false,
		Type:    notifType,
	}
	if err := s.repo.InsertNotification(ctx, notif); err != nil {
		return err
	}

	count, err := s.repo.CountByUser(ctx, userID)
	if err != nil {
		logrus.WithError(err).Warn("Failed to count notifications, skipping eviction")
		return nil
	}
	if overflow := count - models.MaxNotificationsPerUser; overflow > 0 {
		if err := s.repo.DeleteOldest(ctx, userID, overflow); err != nil {
			logrus.WithError(err).Warn("Failed to evict oldest notifications")
		}
	}
	return nil
}

// GetNotifications returns the user's notifications, newest first.
func (s *NotificationService) GetNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.repo.GetNotifications(ctx, userID)
}

// MarkAllRead flags every notification of the user as read. Idempotent.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %v", err)
	}
	return nil
}

// ClearForUser removes all notifications of a user (account deletion cascade).
func (s *NotificationService) ClearForUser(ctx context.Context, userID primitive.ObjectID) error {
	return s.repo.DeleteAllByUser(ctx, userID)
}
