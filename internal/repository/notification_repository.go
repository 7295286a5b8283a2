package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/savepath/savepath-api/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationRepository struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *mongo.Database) *NotificationRepository {
	return &NotificationRepository{
		collection: db.Collection("notifications"),
	}
}

// InsertNotification inserts a new notification.
func (r *NotificationRepository) InsertNotification(ctx context.Context, notif *models.Notification) error {
	if notif.Date.IsZero() {
		notif.Date = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, notif)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert notification")
		return fmt.Errorf("failed to create notification: %v", err)
	}
	return nil
}

// GetNotifications returns all notifications for a user, newest first.
func (r *NotificationRepository) GetNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %v", err)
	}
	defer cursor.Close(ctx)

	var notifications []models.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		logrus.WithError(err).Warn("Failed to decode notifications, returning empty list")
		return nil, nil
	}
	return notifications, nil
}

// CountByUser returns the number of stored notifications for a user.
func (r *NotificationRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %v", err)
	}
	return count, nil
}

// DeleteOldest removes the n oldest notifications for a user.
func (r *NotificationRepository) DeleteOldest(ctx context.Context, userID primitive.ObjectID, n int64) error {
	if n <= 0 {
		return nil
	}

	// _id breaks date ties so same-instant notifications evict in insertion order.
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(n).
		SetProjection(bson.M{"_id": 1})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return fmt.Errorf("failed to find oldest notifications: %v", err)
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			continue
		}
		ids = append(ids, doc.ID)
	}
	if len(ids) == 0 {
		return nil
	}

	result, err := r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("failed to delete oldest notifications: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID.Hex(),
		"count":   result.DeletedCount,
	}).Info("Evicted oldest notifications")
	return nil
}

// MarkAllRead sets Read on every notification of the user. Safe to repeat.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %v", err)
	}
	return nil
}

// DeleteAllByUser removes every notification of the user.
func (r *NotificationRepository) DeleteAllByUser(ctx context.Context, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete notifications: %v", err)
	}
	logrus.Infof("Deleted %d notifications for user %s", result.DeletedCount, userID.Hex())
	return nil
}
