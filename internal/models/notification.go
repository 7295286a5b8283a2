package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
)

// MaxNotificationsPerUser bounds the retained in-app notifications; the oldest
// are dropped first once the bound is exceeded.
const MaxNotificationsPerUser = 50

// Notification is an in-app notification shown in the user's feed.
type Notification struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"userId"`
	Title   string             `bson:"title" json:"title"`
	Message string             `bson:"message" json:"message"`
	Date    time.Time          `bson:"date" json:"date"`
	Read    bool               `bson:"read" json:"read"`
	Type    string             `bson:"type" json:"type"`
}
