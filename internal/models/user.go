package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Preferences holds the per-user settings that drive the daily reminder.
// NotificationTime is "HH:MM" in 24-hour format, LastNotificationDate is a
// date-only string ("2006-01-02") acting as the reminder de-duplication watermark.
type Preferences struct {
	Currency             string `bson:"currency" json:"currency"`
	NotificationsEnabled bool   `bson:"notifications_enabled" json:"notificationsEnabled"`
	NotificationTime     string `bson:"notification_time" json:"notificationTime"`
	NotifyMilestones     bool   `bson:"notify_milestones" json:"notifyMilestones"`
	NotifyStreak         bool   `bson:"notify_streak" json:"notifyStreak"`
	LastNotificationDate string `bson:"last_notification_date,omitempty" json:"lastNotificationDate,omitempty"`
}

// User represents a SavePath account.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	PhotoURL       string             `bson:"photo_url,omitempty" json:"photoUrl,omitempty"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	Streak         int                `bson:"streak" json:"streak"`
	LastLoginDate  time.Time          `bson:"last_login_date" json:"lastLoginDate"`
	Preferences    Preferences        `bson:"preferences" json:"preferences"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

// PublicUser is the representation returned to other clients.
type PublicUser struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	PhotoURL string             `json:"photoUrl,omitempty"`
	Streak   int                `json:"streak"`
}

// DefaultPreferences are applied on registration; notifications stay off until
// the user explicitly enables them from their profile.
func DefaultPreferences() Preferences {
	return Preferences{
		Currency:             "USD",
		NotificationsEnabled: false,
		NotificationTime:     "20:00",
		NotifyMilestones:     true,
		NotifyStreak:         true,
	}
}
