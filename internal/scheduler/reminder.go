// Package scheduler runs the daily savings reminder: a repeating check that
// fires at most one reminder per user per calendar day, after the user's
// configured time of day.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/savepath/savepath-api/internal/models"
	"github.com/savepath/savepath-api/pkg/notifier"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultReminderMinutes is 20:00, used when a user's notification time is
// unset or unparseable.
const defaultReminderMinutes = 20 * 60

// UserStore is the slice of the user store the reminder needs.
type UserStore interface {
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	PatchUser(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error)
}

// NotificationSink records the in-app notification of a fire.
type NotificationSink interface {
	AddNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string) error
}

// DailyReminder checks once a minute whether each user is due their daily
// reminder. The clock is injected so the fire decision is testable without
// waiting on wall time.
type DailyReminder struct {
	users         UserStore
	notifications NotificationSink
	push          notifier.Notifier
	cron          *cron.Cron

	// Now is swapped out in tests.
	Now func() time.Time
}

// NewDailyReminder creates the reminder job with its dependencies.
func NewDailyReminder(users UserStore, notifications NotificationSink, push notifier.Notifier) *DailyReminder {
	return &DailyReminder{
		users:         users,
		notifications: notifications,
		push:          push,
		Now:           time.Now,
	}
}

// Start runs an immediate check, then one every minute until Stop.
func (d *DailyReminder) Start() error {
	if err := d.CheckAndFire(context.Background()); err != nil {
		logrus.WithError(err).Error("Initial reminder check failed")
	}

	d.cron = cron.New()
	_, err := d.cron.AddFunc("@every 1m", func() {
		if err := d.CheckAndFire(context.Background()); err != nil {
			logrus.WithError(err).Error("Reminder check failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register reminder job: %v", err)
	}

	d.cron.Start()
	logrus.Info("Daily reminder scheduler started")
	return nil
}

// Stop cancels the repeating check. In-flight ticks run to completion.
func (d *DailyReminder) Stop() {
	if d.cron != nil {
		d.cron.Stop()
	}
}

// CheckAndFire evaluates the fire condition for every user and fires the
// reminder for those who are due.
func (d *DailyReminder) CheckAndFire(ctx context.Context) error {
	users, err := d.users.GetAllUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load users: %v", err)
	}

	now := d.Now()
	for _, user := range users {
		if user == nil || !user.Preferences.NotificationsEnabled {
			continue
		}
		if d.due(user, now) {
			d.fire(ctx, user, now)
		}
	}
	return nil
}

// due reports whether the user should be reminded at now: past their preferred
// time of day and not yet reminded today (per the watermark).
func (d *DailyReminder) due(user *models.User, now time.Time) bool {
	todayKey := now.Format("2006-01-02")
	currentMinutes := now.Hour()*60 + now.Minute()
	targetMinutes := parseNotificationTime(user.Preferences.NotificationTime)

	return currentMinutes >= targetMinutes && user.Preferences.LastNotificationDate != todayKey
}

// fire performs one reminder: best-effort device push, in-app notification,
// then the watermark patch. The three steps are not transactional; a crash
// before the watermark write risks a duplicate reminder rather than a lost
// one, which is the accepted trade-off.
func (d *DailyReminder) fire(ctx context.Context, user *models.User, now time.Time) {
	todayKey := now.Format("2006-01-02")
	timeStr := user.Preferences.NotificationTime
	if timeStr == "" {
		timeStr = "20:00"
	}

	if err := d.push.Send(ctx, "Time to Save!", fmt.Sprintf("It's %s. Update your savings goals for today!", timeStr)); err != nil {
		logrus.WithError(err).WithField("userID", user.ID.Hex()).Warn("Device notification failed, recording in-app only")
	}

	if err := d.notifications.AddNotification(ctx, user.ID,
		models.NotificationInfo,
		"Daily Reminder",
		"Don't forget to track your daily savings progress!",
	); err != nil {
		logrus.WithError(err).WithField("userID", user.ID.Hex()).Error("Failed to record reminder notification")
	}

	if _, err := d.users.PatchUser(ctx, user.ID, map[string]interface{}{
		"preferences.last_notification_date": todayKey,
	}); err != nil {
		logrus.WithError(err).WithField("userID", user.ID.Hex()).Error("Failed to update reminder watermark")
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID": user.ID.Hex(),
		"day":    todayKey,
	}).Info("Daily reminder fired")
}

// parseNotificationTime converts "HH:MM" to minutes of day, falling back to
// 20:00 for anything unparseable.
func parseNotificationTime(value string) int {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return defaultReminderMinutes
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return defaultReminderMinutes
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return defaultReminderMinutes
	}

	return hour*60 + minute
}
