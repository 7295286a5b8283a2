package services

import (
	"context"
	"time"

	"github.com/savepath/savepath-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the mongo repositories. They mirror the store
// semantics the services rely on: whole-document writes, absent entities
// reported as (nil, nil), notifications kept in insertion order.

type fakeGoalStore struct {
	goals map[primitive.ObjectID]*models.Goal
}

func newFakeGoalStore() *fakeGoalStore {
	return &fakeGoalStore{goals: make(map[primitive.ObjectID]*models.Goal)}
}

func cloneGoal(goal *models.Goal) *models.Goal {
	copied := *goal
	if goal.Logs != nil {
		copied.Logs = make([]models.SavingsLog, len(goal.Logs))
		copy(copied.Logs, goal.Logs)
	}
	return &copied
}

func (f *fakeGoalStore) CreateGoal(_ context.Context, goal *models.Goal) (*models.Goal, error) {
	goal.ID = primitive.NewObjectID()
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = time.Now()
	f.goals[goal.ID] = cloneGoal(goal)
	return cloneGoal(goal), nil
}

func (f *fakeGoalStore) GetGoalByID(_ context.Context, id primitive.ObjectID) (*models.Goal, error) {
	goal, ok := f.goals[id]
	if !ok {
		return nil, nil
	}
	return cloneGoal(goal), nil
}

func (f *fakeGoalStore) GetGoals(_ context.Context, userID primitive.ObjectID) ([]models.Goal, error) {
	var goals []models.Goal
	for _, goal := range f.goals {
		if goal.UserID == userID {
			goals = append(goals, *cloneGoal(goal))
		}
	}
	return goals, nil
}

func (f *fakeGoalStore) UpdateGoal(_ context.Context, id primitive.ObjectID, goal *models.Goal) (*models.Goal, error) {
	f.goals[id] = cloneGoal(goal)
	return cloneGoal(goal), nil
}

func (f *fakeGoalStore) DeleteGoal(_ context.Context, id primitive.ObjectID) error {
	delete(f.goals, id)
	return nil
}

func (f *fakeGoalStore) DeleteGoalsByUser(_ context.Context, userID primitive.ObjectID) error {
	for id, goal := range f.goals {
		if goal.UserID == userID {
			delete(f.goals, id)
		}
	}
	return nil
}

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func cloneUser(user *models.User) *models.User {
	copied := *user
	return &copied
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	f.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	return cloneUser(user), nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) SaveUser(_ context.Context, user *models.User) error {
	f.users[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUserStore) PatchUser(_ context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	for key, value := range updates {
		switch key {
		case "name":
			user.Name = value.(string)
		case "photo_url":
			user.PhotoURL = value.(string)
		case "streak":
			user.Streak = value.(int)
		case "last_login_date":
			user.LastLoginDate = value.(time.Time)
		case "preferences":
			user.Preferences = value.(models.Preferences)
		case "preferences.last_notification_date":
			user.Preferences.LastNotificationDate = value.(string)
		}
	}
	user.UpdatedAt = time.Now()
	return cloneUser(user), nil
}

func (f *fakeUserStore) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserStore) GetAllUsers(_ context.Context) ([]*models.User, error) {
	var users []*models.User
	for _, user := range f.users {
		users = append(users, cloneUser(user))
	}
	return users, nil
}

type fakeNotificationStore struct {
	// insertion order, oldest first
	notifications []models.Notification
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{}
}

func (f *fakeNotificationStore) InsertNotification(_ context.Context, notif *models.Notification) error {
	notif.ID = primitive.NewObjectID()
	if notif.Date.IsZero() {
		notif.Date = time.Now()
	}
	f.notifications = append(f.notifications, *notif)
	return nil
}

func (f *fakeNotificationStore) GetNotifications(_ context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	var result []models.Notification
	for i := len(f.notifications) - 1; i >= 0; i-- {
		if f.notifications[i].UserID == userID {
			result = append(result, f.notifications[i])
		}
	}
	return result, nil
}

func (f *fakeNotificationStore) CountByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	var count int64
	for _, notif := range f.notifications {
		if notif.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationStore) DeleteOldest(_ context.Context, userID primitive.ObjectID, n int64) error {
	var kept []models.Notification
	for _, notif := range f.notifications {
		if notif.UserID == userID && n > 0 {
			n--
			continue
		}
		kept = append(kept, notif)
	}
	f.notifications = kept
	return nil
}

func (f *fakeNotificationStore) MarkAllRead(_ context.Context, userID primitive.ObjectID) error {
	for i := range f.notifications {
		if f.notifications[i].UserID == userID {
			f.notifications[i].Read = true
		}
	}
	return nil
}

func (f *fakeNotificationStore) DeleteAllByUser(_ context.Context, userID primitive.ObjectID) error {
	var kept []models.Notification
	for _, notif := range f.notifications {
		if notif.UserID != userID {
			kept = append(kept, notif)
		}
	}
	f.notifications = kept
	return nil
}
