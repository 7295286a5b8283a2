package services

import (
	"context"
	"testing"
	"time"

	"github.com/savepath/savepath-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService() (*UserService, *fakeUserStore, *fakeGoalStore, *fakeNotificationStore) {
	users := newFakeUserStore()
	goals := newFakeGoalStore()
	notifications := newFakeNotificationStore()
	service := NewUserService(users, goals, notifications)
	service.now = func() time.Time { return testNow }
	return service, users, goals, notifications
}

func registerTestUser(t *testing.T, service *UserService) *models.User {
	t.Helper()
	user, err := service.RegisterUser(context.Background(), &models.User{
		Name:  "Dana",
		Email: "dana@example.com",
	}, "hunter22")
	require.NoError(t, err)
	return user
}

func TestRegisterUserDefaults(t *testing.T) {
	service, _, _, _ := newTestUserService()
	user := registerTestUser(t, service)

	assert.Equal(t, 1, user.Streak)
	assert.Equal(t, models.DefaultPreferences(), user.Preferences)
	assert.False(t, user.Preferences.NotificationsEnabled)
	assert.Equal(t, "20:00", user.Preferences.NotificationTime)
	assert.NotEqual(t, "hunter22", user.HashedPassword)
}

func TestRegisterUserValidation(t *testing.T) {
	service, _, _, _ := newTestUserService()

	_, err := service.RegisterUser(context.Background(), &models.User{Name: "x", Email: "not-an-email"}, "pw")
	assert.Error(t, err)

	_, err = service.RegisterUser(context.Background(), &models.User{Name: "", Email: "a@b.co"}, "pw")
	assert.Error(t, err)

	registerTestUser(t, service)
	_, err = service.RegisterUser(context.Background(), &models.User{Name: "Dup", Email: "dana@example.com"}, "pw")
	assert.EqualError(t, err, "email already in use")
}

func TestAuthenticateUser(t *testing.T) {
	service, _, _, _ := newTestUserService()
	registerTestUser(t, service)

	user, err := service.AuthenticateUser(context.Background(), "dana@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", user.Email)

	_, err = service.AuthenticateUser(context.Background(), "dana@example.com", "wrong")
	assert.EqualError(t, err, "invalid credentials")

	_, err = service.AuthenticateUser(context.Background(), "nobody@example.com", "hunter22")
	assert.EqualError(t, err, "invalid credentials")
}

func TestRecordLoginStreak(t *testing.T) {
	service, users, _, _ := newTestUserService()
	user := registerTestUser(t, service)

	set := func(streak int, lastLogin time.Time) *models.User {
		stored := users.users[user.ID]
		stored.Streak = streak
		stored.LastLoginDate = lastLogin
		return cloneUser(stored)
	}

	// Consecutive day: streak increments.
	updated, err := service.RecordLogin(context.Background(), set(3, testNow.AddDate(0, 0, -1)))
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Streak)

	// Same day again: unchanged.
	updated, err = service.RecordLogin(context.Background(), set(4, testNow))
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Streak)

	// Gap: reset to 1.
	updated, err = service.RecordLogin(context.Background(), set(9, testNow.AddDate(0, 0, -5)))
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Streak)

	assert.Equal(t, testNow, updated.LastLoginDate)
}

func TestPatchUserPreferences(t *testing.T) {
	service, _, _, _ := newTestUserService()
	user := registerTestUser(t, service)

	prefs := user.Preferences
	prefs.NotificationsEnabled = true
	prefs.NotificationTime = "09:00"

	updated, err := service.PatchUser(context.Background(), user.ID.Hex(), map[string]interface{}{
		"preferences": prefs,
	})
	require.NoError(t, err)
	assert.True(t, updated.Preferences.NotificationsEnabled)
	assert.Equal(t, "09:00", updated.Preferences.NotificationTime)
}

func TestPatchUserNotFound(t *testing.T) {
	service, _, _, _ := newTestUserService()
	_, err := service.PatchUser(context.Background(), "64b2f8f0a0c0a0c0a0c0a0c0", map[string]interface{}{"name": "x"})
	assert.EqualError(t, err, "user not found")
}

func TestDeleteAccountCascades(t *testing.T) {
	service, users, goals, notifications := newTestUserService()
	user := registerTestUser(t, service)

	goalService := NewGoalService(goals)
	spec := newGoalSpec()
	spec.UserID = user.ID
	_, err := goalService.CreateGoal(context.Background(), spec)
	require.NoError(t, err)

	notifService := NewNotificationService(notifications)
	require.NoError(t, notifService.AddNotification(context.Background(), user.ID,
		models.NotificationInfo, "Daily Reminder", "message"))

	require.NoError(t, service.DeleteAccount(context.Background(), user.ID.Hex()))

	assert.Empty(t, users.users)
	assert.Empty(t, goals.goals)
	remaining, err := notifService.GetNotifications(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
