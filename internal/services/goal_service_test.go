package services

import (
	"context"
	"testing"
	"time"

	"github.com/savepath/savepath-api/internal/models"
	"github.com/savepath/savepath-api/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	logger.InitLogger()
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestGoalService() (*GoalService, *fakeGoalStore) {
	store := newFakeGoalStore()
	service := NewGoalService(store)
	service.now = func() time.Time { return testNow }
	return service, store
}

func newGoalSpec() *models.Goal {
	return &models.Goal{
		UserID:       primitive.NewObjectID(),
		ProductName:  "Noise-cancelling headphones",
		TargetAmount: 300,
		Currency:     "USD",
		Category:     "Electronics",
		TargetDate:   testNow.Add(30 * 24 * time.Hour),
		Frequency:    models.FrequencyWeekly,
	}
}

func TestCreateGoal(t *testing.T) {
	service, _ := newTestGoalService()

	goal, err := service.CreateGoal(context.Background(), newGoalSpec())
	require.NoError(t, err)

	assert.Equal(t, models.StatusActive, goal.Status)
	assert.Equal(t, 0.0, goal.CurrentAmount)
	assert.Equal(t, testNow, goal.StartDate)
	assert.NotNil(t, goal.Logs)
	assert.Empty(t, goal.Logs)
	assert.NotEmpty(t, goal.ImageURL, "placeholder image should be substituted")

	// The empty log list survives a store round trip as empty, not nil.
	reloaded, err := service.GetGoal(context.Background(), goal.ID.Hex())
	require.NoError(t, err)
	assert.NotNil(t, reloaded.Logs)
	assert.Empty(t, reloaded.Logs)
}

func TestCreateGoalValidation(t *testing.T) {
	service, _ := newTestGoalService()

	tests := []struct {
		name   string
		mutate func(g *models.Goal)
	}{
		{"missing product name", func(g *models.Goal) { g.ProductName = "" }},
		{"zero target amount", func(g *models.Goal) { g.TargetAmount = 0 }},
		{"negative target amount", func(g *models.Goal) { g.TargetAmount = -10 }},
		{"missing target date", func(g *models.Goal) { g.TargetDate = time.Time{} }},
		{"invalid frequency", func(g *models.Goal) { g.Frequency = "yearly" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := newGoalSpec()
			tt.mutate(spec)
			_, err := service.CreateGoal(context.Background(), spec)
			assert.Error(t, err)
		})
	}
}

func TestCreateGoalDefaultsFrequency(t *testing.T) {
	service, _ := newTestGoalService()

	spec := newGoalSpec()
	spec.Frequency = ""
	goal, err := service.CreateGoal(context.Background(), spec)
	require.NoError(t, err)
	assert.Equal(t, models.FrequencyDaily, goal.Frequency)
}

func TestLogContribution(t *testing.T) {
	service, _ := newTestGoalService()
	goal, err := service.CreateGoal(context.Background(), newGoalSpec())
	require.NoError(t, err)

	updated, err := service.LogContribution(context.Background(), goal.ID.Hex(), 50)
	require.NoError(t, err)

	assert.Equal(t, 50.0, updated.CurrentAmount)
	require.Len(t, updated.Logs, 1)
	assert.Equal(t, 50.0, updated.Logs[0].Amount)
	assert.Equal(t, testNow, updated.Logs[0].Date)
	assert.NotEmpty(t, updated.Logs[0].ID)
	assert.Equal(t, models.StatusActive, updated.Status)
}

func TestLogContributionRejectsNonPositive(t *testing.T) {
	service, _ := newTestGoalService()
	goal, err := service.CreateGoal(context.Background(), newGoalSpec())
	require.NoError(t, err)

	for _, amount := range []float64{0, -5} {
		_, err := service.LogContribution(context.Background(), goal.ID.Hex(), amount)
		assert.Error(t, err)
	}

	// The goal is untouched.
	reloaded, err := service.GetGoal(context.Background(), goal.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 0.0, reloaded.CurrentAmount)
	assert.Empty(t, reloaded.Logs)
}

func TestContributionCompletesGoal(t *testing.T) {
	service, _ := newTestGoalService()
	goal, err := service.CreateGoal(context.Background(), newGoalSpec())
	require.NoError(t, err)

	updated, err := service.LogContribution(context.Background(), goal.ID.Hex(), 300)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	// Over-contribution stays completed and the raw percentage runs past 100.
	updated, err = service.LogContribution(context.Background(), goal.ID.Hex(), 60)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	progress, err := service.Progress(context.Background(), goal.ID.Hex())
	require.NoError(t, err)
	assert.InDelta(t, 120, progress.RawPercent, 1e-9)
	assert.Equal(t, 100.0, progress.Percent)
	assert.Equal(t, 0.0, progress.Remaining)
	assert.Equal(t, 0.0, progress.RequiredRate)
}

func TestStatusInvariantAfterMutations(t *testing.T) {
	service, _ := newTestGoalService()
	goal, err := service.CreateGoal(context.Background(), newGoalSpec())
	require.NoError(t, err)

	amounts := []float64{100, 150, 50, 25}
	for _, amount := range amounts {
		updated, err := service.LogContribution(context.Background(), goal.ID.Hex(), amount)
		require.NoError(t, err)
		assert.Equal(t, updated.CurrentAmount >= updated.TargetAmount,
			updated.Status == models.StatusCompleted)
	}
}

func TestEditGoalPartialUpdate(t *testing.T) {
	service, _ := newTestGoalService()
	goal, err := service.CreateGoal(context.Background(), newGoalSpec())
	require.NoError(t, err)

	name := "Standing desk"
	updated, err := service.EditGoal(context.Background(), goal.ID.Hex(), GoalUpdate{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Standing desk", updated.ProductName)
	// Untouched fields survive.
	assert.Equal(t, goal.TargetAmount, updated.TargetAmount)
	assert.Equal(t, goal.Frequency, updated.Frequency)
	assert.Equal(t, goal.TargetDate, updated.TargetDate)
}

func TestEditGoalCompletesAndReopens(t *testing.T) {
	service, _ := newTestGoalService()
	goal, err := service.CreateGoal(context.Background(), newGoalSpec())
	require.NoError(t, err)

	_, err = service.LogContribution(context.Background(), goal.ID.Hex(), 200)
	require.NoError(t, err)

	// Lowering the target below the saved amount completes the goal.
	lower := 150.0
	updated, err := service.EditGoal(context.Background(), goal.ID.Hex(), GoalUpdate{TargetAmount: &lower})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	// Raising it back above re-opens the goal.
	higher := 500.0
	updated, err = service.EditGoal(context.Background(), goal.ID.Hex(), GoalUpdate{TargetAmount: &higher})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, updated.Status)
}

func TestEditGoalValidation(t *testing.T) {
	service, _ := newTestGoalService()
	goal, err := service.CreateGoal(context.Background(), newGoalSpec())
	require.NoError(t, err)

	empty := ""
	zero := 0.0
	badFreq := "hourly"

	for _, update := range []GoalUpdate{
		{Name: &empty},
		{TargetAmount: &zero},
		{Frequency: &badFreq},
	} {
		_, err := service.EditGoal(context.Background(), goal.ID.Hex(), update)
		assert.Error(t, err)
	}
}

func TestDeleteGoalCascades(t *testing.T) {
	service, store := newTestGoalService()
	goal, err := service.CreateGoal(context.Background(), newGoalSpec())
	require.NoError(t, err)

	_, err = service.LogContribution(context.Background(), goal.ID.Hex(), 40)
	require.NoError(t, err)

	require.NoError(t, service.DeleteGoal(context.Background(), goal.ID.Hex()))

	// The goal and its embedded history are gone from every subsequent read.
	_, err = service.GetGoal(context.Background(), goal.ID.Hex())
	assert.EqualError(t, err, "goal not found")

	goals, err := service.GetGoals(context.Background(), goal.UserID)
	require.NoError(t, err)
	assert.Empty(t, goals)
	assert.Empty(t, store.goals)
}

func TestDeleteGoalNotFound(t *testing.T) {
	service, _ := newTestGoalService()
	err := service.DeleteGoal(context.Background(), primitive.NewObjectID().Hex())
	assert.EqualError(t, err, "goal not found")
}

func TestProgress(t *testing.T) {
	service, _ := newTestGoalService()

	spec := newGoalSpec()
	spec.TargetAmount = 100
	spec.TargetDate = testNow.Add(10 * 24 * time.Hour)
	spec.Frequency = models.FrequencyDaily
	goal, err := service.CreateGoal(context.Background(), spec)
	require.NoError(t, err)

	_, err = service.LogContribution(context.Background(), goal.ID.Hex(), 50)
	require.NoError(t, err)

	progress, err := service.Progress(context.Background(), goal.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, 50.0, progress.CurrentAmount)
	assert.Equal(t, 100.0, progress.TargetAmount)
	assert.Equal(t, 50.0, progress.Remaining)
	assert.InDelta(t, 50, progress.RawPercent, 1e-9)
	assert.InDelta(t, 5, progress.RequiredRate, 1e-9)
	assert.Equal(t, models.FrequencyDaily, progress.Frequency)
}
