package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/savepath/savepath-api/internal/analyzer"
	"github.com/savepath/savepath-api/internal/models"
	"github.com/savepath/savepath-api/internal/projection"
	"github.com/savepath/savepath-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalService owns the goal lifecycle: creation, contribution logging, edits,
// deletion and the active/completed status transitions. All side effects go
// through the store; lifecycle operations never fire notifications themselves.
type GoalService struct {
	repo GoalStore

	// now is swapped out in tests.
	now func() time.Time
}

// GoalUpdate is a partial edit: only non-nil fields are rewritten.
type GoalUpdate struct {
	Name         *string    `json:"name,omitempty"`
	TargetAmount *float64   `json:"targetAmount,omitempty"`
	TargetDate   *time.Time `json:"targetDate,omitempty"`
	Frequency    *string    `json:"frequency,omitempty"`
}

// GoalProgress is the derived projection for one goal.
type GoalProgress struct {
	CurrentAmount float64 `json:"currentAmount"`
	TargetAmount  float64 `json:"targetAmount"`
	Remaining     float64 `json:"remaining"`
	RawPercent    float64 `json:"rawPercent"`
	Percent       float64 `json:"percent"`
	RequiredRate  float64 `json:"requiredRate"`
	Frequency     string  `json:"frequency"`
}

// NewGoalService creates a new instance of GoalService.
func NewGoalService(repo GoalStore) *GoalService {
	return &GoalService{
		repo: repo,
		now:  time.Now,
	}
}

// CreateGoal validates and stores a new goal. The goal starts active with
// nothing saved; a category-keyed placeholder image is substituted when the
// analyzer supplied none.
func (s *GoalService) CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	if goal.ProductName == "" {
		logger.Log.Warn("Goal product name is empty during creation")
		return nil, fmt.Errorf("product name is required")
	}
	if goal.TargetAmount <= 0 {
		logger.Log.WithField("target_amount", goal.TargetAmount).Warn("Non-positive target amount during creation")
		return nil, fmt.Errorf("target amount must be positive")
	}
	if goal.TargetDate.IsZero() {
		logger.Log.Warn("Goal target date missing during creation")
		return nil, fmt.Errorf("target date is required")
	}
	if goal.Frequency == "" {
		goal.Frequency = models.FrequencyDaily
	}
	if !models.ValidFrequencies[goal.Frequency] {
		return nil, fmt.Errorf("invalid frequency %q", goal.Frequency)
	}
	if goal.ImageURL == "" {
		goal.ImageURL = analyzer.PlaceholderImage(goal.Category)
	}

	goal.StartDate = s.now()
	goal.CurrentAmount = 0
	goal.Status = models.StatusActive
	goal.Logs = []models.SavingsLog{}

	createdGoal, err := s.repo.CreateGoal(ctx, goal)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create goal")
		return nil, fmt.Errorf("failed to create goal: %v", err)
	}

	logger.Log.WithField("goal_id", createdGoal.ID.Hex()).Info("Goal created in service layer")
	return createdGoal, nil
}

// GetGoal retrieves a goal by its ID.
func (s *GoalService) GetGoal(ctx context.Context, id string) (*models.Goal, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		logger.Log.WithField("goal_id", id).WithError(err).Warn("Invalid goal ID in GetGoal")
		return nil, fmt.Errorf("invalid goal ID: %v", err)
	}

	goal, err := s.repo.GetGoalByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %v", err)
	}
	if goal == nil {
		return nil, fmt.Errorf("goal not found")
	}
	return goal, nil
}

// GetGoals retrieves all goals of a user.
func (s *GoalService) GetGoals(ctx context.Context, userID primitive.ObjectID) ([]models.Goal, error) {
	goals, err := s.repo.GetGoals(ctx, userID)
	if err != nil {
		logger.Log.WithField("user_id", userID.Hex()).WithError(err).Error("Failed to get goals in service")
		return nil, fmt.Errorf("failed to fetch goals: %v", err)
	}
	return goals, nil
}

// LogContribution appends a savings log to the goal and raises CurrentAmount.
// Non-positive amounts are rejected. The whole updated goal is persisted, not
// a delta: last writer wins.
func (s *GoalService) LogContribution(ctx context.Context, id string, amount float64) (*models.Goal, error) {
	if amount <= 0 {
		logger.Log.WithField("amount", amount).Warn("Rejected non-positive contribution")
		return nil, fmt.Errorf("contribution amount must be positive")
	}

	goal, err := s.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	goal.Logs = append(goal.Logs, models.SavingsLog{
		ID:     uuid.NewString(),
		Amount: amount,
		Date:   s.now(),
	})
	goal.CurrentAmount += amount
	s.reevaluateStatus(goal)

	updated, err := s.repo.UpdateGoal(ctx, goal.ID, goal)
	if err != nil {
		logger.Log.WithField("goal_id", id).WithError(err).Error("Failed to persist contribution")
		return nil, fmt.Errorf("failed to log contribution: %v", err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"goal_id": id,
		"amount":  amount,
		"status":  updated.Status,
	}).Info("Contribution logged")
	return updated, nil
}

// EditGoal rewrites only the provided fields, then re-evaluates the
// completed/active transition against the current saved amount. An edit that
// raises the target above the saved amount re-opens a completed goal.
func (s *GoalService) EditGoal(ctx context.Context, id string, update GoalUpdate) (*models.Goal, error) {
	goal, err := s.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, fmt.Errorf("product name is required")
		}
		goal.ProductName = *update.Name
	}
	if update.TargetAmount != nil {
		if *update.TargetAmount <= 0 {
			return nil, fmt.Errorf("target amount must be positive")
		}
		goal.TargetAmount = *update.TargetAmount
	}
	if update.TargetDate != nil {
		if update.TargetDate.IsZero() {
			return nil, fmt.Errorf("target date is required")
		}
		goal.TargetDate = *update.TargetDate
	}
	if update.Frequency != nil {
		if !models.ValidFrequencies[*update.Frequency] {
			return nil, fmt.Errorf("invalid frequency %q", *update.Frequency)
		}
		goal.Frequency = *update.Frequency
	}

	s.reevaluateStatus(goal)

	updated, err := s.repo.UpdateGoal(ctx, goal.ID, goal)
	if err != nil {
		logger.Log.WithField("goal_id", id).WithError(err).Error("Failed to persist goal edit")
		return nil, fmt.Errorf("failed to update goal: %v", err)
	}

	logger.Log.WithField("goal_id", id).Info("Goal updated successfully in service layer")
	return updated, nil
}

// DeleteGoal removes a goal. Its savings logs are embedded and go with it.
// User confirmation is a caller concern.
func (s *GoalService) DeleteGoal(ctx context.Context, id string) error {
	goal, err := s.GetGoal(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteGoal(ctx, goal.ID); err != nil {
		logger.Log.WithField("goal_id", id).WithError(err).Error("Failed to delete goal")
		return fmt.Errorf("failed to delete goal: %v", err)
	}

	logger.Log.WithField("goal_id", id).Info("Goal deleted successfully in service layer")
	return nil
}

// Progress computes the derived savings projection for a goal.
func (s *GoalService) Progress(ctx context.Context, id string) (*GoalProgress, error) {
	goal, err := s.GetGoal(ctx, id)
	if err != nil {
		return nil, err
	}

	raw := projection.ProgressPercent(goal.CurrentAmount, goal.TargetAmount)
	return &GoalProgress{
		CurrentAmount: goal.CurrentAmount,
		TargetAmount:  goal.TargetAmount,
		Remaining:     goal.Remaining(),
		RawPercent:    raw,
		Percent:       projection.ClampPercent(raw),
		RequiredRate:  projection.RequiredRate(goal.Remaining(), goal.TargetDate, goal.Frequency, s.now()),
		Frequency:     goal.Frequency,
	}, nil
}

// reevaluateStatus enforces the lifecycle invariant after a mutation that
// touched CurrentAmount or TargetAmount: completed iff funded. A paused goal
// that is not funded stays paused; nothing in this service drives pausing.
func (s *GoalService) reevaluateStatus(goal *models.Goal) {
	if goal.CurrentAmount >= goal.TargetAmount {
		goal.Status = models.StatusCompleted
	} else if goal.Status == models.StatusCompleted {
		goal.Status = models.StatusActive
	}
}
