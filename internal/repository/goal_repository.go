package repository

import (
	"context"
	"errors"
	"time"

	"github.com/savepath/savepath-api/internal/models"
	"github.com/savepath/savepath-api/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GoalRepository struct handles database operations related to goals.
type GoalRepository struct {
	collection *mongo.Collection
}

// NewGoalRepository creates a new instance of GoalRepository.
func NewGoalRepository(db *mongo.Database) *GoalRepository {
	return &GoalRepository{
		collection: db.Collection("goals"),
	}
}

// CreateGoal inserts a new goal in the database.
func (r *GoalRepository) CreateGoal(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, goal)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to insert goal")
		return nil, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logger.Log.Error("Failed to cast inserted ID")
		return nil, errors.New("failed to cast inserted goal ID")
	}
	goal.ID = insertedID

	logger.Log.WithField("goal_id", goal.ID.Hex()).Info("Goal created successfully")
	return goal, nil
}

// GetGoalByID fetches a goal by its ID. Returns (nil, nil) when the goal is
// missing or the stored document cannot be decoded.
func (r *GoalRepository) GetGoalByID(ctx context.Context, id primitive.ObjectID) (*models.Goal, error) {
	var goal models.Goal

	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&goal)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			logger.Log.WithError(err).WithField("goal_id", id.Hex()).Warn("Failed to decode goal, treating as absent")
		}
		return nil, nil
	}

	return &goal, nil
}

// UpdateGoal overwrites the stored goal document in full. The whole updated
// goal (logs included) is persisted, not a delta; last writer wins.
func (r *GoalRepository) UpdateGoal(ctx context.Context, id primitive.ObjectID, goal *models.Goal) (*models.Goal, error) {
	goal.UpdatedAt = time.Now()

	_, err := r.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": goal},
	)
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to update goal")
		return nil, err
	}

	logger.Log.WithField("goal_id", id.Hex()).Info("Goal updated successfully")
	return goal, nil
}

// DeleteGoal deletes a goal from the database by its ID. Savings logs are
// embedded in the goal document, so the history goes with it.
func (r *GoalRepository) DeleteGoal(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logger.Log.WithError(err).WithField("goal_id", id.Hex()).Error("Failed to delete goal")
		return err
	}

	logger.Log.WithField("goal_id", id.Hex()).Info("Goal deleted successfully")
	return nil
}

// DeleteGoalsByUser removes every goal owned by the given user.
func (r *GoalRepository) DeleteGoalsByUser(ctx context.Context, userID primitive.ObjectID) error {
	result, err := r.collection.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to delete user goals")
		return err
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": userID.Hex(),
		"count":   result.DeletedCount,
	}).Info("User goals deleted")
	return nil
}

// GetGoals fetches goals for a specific user, newest first.
func (r *GoalRepository) GetGoals(ctx context.Context, userID primitive.ObjectID) ([]models.Goal, error) {
	var goals []models.Goal

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID.Hex()).Error("Failed to fetch goals")
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var goal models.Goal
		if err := cursor.Decode(&goal); err != nil {
			logger.Log.WithError(err).Warn("Skipping undecodable goal document")
			continue
		}
		goals = append(goals, goal)
	}

	logger.Log.WithFields(map[string]interface{}{
		"user_id": userID.Hex(),
		"count":   len(goals),
	}).Info("Goals fetched successfully")

	return goals, nil
}
