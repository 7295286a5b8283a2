package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/savepath/savepath-api/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserRepository handles database operations related to users.
//
// Missing or undecodable documents are reported as (nil, nil): the store
// degrades to "absent" rather than surfacing an error the caller cannot act on.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// CreateUser inserts a new user into the database.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		logrus.Error("Failed to cast inserted ID to ObjectID")
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	user.ID = insertedID

	logrus.WithField("userID", user.ID.Hex()).Info("User inserted successfully")
	return user, nil
}

// GetUserByID retrieves a user by their ID. Returns (nil, nil) when absent.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			logrus.WithFields(logrus.Fields{
				"userID": id.Hex(),
				"error":  err,
			}).Warn("Failed to decode user, treating as absent")
		}
		return nil, nil
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email. Returns (nil, nil) when absent.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			logrus.WithFields(logrus.Fields{
				"email": email,
				"error": err,
			}).Warn("Failed to decode user by email, treating as absent")
		}
		return nil, nil
	}
	return &user, nil
}

// SaveUser overwrites the stored user document in full (last writer wins).
func (r *UserRepository) SaveUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": user})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": user.ID.Hex(),
			"error":  err,
		}).Error("Failed to save user")
		return fmt.Errorf("failed to save user: %v", err)
	}
	return nil
}

// PatchUser applies a partial update to the user document and returns the
// resulting user. Returns (nil, nil) when the user does not exist.
func (r *UserRepository) PatchUser(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.User, error) {
	updates["updated_at"] = time.Now()

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to patch user")
		return nil, fmt.Errorf("failed to patch user: %v", err)
	}
	if result.MatchedCount == 0 {
		return nil, nil
	}

	logrus.WithField("userID", id.Hex()).Info("User patched successfully")
	return r.GetUserByID(ctx, id)
}

// DeleteUser deletes a user from the database.
func (r *UserRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Error("Failed to delete user")
		return fmt.Errorf("failed to delete user: %v", err)
	}

	logrus.WithField("userID", id.Hex()).Info("User deleted successfully")
	return nil
}

// GetAllUsers returns every stored user. The reminder scheduler walks this list.
func (r *UserRepository) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			logrus.WithError(err).Warn("Skipping undecodable user document")
			continue
		}
		users = append(users, &user)
	}

	return users, nil
}
