package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/savepath/savepath-api/internal/models"
	"github.com/savepath/savepath-api/internal/services"
	"github.com/savepath/savepath-api/pkg/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalHandler handles HTTP requests related to goals.
type GoalHandler struct {
	Service *services.GoalService
}

// NewGoalHandler creates a new instance of GoalHandler.
func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{Service: goalService}
}

// CreateGoalHandler handles the creation of a new goal.
func (h *GoalHandler) CreateGoalHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		logrus.Warn("Unauthorized access attempt during goal creation")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var goal models.Goal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during goal creation")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("Failed to convert user ID")
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}
	goal.UserID = userID

	createdGoal, err := h.Service.CreateGoal(r.Context(), &goal)
	if err != nil {
		logrus.WithError(err).Warn("Failed to create goal")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID": claims.UserID,
		"goalID": createdGoal.ID.Hex(),
	}).Info("Goal successfully created")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createdGoal)
}

// GetGoalsHandler returns every goal of the logged-in user.
func (h *GoalHandler) GetGoalsHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusInternalServerError)
		return
	}

	goals, err := h.Service.GetGoals(r.Context(), userID)
	if err != nil {
		logrus.WithError(err).Error("Failed to fetch goals")
		http.Error(w, "Failed to fetch goals", http.StatusInternalServerError)
		return
	}
	if goals == nil {
		goals = []models.Goal{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goals)
}

// GetGoalHandler handles fetching a single goal by its ID.
func (h *GoalHandler) GetGoalHandler(w http.ResponseWriter, r *http.Request) {
	goal, claims, ok := h.ownedGoal(w, r)
	if !ok {
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID": claims.UserID,
		"goalID": goal.ID.Hex(),
	}).Info("Goal successfully fetched")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(goal)
}

// UpdateGoalHandler applies a partial edit to a goal.
func (h *GoalHandler) UpdateGoalHandler(w http.ResponseWriter, r *http.Request) {
	goal, _, ok := h.ownedGoal(w, r)
	if !ok {
		return
	}

	var update services.GoalUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		logrus.WithError(err).Warn("Invalid request payload during goal update")
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updatedGoal, err := h.Service.EditGoal(r.Context(), goal.ID.Hex(), update)
	if err != nil {
		logrus.WithError(err).Warn("Failed to update goal")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updatedGoal)
}

// LogSavingsHandler records one contribution toward a goal.
func (h *GoalHandler) LogSavingsHandler(w http.ResponseWriter, r *http.Request) {
	goal, claims, ok := h.ownedGoal(w, r)
	if !ok {
		return
	}

	var payload struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updatedGoal, err := h.Service.LogContribution(r.Context(), goal.ID.Hex(), payload.Amount)
	if err != nil {
		logrus.WithError(err).WithField("goalID", goal.ID.Hex()).Warn("Failed to log contribution")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID": claims.UserID,
		"goalID": goal.ID.Hex(),
		"amount": payload.Amount,
	}).Info("Contribution recorded")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updatedGoal)
}

// GetGoalProgressHandler returns the derived projection for a goal.
func (h *GoalHandler) GetGoalProgressHandler(w http.ResponseWriter, r *http.Request) {
	goal, _, ok := h.ownedGoal(w, r)
	if !ok {
		return
	}

	progress, err := h.Service.Progress(r.Context(), goal.ID.Hex())
	if err != nil {
		http.Error(w, "Failed to compute progress", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(progress)
}

// DeleteGoalHandler removes a goal and its savings history.
func (h *GoalHandler) DeleteGoalHandler(w http.ResponseWriter, r *http.Request) {
	goal, claims, ok := h.ownedGoal(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteGoal(r.Context(), goal.ID.Hex()); err != nil {
		logrus.WithError(err).Error("Failed to delete goal")
		http.Error(w, "Failed to delete goal", http.StatusInternalServerError)
		return
	}

	logrus.WithFields(logrus.Fields{
		"userID": claims.UserID,
		"goalID": goal.ID.Hex(),
	}).Info("Goal deleted")

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Goal deleted"})
}

// ownedGoal loads the goal from the route and verifies the logged-in user owns
// it. Writes the error response itself when the check fails.
func (h *GoalHandler) ownedGoal(w http.ResponseWriter, r *http.Request) (*models.Goal, *middleware.Claims, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, nil, false
	}

	goalID := mux.Vars(r)["id"]
	goal, err := h.Service.GetGoal(r.Context(), goalID)
	if err != nil || goal == nil {
		logrus.WithField("goalID", goalID).Warn("Goal not found")
		http.Error(w, "Goal not found", http.StatusNotFound)
		return nil, nil, false
	}

	if goal.UserID.Hex() != claims.UserID {
		logrus.WithFields(logrus.Fields{
			"userID": claims.UserID,
			"goalID": goalID,
		}).Warn("Forbidden: user tried to access another user's goal")
		http.Error(w, "Forbidden: you can only access your own goals", http.StatusForbidden)
		return nil, nil, false
	}

	return goal, claims, true
}
