package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/savepath/savepath-api/internal/config"
	"github.com/savepath/savepath-api/internal/models"
	"github.com/savepath/savepath-api/internal/services"
	"github.com/savepath/savepath-api/pkg/middleware"
	"github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests related to user accounts and sessions.
type UserHandler struct {
	Service *services.UserService
	cfg     *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{Service: service, cfg: cfg}
}

// RegisterUserHandler handles POST /users/register.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		PhotoURL string `json:"photoUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user := &models.User{
		Name:     payload.Name,
		Email:    payload.Email,
		PhotoURL: payload.PhotoURL,
	}

	createdUser, err := h.Service.RegisterUser(r.Context(), user, payload.Password)
	if err != nil {
		logrus.WithError(err).Warn("Registration failed")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(createdUser)
}

// LoginUserHandler handles POST /users/login: verifies credentials, records
// the login streak and returns a session token with the fresh user.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	user, err := h.Service.AuthenticateUser(r.Context(), payload.Email, payload.Password)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	user, err = h.Service.RecordLogin(r.Context(), user)
	if err != nil {
		logrus.WithError(err).Error("Failed to record login")
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	token, err := middleware.GenerateToken(user.ID.Hex(), user.Email, h.cfg.JWTSecret)
	if err != nil {
		logrus.WithError(err).Error("Failed to generate token")
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetUserHandler handles GET /users/{id}. Users can only read themselves.
func (h *UserHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.selfOnly(w, r)
	if !ok {
		return
	}

	user, err := h.Service.GetUser(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// UpdateUserHandler handles PATCH /users/{id}: a partial update of profile
// fields and preferences.
func (h *UserHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.selfOnly(w, r)
	if !ok {
		return
	}

	var payload struct {
		Name        *string             `json:"name,omitempty"`
		PhotoURL    *string             `json:"photoUrl,omitempty"`
		Streak      *int                `json:"streak,omitempty"`
		Preferences *models.Preferences `json:"preferences,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	updates := map[string]interface{}{}
	if payload.Name != nil {
		updates["name"] = *payload.Name
	}
	if payload.PhotoURL != nil {
		updates["photo_url"] = *payload.PhotoURL
	}
	if payload.Streak != nil {
		updates["streak"] = *payload.Streak
	}
	if payload.Preferences != nil {
		updates["preferences"] = *payload.Preferences
	}
	if len(updates) == 0 {
		http.Error(w, "No fields to update", http.StatusBadRequest)
		return
	}

	user, err := h.Service.PatchUser(r.Context(), claims.UserID, updates)
	if err != nil {
		logrus.WithError(err).Warn("Failed to update user")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

// DeleteUserHandler handles DELETE /users/{id}: removes the account together
// with its goals and notifications.
func (h *UserHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.selfOnly(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteAccount(r.Context(), claims.UserID); err != nil {
		logrus.WithError(err).Error("Failed to delete account")
		http.Error(w, "Failed to delete account", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Account deleted"})
}

// selfOnly verifies the route {id} matches the logged-in user.
func (h *UserHandler) selfOnly(w http.ResponseWriter, r *http.Request) (*middleware.Claims, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	if mux.Vars(r)["id"] != claims.UserID {
		logrus.WithFields(logrus.Fields{
			"userID":   claims.UserID,
			"targetID": mux.Vars(r)["id"],
		}).Warn("Forbidden: cross-user account access attempt")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return nil, false
	}

	return claims, true
}
