package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/savepath/savepath-api/internal/analyzer"
	"github.com/savepath/savepath-api/internal/services"
	"github.com/savepath/savepath-api/pkg/middleware"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AnalyzeHandler exposes the product analyzer and the insights feed.
type AnalyzeHandler struct {
	Analyzer    analyzer.ProductAnalyzer
	GoalService *services.GoalService
}

func NewAnalyzeHandler(productAnalyzer analyzer.ProductAnalyzer, goalService *services.GoalService) *AnalyzeHandler {
	return &AnalyzeHandler{
		Analyzer:    productAnalyzer,
		GoalService: goalService,
	}
}

// AnalyzeProductHandler handles POST /analyze. A failed or malformed analysis
// is reported as 502 so the client can fall back to manual entry; nothing is
// persisted here.
func (h *AnalyzeHandler) AnalyzeProductHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		URL  string `json:"url"`
		Hint string `json:"hint,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.URL == "" {
		http.Error(w, "A product URL is required", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	result, err := h.Analyzer.Analyze(r.Context(), payload.URL, payload.Hint)
	if err != nil {
		logrus.WithError(err).WithField("url", payload.URL).Warn("Product analysis failed")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "Could not analyze link automatically. Please enter details manually.",
		})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// GetInsightHandler handles GET /insights: a one-line motivational message
// derived from the user's goals. Always succeeds; analyzer failures degrade to
// a canned message.
func (h *AnalyzeHandler) GetInsightHandler(w http.ResponseWriter, r *http.Request) {
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

	goals, err := h.GoalService.GetGoals(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch goals", http.StatusInternalServerError)
		return
	}

	message := h.Analyzer.InsightMessage(r.Context(), goals)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
