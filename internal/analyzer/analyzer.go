// Package analyzer resolves a product URL into a best-effort name, price,
// category and carbon estimate. The remote call can be slow, fail or return
// malformed data; callers fall back to manual entry and must never let a bad
// response reach the store.
package analyzer

import (
	"context"

	"github.com/savepath/savepath-api/internal/models"
)

// ProductAnalyzer is the pluggable analysis strategy. hint is optional
// free-text context supplied by the user.
type ProductAnalyzer interface {
	Analyze(ctx context.Context, url, hint string) (*models.ProductAnalysis, error)
	InsightMessage(ctx context.Context, goals []models.Goal) string
}

// Placeholder images keyed by category, used whenever analysis supplies no
// image of its own.
var placeholderImages = map[string]string{
	"Electronics": "https://images.unsplash.com/photo-1550009158-9ebf69173e03?auto=format&fit=crop&q=80&w=800",
	"Fashion":     "https://images.unsplash.com/photo-1445205170230-053b83016050?auto=format&fit=crop&q=80&w=800",
	"Home":        "https://images.unsplash.com/photo-1484101403633-562f891dc89a?auto=format&fit=crop&q=80&w=800",
	"Automotive":  "https://images.unsplash.com/photo-1552519507-da3b142c6e3d?auto=format&fit=crop&q=80&w=800",
	"Beauty":      "https://images.unsplash.com/photo-1596462502278-27bfdd403cc2?auto=format&fit=crop&q=80&w=800",
	"Sports":      "https://images.unsplash.com/photo-1517649763962-0c623066013b?auto=format&fit=crop&q=80&w=800",
	"Other":       "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?auto=format&fit=crop&q=80&w=800",
}

// PlaceholderImage returns the stock image for a category, falling back to
// the generic one for unknown categories.
func PlaceholderImage(category string) string {
	if url, ok := placeholderImages[category]; ok {
		return url
	}
	return placeholderImages["Other"]
}
