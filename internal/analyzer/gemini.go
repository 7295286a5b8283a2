package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/savepath/savepath-api/internal/models"
	"github.com/savepath/savepath-api/internal/projection"
	"github.com/sirupsen/logrus"
)

const (
	geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"
	geminiModel   = "gemini-2.5-flash"
)

// GeminiAnalyzer implements ProductAnalyzer against the Gemini REST API with
// search grounding. Prompt heuristics correct known price-extraction mistakes
// on Indian retail sites.
type GeminiAnalyzer struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewGeminiAnalyzer(apiKey string) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		apiKey:  apiKey,
		baseURL: geminiBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
	Tools    []geminiTool    `json:"tools,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiTool struct {
	GoogleSearch struct{} `json:"google_search"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Analyze extracts product details from a URL via Gemini.
func (g *GeminiAnalyzer) Analyze(ctx context.Context, productURL, hint string) (*models.ProductAnalysis, error) {
	text, err := g.generate(ctx, buildPrompt(productURL, hint), true)
	if err != nil {
		logrus.WithError(err).WithField("url", productURL).Error("Product analysis failed")
		return nil, fmt.Errorf("product analysis failed: %v", err)
	}

	raw, err := extractJSON(text)
	if err != nil {
		logrus.WithField("url", productURL).Warn("Analyzer returned no parseable JSON")
		return nil, fmt.Errorf("product analysis returned malformed data: %v", err)
	}

	result := &models.ProductAnalysis{
		ProductName:       stringField(raw, "productName", "Unknown Product"),
		Price:             numberField(raw, "price", 0),
		Currency:          stringField(raw, "currency", "USD"),
		Category:          stringField(raw, "category", "Other"),
		CarbonFootprintKg: numberField(raw, "carbonFootprintKg", 15),
	}
	if result.Price < 0 {
		result.Price = 0
	}
	// The model cannot reliably return a scrapeable image URL, so the
	// category placeholder is always substituted.
	result.ImageURL = PlaceholderImage(result.Category)

	return result, nil
}

// InsightMessage returns a one-line motivational message derived from the
// user's goals. Failures degrade to a canned line, never an error.
func (g *GeminiAnalyzer) InsightMessage(ctx context.Context, goals []models.Goal) string {
	type goalDigest struct {
		Name     string  `json:"name"`
		Progress float64 `json:"progress"`
		Carbon   float64 `json:"carbon"`
	}
	digests := make([]goalDigest, 0, len(goals))
	for _, goal := range goals {
		digests = append(digests, goalDigest{
			Name:     goal.ProductName,
			Progress: projection.ProgressPercent(goal.CurrentAmount, goal.TargetAmount),
			Carbon:   goal.CarbonFootprintKg,
		})
	}
	encoded, _ := json.Marshal(digests)

	prompt := fmt.Sprintf(
		"Based on these saving goals: %s\nGive me a short, 1-sentence motivational quote or sustainability fact related to their progress.",
		encoded,
	)

	text, err := g.generate(ctx, prompt, false)
	if err != nil {
		logrus.WithError(err).Warn("Insight generation failed, using fallback")
		return "Consistency is the key to success."
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "Keep pushing towards your goals!"
	}
	return text
}

func (g *GeminiAnalyzer) generate(ctx context.Context, prompt string, withSearch bool) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	}
	if withSearch {
		reqBody.Tools = []geminiTool{{}}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, geminiModel, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, body)
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %v", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range decoded.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}

var longDigits = regexp.MustCompile(`\d{5,}`)

// searchTermFromURL derives a search phrase from the product slug in the URL
// path: hyphens become spaces, long numeric ids are stripped, first six words.
func searchTermFromURL(productURL string) string {
	parsed, err := url.Parse(productURL)
	if err != nil {
		return ""
	}

	var segments []string
	for _, segment := range strings.Split(parsed.Path, "/") {
		if len(segment) > 2 {
			segments = append(segments, segment)
		}
	}
	if len(segments) == 0 {
		return ""
	}

	slug := segments[len(segments)-1]
	slug = strings.ReplaceAll(slug, "-", " ")
	slug = longDigits.ReplaceAllString(slug, "")

	words := strings.Fields(slug)
	if len(words) > 6 {
		words = words[:6]
	}
	return strings.Join(words, " ")
}

func buildPrompt(productURL, hint string) string {
	var domainContext, searchHint string
	searchTerm := searchTermFromURL(productURL)

	switch {
	case strings.Contains(productURL, "reliancedigital.in"):
		domainContext = `
DOMAIN CONTEXT: Reliance Digital (India).
- CURRENCY: INR.
- PRICE FORMAT: Often ends in '900' (e.g., 1,19,900, 1,34,900, 1,59,900).
- KNOWN ISSUE: The digit '9' is often misread as '2' due to the font.
- ERROR CORRECTION RULE: If you see "112900", it is INCORRECT. Change it to "119900".
- ERROR CORRECTION RULE: If you see "119000", it is likely "119900".
- LOGIC: Compare against standard Apple India pricing tiers (79900, 89900, 119900, 134900, 159900).
- TARGET: Look specifically for "Deal Price" or "Offer Price". IGNORE "MRP" and "EMI".`
		searchHint = fmt.Sprintf("SEARCH QUERY: \"Reliance Digital %s official price India\"", searchTerm)
	case strings.Contains(productURL, "amazon") || strings.Contains(productURL, "flipkart"):
		domainContext = `
DOMAIN CONTEXT: Indian E-commerce (Amazon/Flipkart).
- CURRENCY: INR.
- TARGET: Largest, boldest price is the "Selling Price" (Deal Price).
- EXCLUDE: "EMI" (monthly), "MRP" (crossed out), "Save up to".`
		searchHint = fmt.Sprintf("SEARCH QUERY: \"%s current price amazon flipkart India\"", searchTerm)
	default:
		searchHint = fmt.Sprintf("SEARCH QUERY: \"%s price\"", searchTerm)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Analyze this product URL: %q.\n%s\n", productURL, domainContext)
	fmt.Fprintf(&sb, "Strategy: Use Google Search to find: '%s'\n", searchHint)
	if hint != "" {
		fmt.Fprintf(&sb, "Additional user context: %s\n", hint)
	}
	sb.WriteString(`
TASK: Extract the EXACT CURRENT SELLING PRICE (Integer only).

STEPS:
1. IDENTIFY PRODUCT: accurately identify the model (e.g. iPhone 15 Pro 128GB vs 256GB).
2. FIND PRICE: Locate the "Deal Price" or "Offer Price".
3. VALIDATE:
   - Is this price logical for this specific model?
   - If the price looks like 112900, CORRECTION -> 119900.
   - If the price looks like 119000, CORRECTION -> 119900.
4. OUTPUT: Return strictly JSON.

Return the result strictly as a raw JSON object:
{
  "productName": "string (concise product name)",
  "price": number (raw integer, e.g., 119900),
  "currency": "string (INR, USD, etc.)",
  "category": "string (Electronics, Fashion, Home, etc.)",
  "carbonFootprintKg": number (estimated CO2 impact)
}`)
	return sb.String()
}

// extractJSON pulls the first {...} object out of a model response, tolerating
// markdown code fences around it.
func extractJSON(text string) (map[string]interface{}, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in response")
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON in response: %v", err)
	}
	return raw, nil
}

func stringField(raw map[string]interface{}, key, fallback string) string {
	if value, ok := raw[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

func numberField(raw map[string]interface{}, key string, fallback float64) float64 {
	if value, ok := raw[key].(float64); ok {
		return value
	}
	return fallback
}
