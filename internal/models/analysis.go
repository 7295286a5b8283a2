package models

// ProductAnalysis is the best-effort result of analyzing a product URL.
// Price and category come from the remote analyzer and may be rough; the
// caller falls back to manual entry when analysis fails entirely.
type ProductAnalysis struct {
	ProductName       string  `json:"productName"`
	Price             float64 `json:"price"`
	Currency          string  `json:"currency"`
	Category          string  `json:"category"`
	CarbonFootprintKg float64 `json:"carbonFootprintKg"`
	ImageURL          string  `json:"imageUrl,omitempty"`
}
