// Package advisory is the client boundary to the hosted generative-AI
// service used for price suggestions, image quality scoring, and crop
// recommendations. The client speaks the OpenAI-compatible chat-completions
// wire format so any conforming endpoint (OpenAI, OpenRouter, Ollama, a
// Gemini proxy) can back it.
package advisory

import "context"

type PriceSuggestion struct {
	SuggestedPrice float64 `json:"suggestedPrice"`
	Explanation    string  `json:"explanation"`
}

type QualityReport struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

type CropRecommendation struct {
	CropName       string `json:"cropName"`
	Reason         string `json:"reason"`
	ExpectedDemand string `json:"expectedDemand"`
}

// Advisor is the raw advisory boundary. Implementations return errors
// idiomatically; the fallback-on-failure policy lives one layer up in the
// advisory service.
type Advisor interface {
	SuggestPrice(ctx context.Context, productName, location, category string) (*PriceSuggestion, error)
	CheckQuality(ctx context.Context, image []byte) (*QualityReport, error)
	RecommendCrops(ctx context.Context, location string) ([]CropRecommendation, error)
	Chat(ctx context.Context, role, message string) (string, error)
}
