package advisory

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Issaqsk/farm2market/internal/app/config"
	"github.com/Issaqsk/farm2market/internal/platform/logger"
)

const maxResponseSize = 1 << 20 // 1MB is plenty for structured completions

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        logger.Logger
}

func NewClient(cfg config.AdvisoryConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        log,
	}
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type textPart struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type imageURLPart struct {
	Type     string   `json:"type"`
	ImageURL imageURL `json:"image_url"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *Client) SuggestPrice(ctx context.Context, productName, location, category string) (*PriceSuggestion, error) {
	prompt := fmt.Sprintf(
		"Suggest a fair market price for %s (%s) in %s. "+
			"Respond with a JSON object with keys suggestedPrice (number, price per unit) and "+
			"explanation (one sentence on current seasonal trends).",
		productName, category, location)

	content, err := c.complete(ctx, []chatMessage{{Role: "user", Content: prompt}}, jsonResponseFormat())
	if err != nil {
		return nil, err
	}

	var suggestion PriceSuggestion
	if err := decodeJSONContent(content, &suggestion); err != nil {
		return nil, fmt.Errorf("parse price suggestion: %w", err)
	}
	return &suggestion, nil
}

func (c *Client) CheckQuality(ctx context.Context, image []byte) (*QualityReport, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image is empty")
	}

	dataURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(image)
	parts := []interface{}{
		imageURLPart{Type: "image_url", ImageURL: imageURL{URL: dataURL}},
		textPart{Type: "text", Text: "Analyze the quality of this agricultural product. " +
			"Respond with a JSON object with keys score (number from 1 to 10) and " +
			"feedback (brief comments on freshness, color, and texture)."},
	}

	content, err := c.complete(ctx, []chatMessage{{Role: "user", Content: parts}}, jsonResponseFormat())
	if err != nil {
		return nil, err
	}

	var report QualityReport
	if err := decodeJSONContent(content, &report); err != nil {
		return nil, fmt.Errorf("parse quality report: %w", err)
	}
	if report.Score < 0 {
		report.Score = 0
	}
	if report.Score > 10 {
		report.Score = 10
	}
	return &report, nil
}

func (c *Client) RecommendCrops(ctx context.Context, location string) ([]CropRecommendation, error) {
	prompt := fmt.Sprintf(
		"Based on the location %s, what are the top 3 high-demand crops to plant in the "+
			"current season for maximum profit? Respond with a JSON array of objects with keys "+
			"cropName, reason, and expectedDemand.",
		location)

	content, err := c.complete(ctx, []chatMessage{{Role: "user", Content: prompt}}, jsonResponseFormat())
	if err != nil {
		return nil, err
	}

	var recommendations []CropRecommendation
	if err := decodeJSONContent(content, &recommendations); err != nil {
		return nil, fmt.Errorf("parse crop recommendations: %w", err)
	}
	return recommendations, nil
}

// Chat answers a free-form question, contextualized with the active role.
// The reply is plain text, so no structured response format is requested.
func (c *Client) Chat(ctx context.Context, role, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("message is empty")
	}

	prompt := fmt.Sprintf(
		"Context: You are an agri-tech expert assistant for Farm2Market. The user is a %s. "+
			"Answer this query helpfully: %s",
		role, message)

	return c.complete(ctx, []chatMessage{{Role: "user", Content: prompt}}, nil)
}

func jsonResponseFormat() *responseFormat {
	return &responseFormat{Type: "json_object"}
}

func (c *Client) complete(ctx context.Context, messages []chatMessage, format *responseFormat) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       messages,
		ResponseFormat: format,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.log.Debugf("Advisory request to %s with model %s", url, c.model)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisory request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read advisory response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advisory endpoint returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("parse advisory response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("no choices in advisory response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// decodeJSONContent unmarshals a completion into v, tolerating markdown code
// fences some models wrap around JSON output.
func decodeJSONContent(content string, v interface{}) error {
	s := strings.TrimSpace(content)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	return json.Unmarshal([]byte(s), v)
}
