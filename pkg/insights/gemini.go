package insights

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"instalytics/pkg/analytics"
	"instalytics/pkg/logger"
)

// DefaultBaseURL is the Gemini API endpoint
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// Unknown is returned for any field the model could not infer
const Unknown = "Unknown"

// ProfileInsights are the AI-inferred fields attached to a report
type ProfileInsights struct {
	Category string
	Location string
}

// Client calls the Gemini generateContent endpoint to infer profile
// category and location. A client with no API key returns Unknown values
// without making any request.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	logger     logger.Logger
}

// NewClient creates a Gemini insights client. An empty apiKey disables it.
func NewClient(apiKey, model string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if model == "" {
		model = "gemini-pro"
	}

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		model:      model,
		logger:     log,
	}
}

// SetBaseURL overrides the API base URL. Tests point this at a local server.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}

// Enabled reports whether an API key is configured
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// InferProfile asks the model for the profile's category and location
func (c *Client) InferProfile(ctx context.Context, profile *analytics.Profile) ProfileInsights {
	insights := ProfileInsights{Category: Unknown, Location: Unknown}

	if !c.Enabled() {
		c.logger.Debug("no Gemini API key configured, skipping profile insights")
		return insights
	}

	prompt := buildPrompt(profile)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		c.logger.WarnWithFields("profile insights unavailable", map[string]interface{}{
			"username": profile.Username,
			"error":    err.Error(),
		})
		return insights
	}

	category, location := parseInsights(text)
	if category != "" {
		insights.Category = category
	}
	if location != "" {
		insights.Location = location
	}

	c.logger.DebugWithFields("inferred profile insights", map[string]interface{}{
		"username": profile.Username,
		"category": insights.Category,
		"location": insights.Location,
	})

	return insights
}

func buildPrompt(profile *analytics.Profile) string {
	return fmt.Sprintf(
		"Based on this Instagram profile, answer with exactly two lines:\n"+
			"Category: <one of Fashion, Food, Travel, Fitness, Beauty, Tech, Science, Entertainment, Art, Business, Lifestyle, Other>\n"+
			"Location: <city or country, or Unknown>\n\n"+
			"Username: %s\nFull name: %s\nBiography: %s",
		profile.Username, profile.FullName, profile.Biography)
}

// generate performs one generateContent call and returns the first candidate text
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	reqBody, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini API returned status %d", resp.StatusCode)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// parseInsights extracts the Category and Location lines from the model output
func parseInsights(text string) (category, location string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "Category:"); ok {
			category = strings.TrimSpace(after)
		} else if after, ok := strings.CutPrefix(line, "Location:"); ok {
			location = strings.TrimSpace(after)
		}
	}
	return category, location
}
