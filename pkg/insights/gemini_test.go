package insights

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instalytics/pkg/analytics"
	"instalytics/pkg/logger"
)

func scienceProfile() *analytics.Profile {
	return &analytics.Profile{
		Username:  "nasa",
		FullName:  "NASA",
		Biography: "Exploring the universe and our home planet.",
	}
}

func TestInferProfileWithoutKey(t *testing.T) {
	client := NewClient("", "", logger.NewTestLogger())

	assert.False(t, client.Enabled())

	insights := client.InferProfile(context.Background(), scienceProfile())
	assert.Equal(t, Unknown, insights.Category)
	assert.Equal(t, Unknown, insights.Location)
}

func TestInferProfile(t *testing.T) {
	var gotPath string
	var gotKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)
		assert.Contains(t, req.Contents[0].Parts[0].Text, "nasa")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"candidates": [{
				"content": {"parts": [{"text": "Category: Science\nLocation: United States"}]}
			}]
		}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "gemini-pro", logger.NewTestLogger())
	client.SetBaseURL(server.URL)

	insights := client.InferProfile(context.Background(), scienceProfile())

	assert.Equal(t, "/v1beta/models/gemini-pro:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "Science", insights.Category)
	assert.Equal(t, "United States", insights.Location)
}

func TestInferProfileAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("test-key", "", logger.NewTestLogger())
	client.SetBaseURL(server.URL)

	insights := client.InferProfile(context.Background(), scienceProfile())

	// API failures degrade to Unknown rather than failing the scrape
	assert.Equal(t, Unknown, insights.Category)
	assert.Equal(t, Unknown, insights.Location)
}

func TestInferProfileEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "", logger.NewTestLogger())
	client.SetBaseURL(server.URL)

	insights := client.InferProfile(context.Background(), scienceProfile())
	assert.Equal(t, Unknown, insights.Category)
}

func TestParseInsights(t *testing.T) {
	category, location := parseInsights("Category: Travel\nLocation: Lisbon")
	assert.Equal(t, "Travel", category)
	assert.Equal(t, "Lisbon", location)

	category, location = parseInsights("  Category:  Food  \nsomething else\nLocation: Unknown")
	assert.Equal(t, "Food", category)
	assert.Equal(t, "Unknown", location)

	category, location = parseInsights("no structured output")
	assert.Empty(t, category)
	assert.Empty(t, location)
}
