package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeTrendsInsufficientData(t *testing.T) {
	now := time.Now()
	posts := []Post{
		post("a", 100, 0, now),
		post("b", 100, 0, now.AddDate(0, 0, -1)),
	}

	result := AnalyzeTrends(posts, 1000)

	assert.Equal(t, TrendInsufficient, result.Trend)
	assert.Len(t, result.EngagementTimeline, 2)
}

func TestAnalyzeTrendsEmpty(t *testing.T) {
	result := AnalyzeTrends(nil, 1000)

	assert.Equal(t, TrendInsufficient, result.Trend)
	assert.Empty(t, result.EngagementTimeline)
	assert.Empty(t, result.TopPerformingPosts)
}

func TestAnalyzeTrendsIncreasing(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	// 20 posts: newest 10 at 500 engagement, oldest 10 at 100, 10000 followers.
	// Newest mean rate 5.0, oldest 1.0, diff 4.0 > 0.1.
	posts := make([]Post, 20)
	for i := 0; i < 20; i++ {
		likes := int64(100)
		if i < 10 {
			likes = 500
		}
		posts[i] = post("p", likes, 0, now.AddDate(0, 0, -i))
	}

	result := AnalyzeTrends(posts, 10000)

	assert.Equal(t, TrendIncreasing, result.Trend)
}

func TestAnalyzeTrendsDecreasing(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	posts := make([]Post, 20)
	for i := 0; i < 20; i++ {
		likes := int64(500)
		if i < 10 {
			likes = 100
		}
		posts[i] = post("p", likes, 0, now.AddDate(0, 0, -i))
	}

	result := AnalyzeTrends(posts, 10000)

	assert.Equal(t, TrendDecreasing, result.Trend)
}

func TestAnalyzeTrendsStable(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	posts := make([]Post, 20)
	for i := 0; i < 20; i++ {
		posts[i] = post("p", 300, 0, now.AddDate(0, 0, -i))
	}

	result := AnalyzeTrends(posts, 10000)

	assert.Equal(t, TrendStable, result.Trend)
}

func TestTimelineNewestFirst(t *testing.T) {
	now := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	posts := []Post{
		post("old", 100, 0, now.AddDate(0, 0, -5)),
		post("new", 200, 0, now),
		post("mid", 150, 0, now.AddDate(0, 0, -2)),
	}

	result := AnalyzeTrends(posts, 10000)

	require.Len(t, result.EngagementTimeline, 3)
	assert.Equal(t, "new", result.EngagementTimeline[0].Shortcode)
	assert.Equal(t, "2026-08-20", result.EngagementTimeline[0].Date)
	assert.Equal(t, "mid", result.EngagementTimeline[1].Shortcode)
	assert.Equal(t, "old", result.EngagementTimeline[2].Shortcode)
	// 200 / 10000 * 100 = 2.0
	assert.Equal(t, 2.0, result.EngagementTimeline[0].EngagementRate)
}

func TestTimelineCapped(t *testing.T) {
	now := time.Now()
	posts := make([]Post, 25)
	for i := range posts {
		posts[i] = post("p", 100, 0, now.AddDate(0, 0, -i))
	}

	result := AnalyzeTrends(posts, 1000)

	assert.Len(t, result.EngagementTimeline, 10)
}
