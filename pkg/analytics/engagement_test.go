package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(shortcode string, likes, comments int64, takenAt time.Time) Post {
	return Post{
		Shortcode: shortcode,
		URL:       "https://www.instagram.com/p/" + shortcode + "/",
		TakenAt:   takenAt,
		Likes:     likes,
		Comments:  comments,
		MediaType: "Photo",
	}
}

func TestAnalyzeEngagementEmpty(t *testing.T) {
	result := AnalyzeEngagement(nil, 1000)

	assert.Zero(t, result.AvgLikes)
	assert.Zero(t, result.EngagementRatePercent)
	assert.Zero(t, result.ViralPostCount)
	assert.Empty(t, result.TopPerformingPosts)
}

func TestAnalyzeEngagementAverages(t *testing.T) {
	now := time.Now()
	posts := []Post{
		post("a", 100, 10, now),
		post("b", 200, 20, now),
		post("c", 300, 30, now),
	}

	result := AnalyzeEngagement(posts, 10000)

	assert.Equal(t, 200.0, result.AvgLikes)
	assert.Equal(t, 20.0, result.AvgComments)
	assert.Equal(t, 220.0, result.AvgEngagement)
	// (660) / (3 * 10000) * 100 = 2.2
	assert.Equal(t, 2.2, result.EngagementRatePercent)
	assert.Equal(t, int64(330), result.MaxEngagement)
	assert.Equal(t, int64(110), result.MinEngagement)
}

func TestEngagementRateKeepsThreeDecimals(t *testing.T) {
	now := time.Now()
	posts := []Post{
		post("a", 100, 10, now),
		post("b", 200, 20, now),
		post("c", 300, 30, now),
	}

	result := AnalyzeEngagement(posts, 30000)

	// 660 / (3 * 30000) * 100 = 0.7333...
	assert.Equal(t, 0.733, result.EngagementRatePercent)
}

func TestAnalyzeEngagementZeroFollowers(t *testing.T) {
	posts := []Post{post("a", 100, 10, time.Now())}

	result := AnalyzeEngagement(posts, 0)

	assert.Zero(t, result.EngagementRatePercent)
	assert.Equal(t, 110.0, result.AvgEngagement)
}

func TestMedianEngagementEvenCount(t *testing.T) {
	now := time.Now()
	posts := []Post{
		post("a", 100, 0, now),
		post("b", 200, 0, now),
		post("c", 300, 0, now),
		post("d", 400, 0, now),
	}

	result := AnalyzeEngagement(posts, 1000)

	assert.Equal(t, 250.0, result.MedianEngagement)
}

func TestViralBoundary(t *testing.T) {
	now := time.Now()
	// Median engagement is 100, so the viral threshold is exactly 300
	posts := []Post{
		post("a", 100, 0, now),
		post("b", 100, 0, now),
		post("c", 100, 0, now),
		post("exactly", 300, 0, now),
		post("above", 301, 0, now),
	}

	result := AnalyzeEngagement(posts, 1000)

	require.Equal(t, 300.0, result.ViralThreshold)
	// A post at exactly the threshold is not viral; only strictly above counts
	assert.Equal(t, 1, result.ViralPostCount)
	assert.Equal(t, 20.0, result.ViralPercentage)
}

func TestTopPerformingPosts(t *testing.T) {
	now := time.Now()
	posts := []Post{
		post("low", 10, 0, now),
		post("high", 1000, 100, now),
		post("mid", 500, 50, now),
	}

	top := TopPerformingPosts(posts, 2)

	require.Len(t, top, 2)
	assert.Equal(t, "high", top[0].Shortcode)
	assert.Equal(t, int64(1100), top[0].Engagement)
	assert.Equal(t, "mid", top[1].Shortcode)
}

func TestTopPerformingPostsFewerThanLimit(t *testing.T) {
	posts := []Post{post("only", 10, 0, time.Now())}

	top := TopPerformingPosts(posts, 5)

	assert.Len(t, top, 1)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, median(nil))
	assert.Equal(t, 5.0, median([]float64{5}))
	assert.Equal(t, 2.0, median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 3, 2}))
}
