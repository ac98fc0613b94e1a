package analytics

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProfile() *Profile {
	return &Profile{
		Username:   "sampleuser",
		FullName:   "Sample User",
		Followers:  10000,
		Following:  150,
		MediaCount: 340,
		IsVerified: true,
	}
}

func samplePosts(n int) []Post {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	posts := make([]Post, n)
	for i := range posts {
		posts[i] = Post{
			Shortcode: "SC",
			URL:       "https://www.instagram.com/p/SC/",
			TakenAt:   now.AddDate(0, 0, -i),
			Likes:     int64(100 + i*10),
			Comments:  int64(10 + i),
			MediaType: "Photo",
			Caption:   "caption #travel",
			Hashtags:  []string{"travel"},
		}
	}
	return posts
}

func TestBuildReport(t *testing.T) {
	stats := RunStats{
		PostsFailed:   2,
		TotalRequests: 7,
		ScrapedAt:     time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC),
	}

	report := BuildReport(sampleProfile(), samplePosts(25), "Science", "Houston", stats)

	assert.Equal(t, "sampleuser", report.ProfileInformation.Username)
	assert.Equal(t, "Science", report.ProfileInformation.Category)
	assert.Equal(t, "Houston", report.ProfileInformation.Location)
	assert.Equal(t, int64(10000), report.EngagementMetrics.Followers)
	assert.Equal(t, 340, report.EngagementMetrics.TotalPosts)
	assert.Equal(t, 25, report.AnalysisMetadata.PostsAnalyzed)
	assert.Equal(t, 2, report.AnalysisMetadata.PostsFailed)
	assert.Equal(t, 7, report.AnalysisMetadata.TotalRequests)
	assert.Equal(t, "Good", report.AnalysisMetadata.DataQuality)
	assert.NotZero(t, report.InfluenceScore.Total)
	assert.Len(t, report.TrendAnalysis.EngagementTimeline, 10)
}

func TestBuildReportDefaultsUnknown(t *testing.T) {
	report := BuildReport(sampleProfile(), samplePosts(3), "", "", RunStats{})

	assert.Equal(t, "Unknown", report.ProfileInformation.Category)
	assert.Equal(t, "Unknown", report.ProfileInformation.Location)
	assert.Equal(t, "Very Limited", report.AnalysisMetadata.DataQuality)
	assert.False(t, report.AnalysisMetadata.ScrapedAt.IsZero())
}

func TestBuildReportEngagementRateRounding(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	posts := []Post{
		post("a", 100, 10, now),
		post("b", 200, 20, now),
		post("c", 300, 30, now),
	}
	profile := &Profile{Username: "u", Followers: 30000}

	report := BuildReport(profile, posts, "", "", RunStats{})

	// The analysis keeps three decimals, the headline metric two
	assert.Equal(t, 0.733, report.EngagementAnalysis.EngagementRatePercent)
	assert.Equal(t, 0.73, report.EngagementMetrics.EngagementRate)
}

func TestBuildReportNoPosts(t *testing.T) {
	report := BuildReport(sampleProfile(), nil, "", "", RunStats{})

	assert.Zero(t, report.EngagementMetrics.AverageLikes)
	assert.Zero(t, report.EngagementMetrics.AverageViews)
	assert.Equal(t, 0, report.AnalysisMetadata.PostsAnalyzed)
	assert.Equal(t, TrendInsufficient, report.TrendAnalysis.Trend)
}

func TestReportJSONRoundTrip(t *testing.T) {
	original := BuildReport(sampleProfile(), samplePosts(12), "Science", "Houston", RunStats{
		TotalRequests: 3,
		ScrapedAt:     time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC),
	})

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, *original, decoded)
}
