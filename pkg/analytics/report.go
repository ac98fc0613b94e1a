package analytics

import "time"

// RunStats carries the scrape-run counters into the report metadata
type RunStats struct {
	PostsFailed   int
	TotalRequests int
	ScrapedAt     time.Time
}

// BuildReport runs every analyzer over the scraped profile and posts and
// assembles the complete report for one run.
func BuildReport(profile *Profile, posts []Post, category, location string, stats RunStats) *Report {
	scrapedAt := stats.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now().UTC()
	}

	engagement := AnalyzeEngagement(posts, profile.Followers)
	content := AnalyzeContent(posts)
	frequency := AnalyzePostingFrequency(posts, scrapedAt)
	trends := AnalyzeTrends(posts, profile.Followers)
	score := ComputeInfluenceScore(engagement, content, frequency, len(posts))

	var avgViews float64
	if len(posts) > 0 {
		var totalViews int64
		for _, p := range posts {
			totalViews += p.VideoViews
		}
		avgViews = round2(float64(totalViews) / float64(len(posts)))
	}

	if category == "" {
		category = "Unknown"
	}
	if location == "" {
		location = "Unknown"
	}

	return &Report{
		ProfileInformation: ProfileInformation{
			Profile:  *profile,
			Category: category,
			Location: location,
		},
		EngagementMetrics: EngagementMetrics{
			Followers:       profile.Followers,
			Following:       profile.Following,
			TotalPosts:      profile.MediaCount,
			AverageLikes:    engagement.AvgLikes,
			AverageComments: engagement.AvgComments,
			AverageViews:    avgViews,
			EngagementRate:  round2(engagement.EngagementRatePercent),
			PostsPerWeek:    frequency.PostsPerWeek,
		},
		EngagementAnalysis: engagement,
		ContentAnalysis:    content,
		PostingFrequency:   frequency,
		TrendAnalysis:      trends,
		InfluenceScore:     score,
		AnalysisMetadata: AnalysisMetadata{
			PostsAnalyzed: len(posts),
			PostsFailed:   stats.PostsFailed,
			TotalRequests: stats.TotalRequests,
			ScrapedAt:     scrapedAt,
			DataQuality:   DataQuality(len(posts)),
		},
	}
}
