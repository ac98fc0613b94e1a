package analytics

import "sort"

// Trend labels
const (
	TrendIncreasing   = "Increasing"
	TrendDecreasing   = "Decreasing"
	TrendStable       = "Stable"
	TrendInsufficient = "Insufficient data"
)

// trendWindow is how many posts each end of the comparison uses and the
// minimum number of points needed to call a direction.
const trendWindow = 10

// trendEpsilon is the dead band around zero when comparing window means
const trendEpsilon = 0.1

// AnalyzeTrends computes the engagement direction and timeline over the
// scraped posts. The timeline covers the most recent posts, newest first.
func AnalyzeTrends(posts []Post, followers int64) TrendAnalysis {
	if len(posts) == 0 {
		return TrendAnalysis{
			Trend:              TrendInsufficient,
			EngagementTimeline: []TimelineEntry{},
			TopPerformingPosts: []PostSummary{},
		}
	}

	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].TakenAt.After(sorted[j].TakenAt)
	})

	rates := make([]float64, len(sorted))
	for i, p := range sorted {
		if followers > 0 {
			rates[i] = float64(p.Engagement()) / float64(followers) * 100
		}
	}

	trend := TrendInsufficient
	if len(rates) >= trendWindow {
		recent := mean(rates[:trendWindow])
		older := mean(rates[len(rates)-trendWindow:])
		diff := recent - older
		switch {
		case diff > trendEpsilon:
			trend = TrendIncreasing
		case diff < -trendEpsilon:
			trend = TrendDecreasing
		default:
			trend = TrendStable
		}
	}

	timelineLen := trendWindow
	if timelineLen > len(sorted) {
		timelineLen = len(sorted)
	}
	timeline := make([]TimelineEntry, 0, timelineLen)
	for i := 0; i < timelineLen; i++ {
		p := sorted[i]
		timeline = append(timeline, TimelineEntry{
			Date:           p.TakenAt.Format("2006-01-02"),
			EngagementRate: round3(rates[i]),
			Likes:          p.Likes,
			Comments:       p.Comments,
			Type:           p.MediaType,
			Shortcode:      p.Shortcode,
		})
	}

	engagements := make([]float64, len(posts))
	for i, p := range posts {
		engagements[i] = float64(p.Engagement())
	}
	threshold := ViralMultiplier * median(engagements)
	viral := 0
	for _, p := range posts {
		if float64(p.Engagement()) > threshold {
			viral++
		}
	}

	return TrendAnalysis{
		Trend:              trend,
		ViralPostCount:     viral,
		ViralPercentage:    round2(float64(viral) / float64(len(posts)) * 100),
		EngagementTimeline: timeline,
		TopPerformingPosts: TopPerformingPosts(posts, topPostLimit),
	}
}
