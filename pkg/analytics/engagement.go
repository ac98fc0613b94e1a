package analytics

import "sort"

// ViralMultiplier is the factor applied to median engagement; a post whose
// engagement exceeds the result counts as viral.
const ViralMultiplier = 3.0

// topPostLimit is how many posts the rankings keep
const topPostLimit = 5

// AnalyzeEngagement computes the engagement distribution across posts.
// An empty slice yields a zero-valued result.
func AnalyzeEngagement(posts []Post, followers int64) EngagementAnalysis {
	if len(posts) == 0 {
		return EngagementAnalysis{TopPerformingPosts: []PostSummary{}}
	}

	var totalLikes, totalComments int64
	engagements := make([]float64, len(posts))
	maxEng := posts[0].Engagement()
	minEng := posts[0].Engagement()

	for i, p := range posts {
		totalLikes += p.Likes
		totalComments += p.Comments
		eng := p.Engagement()
		engagements[i] = float64(eng)
		if eng > maxEng {
			maxEng = eng
		}
		if eng < minEng {
			minEng = eng
		}
	}

	n := float64(len(posts))
	medianEng := median(engagements)
	threshold := ViralMultiplier * medianEng

	viral := 0
	for _, p := range posts {
		if float64(p.Engagement()) > threshold {
			viral++
		}
	}

	var ratePercent float64
	if followers > 0 {
		ratePercent = float64(totalLikes+totalComments) / (n * float64(followers)) * 100
	}

	return EngagementAnalysis{
		AvgLikes:              round2(float64(totalLikes) / n),
		AvgComments:           round2(float64(totalComments) / n),
		AvgEngagement:         round2(float64(totalLikes+totalComments) / n),
		EngagementRatePercent: round3(ratePercent),
		MedianEngagement:      medianEng,
		MaxEngagement:         maxEng,
		MinEngagement:         minEng,
		ViralPostCount:        viral,
		ViralPercentage:       round2(float64(viral) / n * 100),
		ViralThreshold:        threshold,
		TopPerformingPosts:    TopPerformingPosts(posts, topPostLimit),
	}
}

// TopPerformingPosts returns the n posts with highest engagement, descending
func TopPerformingPosts(posts []Post, n int) []PostSummary {
	sorted := make([]Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Engagement() > sorted[j].Engagement()
	})

	if n > len(sorted) {
		n = len(sorted)
	}

	top := make([]PostSummary, 0, n)
	for _, p := range sorted[:n] {
		top = append(top, PostSummary{
			Shortcode:  p.Shortcode,
			URL:        p.URL,
			Date:       p.TakenAt.Format("2006-01-02"),
			Likes:      p.Likes,
			Comments:   p.Comments,
			Engagement: p.Engagement(),
			MediaType:  p.MediaType,
			Caption:    truncateCaption(p.Caption, 100),
		})
	}
	return top
}

// EngagementRatePercent computes the profile-level engagement rate:
// (total likes + comments) / (post count x followers) x 100.
func EngagementRatePercent(posts []Post, followers int64) float64 {
	if len(posts) == 0 || followers <= 0 {
		return 0
	}

	var total int64
	for _, p := range posts {
		total += p.Engagement()
	}
	return float64(total) / (float64(len(posts)) * float64(followers)) * 100
}
