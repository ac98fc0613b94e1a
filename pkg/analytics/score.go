package analytics

// Influence score component caps
const (
	engagementCap  = 40.0
	brandCap       = 30.0
	consistencyCap = 20.0
	qualityFlat    = 10.0
)

// ComputeInfluenceScore builds the 0-100 composite from the already computed
// engagement, content and frequency results.
func ComputeInfluenceScore(eng EngagementAnalysis, content ContentAnalysis, freq PostingFrequency, postCount int) InfluenceScore {
	engagement := eng.EngagementRatePercent*2 + eng.ViralPercentage*0.5
	if engagement > engagementCap {
		engagement = engagementCap
	}

	var brand float64
	if postCount > 0 {
		collabRate := float64(content.CollaborationCount) / float64(postCount) * 100
		brand = collabRate * 3
	}
	if brand > brandCap {
		brand = brandCap
	}

	consistency := freq.PostsPerWeek * 2
	if consistency > consistencyCap {
		consistency = consistencyCap
	}

	total := engagement + brand + consistency + qualityFlat
	if total > 100 {
		total = 100
	}

	return InfluenceScore{
		Total:                round1(total),
		EngagementComponent:  round1(engagement),
		BrandComponent:       round1(brand),
		ConsistencyComponent: round1(consistency),
		QualityComponent:     qualityFlat,
	}
}

// DataQuality rates how much the analysis can be trusted given sample size
func DataQuality(postCount int) string {
	switch {
	case postCount >= 20:
		return "Good"
	case postCount >= 5:
		return "Limited"
	default:
		return "Very Limited"
	}
}
