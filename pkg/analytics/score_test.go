package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeInfluenceScoreComponents(t *testing.T) {
	eng := EngagementAnalysis{EngagementRatePercent: 5.0, ViralPercentage: 10.0}
	content := ContentAnalysis{CollaborationCount: 2}
	freq := PostingFrequency{PostsPerWeek: 3.0}

	score := ComputeInfluenceScore(eng, content, freq, 20)

	// 5*2 + 10*0.5 = 15
	assert.Equal(t, 15.0, score.EngagementComponent)
	// 2/20*100 = 10% collab rate, *3 = 30 (at cap)
	assert.Equal(t, 30.0, score.BrandComponent)
	// 3*2 = 6
	assert.Equal(t, 6.0, score.ConsistencyComponent)
	assert.Equal(t, 10.0, score.QualityComponent)
	assert.Equal(t, 61.0, score.Total)
}

func TestComputeInfluenceScoreCaps(t *testing.T) {
	eng := EngagementAnalysis{EngagementRatePercent: 50.0, ViralPercentage: 100.0}
	content := ContentAnalysis{CollaborationCount: 20}
	freq := PostingFrequency{PostsPerWeek: 50.0}

	score := ComputeInfluenceScore(eng, content, freq, 20)

	assert.Equal(t, 40.0, score.EngagementComponent)
	assert.Equal(t, 30.0, score.BrandComponent)
	assert.Equal(t, 20.0, score.ConsistencyComponent)
	assert.Equal(t, 100.0, score.Total)
}

func TestComputeInfluenceScoreNoPosts(t *testing.T) {
	score := ComputeInfluenceScore(EngagementAnalysis{}, ContentAnalysis{}, PostingFrequency{}, 0)

	assert.Equal(t, 10.0, score.Total)
	assert.Zero(t, score.BrandComponent)
}

func TestDataQuality(t *testing.T) {
	assert.Equal(t, "Good", DataQuality(50))
	assert.Equal(t, "Good", DataQuality(20))
	assert.Equal(t, "Limited", DataQuality(19))
	assert.Equal(t, "Limited", DataQuality(5))
	assert.Equal(t, "Very Limited", DataQuality(4))
	assert.Equal(t, "Very Limited", DataQuality(0))
}
