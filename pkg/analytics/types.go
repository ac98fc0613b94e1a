package analytics

import "time"

// Post is a single scraped post, the input unit for every analyzer.
type Post struct {
	Shortcode  string    `json:"shortcode"`
	URL        string    `json:"url"`
	TakenAt    time.Time `json:"taken_at"`
	Likes      int64     `json:"likes"`
	Comments   int64     `json:"comments"`
	VideoViews int64     `json:"video_views"`
	MediaType  string    `json:"media_type"`
	Caption    string    `json:"caption"`
	Hashtags   []string  `json:"hashtags"`
	Mentions   []string  `json:"mentions"`
}

// Engagement returns likes plus comments
func (p *Post) Engagement() int64 {
	return p.Likes + p.Comments
}

// Profile holds the scraped profile fields used by the analyzers
type Profile struct {
	Username      string `json:"username"`
	FullName      string `json:"full_name"`
	Biography     string `json:"biography"`
	Followers     int64  `json:"followers"`
	Following     int64  `json:"following"`
	MediaCount    int    `json:"media_count"`
	IsVerified    bool   `json:"is_verified"`
	IsBusiness    bool   `json:"is_business"`
	ProfilePicURL string `json:"profile_pic_url"`
	ExternalURL   string `json:"external_url"`
}

// Report is the full analysis of one scrape run. Reports are write-once:
// built, persisted, read back for display, never mutated.
type Report struct {
	ProfileInformation ProfileInformation `json:"profile_information"`
	EngagementMetrics  EngagementMetrics  `json:"engagement_metrics"`
	EngagementAnalysis EngagementAnalysis `json:"engagement_analysis"`
	ContentAnalysis    ContentAnalysis    `json:"content_analysis"`
	PostingFrequency   PostingFrequency   `json:"posting_frequency"`
	TrendAnalysis      TrendAnalysis      `json:"trend_analysis"`
	InfluenceScore     InfluenceScore     `json:"influence_score"`
	AnalysisMetadata   AnalysisMetadata   `json:"analysis_metadata"`
}

// ProfileInformation is the profile record plus AI-inferred fields
type ProfileInformation struct {
	Profile
	Category string `json:"category"`
	Location string `json:"location"`
}

// EngagementMetrics holds the headline numbers shown at the top of the dashboard
type EngagementMetrics struct {
	Followers       int64   `json:"followers"`
	Following       int64   `json:"following"`
	TotalPosts      int     `json:"total_posts"`
	AverageLikes    float64 `json:"average_likes"`
	AverageComments float64 `json:"average_comments"`
	AverageViews    float64 `json:"average_views"`
	EngagementRate  float64 `json:"engagement_rate"`
	PostsPerWeek    float64 `json:"posts_per_week"`
}

// EngagementAnalysis holds the per-post engagement distribution
type EngagementAnalysis struct {
	AvgLikes              float64       `json:"avg_likes"`
	AvgComments           float64       `json:"avg_comments"`
	AvgEngagement         float64       `json:"avg_engagement"`
	EngagementRatePercent float64       `json:"engagement_rate_percent"`
	MedianEngagement      float64       `json:"median_engagement"`
	MaxEngagement         int64         `json:"max_engagement"`
	MinEngagement         int64         `json:"min_engagement"`
	ViralPostCount        int           `json:"viral_post_count"`
	ViralPercentage       float64       `json:"viral_percentage"`
	ViralThreshold        float64       `json:"viral_threshold"`
	TopPerformingPosts    []PostSummary `json:"top_performing_posts"`
}

// PostSummary is a compact view of a post used in rankings
type PostSummary struct {
	Shortcode  string `json:"shortcode"`
	URL        string `json:"url"`
	Date       string `json:"date"`
	Likes      int64  `json:"likes"`
	Comments   int64  `json:"comments"`
	Engagement int64  `json:"engagement"`
	MediaType  string `json:"media_type"`
	Caption    string `json:"caption"`
}

// ContentAnalysis holds content mix, tag frequency and brand collaborations
type ContentAnalysis struct {
	ContentTypes       map[string]int  `json:"content_types"`
	TopHashtags        []TagCount      `json:"top_hashtags"`
	TopMentions        []TagCount      `json:"top_mentions"`
	BrandCollabs       []Collaboration `json:"brand_collaborations"`
	CollaborationCount int             `json:"collaboration_count"`
}

// TagCount pairs a hashtag or mention with its occurrence count
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// Collaboration records one detected brand collaboration post
type Collaboration struct {
	URL     string `json:"url"`
	Date    string `json:"date"`
	Caption string `json:"caption"`
}

// PostingFrequency describes the posting cadence over the analyzed period
type PostingFrequency struct {
	PostsPerDay        float64        `json:"posts_per_day"`
	PostsPerWeek       float64        `json:"posts_per_week"`
	PostsPerMonth      float64        `json:"posts_per_month"`
	RecentPostsPerWeek float64        `json:"recent_posts_per_week"`
	AvgGapDays         float64        `json:"avg_gap_days"`
	MedianGapDays      float64        `json:"median_gap_days"`
	Consistency        string         `json:"consistency"`
	MostActiveWeekday  string         `json:"most_active_weekday"`
	WeekdayCounts      map[string]int `json:"weekday_counts"`
	PeriodDays         int            `json:"analysis_period_days"`
}

// TrendAnalysis describes engagement direction over the scraped posts
type TrendAnalysis struct {
	Trend              string          `json:"trend"`
	ViralPostCount     int             `json:"viral_post_count"`
	ViralPercentage    float64         `json:"viral_percentage"`
	EngagementTimeline []TimelineEntry `json:"engagement_timeline"`
	TopPerformingPosts []PostSummary   `json:"top_performing_posts"`
}

// TimelineEntry is one point on the engagement timeline chart
type TimelineEntry struct {
	Date           string  `json:"date"`
	EngagementRate float64 `json:"engagement_rate"`
	Likes          int64   `json:"likes"`
	Comments       int64   `json:"comments"`
	Type           string  `json:"type"`
	Shortcode      string  `json:"shortcode"`
}

// InfluenceScore is a 0-100 composite with its component breakdown
type InfluenceScore struct {
	Total                float64 `json:"total"`
	EngagementComponent  float64 `json:"engagement_component"`
	BrandComponent       float64 `json:"brand_component"`
	ConsistencyComponent float64 `json:"consistency_component"`
	QualityComponent     float64 `json:"quality_component"`
}

// AnalysisMetadata describes the scrape run that produced the report
type AnalysisMetadata struct {
	PostsAnalyzed int       `json:"posts_analyzed"`
	PostsFailed   int       `json:"posts_failed"`
	TotalRequests int       `json:"total_requests"`
	ScrapedAt     time.Time `json:"scraped_at"`
	DataQuality   string    `json:"data_quality"`
}
