package scraper

import (
	"context"
	goerrors "errors"
	"fmt"
	"time"

	"instalytics/pkg/analytics"
	"instalytics/pkg/config"
	"instalytics/pkg/errors"
	"instalytics/pkg/insights"
	"instalytics/pkg/instagram"
	"instalytics/pkg/logger"
	"instalytics/pkg/ratelimit"
	"instalytics/pkg/retry"
	"instalytics/pkg/session"
	"instalytics/pkg/storage"
)

// Options control one scrape run
type Options struct {
	Username     string
	MaxPosts     int
	Delay        time.Duration
	WithInsights bool
}

// Result is everything one run produced
type Result struct {
	Report       *analytics.Report
	Run          *storage.RunInfo
	TimelineFile string
}

// Scraper orchestrates a run: profile fetch, timeline pagination, analytics,
// persistence and optional AI insights.
type Scraper struct {
	client   *instagram.Client
	strategy ratelimit.Strategy
	storage  *storage.Manager
	insights *insights.Client
	sessions *session.Pool
	cfg      *config.Config
	logger   logger.Logger

	// injectable for tests
	sleep func(time.Duration)
	now   func() time.Time
}

// New creates a scraper from its collaborators. The insights client may be nil.
func New(cfg *config.Config, client *instagram.Client, store *storage.Manager, insightsClient *insights.Client, log logger.Logger) *Scraper {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Scraper{
		client:   client,
		strategy: ratelimit.ParseStrategy(cfg.RateLimit.Strategy),
		storage:  store,
		insights: insightsClient,
		cfg:      cfg,
		logger:   log,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// WithSessionPool attaches a session pool. Each run then picks the
// healthiest session and reports the outcome back for rotation.
func (s *Scraper) WithSessionPool(pool *session.Pool) *Scraper {
	s.sessions = pool
	return s
}

// Run executes one scrape and persists the report and timeline CSV
func (s *Scraper) Run(ctx context.Context, opts Options) (res *Result, err error) {
	username := instagram.SanitizeUsername(opts.Username)
	if !instagram.IsValidUsername(username) {
		return nil, &errors.Error{
			Type:    errors.ErrorTypeParsing,
			Message: fmt.Sprintf("invalid username: %q", opts.Username),
		}
	}

	maxPosts := config.ClampPosts(opts.MaxPosts)
	delay := config.ClampDelay(opts.Delay)
	scrapedAt := s.now().UTC()

	// Pacing derives from this run's clamped delay, not the config default
	limiter := ratelimit.NewAdaptive(delay, s.strategy)

	sessionName := s.pickSession()
	defer func() { s.reportSession(sessionName, err) }()

	s.logger.InfoWithFields("starting scrape run", map[string]interface{}{
		"username":  username,
		"max_posts": maxPosts,
		"delay":     delay,
	})

	requests := 0

	retryCfg := s.retryConfig(ctx)
	profileResp, err := retry.DoWithResult(func() (*instagram.WebProfileResponse, error) {
		requests++
		resp, err := s.client.FetchUserProfile(ctx, username)
		record(limiter, err)
		return resp, err
	}, retryCfg)
	if err != nil {
		return nil, err
	}

	user := profileResp.Data.User
	profile := &analytics.Profile{
		Username:      user.Username,
		FullName:      user.FullName,
		Biography:     user.Biography,
		Followers:     user.Followers(),
		Following:     user.Following(),
		MediaCount:    user.EdgeOwnerToTimelineMedia.Count,
		IsVerified:    user.IsVerified,
		IsBusiness:    user.IsBusinessAccount,
		ProfilePicURL: user.ProfilePicURL,
		ExternalURL:   user.ExternalURL,
	}

	posts, failed, pageRequests, err := s.collectPosts(ctx, &user, maxPosts, delay, limiter)
	requests += pageRequests
	if err != nil {
		return nil, err
	}

	s.logger.InfoWithFields("scrape complete", map[string]interface{}{
		"username":       username,
		"posts":          len(posts),
		"failed":         failed,
		"total_requests": requests,
	})

	category, location := "", ""
	if opts.WithInsights && s.insights != nil {
		result := s.insights.InferProfile(ctx, profile)
		category, location = result.Category, result.Location
	}

	report := analytics.BuildReport(profile, posts, category, location, analytics.RunStats{
		PostsFailed:   failed,
		TotalRequests: requests,
		ScrapedAt:     scrapedAt,
	})

	run, err := s.storage.SaveReport(report)
	if err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}

	timelineFile, err := s.storage.SaveTimelineCSV(username, scrapedAt, report.TrendAnalysis.EngagementTimeline)
	if err != nil {
		return nil, fmt.Errorf("failed to save timeline: %w", err)
	}

	return &Result{
		Report:       report,
		Run:          run,
		TimelineFile: timelineFile,
	}, nil
}

// collectPosts walks the timeline, starting from the edges embedded in the
// profile response and paginating until maxPosts or the end.
func (s *Scraper) collectPosts(ctx context.Context, user *instagram.User, maxPosts int, delay time.Duration, limiter *ratelimit.AdaptiveLimiter) (posts []analytics.Post, failed, requests int, err error) {
	media := user.EdgeOwnerToTimelineMedia
	edges := media.Edges
	pageInfo := media.PageInfo

	for {
		for i := range edges {
			if len(posts) >= maxPosts {
				return posts, failed, requests, nil
			}

			node := &edges[i].Node
			if node.Shortcode == "" {
				failed++
				s.logger.WarnWithFields("skipping malformed post", map[string]interface{}{
					"post_id": node.ID,
				})
				continue
			}

			posts = append(posts, toPost(node))

			// Every Nth post pauses for three times the normal delay
			if s.cfg.Scrape.LongPauseEvery > 0 && len(posts)%s.cfg.Scrape.LongPauseEvery == 0 {
				s.logger.DebugWithFields("taking long pause", map[string]interface{}{
					"posts": len(posts),
				})
				s.sleep(3 * delay)
			}
		}

		if len(posts) >= maxPosts || !pageInfo.HasNextPage {
			return posts, failed, requests, nil
		}

		s.sleep(limiter.Delay())

		retryCfg := s.retryConfig(ctx)
		resp, fetchErr := retry.DoWithResult(func() (*instagram.MediaResponse, error) {
			requests++
			r, e := s.client.FetchUserMedia(ctx, user.ID, pageInfo.EndCursor, instagram.DefaultMediaLimit)
			record(limiter, e)
			return r, e
		}, retryCfg)
		if fetchErr != nil {
			return posts, failed, requests, fetchErr
		}

		nextMedia := resp.Data.User.EdgeOwnerToTimelineMedia
		edges = nextMedia.Edges
		pageInfo = nextMedia.PageInfo

		if len(edges) == 0 {
			return posts, failed, requests, nil
		}
	}
}

// toPost converts an API media node into an analytics post
func toPost(node *instagram.Node) analytics.Post {
	caption := node.Caption()
	return analytics.Post{
		Shortcode:  node.Shortcode,
		URL:        instagram.PostURL(node.Shortcode),
		TakenAt:    node.TakenAt(),
		Likes:      node.Likes(),
		Comments:   node.Comments(),
		VideoViews: node.VideoViewCount,
		MediaType:  node.MediaType(),
		Caption:    caption,
		Hashtags:   analytics.ExtractHashtags(caption),
		Mentions:   analytics.ExtractMentions(caption),
	}
}

// pickSession applies the healthiest pooled session to the client
func (s *Scraper) pickSession() string {
	if s.sessions == nil {
		return ""
	}

	sess, err := s.sessions.Next()
	if err != nil {
		s.logger.WithError(err).Warn("no active sessions in pool")
		return ""
	}

	s.client.WithSession(sess.SessionID, sess.CSRFToken)
	if sess.UserAgent != "" {
		s.client.SetUserAgent(sess.UserAgent)
	}
	s.logger.WithField("session", sess.Name).Debug("using pooled session")
	return sess.Name
}

// reportSession records the run outcome against the pooled session.
// Only auth and rate-limit failures count against a session.
func (s *Scraper) reportSession(name string, err error) {
	if s.sessions == nil || name == "" {
		return
	}

	if err == nil {
		s.sessions.RecordSuccess(name)
		return
	}

	var igErr *errors.Error
	if goerrors.As(err, &igErr) && (igErr.Type == errors.ErrorTypeAuth || igErr.Type == errors.ErrorTypeRateLimit) {
		s.sessions.RecordFailure(name)
	}
}

// record feeds request outcomes into the adaptive limiter
func record(limiter *ratelimit.AdaptiveLimiter, err error) {
	if err != nil {
		limiter.RecordFailure()
	} else {
		limiter.RecordSuccess()
	}
}

// retryConfig builds the per-request retry policy from configuration
func (s *Scraper) retryConfig(ctx context.Context) *retry.Config {
	return &retry.Config{
		MaxAttempts: s.cfg.RateLimit.MaxRetries,
		Backoff: &retry.ExponentialBackoff{
			BaseDelay:    s.cfg.RateLimit.RetryDelay,
			MaxDelay:     2 * time.Minute,
			Multiplier:   2.0,
			JitterFactor: 0.1,
		},
		RetryIf: retry.DefaultRetryIf,
		Context: ctx,
		Logger:  s.logger,
	}
}
