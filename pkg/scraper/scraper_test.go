package scraper

import (
	"context"
	goerrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"instalytics/pkg/config"
	"instalytics/pkg/errors"
	"instalytics/pkg/instagram"
	"instalytics/pkg/logger"
	"instalytics/pkg/session"
	"instalytics/pkg/storage"
)

// mockInstagram serves a profile with firstPage posts embedded and then
// pages of pageSize posts until totalPosts is reached.
type mockInstagram struct {
	totalPosts    int
	firstPage     int
	pageSize      int
	mediaRequests int
}

func (m *mockInstagram) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(instagram.ProfileEndpoint, func(w http.ResponseWriter, r *http.Request) {
		end := m.firstPage
		if end > m.totalPosts {
			end = m.totalPosts
		}
		fmt.Fprintf(w, `{
			"data": {"user": {
				"id": "777",
				"username": "mockuser",
				"full_name": "Mock User",
				"is_business_account": true,
				"edge_followed_by": {"count": 10000},
				"edge_follow": {"count": 10},
				"edge_owner_to_timeline_media": {
					"count": %d,
					"page_info": {"has_next_page": %t, "end_cursor": "cursor-%d"},
					"edges": [%s]
				}
			}},
			"status": "ok"
		}`, m.totalPosts, end < m.totalPosts, end, m.edges(0, end))
	})

	mux.HandleFunc(instagram.MediaEndpoint, func(w http.ResponseWriter, r *http.Request) {
		m.mediaRequests++

		// Cursor carries the offset: cursor-<n>
		var start int
		vars := r.URL.Query().Get("variables")
		idx := strings.Index(vars, "cursor-")
		if idx >= 0 {
			fmt.Sscanf(vars[idx:], "cursor-%d", &start)
		}

		end := start + m.pageSize
		if end > m.totalPosts {
			end = m.totalPosts
		}

		fmt.Fprintf(w, `{
			"data": {"user": {
				"edge_owner_to_timeline_media": {
					"count": %d,
					"page_info": {"has_next_page": %t, "end_cursor": "cursor-%d"},
					"edges": [%s]
				}
			}},
			"status": "ok"
		}`, m.totalPosts, end < m.totalPosts, end, m.edges(start, end))
	})

	return mux
}

func (m *mockInstagram) edges(start, end int) string {
	var parts []string
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := start; i < end; i++ {
		parts = append(parts, fmt.Sprintf(`{"node": {
			"id": "%d",
			"__typename": "GraphImage",
			"shortcode": "SC%d",
			"taken_at_timestamp": %d,
			"edge_liked_by": {"count": %d},
			"edge_media_to_comment": {"count": 5},
			"edge_media_to_caption": {"edges": [{"node": {"text": "post %d #daily"}}]}
		}}`, i, i, base.AddDate(0, 0, -i).Unix(), 100+i, i))
	}
	return strings.Join(parts, ",")
}

func testScraper(t *testing.T, serverURL string) *Scraper {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Output.DataDirectory = t.TempDir()
	cfg.RateLimit.MaxRetries = 2
	cfg.RateLimit.RetryDelay = time.Millisecond

	client := instagram.NewClient(5*time.Second, logger.NewTestLogger())
	client.SetBaseURL(serverURL)

	store, err := storage.NewManager(cfg.Output.DataDirectory)
	require.NoError(t, err)

	s := New(cfg, client, store, nil, logger.NewTestLogger())
	s.sleep = func(time.Duration) {}
	return s
}

func TestRunCollectsAndPersists(t *testing.T) {
	mock := &mockInstagram{totalPosts: 30, firstPage: 12, pageSize: 12}
	server := httptest.NewServer(mock.handler())
	defer server.Close()

	s := testScraper(t, server.URL)

	result, err := s.Run(context.Background(), Options{
		Username: "mockuser",
		MaxPosts: 25,
		Delay:    time.Second,
	})
	require.NoError(t, err)

	report := result.Report
	assert.Equal(t, 25, report.AnalysisMetadata.PostsAnalyzed)
	assert.Equal(t, "mockuser", report.ProfileInformation.Username)
	assert.True(t, report.ProfileInformation.IsBusiness)
	assert.Equal(t, int64(10000), report.EngagementMetrics.Followers)
	assert.Equal(t, 30, report.EngagementMetrics.TotalPosts)
	assert.Equal(t, "Good", report.AnalysisMetadata.DataQuality)
	// 1 profile request + 2 media pages (12 embedded + 12 + 1)
	assert.Equal(t, 3, report.AnalysisMetadata.TotalRequests)
	assert.Equal(t, 2, mock.mediaRequests)

	// Report and timeline were persisted
	loaded, err := s.storage.LoadReport(result.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, loaded.AnalysisMetadata.PostsAnalyzed)
	assert.Contains(t, result.TimelineFile, "mockuser_timeline_")
}

func TestRunPaginatesToEnd(t *testing.T) {
	mock := &mockInstagram{totalPosts: 15, firstPage: 12, pageSize: 12}
	server := httptest.NewServer(mock.handler())
	defer server.Close()

	s := testScraper(t, server.URL)

	result, err := s.Run(context.Background(), Options{
		Username: "mockuser",
		MaxPosts: 50,
		Delay:    time.Second,
	})
	require.NoError(t, err)

	// Only 15 posts exist even though 50 were requested
	assert.Equal(t, 15, result.Report.AnalysisMetadata.PostsAnalyzed)
}

func TestRunClampsMaxPosts(t *testing.T) {
	mock := &mockInstagram{totalPosts: 200, firstPage: 12, pageSize: 12}
	server := httptest.NewServer(mock.handler())
	defer server.Close()

	s := testScraper(t, server.URL)

	result, err := s.Run(context.Background(), Options{
		Username: "mockuser",
		MaxPosts: 500,
		Delay:    time.Second,
	})
	require.NoError(t, err)

	assert.Equal(t, config.MaxPosts, result.Report.AnalysisMetadata.PostsAnalyzed)
}

func TestRunRejectsInvalidUsername(t *testing.T) {
	s := testScraper(t, "http://127.0.0.1:0")

	_, err := s.Run(context.Background(), Options{Username: "not a user!"})
	require.Error(t, err)

	var igErr *errors.Error
	require.True(t, goerrors.As(err, &igErr))
	assert.Equal(t, errors.ErrorTypeParsing, igErr.Type)
}

func TestRunSanitizesUsername(t *testing.T) {
	mock := &mockInstagram{totalPosts: 12, firstPage: 12, pageSize: 12}
	server := httptest.NewServer(mock.handler())
	defer server.Close()

	s := testScraper(t, server.URL)

	result, err := s.Run(context.Background(), Options{
		Username: "@mockuser/",
		MaxPosts: 10,
		Delay:    time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "mockuser", result.Report.ProfileInformation.Username)
}

func TestRunSurfacesProfileErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	s := testScraper(t, server.URL)

	_, err := s.Run(context.Background(), Options{Username: "ghost", MaxPosts: 10, Delay: time.Second})
	require.Error(t, err)

	var igErr *errors.Error
	require.True(t, goerrors.As(err, &igErr))
	assert.Equal(t, errors.ErrorTypeNotFound, igErr.Type)
}

func TestRunRetriesServerErrors(t *testing.T) {
	attempts := 0
	mock := &mockInstagram{totalPosts: 12, firstPage: 12, pageSize: 12}
	inner := mock.handler()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		inner.ServeHTTP(w, r)
	}))
	defer server.Close()

	s := testScraper(t, server.URL)

	result, err := s.Run(context.Background(), Options{Username: "mockuser", MaxPosts: 10, Delay: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 12, result.Report.AnalysisMetadata.PostsAnalyzed)
}

func TestRunDelayDrivesPacing(t *testing.T) {
	mock := &mockInstagram{totalPosts: 40, firstPage: 12, pageSize: 12}
	server := httptest.NewServer(mock.handler())
	defer server.Close()

	cfg := config.DefaultConfig()
	cfg.Output.DataDirectory = t.TempDir()
	cfg.Scrape.RequestDelay = time.Second
	cfg.RateLimit.Strategy = "conservative"

	client := instagram.NewClient(5*time.Second, logger.NewTestLogger())
	client.SetBaseURL(server.URL)

	store, err := storage.NewManager(cfg.Output.DataDirectory)
	require.NoError(t, err)

	s := New(cfg, client, store, nil, logger.NewTestLogger())

	var sleeps []time.Duration
	s.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	_, err = s.Run(context.Background(), Options{
		Username: "mockuser",
		MaxPosts: 40,
		Delay:    5 * time.Second,
	})
	require.NoError(t, err)

	// Conservative pacing multiplies the base delay by at least 1.5, so
	// every pause must honor the 5s the caller asked for even though the
	// config default is 1s.
	require.NotEmpty(t, sleeps)
	for _, d := range sleeps {
		assert.GreaterOrEqual(t, d, 5*time.Second)
	}
}

func TestRunUsesSessionPool(t *testing.T) {
	var gotCookie string
	mock := &mockInstagram{totalPosts: 12, firstPage: 12, pageSize: 12}
	inner := mock.handler()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if gotCookie == "" {
			gotCookie = r.Header.Get("Cookie")
		}
		inner.ServeHTTP(w, r)
	}))
	defer server.Close()

	s := testScraper(t, server.URL)

	pool, err := session.NewPool(filepath.Join(t.TempDir(), "sessions.json"), "", logger.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, pool.Add(&session.Session{Name: "primary", SessionID: "sid-123", CSRFToken: "csrf-456"}))
	s.WithSessionPool(pool)

	_, err = s.Run(context.Background(), Options{Username: "mockuser", MaxPosts: 10, Delay: time.Second})
	require.NoError(t, err)

	assert.Contains(t, gotCookie, "sessionid=sid-123")

	sessions := pool.List()
	require.Len(t, sessions, 1)
	assert.Equal(t, 1, sessions[0].SuccessCount)
}

func TestRunSkipsMalformedPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"data": {"user": {
				"id": "1",
				"username": "mockuser",
				"edge_followed_by": {"count": 100},
				"edge_owner_to_timeline_media": {
					"count": 2,
					"page_info": {"has_next_page": false, "end_cursor": ""},
					"edges": [
						{"node": {"shortcode": "GOOD", "taken_at_timestamp": 1700000000, "edge_liked_by": {"count": 10}}},
						{"node": {"id": "broken", "taken_at_timestamp": 1700000000}}
					]
				}
			}},
			"status": "ok"
		}`)
	}))
	defer server.Close()

	s := testScraper(t, server.URL)

	result, err := s.Run(context.Background(), Options{Username: "mockuser", MaxPosts: 10, Delay: time.Second})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Report.AnalysisMetadata.PostsAnalyzed)
	assert.Equal(t, 1, result.Report.AnalysisMetadata.PostsFailed)
}
