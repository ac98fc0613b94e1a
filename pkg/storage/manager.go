package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"instalytics/pkg/analytics"
)

// Filename timestamp layout: 20060102_150405
const runTimestampLayout = "20060102_150405"

// RunInfo identifies one saved scrape run
type RunInfo struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	ScrapedAt time.Time `json:"scraped_at"`
	File      string    `json:"file"`
}

// Manager persists scrape runs: one JSON report and one timeline CSV per run
type Manager struct {
	dataDir string
	mu      sync.Mutex
}

// NewManager creates a storage manager rooted at the given data directory
func NewManager(dataDir string) (*Manager, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &Manager{dataDir: dataDir}, nil
}

// DataDir returns the directory runs are stored in
func (m *Manager) DataDir() string {
	return m.dataDir
}

// RunID builds the run identifier for a username and scrape time
func RunID(username string, scrapedAt time.Time) string {
	return fmt.Sprintf("%s_analytics_%s", username, scrapedAt.Format(runTimestampLayout))
}

// SaveReport writes the report JSON for a run and returns its RunInfo
func (m *Manager) SaveReport(report *analytics.Report) (*RunInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	username := report.ProfileInformation.Username
	scrapedAt := report.AnalysisMetadata.ScrapedAt
	id := RunID(username, scrapedAt)
	filename := id + ".json"

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := m.writeAtomic(filename, data); err != nil {
		return nil, err
	}

	return &RunInfo{
		ID:        id,
		Username:  username,
		ScrapedAt: scrapedAt,
		File:      filename,
	}, nil
}

// SaveTimelineCSV writes the engagement timeline CSV alongside the report
func (m *Manager) SaveTimelineCSV(username string, scrapedAt time.Time, timeline []analytics.TimelineEntry) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	filename := fmt.Sprintf("%s_timeline_%s.csv", username, scrapedAt.Format(runTimestampLayout))

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write([]string{"date", "engagement_rate", "likes", "comments", "type", "shortcode"}); err != nil {
		return "", fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range timeline {
		record := []string{
			entry.Date,
			strconv.FormatFloat(entry.EngagementRate, 'f', -1, 64),
			strconv.FormatInt(entry.Likes, 10),
			strconv.FormatInt(entry.Comments, 10),
			entry.Type,
			entry.Shortcode,
		}
		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("failed to flush CSV: %w", err)
	}

	if err := m.writeAtomic(filename, []byte(sb.String())); err != nil {
		return "", err
	}

	return filename, nil
}

// writeAtomic writes data to a temp file and renames it into place so a
// crashed run never leaves a half-written report behind.
func (m *Manager) writeAtomic(filename string, data []byte) error {
	path := filepath.Join(m.dataDir, filename)
	tmp := path + ".tmp"

	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename %s into place: %w", filename, err)
	}

	return nil
}

// ListRuns returns every saved run, newest first
func (m *Manager) ListRuns() ([]RunInfo, error) {
	entries, err := os.ReadDir(m.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	runs := []RunInfo{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		info, ok := parseRunFilename(entry.Name())
		if !ok {
			continue
		}
		runs = append(runs, info)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].ScrapedAt.After(runs[j].ScrapedAt)
	})

	return runs, nil
}

// parseRunFilename extracts run info from a <username>_analytics_<ts>.json name
func parseRunFilename(name string) (RunInfo, bool) {
	base := strings.TrimSuffix(name, ".json")
	idx := strings.LastIndex(base, "_analytics_")
	if idx < 1 {
		return RunInfo{}, false
	}

	username := base[:idx]
	ts := base[idx+len("_analytics_"):]
	scrapedAt, err := time.Parse(runTimestampLayout, ts)
	if err != nil {
		return RunInfo{}, false
	}

	return RunInfo{
		ID:        base,
		Username:  username,
		ScrapedAt: scrapedAt,
		File:      name,
	}, true
}

// LoadReport reads a saved report by run ID
func (m *Manager) LoadReport(id string) (*analytics.Report, error) {
	if !validRunID(id) {
		return nil, fmt.Errorf("invalid run id: %q", id)
	}

	data, err := os.ReadFile(filepath.Join(m.dataDir, id+".json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", id, err)
	}

	var report analytics.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to parse report %s: %w", id, err)
	}

	return &report, nil
}

// TimelinePath returns the CSV path for a run ID, checking it exists
func (m *Manager) TimelinePath(id string) (string, error) {
	if !validRunID(id) {
		return "", fmt.Errorf("invalid run id: %q", id)
	}

	csvName := strings.Replace(id, "_analytics_", "_timeline_", 1) + ".csv"
	path := filepath.Join(m.dataDir, csvName)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("timeline for run %s not found: %w", id, err)
	}

	return path, nil
}

// validRunID rejects IDs that could escape the data directory
func validRunID(id string) bool {
	if id == "" || strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return false
	}
	return strings.Contains(id, "_analytics_")
}
