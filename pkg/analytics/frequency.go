package analytics

import (
	"sort"
	"time"
)

// AnalyzePostingFrequency computes the posting cadence over the analyzed
// period. An empty slice yields a zero-valued result.
func AnalyzePostingFrequency(posts []Post, now time.Time) PostingFrequency {
	if len(posts) == 0 {
		return PostingFrequency{
			Consistency:   "Unknown",
			WeekdayCounts: map[string]int{},
		}
	}

	dates := make([]time.Time, len(posts))
	for i, p := range posts {
		dates[i] = p.TakenAt
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })

	newest := dates[0]
	oldest := dates[len(dates)-1]
	periodDays := int(newest.Sub(oldest).Hours() / 24)
	if periodDays < 1 {
		periodDays = 1
	}

	n := float64(len(dates))
	perDay := n / float64(periodDays)

	recent := 0
	cutoff := now.AddDate(0, 0, -30)
	for _, d := range dates {
		if d.After(cutoff) {
			recent++
		}
	}

	gaps := make([]float64, 0, len(dates)-1)
	for i := 0; i < len(dates)-1; i++ {
		gaps = append(gaps, dates[i].Sub(dates[i+1]).Hours()/24)
	}

	avgGap := mean(gaps)
	consistency := "Unknown"
	if len(gaps) > 0 {
		switch {
		case avgGap < 2:
			consistency = "High"
		case avgGap < 5:
			consistency = "Medium"
		default:
			consistency = "Low"
		}
	}

	weekdayCounts := make(map[string]int)
	for _, d := range dates {
		weekdayCounts[d.Weekday().String()]++
	}

	return PostingFrequency{
		PostsPerDay:        round2(perDay),
		PostsPerWeek:       round2(perDay * 7),
		PostsPerMonth:      round2(perDay * 30),
		RecentPostsPerWeek: round2(float64(recent) / 30 * 7),
		AvgGapDays:         round2(avgGap),
		MedianGapDays:      round2(median(gaps)),
		Consistency:        consistency,
		MostActiveWeekday:  mostActiveWeekday(weekdayCounts),
		WeekdayCounts:      weekdayCounts,
		PeriodDays:         periodDays,
	}
}

// mostActiveWeekday returns the weekday with the highest post count.
// Ties resolve in calendar order so the result is deterministic.
func mostActiveWeekday(counts map[string]int) string {
	best := ""
	bestCount := 0
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := d.String()
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	return best
}
