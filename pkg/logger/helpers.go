package logger

// LogRequest logs HTTP request information
func LogRequest(method, url string, statusCode int, durationMs float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": durationMs,
	}

	switch {
	case statusCode >= 500:
		GetLogger().ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		GetLogger().WarnWithFields("HTTP request client error", fields)
	default:
		GetLogger().DebugWithFields("HTTP request completed", fields)
	}
}

// LogRateLimit logs rate limiting events
func LogRateLimit(endpoint string, retryAfterSeconds int) {
	GetLogger().WithFields(map[string]interface{}{
		"endpoint":    endpoint,
		"retry_after": retryAfterSeconds,
		"action":      "rate_limited",
	}).Warn("Rate limit reached, backing off")
}

// LogScrapeProgress logs per-run scraping progress
func LogScrapeProgress(username string, scraped, total int) {
	percentage := 0.0
	if total > 0 {
		percentage = float64(scraped) / float64(total) * 100
	}

	GetLogger().InfoWithFields("Scrape progress", map[string]interface{}{
		"username":   username,
		"scraped":    scraped,
		"total":      total,
		"percentage": percentage,
	})
}

// LogRunComplete logs the completion of an analytics run
func LogRunComplete(username string, postsAnalyzed, postsFailed, totalRequests int) {
	GetLogger().InfoWithFields("Analytics run completed", map[string]interface{}{
		"username":       username,
		"posts_analyzed": postsAnalyzed,
		"posts_failed":   postsFailed,
		"total_requests": totalRequests,
	})
}
