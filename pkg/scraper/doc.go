// Package scraper orchestrates a full analytics run: profile fetch,
// timeline pagination with adaptive pacing, metric computation and
// persistence of the report and timeline CSV.
package scraper
