// Package storage persists scrape runs to the data directory.
//
// Each run produces two files:
//
//	<username>_analytics_<YYYYMMDD_HHMMSS>.json   the full report
//	<username>_timeline_<YYYYMMDD_HHMMSS>.csv     the engagement timeline
//
// Writes go through a temp file and rename so readers never see a partial
// report. Run IDs double as filenames, so they are validated against path
// traversal before any read.
package storage
