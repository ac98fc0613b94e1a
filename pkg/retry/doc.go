// Package retry provides generic retry logic with pluggable backoff.
//
// Retryability is decided from the typed errors in pkg/errors: network,
// rate-limit and server errors are retried; auth, not-found, private and
// parsing errors are surfaced immediately. Rate-limit responses use a
// longer-starting backoff via RateLimitBackoff.
package retry
