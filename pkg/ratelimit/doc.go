// Package ratelimit provides request pacing for the Instagram scraper.
//
// Two implementations are available:
//
// Throttler:
//   - Spaces requests evenly at a fixed requests-per-minute budget
//   - Used to keep API page fetches under a hard ceiling
//
// AdaptiveLimiter:
//   - Scales a base inter-request delay with observed success/failure rates
//   - Consecutive failures stretch the delay, sustained success shortens it
//   - Strategies: conservative, aggressive, adaptive
//
// Both satisfy the Limiter interface (Allow, Wait, Reset).
package ratelimit
