package ratelimit

import (
	"math/rand"
	"sync"
	"time"
)

// Limiter defines the interface for request pacing
type Limiter interface {
	// Allow checks if a request is allowed right now
	Allow() bool
	// Wait blocks until the limiter allows another request
	Wait()
	// Reset resets the limiter state
	Reset()
}

// Throttler spaces requests evenly at a fixed requests-per-minute rate
type Throttler struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex
}

// NewThrottler creates a throttler for the given requests-per-minute budget
func NewThrottler(requestsPerMinute int) *Throttler {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	return &Throttler{
		interval: time.Minute / time.Duration(requestsPerMinute),
	}
}

// Allow checks if a request can proceed and claims the slot if so
func (t *Throttler) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if now.Sub(t.last) >= t.interval {
		t.last = now
		return true
	}
	return false
}

// NextDelay returns how long until the next request may proceed
func (t *Throttler) NextDelay() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.last.Add(t.interval)
	if wait := time.Until(next); wait > 0 {
		return wait
	}
	return 0
}

// Wait blocks until a request slot is available and claims it
func (t *Throttler) Wait() {
	for !t.Allow() {
		if wait := t.NextDelay(); wait > 0 {
			time.Sleep(wait)
		}
	}
}

// Reset clears the throttler state
func (t *Throttler) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = time.Time{}
}

// Interval returns the spacing between requests
func (t *Throttler) Interval() time.Duration {
	return t.interval
}

// Strategy selects how aggressively the adaptive limiter paces requests
type Strategy string

const (
	StrategyConservative Strategy = "conservative"
	StrategyAggressive   Strategy = "aggressive"
	StrategyAdaptive     Strategy = "adaptive"
)

// ParseStrategy maps a config string to a Strategy, defaulting to adaptive
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case StrategyConservative, StrategyAggressive, StrategyAdaptive:
		return Strategy(s)
	default:
		return StrategyAdaptive
	}
}

// Stats captures the adaptive limiter's observed request outcomes
type Stats struct {
	SuccessCount        int     `json:"success_count"`
	FailureCount        int     `json:"failure_count"`
	ConsecutiveFailures int     `json:"consecutive_failures"`
	SuccessRate         float64 `json:"success_rate"`
}

// AdaptiveLimiter scales a base delay based on observed success and failure
// rates. A run that keeps succeeding speeds up slightly; consecutive
// failures stretch the delay to back away from rate limits.
type AdaptiveLimiter struct {
	base                time.Duration
	strategy            Strategy
	successCount        int
	failureCount        int
	consecutiveFailures int
	rng                 *rand.Rand
	sleep               func(time.Duration)
	mu                  sync.Mutex
}

// NewAdaptive creates an adaptive limiter around a base inter-request delay
func NewAdaptive(base time.Duration, strategy Strategy) *AdaptiveLimiter {
	if base <= 0 {
		base = 2 * time.Second
	}
	return &AdaptiveLimiter{
		base:     base,
		strategy: strategy,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:    time.Sleep,
	}
}

// factorRange returns the multiplier bounds applied to the base delay
func (l *AdaptiveLimiter) factorRange() (float64, float64) {
	switch l.strategy {
	case StrategyConservative:
		return 1.5, 3.0
	case StrategyAggressive:
		return 0.5, 1.5
	default:
		return 1.0, 2.5
	}
}

// Delay computes the next inter-request delay
func (l *AdaptiveLimiter) Delay() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.delayLocked()
}

func (l *AdaptiveLimiter) delayLocked() time.Duration {
	factorMin, factorMax := l.factorRange()
	multiplier := 1.0

	if l.strategy == StrategyAdaptive {
		total := l.successCount + l.failureCount
		successRate := 1.0
		if total > 0 {
			successRate = float64(l.successCount) / float64(total)
		}

		switch {
		case successRate > 0.9:
			multiplier *= 0.8
		case successRate > 0.7:
			multiplier *= 1.0
		default:
			multiplier *= 1.5
		}

		if l.consecutiveFailures > 0 {
			penalty := float64(l.consecutiveFailures) * 0.5
			if penalty > 6.0 {
				penalty = 6.0
			}
			multiplier += penalty
		}
	}

	low := factorMin * multiplier
	high := factorMax * multiplier
	factor := low + l.rng.Float64()*(high-low)
	return time.Duration(float64(l.base) * factor)
}

// Allow reports whether the limiter would let a request through without
// waiting. The adaptive limiter always paces via Wait, so this is true.
func (l *AdaptiveLimiter) Allow() bool {
	return true
}

// Wait sleeps for the computed adaptive delay
func (l *AdaptiveLimiter) Wait() {
	l.mu.Lock()
	d := l.delayLocked()
	sleep := l.sleep
	l.mu.Unlock()
	sleep(d)
}

// RecordSuccess notes a successful request
func (l *AdaptiveLimiter) RecordSuccess() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.successCount++
	l.consecutiveFailures = 0
}

// RecordFailure notes a failed request
func (l *AdaptiveLimiter) RecordFailure() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failureCount++
	l.consecutiveFailures++
}

// Reset clears all recorded outcomes
func (l *AdaptiveLimiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.successCount = 0
	l.failureCount = 0
	l.consecutiveFailures = 0
}

// Stats returns the current request outcome counters
func (l *AdaptiveLimiter) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := l.successCount + l.failureCount
	rate := 0.0
	if total > 0 {
		rate = float64(l.successCount) / float64(total)
	}
	return Stats{
		SuccessCount:        l.successCount,
		FailureCount:        l.failureCount,
		ConsecutiveFailures: l.consecutiveFailures,
		SuccessRate:         rate,
	}
}
