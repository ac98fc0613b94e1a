package ratelimit

import (
	"testing"
	"time"
)

func TestThrottler(t *testing.T) {
	th := NewThrottler(60) // one request per second

	if !th.Allow() {
		t.Error("Expected first request to be allowed")
	}

	if th.Allow() {
		t.Error("Expected second immediate request to be denied")
	}

	if d := th.NextDelay(); d <= 0 || d > time.Second {
		t.Errorf("Expected next delay within (0, 1s], got %v", d)
	}

	th.Reset()
	if !th.Allow() {
		t.Error("Expected request to be allowed after reset")
	}
}

func TestThrottlerMinimumRate(t *testing.T) {
	th := NewThrottler(0)
	if th.Interval() != time.Minute {
		t.Errorf("Expected interval to clamp to one minute, got %v", th.Interval())
	}
}

func TestAdaptiveDelayWithinStrategyRange(t *testing.T) {
	base := time.Second

	tests := []struct {
		strategy Strategy
		min, max time.Duration
	}{
		{StrategyConservative, 1500 * time.Millisecond, 3 * time.Second},
		{StrategyAggressive, 500 * time.Millisecond, 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		l := NewAdaptive(base, tt.strategy)
		for i := 0; i < 50; i++ {
			d := l.Delay()
			if d < tt.min || d > tt.max {
				t.Errorf("strategy %s: delay %v outside [%v, %v]", tt.strategy, d, tt.min, tt.max)
			}
		}
	}
}

func TestAdaptiveFailuresStretchDelay(t *testing.T) {
	l := NewAdaptive(time.Second, StrategyAdaptive)

	// Establish a healthy baseline
	for i := 0; i < 10; i++ {
		l.RecordSuccess()
	}
	healthy := l.Delay()

	// Repeated failures should push the delay well past the healthy range
	for i := 0; i < 8; i++ {
		l.RecordFailure()
	}
	degraded := l.Delay()

	if degraded <= healthy {
		t.Errorf("Expected degraded delay (%v) to exceed healthy delay (%v)", degraded, healthy)
	}
	// 8 consecutive failures cap the penalty at +4.0 on the multiplier
	if degraded < 4*time.Second {
		t.Errorf("Expected degraded delay of at least 4s, got %v", degraded)
	}
}

func TestAdaptiveSuccessResetsConsecutiveFailures(t *testing.T) {
	l := NewAdaptive(time.Second, StrategyAdaptive)

	l.RecordFailure()
	l.RecordFailure()
	l.RecordSuccess()

	stats := l.Stats()
	if stats.ConsecutiveFailures != 0 {
		t.Errorf("Expected consecutive failures to reset, got %d", stats.ConsecutiveFailures)
	}
	if stats.FailureCount != 2 {
		t.Errorf("Expected failure count 2, got %d", stats.FailureCount)
	}
	if stats.SuccessCount != 1 {
		t.Errorf("Expected success count 1, got %d", stats.SuccessCount)
	}
}

func TestAdaptiveReset(t *testing.T) {
	l := NewAdaptive(time.Second, StrategyAdaptive)
	l.RecordSuccess()
	l.RecordFailure()
	l.Reset()

	stats := l.Stats()
	if stats.SuccessCount != 0 || stats.FailureCount != 0 || stats.ConsecutiveFailures != 0 {
		t.Errorf("Expected zeroed stats after reset, got %+v", stats)
	}
}

func TestAdaptiveWaitSleeps(t *testing.T) {
	l := NewAdaptive(10*time.Millisecond, StrategyAggressive)

	var slept time.Duration
	l.sleep = func(d time.Duration) { slept = d }

	l.Wait()
	if slept <= 0 {
		t.Error("Expected Wait to sleep for a positive duration")
	}
}
