package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		BackoffFactor:  2.0,
	}
}

func TestRetry(t *testing.T) {
	errTemp := errors.New("temporary")

	tests := []struct {
		name      string
		failFirst int
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first attempt", 0, 3, 1, false},
		{"after retries", 2, 3, 3, false},
		{"exhausted", 5, 3, 3, true},
		{"single attempt", 1, 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := Retry(context.Background(), fastConfig(tt.attempts), func() (string, error) {
				calls++
				if calls <= tt.failFirst {
					return "", errTemp
				}
				return "ok", nil
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrMaxRetriesExceeded) || !errors.Is(err, errTemp) {
					t.Errorf("err = %v, want max retries wrapping the last failure", err)
				}
				return
			}
			if err != nil || got != "ok" {
				t.Errorf("got (%q, %v), want (ok, nil)", got, err)
			}
		})
	}
}

func TestRetry_StopsOnContext(t *testing.T) {
	cfg := RetryConfig{MaxAttempts: 10, InitialBackoff: 100 * time.Millisecond}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	calls := 0
	_, err := Retry(ctx, cfg, func() (int, error) {
		calls++
		return 0, errors.New("down")
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if calls >= 10 {
		t.Errorf("calls = %d, want fewer than 10", calls)
	}
}

func TestRetry_RetryIfRejects(t *testing.T) {
	fatal := errors.New("fatal")
	cfg := fastConfig(3)
	cfg.RetryIf = func(err error) bool { return !errors.Is(err, fatal) }

	calls := 0
	err := RetryFunc(context.Background(), cfg, func() error {
		calls++
		return fatal
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if err != fatal {
		t.Errorf("err = %v, want the rejected error unwrapped", err)
	}
}

func TestRetry_OnRetry(t *testing.T) {
	var attempts []int
	var waits []time.Duration
	cfg := fastConfig(3)
	cfg.OnRetry = func(attempt int, _ error, backoff time.Duration) {
		attempts = append(attempts, attempt)
		waits = append(waits, backoff)
	}

	_ = RetryFunc(context.Background(), cfg, func() error { return errors.New("down") })

	if len(attempts) != 2 || attempts[0] != 1 || attempts[1] != 2 {
		t.Fatalf("attempts = %v, want [1 2]", attempts)
	}
	if waits[0] != time.Millisecond || waits[1] != 2*time.Millisecond {
		t.Errorf("waits = %v, want [1ms 2ms]", waits)
	}
}

func TestDefaultRetryIf(t *testing.T) {
	if DefaultRetryIf(context.Canceled) {
		t.Error("canceled should not be retried")
	}
	if !DefaultRetryIf(errors.New("refused")) {
		t.Error("plain errors should be retried")
	}
}

func TestBackoff(t *testing.T) {
	cfg := RetryConfig{
		InitialBackoff: 100 * time.Millisecond,
		MaxBackoff:     time.Second,
		BackoffFactor:  2.0,
	}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second},
		{9, time.Second},
	}

	for _, tt := range tests {
		if got := Backoff(tt.attempt, cfg); got != tt.want {
			t.Errorf("Backoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestBackoff_JitterStaysInRange(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: 100 * time.Millisecond, MaxBackoff: time.Second, BackoffFactor: 2, Jitter: 0.5}
	for i := 0; i < 50; i++ {
		got := Backoff(1, cfg)
		if got < 50*time.Millisecond || got > 150*time.Millisecond {
			t.Fatalf("Backoff = %v, want within 50ms..150ms", got)
		}
	}
}
