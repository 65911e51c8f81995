package util

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestRetry(t *testing.T) {
	attempts := 0
	targetAttempts := 3

	err := Retry(context.Background(), 5, 0, nil, func() error {
		attempts++
		if attempts < targetAttempts {
			return errors.New("transient error")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Retry returned unexpected error: %v", err)
	}
	if attempts != targetAttempts {
		t.Errorf("Retry called fn %d times, want %d", attempts, targetAttempts)
	}
}

func TestRetryAllFail(t *testing.T) {
	attempts := 0
	wantErr := errors.New("permanent")

	err := Retry(context.Background(), 3, 0, nil, func() error {
		attempts++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("Retry error = %v, want %v", err, wantErr)
	}
	if attempts != 3 {
		t.Errorf("Retry called fn %d times, want 3", attempts)
	}
}

func TestRetryContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, 1, nil, func() error {
		return errors.New("always fails")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry error = %v, want context.Canceled", err)
	}
}

func TestRetryLogsFailedAttempts(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "warn", "json")

	err := Retry(context.Background(), 2, 0, log, func() error {
		return errors.New("flaky upstream")
	})
	if err == nil {
		t.Fatal("expected error after exhausted attempts")
	}
	if !strings.Contains(buf.String(), "retrying") || !strings.Contains(buf.String(), "flaky upstream") {
		t.Errorf("failed attempt not logged: %s", buf.String())
	}
}

func TestRateLimiterFirstCallImmediate(t *testing.T) {
	rl := NewRateLimiter(60)
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestRateLimiterPacesCalls(t *testing.T) {
	// 6000/min is one slot every 10ms; three calls span at least two slots.
	rl := NewRateLimiter(6000)
	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("three calls took %v, want at least 20ms", elapsed)
	}
}

func TestRateLimiterCancelled(t *testing.T) {
	rl := NewRateLimiter(1) // one slot per minute
	if err := rl.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rl.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait error = %v, want context.Canceled", err)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "warn", "json")

	log.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info line emitted at warn level: %s", buf.String())
	}

	log.Warn("visible")
	if buf.Len() == 0 {
		t.Error("warn line not emitted at warn level")
	}
}

func TestNewLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(&buf, "info", "text")
	log.Info("hello", "k", "v")
	out := buf.String()
	if len(out) == 0 || out[0] == '{' {
		t.Errorf("expected text handler output, got %q", out)
	}
}
