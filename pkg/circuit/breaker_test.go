package circuit

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewBreaker(t *testing.T) {
	config := DefaultConfig()
	breaker := NewBreaker("test", config, nil)

	if breaker.State() != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", breaker.State().String())
	}

	if breaker.IsOpen() {
		t.Error("Expected breaker to not be open initially")
	}
}

func TestBreaker_TransitionToOpen(t *testing.T) {
	config := Config{
		Threshold:        3,
		Timeout:          1 * time.Second,
		SuccessThreshold: 2,
		MaxHalfOpen:      2,
	}
	breaker := NewBreaker("test", config, zap.NewNop())

	for i := 0; i < 3; i++ {
		breaker.Record(errors.New("test error"))
	}

	if breaker.State() != StateOpen {
		t.Errorf("Expected state OPEN after %d failures, got %s", config.Threshold, breaker.State().String())
	}

	if err := breaker.Allow(); err != ErrCircuitOpen {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
}

func TestBreaker_HalfOpenProbe(t *testing.T) {
	config := Config{
		Threshold:        1,
		Timeout:          10 * time.Millisecond,
		SuccessThreshold: 1,
		MaxHalfOpen:      1,
	}
	breaker := NewBreaker("test", config, zap.NewNop())

	breaker.Record(errors.New("test error"))
	if breaker.State() != StateOpen {
		t.Fatalf("Expected state OPEN, got %s", breaker.State().String())
	}

	time.Sleep(20 * time.Millisecond)

	// First request after timeout is the half-open probe
	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected probe to be allowed, got %v", err)
	}
	if breaker.State() != StateHalfOpen {
		t.Errorf("Expected state HALF_OPEN, got %s", breaker.State().String())
	}

	breaker.Record(nil)
	if breaker.State() != StateClosed {
		t.Errorf("Expected state CLOSED after successful probe, got %s", breaker.State().String())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	config := Config{
		Threshold:        1,
		Timeout:          10 * time.Millisecond,
		SuccessThreshold: 1,
		MaxHalfOpen:      1,
	}
	breaker := NewBreaker("test", config, zap.NewNop())

	breaker.Record(errors.New("boom"))
	time.Sleep(20 * time.Millisecond)

	if err := breaker.Allow(); err != nil {
		t.Fatalf("Expected probe to be allowed, got %v", err)
	}

	breaker.Record(errors.New("still down"))
	if breaker.State() != StateOpen {
		t.Errorf("Expected state OPEN after failed probe, got %s", breaker.State().String())
	}
}

func TestBreaker_Execute(t *testing.T) {
	breaker := NewBreaker("test", DefaultConfig(), zap.NewNop())

	called := false
	err := breaker.Execute(func() error {
		called = true
		return nil
	})

	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if !called {
		t.Error("Expected wrapped function to be called")
	}
}
