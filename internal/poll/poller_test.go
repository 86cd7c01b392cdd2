package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunFetchesOnInterval(t *testing.T) {
	var calls atomic.Int32
	p := New(10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { p.Run(ctx); close(done) }()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestNoFetchBeforeFirstInterval(t *testing.T) {
	var calls atomic.Int32
	p := New(time.Hour, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { p.Run(ctx); close(done) }()

	// The caller owns the initial load; Run must stay quiet until the
	// first tick.
	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done
	assert.Zero(t, calls.Load())
}

func TestNoFetchAfterCancel(t *testing.T) {
	var calls atomic.Int32
	p := New(10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { p.Run(ctx); close(done) }()

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)
	cancel()
	<-done

	got := calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, got, calls.Load())
}

func TestUnfocusedSkipsTicks(t *testing.T) {
	var calls atomic.Int32
	p := New(10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	p.SetFocused(false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { p.Run(ctx); close(done) }()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, calls.Load())

	// Regaining focus resumes fetching on subsequent ticks.
	p.SetFocused(true)
	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, time.Millisecond)

	cancel()
	<-done
}

func TestFetchErrorKeepsPolling(t *testing.T) {
	var calls atomic.Int32
	p := New(10*time.Millisecond, func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("backend down")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { p.Run(ctx); close(done) }()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	<-done
}

func TestNonPositiveIntervalUsesDefault(t *testing.T) {
	p := New(0, func(ctx context.Context) error { return nil })
	assert.Equal(t, DefaultInterval, p.interval)

	p = New(-time.Second, func(ctx context.Context) error { return nil })
	assert.Equal(t, DefaultInterval, p.interval)
}
