package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/learnhub/internal/scheduler"
)

func TestEvery_RunsUntilCancelled(t *testing.T) {
	s := scheduler.New(zap.NewNop())
	s.Start()
	defer s.Stop(context.Background())

	var calls atomic.Int32
	fired := make(chan struct{}, 8)

	cancel, err := s.Every(time.Second, func() {
		calls.Add(1)
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not fire")
	}

	cancel()
	cancel()

	seen := calls.Load()
	time.Sleep(1500 * time.Millisecond)
	// A tick already in flight when cancel ran may still land.
	if got := calls.Load(); got > seen+1 {
		t.Errorf("job kept running after cancel: %d -> %d", seen, got)
	}
}

func TestEvery_HonoursSubSecondInterval(t *testing.T) {
	s := scheduler.New(zap.NewNop())
	s.Start()
	defer s.Stop(context.Background())

	const interval = 250 * time.Millisecond
	ticks := make(chan time.Duration, 8)

	start := time.Now()
	cancel, err := s.Every(interval, func() {
		ticks <- time.Since(start)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer cancel()

	var got []time.Duration
	timeout := time.After(2 * time.Second)
	for len(got) < 3 {
		select {
		case d := <-ticks:
			got = append(got, d)
		case <-timeout:
			t.Fatalf("expected 3 ticks within 2s, got %v", got)
		}
	}

	if got[0] < interval {
		t.Errorf("first tick after %v, want at least %v", got[0], interval)
	}
	if got[2] >= 1500*time.Millisecond {
		t.Errorf("third tick after %v, interval was not honoured", got[2])
	}
}

func TestEvery_RejectsNonPositiveInterval(t *testing.T) {
	s := scheduler.New(zap.NewNop())

	if _, err := s.Every(0, func() {}); !errors.Is(err, scheduler.ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestAddFunc_InvalidSpec(t *testing.T) {
	s := scheduler.New(zap.NewNop())

	if err := s.AddFunc("broken", "not a spec", func() {}); err == nil {
		t.Error("expected error for invalid spec")
	}
	if err := s.AddFunc("retry", "@every 1m", func() {}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEvery_RecoversFromPanics(t *testing.T) {
	s := scheduler.New(zap.NewNop())
	s.Start()
	defer s.Stop(context.Background())

	fired := make(chan struct{}, 8)
	var n atomic.Int32
	cancel, err := s.Every(time.Second, func() {
		if n.Add(1) == 1 {
			panic("boom")
		}
		fired <- struct{}{}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	select {
	case <-fired:
	case <-time.After(4 * time.Second):
		t.Fatal("scheduler stopped after a panicking job")
	}
}
