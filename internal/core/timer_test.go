package core

import (
	"testing"
	"time"
)

func TestFixedStepReleasesTicksByElapsedTime(t *testing.T) {
	clock := time.Unix(0, 0)
	fs := NewFixedStep(10)
	fs.now = func() time.Time { return clock }

	if got := fs.Due(); got != 1 {
		t.Fatalf("first call should release one tick, got %d", got)
	}
	clock = clock.Add(50 * time.Millisecond)
	if got := fs.Due(); got != 0 {
		t.Fatalf("half a step should release nothing, got %d", got)
	}
	clock = clock.Add(260 * time.Millisecond)
	if got := fs.Due(); got != 3 {
		t.Fatalf("310ms at 10 TPS should release 3 ticks, got %d", got)
	}
	clock = clock.Add(10 * time.Second)
	if got := fs.Due(); got != fs.MaxCatchUp {
		t.Fatalf("stall should be capped at %d, got %d", fs.MaxCatchUp, got)
	}
}
