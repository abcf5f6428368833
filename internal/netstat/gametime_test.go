package netstat

import (
	"math"
	"testing"
	"time"
)

func TestGameTimeEstimationTracksServerClock(t *testing.T) {
	start := time.Unix(0, 0)
	e := NewGameTimeEstimation(start)

	for i := 0; i < 10; i++ {
		localNow := start.Add(time.Duration(i) * 100 * time.Millisecond)
		serverTime := float64(i) * 0.1
		e.RecordTickArrival(localNow, serverTime)
	}

	est, ok := e.Estimate(start.Add(900 * time.Millisecond))
	if !ok {
		t.Fatal("expected an estimate once samples have been recorded")
	}
	if math.Abs(est-0.9) > 0.01 {
		t.Errorf("expected estimate near 0.9, got %f", est)
	}
}

func TestGameTimeEstimationNoSamplesYet(t *testing.T) {
	e := NewGameTimeEstimation(time.Unix(0, 0))
	if _, ok := e.Estimate(time.Unix(0, 0)); ok {
		t.Error("expected no estimate before any sample is recorded")
	}
}

func TestGameTimeEstimationJitterZeroForEvenSpacing(t *testing.T) {
	start := time.Unix(0, 0)
	e := NewGameTimeEstimation(start)
	for i := 0; i < 5; i++ {
		e.RecordTickArrival(start.Add(time.Duration(i)*33*time.Millisecond), float64(i)*0.033)
	}
	if j := e.Jitter(); j > 2*time.Millisecond {
		t.Errorf("expected near-zero jitter for evenly spaced arrivals, got %v", j)
	}
}
