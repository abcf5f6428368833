package netstat

import "time"

// SampleDuration bounds the sliding window of (local_time,
// server_tick_time) observations the estimator regresses over.
const SampleDuration = 2 * time.Second

// GameTimeEstimation converts a stream of "a tick numbered N arrived at
// local time T" observations into an estimate of the server's current
// game time in seconds, plus a jitter figure derived from the spread of inter-arrival
// gaps. Ported from original_source/comn/src/util/game_time.rs: the
// regression's slope is fixed at 1 (server time and wall-clock time
// advance at the same rate by construction), only the intercept
// between the two clocks is actually being estimated.
type GameTimeEstimation struct {
	start       time.Time
	xs, ys      []float64
	lastSample  time.Time
	haveLast    bool
	gaps        *Var
}

func NewGameTimeEstimation(start time.Time) *GameTimeEstimation {
	return &GameTimeEstimation{start: start, gaps: NewVar(64)}
}

// RecordTickArrival records that serverTime (seconds since game start)
// was observed to arrive at localNow.
func (e *GameTimeEstimation) RecordTickArrival(localNow time.Time, serverTime float64) {
	x := localNow.Sub(e.start).Seconds()
	e.xs = append(e.xs, x)
	e.ys = append(e.ys, serverTime)
	e.trim(x)

	if e.haveLast {
		e.gaps.Record(localNow.Sub(e.lastSample).Seconds())
	}
	e.lastSample = localNow
	e.haveLast = true
}

func (e *GameTimeEstimation) trim(now float64) {
	cutoff := now - SampleDuration.Seconds()
	i := 0
	for i < len(e.xs) && e.xs[i] < cutoff {
		i++
	}
	e.xs = e.xs[i:]
	e.ys = e.ys[i:]
}

// Estimate returns the fitted server time at localNow.
func (e *GameTimeEstimation) Estimate(localNow time.Time) (float64, bool) {
	if len(e.xs) == 0 {
		return 0, false
	}
	lr := FitWithSlope(1.0, e.xs, e.ys)
	x := localNow.Sub(e.start).Seconds()
	return lr.At(x), true
}

// Jitter is the standard deviation of inter-arrival gaps, a measure of
// how unevenly ticks have been arriving recently.
func (e *GameTimeEstimation) Jitter() time.Duration {
	return time.Duration(e.gaps.StdDev() * float64(time.Second))
}
