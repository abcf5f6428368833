package netstat

import "time"

// PingPeriod is the interval at which the client sends a Ping message,
// matching the original's PING_PERIOD.
const PingPeriod = 1 * time.Second

// InitialEstimate seeds the RTT estimate before any Pong has been
// received, so the playback clock has something sane to target from
// the first tick.
const InitialEstimate = 100 * time.Millisecond

// PingTimeout is how long an outstanding ping may go unanswered before
// the connection is declared dead (spec.md §4.3, §7).
const PingTimeout = 10 * time.Second

// PingEstimation tracks an exponentially-smoothed round-trip-time
// estimate from outstanding Ping/Pong round trips, ported from
// original_source/comn/src/util/ping.rs. It also owns the single
// outstanding ping: the original only ever has one in flight at a
// time, sent every PingPeriod and retired the moment its Pong (or a
// later one) arrives.
type PingEstimation struct {
	estimate time.Duration
	alpha    float64

	outstanding   bool
	outstandingAt time.Time
	outstandingSeq uint64
	lastSeq       uint64
	lastPongAt    time.Time
	havePong      bool
}

func NewPingEstimation() *PingEstimation {
	return &PingEstimation{estimate: InitialEstimate, alpha: 0.1}
}

// ShouldSend reports whether PingPeriod has elapsed since the last
// ping was sent (or none has been sent yet), i.e. whether the caller
// should emit a new Ping message now.
func (p *PingEstimation) ShouldSend(now time.Time) bool {
	return p.outstandingAt.IsZero() || now.Sub(p.outstandingAt) >= PingPeriod
}

// Send records that a new ping with the given sequence number was just
// sent at now, superseding any previously outstanding one.
func (p *PingEstimation) Send(now time.Time, seq uint64) {
	p.outstanding = true
	p.outstandingAt = now
	p.outstandingSeq = seq
	p.lastSeq = seq
}

// HandlePong folds a Pong's round trip into the estimate if seq
// matches the outstanding ping; a pong with an unknown or older
// sequence number is rejected and ignored, per spec.md §4.3.
func (p *PingEstimation) HandlePong(now time.Time, seq uint64) {
	if !p.outstanding || seq != p.outstandingSeq {
		return
	}
	p.RecordRoundTrip(now.Sub(p.outstandingAt))
	p.outstanding = false
	p.havePong = true
	p.lastPongAt = now
}

// RecordRoundTrip folds a freshly measured round trip into the
// estimate: estimate' = estimate + alpha*(sample - estimate).
func (p *PingEstimation) RecordRoundTrip(sample time.Duration) {
	delta := float64(sample-p.estimate) * p.alpha
	p.estimate += time.Duration(delta)
}

func (p *PingEstimation) Estimate() time.Duration { return p.estimate }

// TimedOut reports whether the outstanding ping (if any) has gone
// unanswered for longer than PingTimeout, and no earlier pong has kept
// the connection alive more recently than that window either.
func (p *PingEstimation) TimedOut(now time.Time) bool {
	if !p.outstanding {
		return false
	}
	if p.havePong && now.Sub(p.lastPongAt) < PingTimeout {
		return false
	}
	return now.Sub(p.outstandingAt) >= PingTimeout
}
