// Package client implements the playback clock and per-frame update
// loop a game client runs against a stream of server ticks: time-warp
// smoothing of the local clock towards the server's, tick-crossing
// detection, dispatch into prediction, and the interpolation anchors a
// renderer reads from (spec.md §4.4), ported from
// original_source/clnt/src/runner.rs.
package client

import (
	"math"
	"time"

	"catcharena/internal/netstat"
	"catcharena/internal/prediction"
	"catcharena/internal/sim"
	"catcharena/internal/wire"
)

// TargetTimeLagFactor sets how far behind the server's send time the
// client deliberately keeps its playback clock: enough buffer to
// absorb jitter between ticks without exhausting the received-state
// buffer before the next tick arrives.
const TargetTimeLagFactor = 1.5

// MaxTimeLagDeviation is the deviation, in seconds, beyond which the
// playback clock snaps straight to the target lag instead of warping
// gradually into place.
const MaxTimeLagDeviation = 0.075

// MaxTicksPerUpdate bounds how many ticks a single Update call will
// cross, so a long frame hitch cannot cause an unbounded replay burst.
const MaxTicksPerUpdate = 5

// KeepStatesBuffer is how many past received ticks are retained for
// interpolation and late-diff-base lookups before being garbage
// collected.
const KeepStatesBuffer = 5

// Stats mirrors runner.rs's Stats: the diagnostics a client UI or test
// harness reads to judge connection quality.
type Stats struct {
	TimeLag          time.Duration
	TimeLagDeviation time.Duration
	TimeWarpFactor   float64
	Loss             float64
	Jitter           time.Duration
}

type receivedState struct {
	game           *sim.Game
	myLastInputNum sim.TickNum
}

// Runner owns one client's connection state: the received-tick buffer,
// the predicted-entity log, and the estimators feeding the playback
// clock.
type Runner struct {
	myToken    [16]byte
	myPlayerID sim.PlayerID

	receivedStates map[sim.TickNum]receivedState
	receivedEvents map[sim.TickNum][]sim.Event
	prediction     *prediction.Prediction

	interpGameTime sim.GameTime
	nextTickNum    sim.TickNum
	startTime      time.Time

	lastReconciledTick sim.TickNum
	haveReconciled     bool

	recvTickTime    *netstat.GameTimeEstimation
	ping            *netstat.PingEstimation
	loss            *netstat.LossEstimation
	timeWarpFactor  float64
	nextPingSeq     sim.SequenceNum

	stats Stats
}

func NewRunner(myPlayerID sim.PlayerID, start time.Time) *Runner {
	return &Runner{
		myPlayerID:     myPlayerID,
		receivedStates: make(map[sim.TickNum]receivedState),
		receivedEvents: make(map[sim.TickNum][]sim.Event),
		prediction:     prediction.NewPrediction(myPlayerID),
		startTime:      start,
		recvTickTime:   netstat.NewGameTimeEstimation(start),
		ping:           netstat.NewPingEstimation(),
		loss:           netstat.NewLossEstimation(),
		timeWarpFactor: 1.0,
	}
}

func targetTimeLag() time.Duration {
	return time.Duration(float64(sim.TickPeriod) * TargetTimeLagFactor * float64(time.Second))
}

// HandleServerTick ingests one decoded ServerTick message: applies its
// diff atop the acknowledged base (or treats it as a full snapshot if
// DiffBase is nil), records arrival-time statistics, and buffers it for
// interpolation, per record_server_tick in the original. A tick whose
// DiffBase is not among the buffered states is dropped.
func (r *Runner) HandleServerTick(now time.Time, msg wire.ServerTick, seq sim.SequenceNum) {
	r.loss.RecordSequenceNum(uint64(seq))

	var g *sim.Game
	if msg.DiffBase != nil {
		base, ok := r.receivedStates[*msg.DiffBase]
		if !ok {
			return
		}
		g = cloneGame(base.game)
	}
	if g == nil {
		g = sim.NewGame(sim.DefaultSettings())
	}
	sim.ApplyGame(g, msg.Diff)

	r.receivedStates[msg.Diff.TickNum] = receivedState{game: g, myLastInputNum: msg.YourLastInputNum}
	r.receivedEvents[msg.Diff.TickNum] = msg.Events

	r.recvTickTime.RecordTickArrival(now, float64(g.Time()))
	r.gcOldStates()
}

func (r *Runner) gcOldStates() {
	if len(r.receivedStates) <= KeepStatesBuffer {
		return
	}
	var latest sim.TickNum
	for t := range r.receivedStates {
		if t > latest {
			latest = t
		}
	}
	for t := range r.receivedStates {
		if latest-t > KeepStatesBuffer {
			delete(r.receivedStates, t)
			delete(r.receivedEvents, t)
		}
	}
}

// Update advances the client's interpolated playback clock by dt
// (real time elapsed since the previous call), time-warping it towards
// target_time_lag behind the server's estimated current time, crossing
// at most MaxTicksPerUpdate ticks and feeding each crossing's input
// into the predicted-entity log.
func (r *Runner) Update(now time.Time, dt time.Duration, input sim.Input) {
	serverTime, ok := r.recvTickTime.Estimate(now)
	if !ok {
		return
	}

	targetLagSeconds := targetTimeLag().Seconds()
	currentLag := serverTime - float64(r.interpGameTime)
	// time_lag_deviation = target_lag - (server_time - interp_game_time):
	// negative when the client has fallen further behind the stream than
	// the target lag (needs to warp forward), positive when it is
	// running too close to the receive head (needs to slow down).
	deviation := targetLagSeconds - currentLag
	r.stats.TimeLag = time.Duration(currentLag * float64(time.Second))
	r.stats.TimeLagDeviation = time.Duration(deviation * float64(time.Second))

	if deviation > MaxTimeLagDeviation || deviation < -MaxTimeLagDeviation {
		r.interpGameTime = sim.GameTime(serverTime - targetLagSeconds)
	}

	// Time-warp factor: a logistic curve centered on zero deviation,
	// ranging from 0.5 (slow down) to 2.0 (speed up), steep around a
	// 5ms deviation so small drift corrects quickly without being
	// perceptible as a speed change.
	w := 0.5 + 1.5/(1+2*expNeg(-deviation/0.005))
	r.timeWarpFactor = w
	r.stats.TimeWarpFactor = w

	r.interpGameTime += sim.GameTime(dt.Seconds() * w)

	crossed := 0
	for r.interpGameTime >= sim.GameTime(r.nextTickNum)*sim.TickPeriod && crossed < MaxTicksPerUpdate {
		r.crossTick(input)
		crossed++
	}

	r.stats.Loss = r.loss.Loss()
	r.stats.Jitter = r.recvTickTime.Jitter()
}

// crossTick feeds one tick's input into the prediction engine. The
// freshly decoded authoritative state at the latest received tick is
// only handed to the prediction engine once — the first crossing after
// it arrived — since reconciliation is keyed by that tick's
// my_last_input_num and must not re-run against the same state twice.
func (r *Runner) crossTick(input sim.Input) {
	serverTick := r.latestReceivedTick()

	var authoritative *sim.Game
	var myLastInputNum sim.TickNum
	if state, ok := r.receivedStates[serverTick]; ok && (!r.haveReconciled || serverTick != r.lastReconciledTick) {
		authoritative = cloneGame(state.game)
		myLastInputNum = state.myLastInputNum
		r.lastReconciledTick = serverTick
		r.haveReconciled = true
	}

	r.prediction.RecordTickInput(r.nextTickNum, input, authoritative, myLastInputNum)
	r.nextTickNum = r.nextTickNum.Next()
}

func (r *Runner) latestReceivedTick() sim.TickNum {
	var latest sim.TickNum
	found := false
	for t := range r.receivedStates {
		if !found || t > latest {
			latest = t
			found = true
		}
	}
	return latest
}

// Stats returns the connection diagnostics as of the last Update call.
func (r *Runner) Stats() Stats { return r.stats }

// MaybeSendPing returns a fresh outgoing wire.ClientPing if PingPeriod
// has elapsed since the last one was sent, and records it as
// outstanding. Called once per Update by the caller owning the socket.
func (r *Runner) MaybeSendPing(now time.Time) (wire.ClientPing, bool) {
	if !r.ping.ShouldSend(now) {
		return wire.ClientPing{}, false
	}
	r.nextPingSeq++
	r.ping.Send(now, uint64(r.nextPingSeq))
	return wire.ClientPing{SequenceNum: r.nextPingSeq}, true
}

// HandlePong folds a server Pong into the round-trip estimate. A pong
// whose sequence number is unknown or older than the outstanding ping
// is silently ignored (spec.md §4.3).
func (r *Runner) HandlePong(now time.Time, seq sim.SequenceNum) {
	r.ping.HandlePong(now, uint64(seq))
}

// TimedOut reports whether the outstanding ping has gone unanswered
// long enough that the session should be declared dead (spec.md §7).
func (r *Runner) TimedOut(now time.Time) bool {
	return r.ping.TimedOut(now)
}

func expNeg(x float64) float64 { return math.Exp(-x) }

func cloneGame(g *sim.Game) *sim.Game {
	return g.Clone()
}
