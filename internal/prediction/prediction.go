// Package prediction implements the client-side predicted-entity log
// and the replay-on-correction algorithm described in spec.md §4.5,
// ported from original_source/clnt/src/prediction.rs.
//
// The client predicts its own player's entity (and any bullets it
// fires) locally, ahead of the server's authoritative tick arriving.
// When that tick does arrive, the predicted state at that tick is
// compared against the real one; small deviations are blended away,
// large ones snap, and everything after that tick is replayed forward
// from the corrected point so the player never sees their own input
// "rubber-band" on screen.
package prediction

import (
	"sort"

	"catcharena/internal/sim"
)

// MinPredictionErrorForReplay is the smallest positional error, summed
// over the predicted entities, that justifies the cost of replaying every tick since the
// correction — below it, the blend CorrectEntity already applied
// converges fast enough that replaying adds jitter without fixing
// anything.
const MinPredictionErrorForReplay = 0.001

// snapBelow and snapAbove bound CorrectPoint/CorrectVector, which
// otherwise move blendRate of the way per call: corrections smaller
// than 0.01 are treated as already-converged noise, and corrections
// larger than 200 are treated as a discontinuity (respawn, teleport,
// a missed tick) that must snap instead of sliding visibly into place.
const (
	snapBelow = 0.01
	snapAbove = 200.0
	blendRate = 0.2
)

// Record is one tick's predicted entity log entry: the subset of
// entities this client is responsible for predicting, and the input
// it applied to produce them.
type Record struct {
	Entities  map[sim.EntityID]sim.Entity
	LastInput sim.Input
}

// Prediction is the rolling log of predicted ticks for one player. It
// owns `current`, the scratch Game threaded across calls: an
// authoritative base with this client's own predicted entities
// overlaid, advanced one tick at a time by RunPlayerInput. current is
// replaced wholesale whenever a correction is large enough to warrant
// a full replay (spec.md §4.5); otherwise it is simply carried
// forward, so a small correction never causes a visible jump.
type Prediction struct {
	MyPlayerID sim.PlayerID
	Log        map[sim.TickNum]Record

	current *sim.Game
	lastTick sim.TickNum
	haveLastTick bool
}

func NewPrediction(player sim.PlayerID) *Prediction {
	return &Prediction{
		MyPlayerID: player,
		Log:        make(map[sim.TickNum]Record),
	}
}

func (p *Prediction) sortedTicks() []sim.TickNum {
	ticks := make([]sim.TickNum, 0, len(p.Log))
	for t := range p.Log {
		ticks = append(ticks, t)
	}
	sort.Slice(ticks, func(i, j int) bool { return ticks[i] < ticks[j] })
	return ticks
}

// IsPredicted reports whether entity e belongs to this client's
// predicted subset: its own player entity, or a bullet/rocket it fired.
func (p *Prediction) IsPredicted(e sim.Entity) bool {
	switch ent := e.(type) {
	case *sim.PlayerEntity:
		return ent.Owner == p.MyPlayerID
	case *sim.Bullet:
		return ent.Owner != nil && *ent.Owner == p.MyPlayerID
	case *sim.Rocket:
		return ent.Owner != nil && *ent.Owner == p.MyPlayerID
	default:
		return false
	}
}

func extractPredicted(p *Prediction, g *sim.Game) map[sim.EntityID]sim.Entity {
	out := make(map[sim.EntityID]sim.Entity)
	for id, e := range g.Entities {
		if p.IsPredicted(e) {
			out[id] = e
		}
	}
	return out
}

// loadEntities overlays the predicted subset of entities onto g,
// replacing whatever g currently holds for those ids.
func loadEntities(g *sim.Game, entities map[sim.EntityID]sim.Entity) {
	for id, e := range entities {
		g.Entities[id] = e
	}
}

// Reset discards the log and the rolling scratch state. Called when a
// caller's tick sequence is not successive (spec.md §4.5
// self-consistency): the log can no longer be trusted to describe a
// contiguous run of predictions, so the engine falls back to waiting
// for the next authoritative state to re-seed it.
func (p *Prediction) Reset() {
	p.Log = make(map[sim.TickNum]Record)
	p.current = nil
	p.haveLastTick = false
}

// RecordTickInput is the client's per-tick entry point. tickNum is the
// tick being predicted for; input is the player's input for that tick.
// authoritative, when non-nil, is the freshly decoded server state
// tagged with myLastInputNum = k, the last input tick the server had
// processed for this player when it produced that state. It returns
// the events produced by this tick's own prediction step (not by any
// replay triggered along the way).
func (p *Prediction) RecordTickInput(tickNum sim.TickNum, input sim.Input, authoritative *sim.Game, myLastInputNum sim.TickNum) []sim.Event {
	if p.haveLastTick && tickNum != p.lastTick.Next() {
		p.Reset()
	}
	p.lastTick = tickNum
	p.haveLastTick = true

	if authoritative != nil {
		p.reconcile(authoritative, myLastInputNum)
	}

	if p.current == nil {
		if authoritative == nil {
			// A missing authoritative state is tolerated (spec.md
			// §4.5): there is nothing to predict from yet, so this
			// input is simply dropped from the log.
			return nil
		}
		p.current = authoritative.Clone()
	}

	ctx := &sim.RunContext{IsPredicting: true}
	_ = sim.RunPlayerInput(p.current, p.MyPlayerID, input, ctx, nil)
	p.current.TickNum = tickNum
	p.Log[tickNum] = Record{
		Entities:  extractPredicted(p, p.current),
		LastInput: input,
	}
	return ctx.Events
}

// reconcile implements spec.md §4.5(a)-(c): measure prediction error
// at k+1 against the freshly arrived authoritative state, discard
// confirmed/superseded log entries, and replay forward from the
// corrected point when the error is too large to let converge by
// blending alone.
func (p *Prediction) reconcile(authoritative *sim.Game, k sim.TickNum) {
	nextTick := k.Next()
	rec, hasRec := p.Log[nextTick]

	var errSum float64
	if hasRec {
		for id, predictedEntity := range rec.Entities {
			if authEntity, ok := authoritative.Entities[id]; ok {
				errSum += CorrectEntity(predictedEntity, authEntity)
			}
		}
	}

	for t := range p.Log {
		if t <= k {
			delete(p.Log, t)
		}
	}

	if !hasRec {
		// Nothing predicted at this tick yet (e.g. the very first
		// authoritative state, or a gap after a reset): just adopt it
		// as the new scratch base.
		p.current = authoritative.Clone()
		return
	}

	if errSum < MinPredictionErrorForReplay {
		// Converged close enough already; CorrectEntity's blend has
		// been applied in place above, and p.current is left running
		// forward unperturbed rather than paying for a full replay.
		return
	}

	base := authoritative.Clone()
	loadEntities(base, rec.Entities)
	base.TickNum = nextTick
	p.Log[nextTick] = rec
	p.current = base
	p.replayFrom(nextTick.Next())
}

// replayFrom re-runs every logged tick from start onward against
// p.current, so a correction applied at `start` propagates forward
// through every prediction the client has already made since.
func (p *Prediction) replayFrom(start sim.TickNum) {
	for _, t := range p.sortedTicks() {
		if t < start {
			continue
		}
		rec := p.Log[t]
		ctx := &sim.RunContext{IsPredicting: true}
		_ = sim.RunPlayerInput(p.current, p.MyPlayerID, rec.LastInput, ctx, nil)
		p.current.TickNum = t
		rec.Entities = extractPredicted(p, p.current)
		p.Log[t] = rec
	}
}

// CorrectPoint blends a predicted point towards the authoritative one:
// snap instantly if the two have diverged either trivially (already
// converged, within float noise) or enormously (a discontinuity, not
// something to ease into); otherwise ease 20% of the remaining
// distance per correction, matching correct_point in the original.
func CorrectPoint(predicted, authoritative sim.Vector) sim.Vector {
	delta := authoritative.Sub(predicted).Norm()
	switch {
	case delta < snapBelow, delta > snapAbove:
		return authoritative
	default:
		return predicted.Add(authoritative.Sub(predicted).Scale(blendRate))
	}
}

// CorrectVector applies the same blend-or-snap rule to a velocity.
func CorrectVector(predicted, authoritative sim.Vector) sim.Vector {
	return CorrectPoint(predicted, authoritative)
}

// CorrectEntity blends a predicted entity's correctable fields towards
// the corresponding authoritative entity, in place, returning the
// magnitude of positional error that existed before the blend was
// applied (used by the caller to decide whether a full replay is
// warranted).
func CorrectEntity(predicted, authoritative sim.Entity) float64 {
	pp, pok := predicted.(*sim.PlayerEntity)
	ap, aok := authoritative.(*sim.PlayerEntity)
	if pok && aok {
		errBefore := ap.Position.Sub(pp.Position).Norm()
		pp.Position = CorrectPoint(pp.Position, ap.Position)
		pp.Vel = CorrectVector(pp.Vel, ap.Vel)
		// size_bump is authoritative-only: the server alone decides when
		// a catch/feed bump happens, so the client must never predict it.
		pp.SizeBump = ap.SizeBump
		pp.TargetSizeBump = ap.TargetSizeBump
		return errBefore
	}

	pb, pok := predicted.(*sim.Bullet)
	ab, aok := authoritative.(*sim.Bullet)
	if pok && aok {
		return ab.Pos(0).Sub(pb.Pos(0)).Norm()
	}
	return 0
}
