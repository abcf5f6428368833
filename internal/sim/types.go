// Package sim implements the shared deterministic simulation: the same
// run_tick/run_player_input step that both the server and a predicting
// client execute, byte-for-byte, given the same Game, RunContext and
// random seed.
package sim

import "math"

// PlayerID identifies a player slot within a Game. Stable for the
// lifetime of the player's membership in the game.
type PlayerID uint32

// EntityID is assigned by the server only, monotonically increasing.
// A high range starting at PredictedIDBase is reserved for client-side
// tentative ids; nothing in this module allocates from it, since client
// prediction only advances entities that already carry server ids.
type EntityID uint32

// PredictedIDBase is the first id in the range reserved for
// client-side tentative entity ids (open question (c), spec.md §9).
const PredictedIDBase EntityID = 1 << 31

// TickNum is the monotonically increasing simulation tick counter.
type TickNum uint32

// Next returns the following tick number.
func (t TickNum) Next() TickNum { return t + 1 }

// GameTime is derived game time, tick_num * tick_period.
type GameTime float64

// SequenceNum correlates pings with pongs.
type SequenceNum uint64

// Vector is a 2D vector (also used for points; the original distinguishes
// Point/Vector at the type level, Go idiom here collapses them since
// both are plain float64 pairs with the same arithmetic).
type Vector struct {
	X, Y float64
}

func V(x, y float64) Vector { return Vector{X: x, Y: y} }

func (v Vector) Add(o Vector) Vector { return Vector{v.X + o.X, v.Y + o.Y} }
func (v Vector) Sub(o Vector) Vector { return Vector{v.X - o.X, v.Y - o.Y} }
func (v Vector) Scale(f float64) Vector { return Vector{v.X * f, v.Y * f} }
func (v Vector) Dot(o Vector) float64 { return v.X*o.X + v.Y*o.Y }
func (v Vector) NormSquared() float64 { return v.X*v.X + v.Y*v.Y }
func (v Vector) Norm() float64 { return math.Sqrt(v.NormSquared()) }

func (v Vector) Normalize() Vector {
	n := v.Norm()
	if n == 0 {
		return Vector{}
	}
	return v.Scale(1 / n)
}

// Reflect returns v reflected about the axis n: v - 2*(v.n)*n.
func (v Vector) Reflect(axis Vector) Vector {
	return v.Sub(axis.Scale(2 * v.Dot(axis)))
}

func (v Vector) Angle() float64 { return math.Atan2(v.Y, v.X) }

func VectorFromAngle(angle float64) Vector {
	return Vector{X: math.Cos(angle), Y: math.Sin(angle)}
}

// Input is the six boolean input axes, tick-stamped by the caller.
type Input struct {
	MoveLeft  bool
	MoveRight bool
	MoveUp    bool
	MoveDown  bool
	UseItem   bool // dash
	UseAction bool // hook
}

// smoothToTarget is the canonical smoothing primitive used throughout
// the simulation: x' = target + (x - target) * exp(-k*dt).
func smoothToTarget(factor, current, target, dt float64) float64 {
	return target + (current-target)*math.Exp(-factor*dt)
}

func smoothToTargetVector(factor float64, current, target Vector, dt float64) Vector {
	return Vector{
		X: smoothToTarget(factor, current.X, target.X, dt),
		Y: smoothToTarget(factor, current.Y, target.Y, dt),
	}
}

func smoothToTargetPoint(factor float64, current, target Vector, dt float64) Vector {
	return smoothToTargetVector(factor, current, target, dt)
}

// angleDist returns the signed shortest angular distance from `from` to `to`,
// in (-pi, pi].
func angleDist(to, from float64) float64 {
	d := math.Mod(to-from+math.Pi, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d - math.Pi
}

// interpAngle linearly interpolates an angle, snapping instead of wrapping
// the long way around when the two angles are more than a quarter turn
// apart (mirrors entities.rs's interp_angle).
func interpAngle(a, b float64, t float64) float64 {
	if math.Abs(angleDist(b, a)) < math.Pi/2 {
		return a + angleDist(b, a)*t
	}
	return a
}
