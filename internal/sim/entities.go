package sim

import "math"

// Entity is the closed tagged variant of spec.md §3: Player, PlayerView,
// Bullet, Rocket, DangerGuy, Turret, Wall, FoodSpawn, Food. Adding a new
// kind means implementing this interface and updating every dispatch
// site below and in run.go — that is a feature of this design, not a
// shortcoming (spec.md §9, "Open polymorphism").
type Entity interface {
	// Pos returns the entity's position at the given game time.
	Pos(t GameTime) Vector
	// EntityShape returns the entity's collidable shape at the given time.
	EntityShape(t GameTime) Shape
	// CanHookAttach reports whether a hook may latch onto this entity.
	CanHookAttach() bool
	// IsWallLike reports whether the entity blocks movement like a wall
	// (used to decide whether a dash should reflect off it).
	IsWallLike() bool
	// Interp returns the linear interpolation of this entity towards
	// other at parameter alpha in [0,1]; entities without a defined
	// interpolation (most of them) return themselves unchanged.
	Interp(other Entity, alpha float64) Entity
}

// --- Hook & Dash -----------------------------------------------------

// HookPhase tags the state of a player's hook.
type HookPhase int

const (
	HookNone HookPhase = iota
	HookShootingPhase
	HookAttachedPhase
	HookContractingPhase
)

// Hook is the player's grappling hook state machine (spec.md §4.1).
type Hook struct {
	Phase HookPhase

	// Shooting
	Pos       Vector
	Vel       Vector
	TimeLeft  GameTime

	// Attached
	Target EntityID
	Offset Vector

	// Contracting reuses Pos above.
}

func (h *Hook) interp(other *Hook, alpha float64) *Hook {
	if h == nil || other == nil || h.Phase != other.Phase {
		if h == nil {
			return nil
		}
		cp := *h
		return &cp
	}
	switch h.Phase {
	case HookShootingPhase:
		return &Hook{Phase: HookShootingPhase, Pos: h.Pos.Add(other.Pos.Sub(h.Pos).Scale(alpha)), Vel: h.Vel, TimeLeft: h.TimeLeft}
	case HookContractingPhase:
		return &Hook{Phase: HookContractingPhase, Pos: h.Pos.Add(other.Pos.Sub(h.Pos).Scale(alpha))}
	default:
		cp := *h
		return &cp
	}
}

// Dash is the player's active dash state.
type Dash struct {
	TimeLeft GameTime
	Dir      Vector
}

// --- PlayerEntity ------------------------------------------------------

type AnimState struct {
	Frame uint8
	Time  GameTime
}

// PlayerEntity is the full, owner-authoritative representation of a
// player's avatar in the simulation.
type PlayerEntity struct {
	Owner    PlayerID
	Position Vector
	Vel      Vector

	Angle         float64
	TurnTimeLeft  GameTime
	TargetAngle   float64

	SizeScale      float64
	SizeSkew       float64
	SizeBump       float64
	TargetSizeBump float64

	NextShotTime GameTime
	ShotsLeft    uint32

	Dash         *Dash
	DashCooldown GameTime

	Hook         *Hook
	HookCooldown GameTime

	AnimFrame AnimState
}

func NewPlayerEntity(owner PlayerID, pos Vector) *PlayerEntity {
	return &PlayerEntity{
		Owner:     owner,
		Position:  pos,
		SizeScale: 1.0,
		SizeSkew:  1.0,
		ShotsLeft: MagazineSize,
	}
}

func (p *PlayerEntity) Size() Vector {
	return Vector{
		X: (p.SizeScale * PlayerSitW) * (1 + p.SizeSkew),
		Y: (p.SizeScale * PlayerSitL) / (1 + p.SizeSkew),
	}
}

func (p *PlayerEntity) Rect() Rect {
	return NewAaRectCenter(p.Position, p.Size()).Rotate(p.Angle)
}

func (p *PlayerEntity) Pos(GameTime) Vector        { return p.Position }
func (p *PlayerEntity) EntityShape(GameTime) Shape { return p.Rect().Shape() }
func (p *PlayerEntity) CanHookAttach() bool        { return true }
func (p *PlayerEntity) IsWallLike() bool           { return false }

func (p *PlayerEntity) ToView() *PlayerView {
	return &PlayerView{
		Owner:     p.Owner,
		Position:  p.Position,
		Angle:     p.Angle,
		Size:      p.Size(),
		Hook:      p.Hook,
		IsDashing: p.Dash != nil,
		AnimFrame: p.AnimFrame.Frame,
	}
}

func (p *PlayerEntity) Interp(o Entity, alpha float64) Entity {
	other, ok := o.(*PlayerEntity)
	if !ok {
		return p
	}
	out := *p
	out.Position = p.Position.Add(other.Position.Sub(p.Position).Scale(alpha))
	out.Angle = interpAngle(p.Angle, other.Angle, alpha)
	out.SizeScale = p.SizeScale + alpha*(other.SizeScale-p.SizeScale)
	out.SizeSkew = p.SizeSkew + alpha*(other.SizeSkew-p.SizeSkew)
	out.SizeBump = p.SizeBump + alpha*(other.SizeBump-p.SizeBump)
	if p.Hook != nil && other.Hook != nil {
		out.Hook = p.Hook.interp(other.Hook, alpha)
	}
	return &out
}

// --- PlayerView (server-projected subset for other clients) ----------

type PlayerView struct {
	Owner     PlayerID
	Position  Vector
	Angle     float64
	Size      Vector
	Hook      *Hook
	IsDashing bool
	AnimFrame uint8
}

func (p *PlayerView) Rect() Rect                 { return NewAaRectCenter(p.Position, p.Size).Rotate(p.Angle) }
func (p *PlayerView) Pos(GameTime) Vector        { return p.Position }
func (p *PlayerView) EntityShape(GameTime) Shape { return p.Rect().Shape() }
func (p *PlayerView) CanHookAttach() bool        { return true }
func (p *PlayerView) IsWallLike() bool           { return false }

func (p *PlayerView) Interp(o Entity, alpha float64) Entity {
	other, ok := o.(*PlayerView)
	if !ok {
		return p
	}
	out := *p
	out.Position = p.Position.Add(other.Position.Sub(p.Position).Scale(alpha))
	out.Angle = interpAngle(p.Angle, other.Angle, alpha)
	return &out
}

// --- Bullet ------------------------------------------------------------

type Bullet struct {
	Owner     *PlayerID // nil when fired by a turret
	StartTime GameTime
	StartPos  Vector
	Vel       Vector
}

func (b *Bullet) Pos(t GameTime) Vector {
	dt := float64(t - b.StartTime)
	return b.StartPos.Add(b.Vel.Scale(dt))
}
func (b *Bullet) EntityShape(t GameTime) Shape { return Circle{Center: b.Pos(t), Radius: BulletRadius}.Shape() }
func (b *Bullet) CanHookAttach() bool          { return false }
func (b *Bullet) IsWallLike() bool             { return false }
func (b *Bullet) Interp(Entity, float64) Entity { return b }

// --- Rocket (accelerating projectile: cosh/ln motion profile) --------

type Rocket struct {
	Owner     *PlayerID
	StartTime GameTime
	StartPos  Vector
	Dir       Vector
	Accel     float64
}

// Pos follows x(t) = start + dir * ln(cosh(accel*t)) / accel, the
// accelerating-then-saturating motion profile from the original.
func (r *Rocket) Pos(t GameTime) Vector {
	dt := float64(t - r.StartTime)
	if r.Accel == 0 {
		return r.StartPos.Add(r.Dir.Scale(dt))
	}
	dist := math.Log(math.Cosh(r.Accel*dt)) / r.Accel
	return r.StartPos.Add(r.Dir.Scale(dist))
}
func (r *Rocket) EntityShape(t GameTime) Shape  { return Circle{Center: r.Pos(t), Radius: RocketRadius}.Shape() }
func (r *Rocket) CanHookAttach() bool           { return false }
func (r *Rocket) IsWallLike() bool              { return false }
func (r *Rocket) Interp(Entity, float64) Entity { return r }

// --- DangerGuy (scripted back-and-forth hazard) -----------------------

// DangerGuy moves back and forth between StartPos and EndPos over Period
// seconds using a smooth (ease-in/ease-out) piecewise timeline, matching
// the original's pareen-based keyframe motion in spirit.
type DangerGuy struct {
	StartPos Vector
	EndPos   Vector
	Size     Vector
	Period   GameTime
	IsHot    bool
}

// phaseFraction returns a value in [0,1] following a triangular
// back-and-forth wave of the given period, smoothed with a cosine ease.
func (d *DangerGuy) phaseFraction(t GameTime) float64 {
	if d.Period <= 0 {
		return 0
	}
	phase := math.Mod(float64(t), float64(d.Period)) / float64(d.Period)
	// Triangular 0->1->0 over one period, eased with cosine.
	var tri float64
	if phase < 0.5 {
		tri = phase * 2
	} else {
		tri = (1 - phase) * 2
	}
	return 0.5 - 0.5*math.Cos(tri*math.Pi)
}

func (d *DangerGuy) Pos(t GameTime) Vector {
	f := d.phaseFraction(t)
	return d.StartPos.Add(d.EndPos.Sub(d.StartPos).Scale(f))
}

func (d *DangerGuy) AaRect(t GameTime) AaRect {
	return NewAaRectCenter(d.Pos(t), d.Size)
}
func (d *DangerGuy) EntityShape(t GameTime) Shape { return d.AaRect(t).ToRect().Shape() }
func (d *DangerGuy) CanHookAttach() bool          { return true }
func (d *DangerGuy) IsWallLike() bool             { return false }
func (d *DangerGuy) Interp(Entity, float64) Entity { return d }

// --- Turret --------------------------------------------------------

type Turret struct {
	Position     Vector
	Angle        float64
	NextShotTime GameTime
	Target       *PlayerID
}

func (tu *Turret) AngleToPos(pos Vector) float64 {
	return pos.Sub(tu.Position).Angle()
}

func (tu *Turret) Rect() Rect {
	size := Vector{TurretRadius * 2, TurretRadius * 2}
	return NewAaRectCenter(tu.Position, size).Rotate(0)
}
func (tu *Turret) Pos(GameTime) Vector        { return tu.Position }
func (tu *Turret) EntityShape(GameTime) Shape { return Circle{Center: tu.Position, Radius: TurretRadius}.Shape() }
func (tu *Turret) CanHookAttach() bool        { return true }
func (tu *Turret) IsWallLike() bool           { return true }

func (tu *Turret) Interp(o Entity, alpha float64) Entity {
	other, ok := o.(*Turret)
	if !ok {
		return tu
	}
	out := *tu
	out.Angle = interpAngle(tu.Angle, other.Angle, alpha)
	return &out
}

// --- Wall ------------------------------------------------------------

type Wall struct {
	Rect Rect
}

func (w *Wall) Pos(GameTime) Vector              { return w.Rect.Center }
func (w *Wall) EntityShape(GameTime) Shape       { return w.Rect.Shape() }
func (w *Wall) CanHookAttach() bool              { return true }
func (w *Wall) IsWallLike() bool                 { return true }
func (w *Wall) Interp(Entity, float64) Entity    { return w }

// --- FoodSpawn ---------------------------------------------------------

type FoodSpawn struct {
	Position    Vector
	HasFood     bool
	RespawnTime *GameTime
}

func (f *FoodSpawn) Rect(t GameTime) Rect {
	angle := float64(t) * FoodRotationSpeed
	return NewAaRectCenter(f.Position, Vector{FoodSize, FoodSize}).Rotate(angle)
}
func (f *FoodSpawn) Pos(GameTime) Vector           { return f.Position }
func (f *FoodSpawn) EntityShape(t GameTime) Shape  { return f.Rect(t).Shape() }
func (f *FoodSpawn) CanHookAttach() bool           { return false }
func (f *FoodSpawn) IsWallLike() bool              { return false }
func (f *FoodSpawn) Interp(Entity, float64) Entity { return f }

// --- Food (loose, decaying-velocity pickup) ---------------------------

type Food struct {
	StartTime GameTime
	StartPos  Vector
	StartVel  Vector
	Factor    float64
	Amount    uint32
}

// Pos follows an exponentially decaying velocity: the food drifts then
// coasts to a stop, x(t) = start + (startVel/factor) * (1 - exp(-factor*t)).
func (f *Food) Pos(t GameTime) Vector {
	dt := float64(t - f.StartTime)
	if f.Factor == 0 {
		return f.StartPos.Add(f.StartVel.Scale(dt))
	}
	return f.StartPos.Add(f.StartVel.Scale((1 - math.Exp(-f.Factor*dt)) / f.Factor))
}

func (f *Food) Rect(t GameTime) Rect {
	return NewAaRectCenter(f.Pos(t), Vector{FoodSize, FoodSize}).Rotate(0)
}
func (f *Food) EntityShape(t GameTime) Shape  { return f.Rect(t).Shape() }
func (f *Food) CanHookAttach() bool           { return false }
func (f *Food) IsWallLike() bool              { return false }
func (f *Food) Interp(Entity, float64) Entity { return f }

// AsPlayer returns the PlayerEntity if entity is one, mirroring
// Entity::player() in the original (ErrUnexpectedEntityType otherwise).
func AsPlayer(e Entity) (*PlayerEntity, error) {
	p, ok := e.(*PlayerEntity)
	if !ok {
		return nil, ErrUnexpectedEntityType
	}
	return p, nil
}
