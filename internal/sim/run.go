package sim

import (
	"math"
	"math/rand"
	"sort"
)

// RunContext accumulates the side effects of a single run_tick /
// run_player_input step: the events to report to clients, and the
// entity-id churn needed to keep a predicting client's log in sync
// with a diff it has not received yet (clnt/src/prediction.rs).
//
// IsPredicting suppresses effects that only the authoritative server
// may perform — killing a player, awarding food — since a predicting
// client re-runs this same code against its own provisional state and
// must not act on conclusions the server hasn't confirmed yet.
type RunContext struct {
	IsPredicting    bool
	Events          []Event
	NewEntities     []EntityID
	RemovedEntities []EntityID
	KilledPlayers   []PlayerID
}

func (ctx *RunContext) emit(e Event) { ctx.Events = append(ctx.Events, e) }

func sortedEntityIDs(g *Game) []EntityID {
	ids := make([]EntityID, 0, len(g.Entities))
	for id := range g.Entities {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// RunTick advances the world-owned entities (bullets, rockets, turrets,
// food, the catcher assignment) by one tick. Player entities are not
// touched here — each connected player's input drives their own entity
// through RunPlayerInput, called once per player per tick by the caller.
func RunTick(g *Game, ctx *RunContext, rng *rand.Rand) {
	assignCatcherIfNeeded(g, ctx, rng)

	for _, id := range sortedEntityIDs(g) {
		e, ok := g.Entities[id]
		if !ok {
			continue // removed earlier this tick by another entity's step
		}
		switch ent := e.(type) {
		case *Bullet:
			tickBullet(g, id, ent, ctx)
		case *Rocket:
			tickRocket(g, id, ent, ctx)
		case *Turret:
			tickTurret(g, id, ent, ctx, rng)
		case *FoodSpawn:
			tickFoodSpawn(g, id, ent, ctx, rng)
		case *Food:
			tickFood(g, id, ent, ctx)
		}
	}

	g.TickNum = g.TickNum.Next()
}

func assignCatcherIfNeeded(g *Game, ctx *RunContext, rng *rand.Rand) {
	if g.Catcher != nil && g.IsAlive(*g.Catcher) {
		return
	}
	candidates := g.alivePlayers()
	if len(candidates) == 0 {
		g.Catcher = nil
		return
	}
	chosen := candidates[rng.Intn(len(candidates))]
	g.Catcher = &chosen
	ctx.emit(NewCatcherEvent(chosen))
}

func outOfBounds(g *Game, pos Vector) bool {
	half := g.Settings.MapSize.Scale(0.5)
	return pos.X < -half.X || pos.X > half.X || pos.Y < -half.Y || pos.Y > half.Y
}

func removeEntity(g *Game, ctx *RunContext, id EntityID) {
	delete(g.Entities, id)
	ctx.RemovedEntities = append(ctx.RemovedEntities, id)
}

func addEntity(g *Game, ctx *RunContext, e Entity) EntityID {
	id := g.AllocEntityID()
	g.Entities[id] = e
	ctx.NewEntities = append(ctx.NewEntities, id)
	return id
}

// --- Bullet / Rocket tick ------------------------------------------------

func tickBullet(g *Game, id EntityID, b *Bullet, ctx *RunContext) {
	pos := b.Pos(g.Time())
	if outOfBounds(g, pos) {
		removeEntity(g, ctx, id)
		return
	}
	if hitWallLike(g, Circle{Center: pos, Radius: BulletRadius}.Shape()) {
		removeEntity(g, ctx, id)
		return
	}
	if victim, ok := findBulletVictim(g, pos, BulletRadius, b.Owner); ok {
		if !ctx.IsPredicting {
			KillPlayer(g, ctx, victim, DeathReason{Kind: DeathShotBy, Killer: b.Owner})
		}
		removeEntity(g, ctx, id)
	}
}

func tickRocket(g *Game, id EntityID, r *Rocket, ctx *RunContext) {
	pos := r.Pos(g.Time())
	if outOfBounds(g, pos) {
		removeEntity(g, ctx, id)
		return
	}
	if hitWallLike(g, Circle{Center: pos, Radius: RocketRadius}.Shape()) {
		removeEntity(g, ctx, id)
		return
	}
	if victim, ok := findBulletVictim(g, pos, RocketRadius, r.Owner); ok {
		if !ctx.IsPredicting {
			KillPlayer(g, ctx, victim, DeathReason{Kind: DeathShotBy, Killer: r.Owner})
		}
		removeEntity(g, ctx, id)
	}
}

func hitWallLike(g *Game, s Shape) bool {
	for _, e := range g.Entities {
		if !e.IsWallLike() {
			continue
		}
		if shapeOverlap(s, e.EntityShape(g.Time())) {
			return true
		}
	}
	return false
}

// shapeOverlap is a coarse circle/rect overlap test reusing
// ContainsPoint at the circle's center and edges; sufficient for the
// small, fast-moving projectile radii used here.
func shapeOverlap(a, b Shape) bool {
	if a.IsCircle && b.IsCircle {
		d := a.Circle.Center.Sub(b.Circle.Center).Norm()
		return d <= a.Circle.Radius+b.Circle.Radius
	}
	if a.IsCircle {
		return b.Rect.ContainsPoint(a.Circle.Center) || a.Circle.ContainsPoint(b.Rect.Center)
	}
	if b.IsCircle {
		return a.Rect.ContainsPoint(b.Circle.Center) || b.Circle.ContainsPoint(a.Rect.Center)
	}
	_, ok := RectCollision(a.Rect, b.Rect, Vector{})
	return ok
}

func findBulletVictim(g *Game, pos Vector, radius float64, owner *PlayerID) (PlayerID, bool) {
	for _, id := range sortedEntityIDs(g) {
		p, ok := g.Entities[id].(*PlayerEntity)
		if !ok {
			continue
		}
		if owner != nil && p.Owner == *owner {
			continue
		}
		if !g.IsAlive(p.Owner) {
			continue
		}
		if shapeOverlap(Circle{Center: pos, Radius: radius}.Shape(), p.Rect().Shape()) {
			return p.Owner, true
		}
	}
	return 0, false
}

// --- Turret tick (with ray-traced line of sight, serv/src/run.rs) -------

func tickTurret(g *Game, id EntityID, t *Turret, ctx *RunContext, rng *rand.Rand) {
	target := acquireTurretTarget(g, id, t)
	t.Target = target

	if target == nil {
		return
	}
	_, targetEntity, err := g.GetPlayerEntity(*target)
	if err != nil {
		t.Target = nil
		return
	}
	desired := t.AngleToPos(targetEntity.Position)
	turn := angleDist(desired, t.Angle)
	maxTurn := TurretMaxTurnSpeed * float64(TickPeriod)
	if turn > maxTurn {
		turn = maxTurn
	} else if turn < -maxTurn {
		turn = -maxTurn
	}
	t.Angle += turn

	if math.Abs(angleDist(desired, t.Angle)) > TurretShootAngle {
		return
	}
	if g.Time() < t.NextShotTime {
		return
	}
	t.NextShotTime = g.Time() + TurretShootPeriod

	dir := VectorFromAngle(t.Angle)
	spawnPos := t.Position.Add(dir.Scale(TurretRadius + TurretSpawnOffset))
	addEntity(g, ctx, &Bullet{
		Owner:     nil,
		StartTime: g.Time(),
		StartPos:  spawnPos,
		Vel:       dir.Scale(BulletMoveSpeed),
	})
	_ = rng // reserved for turret target jitter, not yet used
}

// acquireTurretTarget finds the nearest alive player within TurretRange
// that has unobstructed line of sight from the turret (serv/src/run.rs's
// trace_ray-based targeting, a supplemented feature beyond spec.md's prose).
func acquireTurretTarget(g *Game, turretID EntityID, t *Turret) *PlayerID {
	var best *PlayerID
	bestDist := math.Inf(1)
	for _, id := range sortedEntityIDs(g) {
		p, ok := g.Entities[id].(*PlayerEntity)
		if !ok || !g.IsAlive(p.Owner) {
			continue
		}
		d := p.Position.Sub(t.Position).Norm()
		if d > TurretRange || d >= bestDist {
			continue
		}
		if TraceRay(g, t.Position, p.Position, turretID) {
			continue // blocked by an intervening wall-like entity
		}
		owner := p.Owner
		best = &owner
		bestDist = d
	}
	return best
}

// TraceRay reports whether the segment from a to b is blocked by any
// wall-like entity other than excludeID.
func TraceRay(g *Game, a, b Vector, excludeID EntityID) bool {
	ray := Ray{Origin: a, Dir: b.Sub(a)}
	for _, id := range sortedEntityIDs(g) {
		if id == excludeID {
			continue
		}
		e := g.Entities[id]
		if !e.IsWallLike() {
			continue
		}
		if _, ok := ray.MinIntersection(e.EntityShape(g.Time())); ok {
			return true
		}
	}
	return false
}

// --- Food spawn / pickup tick --------------------------------------------

func tickFoodSpawn(g *Game, id EntityID, fs *FoodSpawn, ctx *RunContext, rng *rand.Rand) {
	if fs.HasFood {
		return
	}
	if fs.RespawnTime == nil {
		t := g.Time() + FoodRespawnDuration
		fs.RespawnTime = &t
		return
	}
	if g.Time() < *fs.RespawnTime {
		return
	}
	fs.HasFood = true
	fs.RespawnTime = nil

	speedFactor := FoodSpeedMinFactor + rng.Float64()*(FoodSpeedMaxFactor-FoodSpeedMinFactor)
	speed := FoodMinSpeed + rng.Float64()*(FoodMaxSpeed-FoodMinSpeed)
	angle := rng.Float64() * 2 * math.Pi
	vel := VectorFromAngle(angle).Scale(speed)
	addEntity(g, ctx, &Food{
		StartTime: g.Time(),
		StartPos:  fs.Position,
		StartVel:  vel,
		Factor:    speed / (speedFactor * FoodSize),
		Amount:    1,
	})
}

func tickFood(g *Game, id EntityID, f *Food, ctx *RunContext) {
	if float64(g.Time()-f.StartTime) > FoodMaxLifetime {
		removeEntity(g, ctx, id)
	}
}

// --- Player input: the 11-phase run_player_entity_input port -----------

// RunPlayerInput advances a single player's PlayerEntity by one tick
// given their input, mirroring comn/src/game/run.rs's
// run_player_entity_input phase-by-phase.
func RunPlayerInput(g *Game, player PlayerID, input Input, ctx *RunContext, rng *rand.Rand) error {
	id, p, err := g.GetPlayerEntity(player)
	if err != nil {
		return err
	}
	if !g.IsAlive(player) {
		return nil
	}
	dt := float64(TickPeriod)
	isCatcher := g.Catcher != nil && *g.Catcher == player

	// Phase 1: angle / turn smoothing.
	prevTargetAngle := p.TargetAngle
	anyMoveKey := false
	moveDir := inputDirection(input)
	if p.Dash != nil {
		// Movement is constricted while dashing.
		p.TargetAngle = p.Dash.Dir.Angle()
	} else if moveDir.NormSquared() > 0 {
		p.TargetAngle = moveDir.Angle()
		anyMoveKey = true
	}

	p.TurnTimeLeft -= GameTime(dt)
	if p.TurnTimeLeft < 0 {
		p.TurnTimeLeft = 0
	}

	if math.Abs(p.TargetAngle-prevTargetAngle) >= 0.001 {
		turnDist := angleDist(p.TargetAngle, prevTargetAngle)
		if math.Abs(math.Abs(turnDist)-math.Pi) < 0.01 {
			// A near-180° flip snaps instead of spending turn time.
			p.Angle += p.TargetAngle - prevTargetAngle
		} else {
			p.TurnTimeLeft = PlayerTurnDuration
		}
	}

	turnFactor := PlayerTurnFactor
	if p.Dash != nil {
		turnFactor = PlayerDashTurnFactor
	}
	turnDist := angleDist(p.TargetAngle, p.Angle)
	timeSinceTurn := math.Min(PlayerTurnDuration-float64(p.TurnTimeLeft), PlayerTurnDuration)
	p.Angle += turnDist * turnFactor

	var turnScale float64
	if p.Dash != nil {
		dashDelta := PlayerDashDuration - float64(p.Dash.TimeLeft)
		c := math.Cos(dashDelta * math.Pi / PlayerTurnDuration)
		turnScale = c * c
	} else {
		c := math.Cos(timeSinceTurn * math.Pi / PlayerTurnDuration)
		turnScale = c*c*0.8 + 0.2
	}
	moveScale := p.Vel.Norm() / PlayerMoveSpeed
	if p.Hook != nil && p.Hook.Phase == HookAttachedPhase {
		moveScale = 0.5
	}
	targetSizeSkew := PlayerSizeSkew * moveScale * turnScale
	p.SizeSkew = smoothToTarget(PlayerSizeSkewFactor, p.SizeSkew, targetSizeSkew, dt)

	// Phase 2: size_scale / size_bump smoothing.
	targetScale := 1.0
	if isCatcher {
		targetScale = PlayerCatcherSizeScale
	}
	p.SizeBump = smoothToTarget(PlayerSizeBumpFactor, p.SizeBump, p.TargetSizeBump, dt)
	p.TargetSizeBump = smoothToTarget(PlayerTargetSizeBumpFac, p.TargetSizeBump, 0, dt)
	p.SizeScale = smoothToTarget(PlayerSizeScaleFactor, p.SizeScale, targetScale, dt)

	// Phase 3: velocity smoothing.
	speed := PlayerMoveSpeed
	accelFactor := PlayerAccelFactor
	var targetVel Vector
	if p.Dash != nil {
		speed = PlayerDashSpeed
		accelFactor = PlayerDashAccelFactor
		targetVel = p.Dash.Dir.Scale(speed)
	} else if anyMoveKey {
		targetVel = VectorFromAngle(p.Angle).Scale(speed)
	}
	p.Vel = smoothToTargetVector(accelFactor, p.Vel, targetVel, dt)

	// Phase 4: hook state machine.
	runHook(g, id, p, input, ctx, dt)

	// Tentative move.
	delta := p.Vel.Scale(dt)
	prevPos := p.Position
	p.Position = p.Position.Add(delta)

	// Phase 5 + 6: SAT collision resolution, dash wall-reflection,
	// catcher-dash-catch.
	resolveCollisions(g, id, p, ctx, isCatcher, delta, prevPos)

	// Phase 7: clip to map bounds.
	half := g.Settings.MapSize.Scale(0.5)
	if p.Position.X < -half.X {
		p.Position.X = -half.X
	}
	if p.Position.X > half.X {
		p.Position.X = half.X
	}
	if p.Position.Y < -half.Y {
		p.Position.Y = -half.Y
	}
	if p.Position.Y > half.Y {
		p.Position.Y = half.Y
	}

	// Phase 8: dash start / stop.
	if p.Dash != nil {
		p.Dash.TimeLeft -= TickPeriod
		if p.Dash.TimeLeft <= 0 {
			p.Dash = nil
		}
	} else {
		p.DashCooldown -= TickPeriod
		if input.UseItem && p.DashCooldown <= 0 && moveDir.NormSquared() > 0 {
			p.Dash = &Dash{TimeLeft: PlayerDashDuration, Dir: moveDir}
			p.DashCooldown = PlayerDashCooldown
		}
	}

	// Phase 9: death check (danger guy contact).
	for _, e := range g.Entities {
		dg, ok := e.(*DangerGuy)
		if !ok || !dg.IsHot {
			continue
		}
		if shapeOverlap(p.Rect().Shape(), dg.EntityShape(g.Time())) {
			if !ctx.IsPredicting {
				KillPlayer(g, ctx, player, DeathReason{Kind: DeathTouchedTheDanger})
			}
			return nil
		}
	}

	// Phase 10: catcher-dash-kill (authoritative only).
	if !ctx.IsPredicting && isCatcher && p.Dash != nil {
		if victim, ok := findCatchVictim(g, p, player); ok {
			KillPlayer(g, ctx, victim, DeathReason{Kind: DeathCaughtBy, Killer: &player})
			newCatcher := victim
			g.Catcher = &newCatcher
			ctx.emit(NewCatcherEvent(newCatcher))
		}
	}

	// Phase 11: food pickup (authoritative only).
	if !ctx.IsPredicting {
		takeOverlappingFood(g, id, p, ctx, player)
	}
	_ = rng

	return nil
}

func inputDirection(input Input) Vector {
	var v Vector
	if input.MoveLeft {
		v.X -= 1
	}
	if input.MoveRight {
		v.X += 1
	}
	if input.MoveUp {
		v.Y -= 1
	}
	if input.MoveDown {
		v.Y += 1
	}
	return v.Normalize()
}

func runHook(g *Game, id EntityID, p *PlayerEntity, input Input, ctx *RunContext, dt float64) {
	p.HookCooldown -= TickPeriod
	if p.HookCooldown < 0 {
		p.HookCooldown = 0
	}

	if p.Hook == nil {
		if input.UseAction && p.HookCooldown <= 0 {
			p.Hook = &Hook{
				Phase:    HookShootingPhase,
				Pos:      p.Position,
				Vel:      VectorFromAngle(p.Angle).Scale(HookShootSpeed),
				TimeLeft: HookMaxShootDuration,
			}
		}
		return
	}

	switch p.Hook.Phase {
	case HookShootingPhase:
		p.Hook.TimeLeft -= GameTime(dt)
		p.Hook.Pos = p.Hook.Pos.Add(p.Hook.Vel.Scale(dt))
		if target, offset, ok := findHookAttach(g, id, p.Hook); ok {
			p.Hook.Phase = HookAttachedPhase
			p.Hook.Target = target
			p.Hook.Offset = offset
			return
		}
		if p.Hook.TimeLeft <= 0 || outOfBounds(g, p.Hook.Pos) {
			p.Hook.Phase = HookContractingPhase
			p.Hook.TimeLeft = HookMaxContractDurn
		}
	case HookAttachedPhase:
		target, err := g.GetEntity(p.Hook.Target)
		if err != nil {
			p.Hook = nil
			return
		}
		anchor := target.Pos(g.Time()).Add(p.Hook.Offset)
		toAnchor := anchor.Sub(p.Position)
		if toAnchor.Norm() <= HookMinDistance || !input.UseAction {
			p.Hook = &Hook{Phase: HookContractingPhase, Pos: anchor, TimeLeft: HookMaxContractDurn}
			return
		}
		pull := toAnchor.Normalize().Scale(HookPullSpeed)
		p.Vel = pull
	case HookContractingPhase:
		p.Hook.TimeLeft -= GameTime(dt)
		p.Hook.Pos = p.Position.Add(p.Hook.Pos.Sub(p.Position).Scale(math.Exp(-HookContractSpeed * dt / 1000)))
		if p.Hook.TimeLeft <= 0 {
			p.Hook = nil
			p.HookCooldown = HookCooldown
		}
	}
}

// findHookAttach returns the nearest entity the hook's shooting segment
// crosses this tick, per the "earliest t<=1" rule, excluding non-
// attachable entities and the shooter's own entity.
func findHookAttach(g *Game, shooter EntityID, h *Hook) (EntityID, Vector, bool) {
	ray := Ray{Origin: h.Pos, Dir: h.Vel.Scale(float64(TickPeriod))}
	bestT := math.Inf(1)
	var bestID EntityID
	found := false
	for _, id := range sortedEntityIDs(g) {
		e := g.Entities[id]
		if id == shooter || !e.CanHookAttach() {
			continue
		}
		if t, ok := ray.MinIntersection(e.EntityShape(0)); ok && t < bestT {
			bestT = t
			bestID = id
			found = true
		}
	}
	if !found {
		return 0, Vector{}, false
	}
	target := g.Entities[bestID]
	hitPoint := ray.Origin.Add(ray.Dir.Scale(bestT))
	offset := hitPoint.Sub(target.Pos(0))
	return bestID, offset, true
}

func resolveCollisions(g *Game, id EntityID, p *PlayerEntity, ctx *RunContext, isCatcher bool, delta, prevPos Vector) {
	// A dashing catcher passes through other players so the catch can
	// register instead of bouncing off them first (spec.md §4.1).
	catcherDashing := isCatcher && p.Dash != nil

	selfRect := p.Rect()
	for _, otherID := range sortedEntityIDs(g) {
		if otherID == id {
			continue
		}
		e := g.Entities[otherID]
		var otherRect Rect
		wallLike := false
		switch other := e.(type) {
		case *Wall:
			otherRect = other.Rect
			wallLike = true
		case *Turret:
			otherRect = other.Rect()
			wallLike = true
		case *DangerGuy:
			otherRect = other.AaRect(g.Time()).ToRect()
			wallLike = true
		case *PlayerEntity:
			if other.Owner == p.Owner || catcherDashing {
				continue
			}
			otherRect = other.Rect()
		case *PlayerView:
			if other.Owner == p.Owner || catcherDashing {
				continue
			}
			otherRect = other.Rect()
		default:
			continue
		}
		col, hit := RectCollision(selfRect, otherRect, delta)
		if !hit {
			continue
		}
		if wallLike && p.Dash != nil {
			// Dash reflects off wall-like blockers instead of stopping dead.
			p.Dash.Dir = p.Dash.Dir.Reflect(col.Axis)
			p.Vel = p.Vel.Reflect(col.Axis)
		}
		p.Position = p.Position.Add(col.ResolutionVector)
		selfRect = p.Rect()
	}
}

func findCatchVictim(g *Game, catcherEntity *PlayerEntity, catcher PlayerID) (PlayerID, bool) {
	selfRect := catcherEntity.Rect()
	for _, id := range sortedEntityIDs(g) {
		other, ok := g.Entities[id].(*PlayerEntity)
		if !ok || other.Owner == catcher || !g.IsAlive(other.Owner) {
			continue
		}
		if _, hit := RectCollision(selfRect, other.Rect(), Vector{}); hit {
			return other.Owner, true
		}
	}
	return 0, false
}

func takeOverlappingFood(g *Game, id EntityID, p *PlayerEntity, ctx *RunContext, player PlayerID) {
	selfShape := p.Rect().Shape()
	for foodID, e := range g.Entities {
		food, ok := e.(*Food)
		if !ok {
			continue
		}
		if shapeOverlap(selfShape, food.EntityShape(g.Time())) {
			TakeFood(g, ctx, player, food.Amount)
			removeEntity(g, ctx, foodID)
		}
	}
}

// TakeFood credits amount food to player and bumps their size_bump
// target, mirroring run.rs's take_food.
func TakeFood(g *Game, ctx *RunContext, player PlayerID, amount uint32) {
	rec, ok := g.Players[player]
	if !ok {
		return
	}
	rec.Food += amount

	if _, p, err := g.GetPlayerEntity(player); err == nil {
		p.TargetSizeBump = math.Min(p.TargetSizeBump+PlayerTakeFoodSizeBump, PlayerMaxSizeBump)
	}
	ctx.emit(PlayerAteFoodEvent(player, amount))
}

// KillPlayer marks a player dead, scatters their held food as loose
// Food entities, removes their PlayerEntity, and hands the catcher role
// to the nearest alive player if the victim held it (run.rs's
// kill_player / serv/src/run.rs's on_kill_player).
func KillPlayer(g *Game, ctx *RunContext, player PlayerID, reason DeathReason) {
	rec, ok := g.Players[player]
	if !ok || !rec.Alive {
		return
	}
	rec.Alive = false
	ctx.KilledPlayers = append(ctx.KilledPlayers, player)
	ctx.emit(PlayerDiedEvent(player, reason))

	id, p, err := g.GetPlayerEntity(player)
	if err == nil {
		dropFood(g, ctx, p.Position, rec.Food)
		removeEntity(g, ctx, id)
	}
	rec.Food = 0

	if g.Catcher != nil && *g.Catcher == player {
		succeedCatcher(g, ctx, p)
	}
}

func dropFood(g *Game, ctx *RunContext, pos Vector, amount uint32) {
	if amount == 0 {
		return
	}
	count := amount
	if count > PlayerMaxLoseFood {
		count = PlayerMaxLoseFood
	}
	if count < PlayerMinLoseFood {
		count = PlayerMinLoseFood
	}
	per := amount / count
	for i := uint32(0); i < count; i++ {
		angle := float64(i) / float64(count) * 2 * math.Pi
		addEntity(g, ctx, &Food{
			StartTime: g.Time(),
			StartPos:  pos,
			StartVel:  VectorFromAngle(angle).Scale(FoodMinSpeed),
			Factor:    FoodMinSpeed / (FoodSpeedMinFactor * FoodSize),
			Amount:    per,
		})
	}
}

// succeedCatcher assigns the catcher role to the nearest alive player
// to where the previous catcher died.
func succeedCatcher(g *Game, ctx *RunContext, deadAt *PlayerEntity) {
	candidates := g.alivePlayers()
	if len(candidates) == 0 {
		g.Catcher = nil
		return
	}
	if deadAt == nil {
		chosen := candidates[0]
		g.Catcher = &chosen
		ctx.emit(NewCatcherEvent(chosen))
		return
	}
	best := candidates[0]
	bestDist := math.Inf(1)
	for _, cand := range candidates {
		if _, p, err := g.GetPlayerEntity(cand); err == nil {
			d := p.Position.Sub(deadAt.Position).Norm()
			if d < bestDist {
				bestDist = d
				best = cand
			}
		}
	}
	g.Catcher = &best
	ctx.emit(NewCatcherEvent(best))
}
