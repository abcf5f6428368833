package sim

import (
	"math/rand"
	"testing"
)

func newTestGame(t *testing.T, numPlayers int) (*Game, []PlayerID) {
	t.Helper()
	g := NewGame(DefaultSettings())
	rng := rand.New(rand.NewSource(1))
	ids := make([]PlayerID, 0, numPlayers)
	for i := 0; i < numPlayers; i++ {
		id, err := g.Join("player", false, rng)
		if err != nil {
			t.Fatalf("Join: %v", err)
		}
		ids = append(ids, id)
	}
	return g, ids
}

// TestRunTickIsDeterministic checks that two clones of the same Game,
// advanced by the same sequence of inputs and a rng seeded identically,
// end up in exactly the same state — the property spec.md's "lossy
// delta" and replay-on-correction scenarios depend on.
func TestRunTickIsDeterministic(t *testing.T) {
	g1, ids := newTestGame(t, 3)
	g2 := g1.Clone()

	input := Input{MoveRight: true}
	for tick := 0; tick < 20; tick++ {
		ctx1 := &RunContext{}
		ctx2 := &RunContext{}
		rng1 := rand.New(rand.NewSource(int64(tick)))
		rng2 := rand.New(rand.NewSource(int64(tick)))
		for _, id := range ids {
			_ = RunPlayerInput(g1, id, input, ctx1, rng1)
			_ = RunPlayerInput(g2, id, input, ctx2, rng2)
		}
		RunTick(g1, ctx1, rng1)
		RunTick(g2, ctx2, rng2)
	}

	for _, id := range ids {
		_, p1, err := g1.GetPlayerEntity(id)
		if err != nil {
			t.Fatalf("g1 missing player %d: %v", id, err)
		}
		_, p2, err := g2.GetPlayerEntity(id)
		if err != nil {
			t.Fatalf("g2 missing player %d: %v", id, err)
		}
		if p1.Position != p2.Position {
			t.Errorf("player %d diverged: %+v vs %+v", id, p1.Position, p2.Position)
		}
	}
	if g1.TickNum != g2.TickNum {
		t.Errorf("tick counters diverged: %d vs %d", g1.TickNum, g2.TickNum)
	}
}

// TestPlayersStayWithinMapBounds exercises phase 7 of RunPlayerInput:
// a player driving hard into a boundary must be clipped, never ejected.
func TestPlayersStayWithinMapBounds(t *testing.T) {
	g, ids := newTestGame(t, 1)
	id := ids[0]
	_, p, _ := g.GetPlayerEntity(id)
	half := g.Settings.MapSize.Scale(0.5)
	p.Position = Vector{X: half.X - 1, Y: 0}

	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 100; i++ {
		ctx := &RunContext{}
		if err := RunPlayerInput(g, id, Input{MoveRight: true}, ctx, rng); err != nil {
			t.Fatalf("RunPlayerInput: %v", err)
		}
	}

	_, p, _ = g.GetPlayerEntity(id)
	if p.Position.X > half.X {
		t.Errorf("player escaped map bounds: x=%f > half.X=%f", p.Position.X, half.X)
	}
}

// TestCatcherAssignedWhenMissing checks assignCatcherIfNeeded picks a
// catcher among alive non-bot players as soon as none is set.
func TestCatcherAssignedWhenMissing(t *testing.T) {
	g, ids := newTestGame(t, 4)
	rng := rand.New(rand.NewSource(3))
	ctx := &RunContext{}

	RunTick(g, ctx, rng)

	if g.Catcher == nil {
		t.Fatal("expected a catcher to be assigned")
	}
	found := false
	for _, id := range ids {
		if *g.Catcher == id {
			found = true
		}
	}
	if !found {
		t.Errorf("assigned catcher %d is not one of the joined players %v", *g.Catcher, ids)
	}
}

// TestCatcherSucceedsOnDeath exercises succeedCatcher: killing the
// current catcher must hand the role to another alive player, not leave
// it empty while other players are still alive.
func TestCatcherSucceedsOnDeath(t *testing.T) {
	g, ids := newTestGame(t, 3)
	catcher := ids[0]
	g.Catcher = &catcher

	ctx := &RunContext{}
	KillPlayer(g, ctx, catcher, DeathReason{Kind: DeathTouchedTheDanger})

	if g.Catcher == nil {
		t.Fatal("expected a successor catcher to be assigned")
	}
	if *g.Catcher == catcher {
		t.Error("dead player must not remain the catcher")
	}
	if !g.IsAlive(*g.Catcher) {
		t.Errorf("new catcher %d must be alive", *g.Catcher)
	}
}

// TestKillPlayerDropsFoodAndRemovesEntity checks that a held food
// balance is scattered as loose Food entities and the victim's
// PlayerEntity disappears from the world.
func TestKillPlayerDropsFoodAndRemovesEntity(t *testing.T) {
	g, ids := newTestGame(t, 2)
	victim := ids[0]
	rec := g.Players[victim]
	rec.Food = 30

	id, _, err := g.GetPlayerEntity(victim)
	if err != nil {
		t.Fatalf("GetPlayerEntity: %v", err)
	}

	ctx := &RunContext{}
	KillPlayer(g, ctx, victim, DeathReason{Kind: DeathTouchedTheDanger})

	if _, err := g.GetEntity(id); err == nil {
		t.Error("victim's PlayerEntity should have been removed")
	}
	if g.IsAlive(victim) {
		t.Error("victim should no longer be alive")
	}
	if rec.Food != 0 {
		t.Errorf("expected food balance reset to 0, got %d", rec.Food)
	}

	foodEntities := 0
	for _, e := range g.Entities {
		if _, ok := e.(*Food); ok {
			foodEntities++
		}
	}
	if foodEntities == 0 {
		t.Error("expected at least one dropped Food entity")
	}
}

// TestHookCooldownGatesReshoot checks that the cooldown only starts once
// the hook fully retracts (Shooting -> Contracting -> None), not at the
// moment it's fired, and that it then blocks an immediate re-fire.
func TestHookCooldownGatesReshoot(t *testing.T) {
	g, ids := newTestGame(t, 1)
	id := ids[0]
	rng := rand.New(rand.NewSource(4))

	ctx := &RunContext{}
	if err := RunPlayerInput(g, id, Input{UseAction: true}, ctx, rng); err != nil {
		t.Fatalf("RunPlayerInput: %v", err)
	}
	_, p, _ := g.GetPlayerEntity(id)
	if p.Hook == nil {
		t.Fatal("expected hook to start shooting")
	}
	if p.HookCooldown != 0 {
		t.Errorf("expected no cooldown while the hook is still out, got %v", p.HookCooldown)
	}

	// Release use_action so the shot times out into Contracting and then
	// fully retracts to None; nothing in the test map can attach it.
	const maxTicks = 200
	retracted := false
	for i := 0; i < maxTicks; i++ {
		if err := RunPlayerInput(g, id, Input{}, ctx, rng); err != nil {
			t.Fatalf("RunPlayerInput: %v", err)
		}
		_, p, _ = g.GetPlayerEntity(id)
		if p.Hook == nil {
			retracted = true
			break
		}
	}
	if !retracted {
		t.Fatal("expected the hook to fully retract within the test window")
	}
	if p.HookCooldown <= 0 {
		t.Errorf("expected a positive hook cooldown once the hook retracts, got %v", p.HookCooldown)
	}

	cooldownAtRetract := p.HookCooldown
	if err := RunPlayerInput(g, id, Input{UseAction: true}, ctx, rng); err != nil {
		t.Fatalf("RunPlayerInput: %v", err)
	}
	_, p, _ = g.GetPlayerEntity(id)
	if p.Hook != nil {
		t.Error("expected the cooldown to block an immediate re-fire")
	}
	if p.HookCooldown >= cooldownAtRetract {
		t.Errorf("expected the cooldown to keep counting down, got %v (was %v)", p.HookCooldown, cooldownAtRetract)
	}
}

// TestKillPlayerIsIdempotent guards KillPlayer against double-invocation
// (e.g. a bullet and a danger-guy contact resolving in the same tick).
func TestKillPlayerIsIdempotent(t *testing.T) {
	g, ids := newTestGame(t, 2)
	victim := ids[0]
	ctx := &RunContext{}

	KillPlayer(g, ctx, victim, DeathReason{Kind: DeathTouchedTheDanger})
	eventsAfterFirst := len(ctx.Events)
	KillPlayer(g, ctx, victim, DeathReason{Kind: DeathTouchedTheDanger})

	if len(ctx.Events) != eventsAfterFirst {
		t.Errorf("killing an already-dead player must not emit a second event, got %d events (expected %d)", len(ctx.Events), eventsAfterFirst)
	}
}

// TestTraceRayBlockedByWall checks the turret line-of-sight supplement:
// a wall placed directly between two points must block the ray.
func TestTraceRayBlockedByWall(t *testing.T) {
	g := NewGame(DefaultSettings())
	wallID := g.AllocEntityID()
	g.Entities[wallID] = &Wall{Rect: NewAaRectCenter(Vector{X: 50, Y: 0}, Vector{X: 20, Y: 200}).Rotate(0)}

	blocked := TraceRay(g, Vector{X: 0, Y: 0}, Vector{X: 100, Y: 0}, EntityID(9999))
	if !blocked {
		t.Error("expected ray through a wall to be blocked")
	}

	clear := TraceRay(g, Vector{X: 0, Y: 500}, Vector{X: 100, Y: 500}, EntityID(9999))
	if clear {
		t.Error("expected ray far from the wall to be unblocked")
	}
}
