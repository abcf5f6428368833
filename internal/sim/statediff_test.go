package sim

import (
	"bytes"
	"encoding/gob"
	"math/rand"
	"testing"
)

// TestDiffGameApplyGameRoundTrips checks the base property spec.md §4.2
// relies on: applying DiffGame(base, target) to a copy of base must
// reproduce target's observable state exactly.
func TestDiffGameApplyGameRoundTrips(t *testing.T) {
	base := NewGame(DefaultSettings())
	rng := rand.New(rand.NewSource(5))
	id1, _ := base.Join("alice", false, rng)
	_, _ = base.Join("bob", false, rng)

	target := base.Clone()
	ctx := &RunContext{}
	_ = RunPlayerInput(target, id1, Input{MoveRight: true}, ctx, rng)
	RunTick(target, ctx, rng)

	d := DiffGame(base, target)
	receiver := base.Clone()
	ApplyGame(receiver, d)

	if receiver.TickNum != target.TickNum {
		t.Errorf("tick mismatch: got %d, want %d", receiver.TickNum, target.TickNum)
	}
	if len(receiver.Entities) != len(target.Entities) {
		t.Fatalf("entity count mismatch: got %d, want %d", len(receiver.Entities), len(target.Entities))
	}
	_, wantP, _ := target.GetPlayerEntity(id1)
	_, gotP, err := receiver.GetPlayerEntity(id1)
	if err != nil {
		t.Fatalf("receiver missing player %d: %v", id1, err)
	}
	if gotP.Position != wantP.Position {
		t.Errorf("position mismatch: got %+v, want %+v", gotP.Position, wantP.Position)
	}
}

// TestDiffGameOfIdenticalStatesIsEmpty ensures an unchanged game between
// two ticks produces an empty diff on both the entity and player maps
// (the "no-op tick" case every broadcast pays for when nothing moved).
func TestDiffGameOfIdenticalStatesIsEmpty(t *testing.T) {
	g := NewGame(DefaultSettings())
	rng := rand.New(rand.NewSource(6))
	_, _ = g.Join("alice", false, rng)

	d := DiffGame(g, g)
	if !d.Entities.IsEmpty() {
		t.Errorf("expected no entity diff between a game and itself, got %+v", d.Entities)
	}
	if !d.Players.IsEmpty() {
		t.Errorf("expected no player diff between a game and itself, got %+v", d.Players)
	}
}

// TestDiffGameRemovedEntityPropagates checks that an entity removed on
// the target side (e.g. a bullet that expired) shows up as a Remove
// edit and disappears from the receiver after ApplyGame.
func TestDiffGameRemovedEntityPropagates(t *testing.T) {
	base := NewGame(DefaultSettings())
	bulletID := base.AllocEntityID()
	base.Entities[bulletID] = &Bullet{StartTime: 0, StartPos: Vector{}, Vel: Vector{X: 1}}

	target := base.Clone()
	delete(target.Entities, bulletID)

	d := DiffGame(base, target)
	if len(d.Entities.Remove) != 1 || d.Entities.Remove[0] != bulletID {
		t.Fatalf("expected bullet %d in Remove, got %+v", bulletID, d.Entities.Remove)
	}

	receiver := base.Clone()
	ApplyGame(receiver, d)
	if _, ok := receiver.Entities[bulletID]; ok {
		t.Error("expected removed bullet to be gone from receiver after ApplyGame")
	}
}

// TestEntityGobRoundTrip checks every concrete Entity kind registered in
// gob.go survives an encode/decode cycle through the Entity interface,
// the same path a StateDiff's map[EntityID]Entity takes over the wire.
func TestEntityGobRoundTrip(t *testing.T) {
	owner := PlayerID(1)
	entities := []Entity{
		NewPlayerEntity(owner, Vector{X: 1, Y: 2}),
		&PlayerView{Owner: owner, Position: Vector{X: 3, Y: 4}},
		&Bullet{Owner: &owner, StartPos: Vector{X: 5, Y: 6}, Vel: Vector{X: 1, Y: 0}},
		&Rocket{Owner: &owner, StartPos: Vector{X: 7, Y: 8}, Dir: Vector{X: 0, Y: 1}},
		&DangerGuy{StartPos: Vector{X: 0}, EndPos: Vector{X: 10}, Size: Vector{X: 20, Y: 20}, Period: 5},
		&Turret{Position: Vector{X: 9, Y: 9}},
		&Wall{Rect: NewAaRectCenter(Vector{X: 0, Y: 0}, Vector{X: 10, Y: 10}).Rotate(0)},
		&FoodSpawn{Position: Vector{X: 1, Y: 1}},
		&Food{StartPos: Vector{X: 2, Y: 2}, Amount: 1},
	}

	for _, e := range entities {
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(&e); err != nil {
			t.Fatalf("encode %T: %v", e, err)
		}
		var out Entity
		if err := gob.NewDecoder(&buf).Decode(&out); err != nil {
			t.Fatalf("decode %T: %v", e, err)
		}
		if out == nil {
			t.Fatalf("decoded nil Entity for %T", e)
		}
	}
}
