package server

import (
	"math/rand"
	"testing"

	"catcharena/internal/sim"
)

func TestTryJoinCreatesAGameWhenNoneExist(t *testing.T) {
	m := NewMatchmaker(DefaultConfig(), rand.New(rand.NewSource(1)))

	res, err := m.TryJoin(JoinRequest{PlayerName: "alice"})
	if err != nil {
		t.Fatalf("TryJoin: %v", err)
	}
	if res.GameID == (GameID{}) {
		t.Error("expected a non-zero game id")
	}
	if _, ok := m.Get(res.GameID); !ok {
		t.Error("expected the new game to be registered in the matchmaker")
	}
}

func TestTryJoinReusesAnOpenGame(t *testing.T) {
	m := NewMatchmaker(DefaultConfig(), rand.New(rand.NewSource(1)))

	first, err := m.TryJoin(JoinRequest{PlayerName: "alice"})
	if err != nil {
		t.Fatalf("TryJoin: %v", err)
	}
	second, err := m.TryJoin(JoinRequest{PlayerName: "bob"})
	if err != nil {
		t.Fatalf("TryJoin: %v", err)
	}
	if first.GameID != second.GameID {
		t.Errorf("expected both players to land in the same open game, got %s and %s", first.GameID, second.GameID)
	}
	if first.Token == second.Token {
		t.Error("expected distinct tokens for distinct joins")
	}
}

func TestTryJoinNamedGame(t *testing.T) {
	m := NewMatchmaker(DefaultConfig(), rand.New(rand.NewSource(1)))

	first, err := m.TryJoin(JoinRequest{PlayerName: "alice"})
	if err != nil {
		t.Fatalf("TryJoin: %v", err)
	}
	named := first.GameID
	second, err := m.TryJoin(JoinRequest{GameID: &named, PlayerName: "bob"})
	if err != nil {
		t.Fatalf("TryJoin named: %v", err)
	}
	if second.GameID != named {
		t.Errorf("expected to join the requested game %s, landed in %s", named, second.GameID)
	}
}

func TestTryJoinFallsBackWhenNamedGameIsFull(t *testing.T) {
	config := Config{MaxNumGames: 10}
	m := NewMatchmaker(config, rand.New(rand.NewSource(1)))

	first, err := m.TryJoin(JoinRequest{PlayerName: "alice"})
	if err != nil {
		t.Fatalf("TryJoin: %v", err)
	}
	gi, _ := m.Get(first.GameID)
	gi.Settings.MaxPlayers = 1 // the named game is already at capacity

	named := first.GameID
	second, err := m.TryJoin(JoinRequest{GameID: &named, PlayerName: "bob"})
	if err != nil {
		t.Fatalf("TryJoin fallback: %v", err)
	}
	if second.GameID == named {
		t.Error("expected the joiner to land in a different game once the named one is full")
	}
}

func TestTryJoinRejectsWhenAtGameCap(t *testing.T) {
	config := Config{MaxNumGames: 1}
	m := NewMatchmaker(config, rand.New(rand.NewSource(1)))

	first, err := m.TryJoin(JoinRequest{PlayerName: "alice"})
	if err != nil {
		t.Fatalf("TryJoin: %v", err)
	}
	gi, _ := m.Get(first.GameID)
	gi.Settings.MaxPlayers = 1 // fill the only game the process is allowed to run

	if _, err := m.TryJoin(JoinRequest{PlayerName: "bob"}); err != ErrFullGame {
		t.Errorf("expected ErrFullGame once at the game cap with no room, got %v", err)
	}
}

func TestGameInstanceIsFull(t *testing.T) {
	gi := newGameInstance(sim.Settings{MapSize: sim.Vector{X: 100, Y: 100}, MaxPlayers: 1})
	if gi.isFull() {
		t.Fatal("expected a fresh game not to be full")
	}
	rng := rand.New(rand.NewSource(1))
	if _, err := gi.Game.Join("alice", false, rng); err != nil {
		t.Fatalf("join: %v", err)
	}
	if !gi.isFull() {
		t.Error("expected the game to report full once at MaxPlayers")
	}
}
