// Package server implements the authoritative tick loop, per-game
// matchmaking, and the channel-isolated boundary between that loop and
// the rest of the process (HTTP join handling, the UDP transport),
// grounded in original_source/serv/src/{runner,game}.rs and the
// teacher's internal/game/engine.go ticker pattern.
package server

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"catcharena/internal/sim"
)

// ErrFullGame is returned when matchmaking cannot place a joining
// player in any existing or new game.
var ErrFullGame = errors.New("server: all games are full")

// Config bounds how many concurrent games this process will run.
type Config struct {
	MaxNumGames int
}

func DefaultConfig() Config {
	return Config{MaxNumGames: 1000}
}

// GameID identifies one running game.
type GameID = uuid.UUID

// PlayerToken authenticates a joined player's subsequent packets; it
// is handed out once at join time and is never reused.
type PlayerToken = uuid.UUID

// GameInstance pairs a simulation with the bookkeeping the matchmaker
// needs to decide whether it can accept another player.
type GameInstance struct {
	ID       GameID
	Game     *sim.Game
	Settings sim.Settings
}

func newGameInstance(settings sim.Settings) *GameInstance {
	return &GameInstance{
		ID:       uuid.New(),
		Game:     sim.NewGame(settings),
		Settings: settings,
	}
}

func (gi *GameInstance) isFull() bool {
	return len(gi.Game.Players) >= gi.Settings.MaxPlayers
}

// JoinRequest names which existing game to join, if any; an empty
// GameID means "join any open game, or start a new one."
type JoinRequest struct {
	GameID     *GameID
	PlayerName string
}

// JoinResult is everything a newly joined player's client needs to
// start sending input: their token, the game they landed in, and the
// player id the simulation assigned them.
type JoinResult struct {
	Token    PlayerToken
	GameID   GameID
	PlayerID sim.PlayerID
	Settings sim.Settings
}

// Matchmaker owns the set of running games and decides where each
// joining player lands, mirroring try_join_game in serv/src/runner.rs.
type Matchmaker struct {
	config Config
	games  map[GameID]*GameInstance
	rng    *rand.Rand
}

func NewMatchmaker(config Config, rng *rand.Rand) *Matchmaker {
	return &Matchmaker{config: config, games: make(map[GameID]*GameInstance), rng: rng}
}

// TryJoin places req into a game: the named game if it has room, else
// any existing game with room, else a freshly created one if the
// process is under its game-count cap.
func (m *Matchmaker) TryJoin(req JoinRequest) (JoinResult, error) {
	var target *GameInstance

	if req.GameID != nil {
		if gi, ok := m.games[*req.GameID]; ok && !gi.isFull() {
			target = gi
		}
	}

	if target == nil {
		for _, gi := range m.games {
			if !gi.isFull() {
				target = gi
				break
			}
		}
	}

	if target == nil {
		if len(m.games) >= m.config.MaxNumGames {
			return JoinResult{}, ErrFullGame
		}
		target = newGameInstance(sim.DefaultSettings())
		m.games[target.ID] = target
	}

	playerID, err := target.Game.Join(req.PlayerName, false, m.rng)
	if err != nil {
		return JoinResult{}, err
	}

	return JoinResult{
		Token:    uuid.New(),
		GameID:   target.ID,
		PlayerID: playerID,
		Settings: target.Settings,
	}, nil
}

// Get returns the game instance for id, if it exists.
func (m *Matchmaker) Get(id GameID) (*GameInstance, bool) {
	gi, ok := m.games[id]
	return gi, ok
}
