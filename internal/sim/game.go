package sim

import "math/rand"

// TicksPerSecond is the fixed simulation rate shared by every run_tick
// step on both the server and a predicting client.
const TicksPerSecond = 30

// TickPeriod is the fixed-timestep duration of one tick, in seconds.
const TickPeriod GameTime = 1.0 / TicksPerSecond

// Settings configures a Game's map and player limits. It is sent to
// clients once on join and never changes for the lifetime of a game.
type Settings struct {
	MapSize     Vector
	MaxPlayers  int
	PlayerNames []string // not read by catcher assignment, which checks PlayerRecord.IsBot
}

func DefaultSettings() Settings {
	return Settings{
		MapSize:    Vector{X: 4000, Y: 4000},
		MaxPlayers: 16,
	}
}

// PlayerRecord is the server-side bookkeeping kept per player, separate
// from their PlayerEntity (the simulated avatar). IsBot marks synthetic
// players excluded from catcher assignment (spec.md §12).
type PlayerRecord struct {
	Name  string
	Food  uint32
	Alive bool
	IsBot bool
}

// Game is the full authoritative (or, on a predicting client, locally
// replayed) simulation state at a point in time. Every run_tick /
// run_player_input call advances exactly one Game value by one tick.
type Game struct {
	Settings Settings
	TickNum  TickNum
	Entities map[EntityID]Entity
	Players  map[PlayerID]*PlayerRecord
	Catcher  *PlayerID

	nextEntityID EntityID
	nextPlayerID PlayerID
}

func NewGame(settings Settings) *Game {
	return &Game{
		Settings: settings,
		Entities: make(map[EntityID]Entity),
		Players:  make(map[PlayerID]*PlayerRecord),
	}
}

// AllocEntityID reserves and returns the next server-assigned entity id.
// Ids from the range starting at PredictedIDBase are never handed out
// here (open question (c), spec.md §9).
func (g *Game) AllocEntityID() EntityID {
	id := g.nextEntityID
	g.nextEntityID++
	return id
}

func (g *Game) allocPlayerID() PlayerID {
	id := g.nextPlayerID
	g.nextPlayerID++
	return id
}

// Join adds a new player to the game, spawning their PlayerEntity at a
// random point on the map, and returns their assigned id.
func (g *Game) Join(name string, isBot bool, rng *rand.Rand) (PlayerID, error) {
	if len(g.Players) >= g.Settings.MaxPlayers {
		return 0, ErrGameFull
	}
	id := g.allocPlayerID()
	g.Players[id] = &PlayerRecord{Name: name, Alive: true, IsBot: isBot}

	pos := Vector{
		X: (rng.Float64() - 0.5) * g.Settings.MapSize.X,
		Y: (rng.Float64() - 0.5) * g.Settings.MapSize.Y,
	}
	entityID := g.AllocEntityID()
	g.Entities[entityID] = NewPlayerEntity(id, pos)
	return id, nil
}

// GetEntity looks up an entity by id.
func (g *Game) GetEntity(id EntityID) (Entity, error) {
	e, ok := g.Entities[id]
	if !ok {
		return nil, ErrInvalidEntityID
	}
	return e, nil
}

// GetPlayerEntity looks up the PlayerEntity owned by the given player.
func (g *Game) GetPlayerEntity(player PlayerID) (EntityID, *PlayerEntity, error) {
	for id, e := range g.Entities {
		if p, ok := e.(*PlayerEntity); ok && p.Owner == player {
			return id, p, nil
		}
	}
	return 0, nil, ErrInvalidPlayerID
}

// IsAlive reports whether the given player's record marks them alive.
func (g *Game) IsAlive(player PlayerID) bool {
	rec, ok := g.Players[player]
	return ok && rec.Alive
}

// Time returns the game time at the current tick.
func (g *Game) Time() GameTime {
	return GameTime(g.TickNum) * TickPeriod
}

// Clone returns a deep copy of g: every entity and player record is
// copied rather than aliased, so mutating the clone (e.g. during
// client-side prediction replay) never reaches back into g.
func (g *Game) Clone() *Game {
	out := &Game{
		Settings:     g.Settings,
		TickNum:      g.TickNum,
		Entities:     make(map[EntityID]Entity, len(g.Entities)),
		Players:      make(map[PlayerID]*PlayerRecord, len(g.Players)),
		nextEntityID: g.nextEntityID,
		nextPlayerID: g.nextPlayerID,
	}
	if g.Catcher != nil {
		c := *g.Catcher
		out.Catcher = &c
	}
	for id, e := range g.Entities {
		out.Entities[id] = cloneEntity(e)
	}
	for id, rec := range g.Players {
		r := *rec
		out.Players[id] = &r
	}
	return out
}

func cloneEntity(e Entity) Entity {
	switch v := e.(type) {
	case *PlayerEntity:
		cp := *v
		if v.Dash != nil {
			d := *v.Dash
			cp.Dash = &d
		}
		if v.Hook != nil {
			h := *v.Hook
			cp.Hook = &h
		}
		return &cp
	case *PlayerView:
		cp := *v
		if v.Hook != nil {
			h := *v.Hook
			cp.Hook = &h
		}
		return &cp
	case *Bullet:
		cp := *v
		return &cp
	case *Rocket:
		cp := *v
		return &cp
	case *DangerGuy:
		cp := *v
		return &cp
	case *Turret:
		cp := *v
		if v.Target != nil {
			t := *v.Target
			cp.Target = &t
		}
		return &cp
	case *Wall:
		cp := *v
		return &cp
	case *FoodSpawn:
		cp := *v
		if v.RespawnTime != nil {
			t := *v.RespawnTime
			cp.RespawnTime = &t
		}
		return &cp
	case *Food:
		cp := *v
		return &cp
	default:
		return e
	}
}

// alivePlayers returns the ids of non-bot players who are currently alive,
// in ascending order, for deterministic catcher (re-)assignment.
func (g *Game) alivePlayers() []PlayerID {
	var out []PlayerID
	for id, rec := range g.Players {
		if rec.Alive && !rec.IsBot {
			out = append(out, id)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
