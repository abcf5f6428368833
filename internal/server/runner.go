package server

import (
	"math/rand"
	"sync"
	"time"

	"catcharena/internal/sim"
	"catcharena/internal/wire"
)

// JoinMessage carries a join request from the HTTP layer into the
// tick-loop goroutine, with a one-shot reply channel the HTTP handler
// blocks on — the only place in this design where the tick loop and
// an I/O goroutine rendezvous synchronously (spec.md §5).
type JoinMessage struct {
	Request JoinRequest
	Reply   chan JoinReplyOrError
}

type JoinReplyOrError struct {
	Result JoinResult
	Err    error
}

// RecvMessage carries one decoded client datagram into the tick loop.
type RecvMessage struct {
	Token   PlayerToken
	GameID  GameID
	Message wire.ClientMessage
}

// SendMessage carries one not-yet-encoded server message out of the tick loop,
// destined for whichever transport goroutine owns that token's socket.
type SendMessage struct {
	Token   PlayerToken
	Message wire.ServerMessage
}

// playerConn is the tick loop's private bookkeeping for a joined
// player: their pending input queue and the last tick they acked.
type playerConn struct {
	gameID       GameID
	playerID     sim.PlayerID
	pendingInput map[sim.TickNum]sim.Input
	ackedTick    *sim.TickNum
	lastInputNum sim.TickNum
}

// Runner is the single goroutine that owns every Game value in the
// process. It never shares game state with any other goroutine;
// everything in and out crosses one of JoinCh/RecvCh/SendCh, following
// the teacher's internal/game/engine.go ticker-driven loop generalized
// to channel-isolated I/O (spec.md §5).
type Runner struct {
	mu         sync.Mutex
	matchmaker *Matchmaker
	rng        *rand.Rand

	players map[PlayerToken]*playerConn
	history map[GameID]map[sim.TickNum]*sim.Game

	JoinCh chan JoinMessage
	RecvCh chan RecvMessage
	SendCh chan SendMessage

	stopCh chan struct{}
}

func NewRunner(config Config, seed int64) *Runner {
	rng := rand.New(rand.NewSource(seed))
	return &Runner{
		matchmaker: NewMatchmaker(config, rng),
		rng:        rng,
		players:    make(map[PlayerToken]*playerConn),
		history:    make(map[GameID]map[sim.TickNum]*sim.Game),
		JoinCh:     make(chan JoinMessage, 64),
		RecvCh:     make(chan RecvMessage, 1024),
		SendCh:     make(chan SendMessage, 1024),
		stopCh:     make(chan struct{}),
	}
}

// Start launches the tick-loop goroutine. Stop must be called to shut
// it down; Start must not be called again until it has.
func (r *Runner) Start() {
	ticker := time.NewTicker(time.Duration(sim.TickPeriod * 1e9))
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-r.stopCh:
				return
			case <-ticker.C:
				r.tick()
			}
		}
	}()
}

func (r *Runner) Stop() { close(r.stopCh) }

// tick drains whatever join/recv traffic has queued up since the last
// tick, advances every running game by one simulation step, and
// enqueues outgoing ServerTick messages for every connected player.
func (r *Runner) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.drainJoins()
	r.drainRecv()

	for id, gi := range r.matchmaker.games {
		ctx := &sim.RunContext{}
		for token, conn := range r.players {
			if conn.gameID != id {
				continue
			}
			input, ok := conn.pendingInput[gi.Game.TickNum]
			if !ok {
				input = sim.Input{}
			}
			delete(conn.pendingInput, gi.Game.TickNum)
			_ = sim.RunPlayerInput(gi.Game, conn.playerID, input, ctx, r.rng)
			_ = token
		}
		sim.RunTick(gi.Game, ctx, r.rng)
		r.recordHistory(id, gi.Game)
		r.broadcastTick(id, gi, ctx)
	}
}

// keepTicksOfHistory bounds how many past authoritative ticks are kept
// per game so a client's acked tick can be used as a diff base; beyond
// that window a client falls back to a full snapshot.
const keepTicksOfHistory = 8

func (r *Runner) recordHistory(id GameID, g *sim.Game) {
	byTick, ok := r.history[id]
	if !ok {
		byTick = make(map[sim.TickNum]*sim.Game)
		r.history[id] = byTick
	}
	byTick[g.TickNum] = g.Clone()
	for t := range byTick {
		if g.TickNum-t > keepTicksOfHistory {
			delete(byTick, t)
		}
	}
}

// drainJoins accepts every queued JoinMessage without blocking —
// select with a default case never stalls the tick it runs inside.
func (r *Runner) drainJoins() {
	for {
		select {
		case jm := <-r.JoinCh:
			result, err := r.matchmaker.TryJoin(jm.Request)
			if err == nil {
				r.players[result.Token] = &playerConn{
					gameID:       result.GameID,
					playerID:     result.PlayerID,
					pendingInput: make(map[sim.TickNum]sim.Input),
				}
			}
			jm.Reply <- JoinReplyOrError{Result: result, Err: err}
		default:
			return
		}
	}
}

func (r *Runner) drainRecv() {
	for {
		select {
		case rm := <-r.RecvCh:
			r.handleRecv(rm)
		default:
			return
		}
	}
}

func (r *Runner) handleRecv(rm RecvMessage) {
	conn, ok := r.players[rm.Token]
	if !ok {
		return
	}
	switch msg := rm.Message.(type) {
	case wire.ClientInput:
		for _, ti := range msg.Inputs {
			conn.pendingInput[ti.Tick] = ti.Input
			if ti.Tick > conn.lastInputNum {
				conn.lastInputNum = ti.Tick
			}
		}
	case wire.ClientAckTick:
		t := msg.Tick
		conn.ackedTick = &t
	case wire.ClientPing:
		r.SendCh <- SendMessage{Token: rm.Token, Message: wire.ServerPong{SequenceNum: msg.SequenceNum}}
	case wire.ClientDisconnect:
		delete(r.players, rm.Token)
	}
}

func (r *Runner) broadcastTick(gameID GameID, gi *GameInstance, ctx *sim.RunContext) {
	byTick := r.history[gameID]
	for token, conn := range r.players {
		if conn.gameID != gameID {
			continue
		}
		var base *sim.TickNum
		baseGame := sim.NewGame(gi.Settings)
		if conn.ackedTick != nil {
			if g, ok := byTick[*conn.ackedTick]; ok {
				baseGame = g
				base = conn.ackedTick
			}
		}
		d := sim.DiffGame(baseGame, gi.Game)
		r.SendCh <- SendMessage{
			Token: token,
			Message: wire.ServerTick{
				DiffBase:         base,
				Diff:             d,
				Events:           ctx.Events,
				YourLastInputNum: conn.lastInputNum,
			},
		}
	}
}
