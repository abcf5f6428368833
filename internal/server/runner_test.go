package server

import (
	"testing"

	"catcharena/internal/sim"
	"catcharena/internal/wire"
)

func newTestRunner(t *testing.T) (*Runner, GameID, PlayerToken) {
	t.Helper()
	r := NewRunner(DefaultConfig(), 1)

	reply := make(chan JoinReplyOrError, 1)
	r.JoinCh <- JoinMessage{Request: JoinRequest{PlayerName: "alice"}, Reply: reply}
	r.tick()
	res := <-reply
	if res.Err != nil {
		t.Fatalf("join: %v", res.Err)
	}
	drainSendCh(r)
	return r, res.Result.GameID, res.Result.Token
}

// drainSendCh discards whatever ServerTick broadcasts are already
// buffered, so a test's own tick()/drain assertions start from a clean
// channel instead of racing a prior setup tick's leftover message.
func drainSendCh(r *Runner) {
	for {
		select {
		case <-r.SendCh:
		default:
			return
		}
	}
}

func TestTickAdvancesGameAndBroadcasts(t *testing.T) {
	r, gameID, token := newTestRunner(t)
	gi, ok := r.matchmaker.Get(gameID)
	if !ok {
		t.Fatal("expected the joined game to exist")
	}
	tickBefore := gi.Game.TickNum

	r.tick()

	if gi.Game.TickNum != tickBefore+1 {
		t.Errorf("expected TickNum to advance by one, got %d -> %d", tickBefore, gi.Game.TickNum)
	}

	select {
	case msg := <-r.SendCh:
		if msg.Token != token {
			t.Errorf("expected the broadcast to target the joined player's token")
		}
		if _, ok := msg.Message.(wire.ServerTick); !ok {
			t.Errorf("expected a ServerTick message, got %T", msg.Message)
		}
	default:
		t.Fatal("expected a ServerTick to have been enqueued on SendCh")
	}
}

func TestHandleRecvAppliesPendingInput(t *testing.T) {
	r, gameID, token := newTestRunner(t)
	gi, _ := r.matchmaker.Get(gameID)
	targetTick := gi.Game.TickNum

	r.mu.Lock()
	r.handleRecv(RecvMessage{
		Token: token,
		Message: wire.ClientInput{Inputs: []wire.TickInput{
			{Tick: targetTick, Input: sim.Input{MoveRight: true}},
		}},
	})
	conn := r.players[token]
	r.mu.Unlock()

	if _, ok := conn.pendingInput[targetTick]; !ok {
		t.Fatal("expected the input to be queued for the target tick")
	}
	if conn.lastInputNum != targetTick {
		t.Errorf("expected lastInputNum to track the highest received input tick, got %d", conn.lastInputNum)
	}
}

func TestHandleRecvAckTickEnablesDiffBase(t *testing.T) {
	r, gameID, token := newTestRunner(t)
	gi, _ := r.matchmaker.Get(gameID)

	// Advance a few ticks so there is history to diff against.
	r.tick()
	r.tick()
	<-r.SendCh
	<-r.SendCh

	ackTick := gi.Game.TickNum

	r.mu.Lock()
	r.handleRecv(RecvMessage{Token: token, Message: wire.ClientAckTick{Tick: ackTick}})
	r.mu.Unlock()

	r.tick()
	select {
	case msg := <-r.SendCh:
		st, ok := msg.Message.(wire.ServerTick)
		if !ok {
			t.Fatalf("expected ServerTick, got %T", msg.Message)
		}
		if st.DiffBase == nil || *st.DiffBase != ackTick {
			t.Errorf("expected DiffBase %d after acking that tick, got %+v", ackTick, st.DiffBase)
		}
	default:
		t.Fatal("expected a ServerTick to have been enqueued")
	}
}

func TestHandleRecvDisconnectRemovesPlayer(t *testing.T) {
	r, _, token := newTestRunner(t)

	r.mu.Lock()
	r.handleRecv(RecvMessage{Token: token, Message: wire.ClientDisconnect{}})
	_, stillPresent := r.players[token]
	r.mu.Unlock()

	if stillPresent {
		t.Error("expected the player to be removed from the runner after disconnect")
	}
}

func TestHandleRecvPingRepliesWithPong(t *testing.T) {
	r, _, token := newTestRunner(t)

	r.mu.Lock()
	r.handleRecv(RecvMessage{Token: token, Message: wire.ClientPing{SequenceNum: 9}})
	r.mu.Unlock()

	select {
	case msg := <-r.SendCh:
		pong, ok := msg.Message.(wire.ServerPong)
		if !ok {
			t.Fatalf("expected ServerPong, got %T", msg.Message)
		}
		if pong.SequenceNum != 9 {
			t.Errorf("expected echoed sequence number 9, got %d", pong.SequenceNum)
		}
	default:
		t.Fatal("expected a ServerPong to have been enqueued")
	}
}

func TestRecordHistoryEvictsBeyondWindow(t *testing.T) {
	r, gameID, _ := newTestRunner(t)

	for i := 0; i < keepTicksOfHistory+5; i++ {
		r.tick()
		<-r.SendCh
	}

	byTick := r.history[gameID]
	if len(byTick) > keepTicksOfHistory+1 {
		t.Errorf("expected history to be bounded to keepTicksOfHistory+1 entries, got %d", len(byTick))
	}
}
