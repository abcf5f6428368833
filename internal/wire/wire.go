// Package wire implements the compact binary protocol exchanged over
// the unreliable transport between client and server (spec.md §6).
// Framing follows the teacher's internal/ipc/protocol.go Header+gob
// idiom: every datagram is a gob-encoded Envelope carrying one tagged
// payload, tolerant of duplication and reordering by design — nothing
// here assumes a message arrives at most once or in order.
package wire

import (
	"bytes"
	"encoding/gob"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"catcharena/internal/sim"
)

func init() {
	gob.Register(ClientPing{})
	gob.Register(ClientPong{})
	gob.Register(ClientInput{})
	gob.Register(ClientAckTick{})
	gob.Register(ClientDisconnect{})

	gob.Register(ServerPing{})
	gob.Register(ServerPong{})
	gob.Register(ServerTick{})
	gob.Register(ServerDisconnect{})
}

// --- Client -> server ----------------------------------------------------

type ClientMessage interface{ isClientMessage() }

type ClientPing struct{ SequenceNum sim.SequenceNum }
type ClientPong struct{ SequenceNum sim.SequenceNum }

// TickInput is one tick's worth of input, resent redundantly across
// several packets so an unreliable transport can still deliver it.
type TickInput struct {
	Tick  sim.TickNum
	Input sim.Input
}

type ClientInput struct{ Inputs []TickInput }
type ClientAckTick struct{ Tick sim.TickNum }
type ClientDisconnect struct{}

func (ClientPing) isClientMessage()        {}
func (ClientPong) isClientMessage()        {}
func (ClientInput) isClientMessage()       {}
func (ClientAckTick) isClientMessage()     {}
func (ClientDisconnect) isClientMessage()  {}

// ClientEnvelope is the framed client->server datagram: every message
// is stamped with the sender's join token so the server's runner can
// route it to the right game/player without a connection-oriented
// transport underneath it.
type ClientEnvelope struct {
	Token   uuid.UUID
	Message ClientMessage
}

func EncodeClient(env ClientEnvelope) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return nil, errors.Wrap(err, "wire: encode client envelope")
	}
	return buf.Bytes(), nil
}

func DecodeClient(data []byte) (ClientEnvelope, error) {
	var env ClientEnvelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return ClientEnvelope{}, errors.Wrap(err, "wire: decode client envelope")
	}
	return env, nil
}

// --- Server -> client ----------------------------------------------------

type ServerMessage interface{ isServerMessage() }

type ServerPing struct{ SequenceNum sim.SequenceNum }
type ServerPong struct{ SequenceNum sim.SequenceNum }

// ServerTick is the delta-encoded simulation broadcast. DiffBase is nil
// for a full snapshot (first tick seen by a client, or after a diff
// base the client never acknowledged ages out).
type ServerTick struct {
	DiffBase         *sim.TickNum
	Diff             sim.StateDiff
	Events           []sim.Event
	YourLastInputNum sim.TickNum
}

type ServerDisconnect struct{ Reason string }

func (ServerPing) isServerMessage()        {}
func (ServerPong) isServerMessage()        {}
func (ServerTick) isServerMessage()        {}
func (ServerDisconnect) isServerMessage()  {}

type ServerEnvelope struct {
	Message ServerMessage
}

func EncodeServer(env ServerEnvelope) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(env); err != nil {
		return nil, errors.Wrap(err, "wire: encode server envelope")
	}
	return buf.Bytes(), nil
}

func DecodeServer(data []byte) (ServerEnvelope, error) {
	var env ServerEnvelope
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&env); err != nil {
		return ServerEnvelope{}, errors.Wrap(err, "wire: decode server envelope")
	}
	return env, nil
}
