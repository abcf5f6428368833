package sim

// DeathReasonKind tags the cause of a player death.
type DeathReasonKind int

const (
	DeathShotBy DeathReasonKind = iota
	DeathTouchedTheDanger
	DeathCaughtBy
)

// DeathReason explains why a player died. Killer is nil for
// DeathShotBy when the shooter could not be resolved (e.g. the bullet's
// owner already left the game) and unused for DeathTouchedTheDanger.
type DeathReason struct {
	Kind   DeathReasonKind
	Killer *PlayerID
}

// Event is the closed tagged variant of notable, player-facing
// occurrences emitted by a tick (spec.md §4.1). Events ride alongside
// the state diff in a Tick message; they are not reconstructible from
// state alone (e.g. PlayerAteFood leaves no trace once size_bump decays).
type Event struct {
	Kind        EventKind
	Player      PlayerID
	DeathReason DeathReason
	FoodAmount  uint32
}

type EventKind int

const (
	EventPlayerJoined EventKind = iota
	EventPlayerDied
	EventNewCatcher
	EventPlayerAteFood
)

func PlayerJoinedEvent(p PlayerID) Event { return Event{Kind: EventPlayerJoined, Player: p} }

func PlayerDiedEvent(p PlayerID, reason DeathReason) Event {
	return Event{Kind: EventPlayerDied, Player: p, DeathReason: reason}
}

func NewCatcherEvent(p PlayerID) Event { return Event{Kind: EventNewCatcher, Player: p} }

func PlayerAteFoodEvent(p PlayerID, amount uint32) Event {
	return Event{Kind: EventPlayerAteFood, Player: p, FoodAmount: amount}
}
