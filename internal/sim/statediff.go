package sim

import "catcharena/internal/diff"

// StateDiff is the wire-level delta between two Game snapshots: enough
// for a recipient holding the base tick to reconstruct target without
// retransmitting the whole world (spec.md §4.2).
type StateDiff struct {
	TickNum  TickNum
	Entities diff.MapDiff[EntityID, Entity]
	Players  diff.MapDiff[PlayerID, PlayerRecord]
	Catcher  *PlayerID
}

// DiffGame computes the StateDiff turning base into target.
func DiffGame(base, target *Game) StateDiff {
	baseRecords := derefPlayers(base.Players)
	targetRecords := derefPlayers(target.Players)
	return StateDiff{
		TickNum:  target.TickNum,
		Entities: diff.DiffMap(base.Entities, target.Entities),
		Players:  diff.DiffMap(baseRecords, targetRecords),
		Catcher:  target.Catcher,
	}
}

// ApplyGame mutates base in place to match the target GameDiffGame was
// computed against, save for derived fields (nextEntityID/nextPlayerID)
// that a diff-receiving client never needs.
func ApplyGame(base *Game, d StateDiff) {
	base.TickNum = d.TickNum
	diff.ApplyMap(base.Entities, d.Entities)

	records := derefPlayers(base.Players)
	diff.ApplyMap(records, d.Players)
	for k, v := range records {
		rec := v
		base.Players[k] = &rec
	}
	for _, k := range d.Players.Remove {
		delete(base.Players, k)
	}
	base.Catcher = d.Catcher
}

func derefPlayers(m map[PlayerID]*PlayerRecord) map[PlayerID]PlayerRecord {
	out := make(map[PlayerID]PlayerRecord, len(m))
	for k, v := range m {
		out[k] = *v
	}
	return out
}
