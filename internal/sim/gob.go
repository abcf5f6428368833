package sim

import "encoding/gob"

// init registers every concrete Entity implementation so that a
// map[EntityID]Entity can round-trip through encoding/gob inside a
// StateDiff, the same way the teacher's ipc/protocol.go registers its
// own message types before framing them.
func init() {
	gob.Register(&PlayerEntity{})
	gob.Register(&PlayerView{})
	gob.Register(&Bullet{})
	gob.Register(&Rocket{})
	gob.Register(&DangerGuy{})
	gob.Register(&Turret{})
	gob.Register(&Wall{})
	gob.Register(&FoodSpawn{})
	gob.Register(&Food{})
}
