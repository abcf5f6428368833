package sim

import "github.com/pkg/errors"

// Sentinel errors returned by the simulation's accessor and mutation
// functions. They are returned unwrapped; callers compare with
// errors.Is or ==.
var (
	ErrInvalidEntityID      = errors.New("sim: invalid entity id")
	ErrInvalidPlayerID      = errors.New("sim: invalid player id")
	ErrUnexpectedEntityType = errors.New("sim: unexpected entity type")
	ErrPlayerNotAlive       = errors.New("sim: player is not alive")
	ErrGameFull             = errors.New("sim: game is full")
)
