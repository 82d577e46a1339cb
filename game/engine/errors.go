package engine

import "errors"

var (
	ErrInvalidSetupData      = errors.New("invalid setup data")
	ErrOutOfBounds           = errors.New("move out of bounds")
	ErrBlockedByRabbit       = errors.New("stepped on a rabbit")
	ErrUnrecognizedDirection = errors.New("unrecognized direction")
	ErrFieldFull             = errors.New("no empty cell left on the field")
	ErrGameOver              = errors.New("game is over")
)
