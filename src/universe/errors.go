package universe

import "github.com/pkg/errors"

var (
	//ErrOutOfRange is returned for coordinates outside the current grid
	ErrOutOfRange = errors.New("coordinate out of range")
	//ErrInvalidArgument is returned for rule indexes outside 1..8, bad dimensions, fps or names
	ErrInvalidArgument = errors.New("invalid argument")
	//ErrInvalidState is returned when start/stop is requested in the wrong running state
	ErrInvalidState = errors.New("invalid state")
)
