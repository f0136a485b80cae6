package board

import "github.com/pkg/errors"

// Sentinel errors for the flip state machine and supporting queries.
// Callers use errors.Is against these; context (cell, player, line number)
// is attached at the raise site with errors.Wrapf or fmt.Errorf's %w,
// where a site attaches any.
var (
	ErrOutOfBounds          = errors.New("out of bounds")
	ErrUnknownPlayer        = errors.New("unknown player")
	ErrInvalidPlayerID      = errors.New("invalid player id")
	ErrEmptySpace           = errors.New("empty space")
	ErrControlled           = errors.New("card controlled by another player")
	ErrSameCardTwice        = errors.New("same card flipped twice")
	ErrInvalidFile          = errors.New("invalid board file")
	ErrInvalidHeader        = errors.New("invalid board header")
	ErrInvalidDimensions    = errors.New("invalid board dimensions")
	ErrWrongCardCount       = errors.New("wrong card count")
	ErrInvalidCard          = errors.New("invalid card token")
	ErrRepInvariantViolated = errors.New("board representation invariant violated")
)
