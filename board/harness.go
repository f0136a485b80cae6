package board

import (
	"time"

	"github.com/rs/zerolog/log"
)

var harnessLogger = log.With().Str("logger_name", "board::harness").Logger()

// TestSeat drives one simulated player's flips against a shared board
// from its own goroutine — standing in for the per-player host thread
// spec §2 describes ("a host thread per player invokes flipUp"). Modeled
// on the teacher's TestPlayer/TestGame pair (testdriver.go, testplayer.go):
// a thin wrapper that records what happened so a test can assert on it
// after the simulation settles, instead of racing assertions against the
// goroutines themselves.
type TestSeat struct {
	PlayerID string
	board    *Board
	results  chan FlipResult
}

// FlipResult records the outcome of one FlipUp call made by a TestSeat.
type FlipResult struct {
	Coord Coord
	Err   error
}

// NewTestSeat returns a TestSeat for playerID, registering it on b if
// necessary.
func NewTestSeat(b *Board, playerID string) (*TestSeat, error) {
	if _, err := b.RegisterPlayer(playerID); err != nil {
		return nil, err
	}
	return &TestSeat{
		PlayerID: playerID,
		board:    b,
		results:  make(chan FlipResult, 16),
	}, nil
}

// Flip issues one FlipUp call on its own goroutine and reports the
// outcome on Results(). Use this to exercise rule 1-D: a seat whose
// target is controlled by another player blocks inside the goroutine,
// not the caller.
func (s *TestSeat) Flip(r, c int) {
	go func() {
		err := s.board.FlipUp(s.PlayerID, r, c)
		harnessLogger.Debug().
			Str("player", s.PlayerID).
			Int("row", r).
			Int("col", c).
			AnErr("err", err).
			Msg("seat flip")
		s.results <- FlipResult{Coord: Coord{Row: r, Col: c}, Err: err}
	}()
}

// FlipAndWait calls FlipUp synchronously and returns its error, for
// scenario steps that must complete before the next step starts (spec
// §8's numbered scenarios are otherwise ambiguous about interleaving).
func (s *TestSeat) FlipAndWait(r, c int) error {
	return s.board.FlipUp(s.PlayerID, r, c)
}

// Results returns the channel of outcomes from asynchronous Flip calls.
func (s *TestSeat) Results() <-chan FlipResult {
	return s.results
}

// AwaitResult blocks for up to timeout for one result, used by tests
// asserting that a flip suspended (no result yet) versus completed.
func (s *TestSeat) AwaitResult(timeout time.Duration) (FlipResult, bool) {
	select {
	case r := <-s.results:
		return r, true
	case <-time.After(timeout):
		return FlipResult{}, false
	}
}
