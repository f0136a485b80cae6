package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestBoard(t *testing.T, layout string) *Board {
	t.Helper()
	b, err := ParseLayout(layout)
	require.NoError(t, err)
	return b
}

// Scenario 1 (spec §8): matched pair removed on the player's next
// first-flip.
func TestScenario_MatchThenRemoveOnNextFirstFlip(t *testing.T) {
	b := newTestBoard(t, "2x2\nA\nA\nB\nB\n")
	seat, err := NewTestSeat(b, "p1")
	require.NoError(t, err)

	require.NoError(t, seat.FlipAndWait(0, 0))
	require.NoError(t, seat.FlipAndWait(0, 1))

	up00, _ := b.IsFaceUp(0, 0)
	ctl00, _ := b.ControllerAt(0, 0)
	require.True(t, up00)
	require.Equal(t, "p1", ctl00)

	require.NoError(t, seat.FlipAndWait(1, 0))

	pic00, _ := b.PictureAt(0, 0)
	pic01, _ := b.PictureAt(0, 1)
	up01, _ := b.IsFaceUp(0, 1)
	ctl01, _ := b.ControllerAt(0, 1)
	require.Equal(t, "", pic00)
	require.Equal(t, "", pic01)
	require.False(t, up01)
	require.Equal(t, "", ctl01)

	b.CheckRep()
}

// Scenario 2: non-matching pair flipped back down on the next first-flip.
func TestScenario_NoMatchThenFlipDownOnNextFirstFlip(t *testing.T) {
	b := newTestBoard(t, "2x2\nA\nB\nC\nD\n")
	seat, err := NewTestSeat(b, "p1")
	require.NoError(t, err)

	require.NoError(t, seat.FlipAndWait(0, 0))
	require.NoError(t, seat.FlipAndWait(0, 1))

	up00, _ := b.IsFaceUp(0, 0)
	ctl00, _ := b.ControllerAt(0, 0)
	require.True(t, up00)
	require.Equal(t, "", ctl00)

	require.NoError(t, seat.FlipAndWait(1, 0))

	up00, _ = b.IsFaceUp(0, 0)
	up01, _ := b.IsFaceUp(0, 1)
	require.False(t, up00)
	require.False(t, up01)

	up10, _ := b.IsFaceUp(1, 0)
	ctl10, _ := b.ControllerAt(1, 0)
	require.True(t, up10)
	require.Equal(t, "p1", ctl10)

	b.CheckRep()
}

// Scenario 3: a second player suspends on a controlled card (1-D) and
// wakes once the controller's non-matching second flip releases it.
func TestScenario_SuspendedPlayerWakesOnRelease(t *testing.T) {
	b := newTestBoard(t, "2x2\nA\nA\nB\nB\n")
	p1, err := NewTestSeat(b, "p1")
	require.NoError(t, err)
	p2, err := NewTestSeat(b, "p2")
	require.NoError(t, err)

	require.NoError(t, p1.FlipAndWait(0, 0))

	p2.Flip(0, 0)
	_, got := p2.AwaitResult(100 * time.Millisecond)
	require.False(t, got, "p2 should still be suspended on (0,0)")

	require.NoError(t, p1.FlipAndWait(1, 1))

	result, got := p2.AwaitResult(2 * time.Second)
	require.True(t, got, "p2 should wake once p1 releases (0,0)")
	require.NoError(t, result.Err)

	b.CheckRep()
}

// Scenario 4: second flip onto a cell controlled by another player fails
// Controlled and releases the caller's first card.
func TestScenario_SecondFlipControlledByOther(t *testing.T) {
	b := newTestBoard(t, "2x2\nA\nB\nC\nD\n")
	p1, err := NewTestSeat(b, "p1")
	require.NoError(t, err)
	p2, err := NewTestSeat(b, "p2")
	require.NoError(t, err)

	require.NoError(t, p1.FlipAndWait(0, 0))
	require.NoError(t, p2.FlipAndWait(0, 1))

	err = p1.FlipAndWait(0, 1)
	require.ErrorIs(t, err, ErrControlled)

	ctl00, _ := b.ControllerAt(0, 0)
	require.Equal(t, "", ctl00)

	snap, err := b.PlayerState("p1")
	require.NoError(t, err)
	require.Nil(t, snap.FirstCard)
	require.Nil(t, snap.SecondCard)

	b.CheckRep()
}

// Scenario 5: flipping the same card twice fails SameCardTwice and
// releases it, leaving it face-up and uncontrolled until the player's
// next first-flip flips it down.
func TestScenario_SameCardTwice(t *testing.T) {
	b := newTestBoard(t, "2x2\nA\nA\nB\nB\n")
	p1, err := NewTestSeat(b, "p1")
	require.NoError(t, err)

	require.NoError(t, p1.FlipAndWait(0, 0))
	err = p1.FlipAndWait(0, 0)
	require.ErrorIs(t, err, ErrSameCardTwice)

	up00, _ := b.IsFaceUp(0, 0)
	ctl00, _ := b.ControllerAt(0, 0)
	require.True(t, up00)
	require.Equal(t, "", ctl00)

	snap, err := b.PlayerState("p1")
	require.NoError(t, err)
	require.Nil(t, snap.FirstCard)

	require.NoError(t, p1.FlipAndWait(1, 0))
	up00, _ = b.IsFaceUp(0, 0)
	require.False(t, up00)

	b.CheckRep()
}

func TestFlipUp_EmptySpaceFirstFlip(t *testing.T) {
	b := newTestBoard(t, "1x2\nA\nnone\n")
	p1, err := NewTestSeat(b, "p1")
	require.NoError(t, err)
	err = p1.FlipAndWait(0, 1)
	require.ErrorIs(t, err, ErrEmptySpace)
}

func TestFlipUp_EmptySpaceSecondFlip(t *testing.T) {
	b := newTestBoard(t, "1x2\nA\nnone\n")
	p1, err := NewTestSeat(b, "p1")
	require.NoError(t, err)
	require.NoError(t, p1.FlipAndWait(0, 0))
	err = p1.FlipAndWait(0, 1)
	require.ErrorIs(t, err, ErrEmptySpace)

	snap, err := b.PlayerState("p1")
	require.NoError(t, err)
	require.Nil(t, snap.FirstCard)
}

func TestFlipUp_OutOfBounds(t *testing.T) {
	b := newTestBoard(t, "1x1\nA\n")
	p1, err := NewTestSeat(b, "p1")
	require.NoError(t, err)
	require.ErrorIs(t, p1.FlipAndWait(5, 5), ErrOutOfBounds)
}

func TestFlipUp_UnknownPlayer(t *testing.T) {
	b := newTestBoard(t, "1x1\nA\n")
	require.ErrorIs(t, b.FlipUp("ghost", 0, 0), ErrUnknownPlayer)
}

func TestFlipUp_FlipCountMonotonic(t *testing.T) {
	b := newTestBoard(t, "2x2\nA\nA\nB\nB\n")
	p1, err := NewTestSeat(b, "p1")
	require.NoError(t, err)

	snap, _ := b.PlayerState("p1")
	require.Equal(t, 0, snap.FlipCount)

	require.NoError(t, p1.FlipAndWait(0, 0))
	snap, _ = b.PlayerState("p1")
	require.Equal(t, 1, snap.FlipCount)

	require.NoError(t, p1.FlipAndWait(0, 1))
	snap, _ = b.PlayerState("p1")
	require.Equal(t, 2, snap.FlipCount)
}

func TestFlipDown_RequiresFaceUp(t *testing.T) {
	b := newTestBoard(t, "1x1\nA\n")
	require.ErrorIs(t, b.FlipDown(0, 0), ErrEmptySpace)
}

func TestFlipDown_ReleasesAndFlipsDown(t *testing.T) {
	b := newTestBoard(t, "1x1\nA\n")
	p1, err := NewTestSeat(b, "p1")
	require.NoError(t, err)
	require.NoError(t, p1.FlipAndWait(0, 0))

	require.NoError(t, b.FlipDown(0, 0))
	up, _ := b.IsFaceUp(0, 0)
	ctl, _ := b.ControllerAt(0, 0)
	require.False(t, up)
	require.Equal(t, "", ctl)
}

// Each player gets its own disjoint row, so this test never exercises
// 1-D suspension (that's covered deterministically by the suspend/wake
// scenario above) — it instead exercises many goroutines mutating one
// Board concurrently, under go test -race, with no possibility of a
// waiter left stranded by a goroutine that has already exited.
func TestConcurrentFlips_NoRaceAndRepHolds(t *testing.T) {
	b := newTestBoard(t, "4x4\nA\nA\nB\nB\nC\nC\nD\nD\nE\nE\nF\nF\nG\nG\nH\nH\n")
	const players = 4
	seats := make([]*TestSeat, players)
	for i := 0; i < players; i++ {
		seat, err := NewTestSeat(b, string(rune('a'+i)))
		require.NoError(t, err)
		seats[i] = seat
	}

	done := make(chan struct{})
	for i, seat := range seats {
		row := i
		go func(s *TestSeat, row int) {
			defer func() { done <- struct{}{} }()
			for round := 0; round < 8; round++ {
				_ = s.FlipAndWait(row, 0)
				_ = s.FlipAndWait(row, 1)
			}
		}(seat, row)
	}
	for range seats {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("concurrent flip round did not finish in time")
		}
	}

	b.CheckRep()
}
