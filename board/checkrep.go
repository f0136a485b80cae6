package board

import "fmt"

// checkRepLocked verifies the quantified invariants from spec §8. A
// violation means the flip state machine has a bug, not that the caller
// did anything wrong, so it panics rather than returning an error —
// matching the teacher's treatment of rep-invariant checks as fatal
// programmer error. Caller must hold b.mu.
func (b *Board) checkRepLocked() {
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			cl := b.grid[r][c]
			if wantState := cellStateFor(cl); cl.machine.state() != wantState {
				panic(fmt.Errorf("%w: cell (%d,%d) fields say state %q but machine is in %q",
					ErrRepInvariantViolated, r, c, wantState, cl.machine.state()))
			}
			if cl.isEmpty() {
				if cl.faceUp || cl.controller != "" {
					panic(fmt.Errorf("%w: empty cell (%d,%d) has faceUp=%v controller=%q",
						ErrRepInvariantViolated, r, c, cl.faceUp, cl.controller))
				}
				continue
			}
			if cl.controller != "" {
				if !cl.faceUp {
					panic(fmt.Errorf("%w: controlled cell (%d,%d) is face-down", ErrRepInvariantViolated, r, c))
				}
				if _, ok := b.players[cl.controller]; !ok {
					panic(fmt.Errorf("%w: cell (%d,%d) controlled by unregistered player %q",
						ErrRepInvariantViolated, r, c, cl.controller))
				}
			}
		}
	}
	for _, p := range b.players {
		if p.firstCard == nil && p.secondCard != nil {
			panic(fmt.Errorf("%w: player %q has a second card but no first", ErrRepInvariantViolated, p.ID))
		}
	}
	for coord, q := range b.waiters {
		seen := make(map[string]bool)
		for _, w := range q.items {
			if seen[w.playerID] {
				panic(fmt.Errorf("%w: duplicate waiter for player %q on (%d,%d)",
					ErrRepInvariantViolated, w.playerID, coord.Row, coord.Col))
			}
			seen[w.playerID] = true
		}
	}
}

// cellStateFor derives the state a cell's machine ought to be in from its
// faceUp/controller fields, so checkRepLocked can catch the case fire's
// panic is meant to prevent in the first place — the FSM and the cell's
// own fields silently drifting apart.
func cellStateFor(cl *cell) string {
	switch {
	case cl.isEmpty():
		return CellEmpty
	case !cl.faceUp:
		return CellDown
	case cl.controller == "":
		return CellUpUncontrolled
	default:
		return CellUpControlled
	}
}

// CheckRep runs the representation-invariant check and is exposed for
// tests that want to assert consistency after a sequence of calls
// outside of Map/FlipUp's own checks.
func (b *Board) CheckRep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.checkRepLocked()
}
