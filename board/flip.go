package board

// flipStep is the outcome of one (non-blocking) pass through the flip
// state machine. If waiter is non-nil, the caller enqueued itself on a
// controlled cell (rule 1-D) and must release the lock, wait for
// waiter.done to close, reacquire the lock, and retry from the top —
// the cell may be in a different state by the time it wakes.
type flipStep struct {
	err    error
	waiter *waiter
}

// FlipUp is the only mutator exposed for gameplay (spec §4.6). It may
// suspend the calling goroutine awaiting release of a card controlled by
// another player; on release it restarts its precondition checks rather
// than assuming the cell is unchanged.
func (b *Board) FlipUp(playerID string, r, c int) error {
	b.mu.Lock()
	for {
		step := b.stepFlipUp(playerID, r, c)
		// Any branch, failed ones and 1-C included, may have changed what
		// some player's render shows, so drop every cached render.
		b.invalidateRenderCache()
		if step.waiter != nil {
			b.mu.Unlock()
			<-step.waiter.done
			b.mu.Lock()
			continue
		}
		b.checkRepLocked()
		b.mu.Unlock()
		return step.err
	}
}

func (b *Board) stepFlipUp(playerID string, r, c int) flipStep {
	if !b.inBounds(r, c) {
		return flipStep{err: ErrOutOfBounds}
	}
	p, ok := b.players[playerID]
	if !ok {
		return flipStep{err: ErrUnknownPlayer}
	}

	// Pre-step: clean up whatever this player's previous turn left
	// behind (rules 3-A, 3-B) before interpreting this call — when the
	// player completed a pair last turn, or when this call is a first
	// flip. A player holding only a first card is mid-turn, so the call
	// is their second flip and nothing is cleaned up. Collapsed to a
	// single call per spec §9's redesign note — the source's second,
	// defensive call is a no-op once lingering/firstCard/secondCard are
	// cleared here.
	if p.secondCard != nil || p.IsFirstCardFlip() {
		b.cleanupPreviousPlay(p)
	}

	target := Coord{Row: r, Col: c}
	if p.IsFirstCardFlip() {
		return b.firstFlip(p, target)
	}
	return b.secondFlip(p, target)
}

func (b *Board) firstFlip(p *Player, target Coord) flipStep {
	cl := b.grid[target.Row][target.Col]

	switch {
	case cl.isEmpty():
		// 1-A
		return flipStep{err: ErrEmptySpace}

	case cl.controller == p.ID:
		// Self-reselect: player already controls this face-up card
		// (e.g. it survived as a lingering-free match they retained).
		p.firstCard = &target
		p.flipCount++
		return flipStep{}

	case cl.faceUp && cl.controller == "":
		// 1-C: take control, no grid content changes, so watchers are
		// not notified (deliberate asymmetry with 1-B, spec §9).
		cl.controller = p.ID
		cl.machine.fire(cellEventTakeControl)
		p.firstCard = &target
		p.flipCount++
		return flipStep{}

	case cl.faceUp && cl.controller != "":
		// 1-D: suspend awaiting release.
		w := b.enqueueWaiter(target, p.ID)
		return flipStep{waiter: w}

	default:
		// 1-B: face-down, non-empty.
		cl.faceUp = true
		cl.machine.fire(cellEventFlipFaceUp)
		cl.controller = p.ID
		cl.machine.fire(cellEventTakeControl)
		p.firstCard = &target
		p.flipCount++
		b.invalidateRenderCache()
		b.notifyWatchers()
		return flipStep{}
	}
}

func (b *Board) secondFlip(p *Player, target Coord) flipStep {
	first := *p.firstCard

	if target == first {
		// Same-cell guard.
		b.releaseAndWake(first, p.ID)
		b.lingering[p.ID].Add(first)
		p.firstCard = nil
		p.secondCard = nil
		return flipStep{err: ErrSameCardTwice}
	}

	cl := b.grid[target.Row][target.Col]

	switch {
	case cl.isEmpty():
		// 2-A
		b.releaseAndWake(first, p.ID)
		b.lingering[p.ID].Add(first)
		p.firstCard = nil
		p.secondCard = nil
		return flipStep{err: ErrEmptySpace}

	case cl.faceUp && cl.controller != "":
		// 2-B: does not block — blocking here could deadlock a pair of
		// players each holding a card the other wants.
		b.releaseAndWake(first, p.ID)
		b.lingering[p.ID].Add(first)
		p.firstCard = nil
		p.secondCard = nil
		return flipStep{err: ErrControlled}
	}

	if !cl.faceUp {
		// 2-C
		cl.faceUp = true
		cl.machine.fire(cellEventFlipFaceUp)
	}
	cl.controller = p.ID
	cl.machine.fire(cellEventTakeControl)
	p.secondCard = &target
	p.flipCount++

	firstCell := b.grid[first.Row][first.Col]
	if firstCell.picture == cl.picture {
		// 2-D: match. Leave both face-up, controlled by p, until p's
		// next first-flip (rule 3-A removes them).
		b.invalidateRenderCache()
		b.notifyWatchers()
		return flipStep{}
	}

	// 2-E: no match. Release both; they stay face-up, uncontrolled,
	// until rule 3-B flips them down on p's next first-flip.
	b.releaseAndWake(first, p.ID)
	b.releaseAndWake(target, p.ID)
	b.invalidateRenderCache()
	b.notifyWatchers()
	return flipStep{}
}

// releaseAndWake releases control of coord if it is still held by
// playerID, then wakes every waiter parked on coord. Safe to call when
// coord is not controlled by playerID (e.g. already released by a
// concurrent cleanup) — it becomes a no-op release plus an always-run
// wake, matching spec §4.6.2: "release always notifies waiters."
func (b *Board) releaseAndWake(coord Coord, playerID string) {
	cl := b.grid[coord.Row][coord.Col]
	if cl.controller == playerID {
		cl.controller = ""
		cl.machine.fire(cellEventRelease)
	}
	b.wakeWaiters(coord)
}

func (b *Board) wakeWaiters(coord Coord) {
	q, ok := b.waiters[coord]
	if !ok {
		return
	}
	q.releaseAll()
	delete(b.waiters, coord)
}

func (b *Board) enqueueWaiter(coord Coord, playerID string) *waiter {
	q, ok := b.waiters[coord]
	if !ok {
		q = &waiterQueue{}
		b.waiters[coord] = q
	}
	w := &waiter{playerID: playerID, done: make(chan struct{})}
	q.push(w)
	return w
}

// cleanupPreviousPlay implements rules 3-A and 3-B (spec §4.6.1). It runs
// at the start of a flipUp call whose player completed a pair last turn
// or is about to make a first flip; it is idempotent once a player's
// lingering list and card slots are empty.
func (b *Board) cleanupPreviousPlay(p *Player) {
	lingering := b.lingering[p.ID]
	for _, v := range lingering.ToSlice() {
		coord := v.(Coord)
		b.flipDownIfUncontrolled(coord)
	}
	lingering.Clear()

	switch {
	case p.firstCard != nil && p.secondCard != nil:
		first, second := *p.firstCard, *p.secondCard
		c1 := b.grid[first.Row][first.Col]
		c2 := b.grid[second.Row][second.Col]
		matched := !c1.isEmpty() && !c2.isEmpty() && c1.picture == c2.picture
		if matched {
			// 3-A: remove the matched pair.
			b.removeIfControlledBy(first, p.ID)
			b.removeIfControlledBy(second, p.ID)
		} else {
			// 3-B: flip both back down.
			b.flipDownIfUncontrolled(first)
			b.flipDownIfUncontrolled(second)
		}
	case p.firstCard != nil:
		// Only a first card recorded: flip it down if uncontrolled. The
		// 2-A/2-B/same-cell failures clear both slots and put the first
		// card on the lingering list, which the loop above handles.
		b.flipDownIfUncontrolled(*p.firstCard)
	}

	p.firstCard = nil
	p.secondCard = nil
}

func (b *Board) flipDownIfUncontrolled(coord Coord) {
	cl := b.grid[coord.Row][coord.Col]
	if !cl.isEmpty() && cl.faceUp && cl.controller == "" {
		cl.faceUp = false
		cl.machine.fire(cellEventFlipFaceDown)
	}
}

func (b *Board) removeIfControlledBy(coord Coord, playerID string) {
	cl := b.grid[coord.Row][coord.Col]
	if cl.controller == playerID {
		cl.picture = ""
		cl.faceUp = false
		cl.controller = ""
		cl.machine.fire(cellEventRemove)
		b.wakeWaiters(coord)
	}
}

// FlipDown is the administrative operation (spec §6, §9): it requires
// the cell to be non-empty and face-up, and releases its controller. It
// is not part of gameplay's flip state machine — front ends should not
// call it during normal play, since the state machine produces
// face-down cells as a normal outcome of the previous-play cleanup
// (rule 3-B), which flips down cards left face-up and uncontrolled by
// 2-A/2-B/same-cell failures and 2-E mismatches.
func (b *Board) FlipDown(r, c int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inBounds(r, c) {
		return ErrOutOfBounds
	}
	cl := b.grid[r][c]
	if cl.isEmpty() || !cl.faceUp {
		return ErrEmptySpace
	}
	coord := Coord{Row: r, Col: c}
	if cl.controller != "" {
		cl.controller = ""
		cl.machine.fire(cellEventRelease)
	}
	cl.faceUp = false
	cl.machine.fire(cellEventFlipFaceDown)
	b.wakeWaiters(coord)
	b.invalidateRenderCache()
	b.notifyWatchers()
	return nil
}
