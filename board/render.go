package board

import (
	"fmt"
	"strings"
)

// Render returns playerId's textual snapshot of the board (spec §4.3):
// one "RxC" header line followed by rows*cols cell tokens, row-major.
// The snapshot reflects a single consistent moment — it is computed
// while holding the board lock, so it cannot interleave with a
// concurrent mutation.
func (b *Board) Render(playerID string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.players[playerID]; !ok {
		return "", ErrUnknownPlayer
	}
	return b.renderLocked(playerID), nil
}

// renderLocked computes playerID's render and memoizes it in the render
// cache until the next mutation invalidates the whole cache (see
// invalidateRenderCache). Caller must hold b.mu.
func (b *Board) renderLocked(playerID string) string {
	if cached, ok := b.renderCache.Get(playerID); ok {
		return cached
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d\n", b.rows, b.cols)
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			cl := b.grid[r][c]
			switch {
			case cl.isEmpty():
				sb.WriteString("none\n")
			case !cl.faceUp:
				sb.WriteString("down\n")
			case cl.controller == playerID:
				sb.WriteString("my " + cl.picture + "\n")
			default:
				sb.WriteString("up " + cl.picture + "\n")
			}
		}
	}
	rendered := sb.String()
	b.renderCache.Put(playerID, rendered)
	return rendered
}

// invalidateRenderCache purges every cached render. Called whenever the
// grid mutates in a way visible to any renderer (any cell's picture,
// faceUp or controller changes) — a cheap global purge beats tracking
// which players' views a given mutation actually touched. Caller must
// hold b.mu.
func (b *Board) invalidateRenderCache() {
	b.renderCache.Purge()
}
