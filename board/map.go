package board

import (
	"context"
	"fmt"
	"strings"
)

// Transform produces a replacement picture for an existing, non-empty
// card. It must return a non-empty, whitespace-free token; any other
// return fails the whole Map call with ErrInvalidCard.
type Transform func(ctx context.Context, picture string) (string, error)

// Map applies f to every non-empty card in row-major order (spec §4.5).
// Each cell's transform runs with the board lock released, so a slow or
// blocking Transform does not stall the rest of the board; the lock is
// re-acquired only to read the current picture and again to write the
// result back. This means a concurrent reader may observe a grid that is
// partway through the transform — only the moment Map returns are all
// cards guaranteed updated and the rep invariant re-checked.
func (b *Board) Map(ctx context.Context, f Transform) error {
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if err := b.mapCell(ctx, f, r, c); err != nil {
				return err
			}
		}
	}
	b.mu.Lock()
	b.checkRepLocked()
	b.invalidateRenderCache()
	b.notifyWatchers()
	b.mu.Unlock()
	return nil
}

func (b *Board) mapCell(ctx context.Context, f Transform, r, c int) error {
	b.mu.Lock()
	cl := b.grid[r][c]
	if cl.isEmpty() {
		b.mu.Unlock()
		return nil
	}
	picture := cl.picture
	b.mu.Unlock()

	replacement, err := f(ctx, picture)
	if err != nil {
		return err
	}
	if replacement == "" || strings.ContainsAny(replacement, " \t\n\r\f\v") {
		return fmt.Errorf("%w: replacement %q for %q", ErrInvalidCard, replacement, picture)
	}

	b.mu.Lock()
	cl = b.grid[r][c]
	if !cl.isEmpty() {
		cl.picture = replacement
		b.invalidateRenderCache()
	}
	b.mu.Unlock()
	return nil
}
