// Package board implements the concurrent Memory Scramble board ADT: the
// shared grid, player registry, wait queues, lingering bookkeeping and
// change-notification fan-out described for the core of a Memory Scramble
// game engine. A Board is a single shared mutable resource guarded by one
// logical lock; flipUp is the only mutator exposed for gameplay and may
// suspend a caller awaiting release of a card held by another player.
package board

import (
	"fmt"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"memoryscramble.io/caching"
	"memoryscramble.io/engineconfig"
	"memoryscramble.io/logging"
)

var boardLogger = logging.GetZeroLogger("board", nil)

// Board is the shared, concurrency-safe Memory Scramble grid. All fields
// are guarded by mu; nothing is exported that would let a caller reach
// into the grid, player records, waiter queues or lingering lists
// directly (spec §3 "ownership").
type Board struct {
	id   uuid.UUID
	mu   sync.Mutex
	rows int
	cols int
	grid [][]*cell

	players     map[string]*Player
	playerOrder []string

	waiters map[Coord]*waiterQueue

	lingering map[string]mapset.Set // playerID -> set of Coord

	changeWatchers map[string][]*watcher

	renderCache *caching.RenderCache

	// logger is tagged with this board's id once, at construction, so
	// every event it logs is already correlated to the right instance
	// (see logging.ForBoard) instead of re-attaching BoardIDKey per call.
	logger zerolog.Logger
}

// New constructs an empty rows x cols board with every cell empty. Hosts
// normally obtain a populated Board via ParseFromFile, ParseLayout or
// ParseLayoutYAML. A Board from New has no cards and none can be placed
// on it afterwards: no exported operation sets a picture, and Map skips
// empty cells.
func New(rows, cols int) (*Board, error) {
	return newBoard(rows, cols, nil)
}

func newBoard(rows, cols int, pictures [][]string) (*Board, error) {
	if rows < 1 || cols < 1 {
		return nil, errOutOfBoundsDims(rows, cols)
	}
	cfg := engineconfig.Default()
	cache, err := caching.NewRenderCache(cfg.RenderCacheSize)
	if err != nil {
		return nil, err
	}
	id := uuid.New()
	b := &Board{
		id:             id,
		rows:           rows,
		cols:           cols,
		players:        make(map[string]*Player),
		waiters:        make(map[Coord]*waiterQueue),
		lingering:      make(map[string]mapset.Set),
		changeWatchers: make(map[string][]*watcher),
		renderCache:    cache,
		logger:         logging.ForBoard(id.String()),
	}
	b.grid = make([][]*cell, rows)
	for r := 0; r < rows; r++ {
		b.grid[r] = make([]*cell, cols)
		for c := 0; c < cols; c++ {
			picture := ""
			if pictures != nil {
				picture = pictures[r][c]
			}
			coord := Coord{Row: r, Col: c}
			cl := &cell{}
			cl.machine = newCellMachine(CellEmpty, b.onCellTransition(coord))
			if picture != "none" && picture != "" {
				cl.picture = picture
				cl.machine.fire(cellEventDeal)
			}
			b.grid[r][c] = cl
		}
	}
	return b, nil
}

func errOutOfBoundsDims(rows, cols int) error {
	return fmt.Errorf("%w: dimensions must be >= 1, got %dx%d", ErrInvalidDimensions, rows, cols)
}

func (b *Board) onCellTransition(coord Coord) func(from, to, event string) {
	return func(from, to, event string) {
		b.logger.Debug().
			Int(logging.RowKey, coord.Row).
			Int(logging.ColKey, coord.Col).
			Str(logging.RuleKey, event).
			Msgf("cell %s -> %s", from, to)
	}
}

// NumRows returns the immutable row count.
func (b *Board) NumRows() int { return b.rows }

// NumCols returns the immutable column count.
func (b *Board) NumCols() int { return b.cols }

func (b *Board) inBounds(r, c int) bool {
	return r >= 0 && r < b.rows && c >= 0 && c < b.cols
}

// PictureAt returns the picture token at (r,c), or "" if the cell is
// empty.
func (b *Board) PictureAt(r, c int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inBounds(r, c) {
		return "", ErrOutOfBounds
	}
	return b.grid[r][c].picture, nil
}

// IsFaceUp reports whether the cell at (r,c) is currently face up.
func (b *Board) IsFaceUp(r, c int) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inBounds(r, c) {
		return false, ErrOutOfBounds
	}
	return b.grid[r][c].faceUp, nil
}

// ControllerAt returns the id of the player controlling (r,c), or "" if
// uncontrolled.
func (b *Board) ControllerAt(r, c int) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.inBounds(r, c) {
		return "", ErrOutOfBounds
	}
	return b.grid[r][c].controller, nil
}

// RegisterPlayer registers id, returning a Snapshot of its Player record.
// Registration is idempotent: re-registering an existing id leaves the
// existing record unchanged and returns its snapshot.
func (b *Board) RegisterPlayer(id string) (Snapshot, error) {
	if id == "" || strings.ContainsAny(id, " \t\n\r\f\v") {
		return Snapshot{}, ErrInvalidPlayerID
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.registerPlayerLocked(id)
	return p.snapshot(), nil
}

func (b *Board) registerPlayerLocked(id string) *Player {
	if p, ok := b.players[id]; ok {
		return p
	}
	p := &Player{ID: id}
	b.players[id] = p
	b.playerOrder = append(b.playerOrder, id)
	b.lingering[id] = mapset.NewThreadUnsafeSet()
	return p
}

// ListPlayers returns registered player ids in registration order.
func (b *Board) ListPlayers() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.playerOrder))
	copy(out, b.playerOrder)
	return out
}

// PlayerState returns a snapshot of the given player's state.
func (b *Board) PlayerState(id string) (Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.players[id]
	if !ok {
		return Snapshot{}, ErrUnknownPlayer
	}
	return p.snapshot(), nil
}

// PicturesDump serializes the current layout in the board-file grammar
// (spec §6), substituting "none" for empty cells.
func (b *Board) PicturesDump() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%dx%d\n", b.rows, b.cols)
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			cl := b.grid[r][c]
			if cl.isEmpty() {
				sb.WriteString("none\n")
			} else {
				sb.WriteString(cl.picture)
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// String returns a debug summary containing the board's dimensions.
func (b *Board) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return fmt.Sprintf("Board[%dx%d]", b.rows, b.cols)
}

// ID returns the board's process-unique identifier, used for log
// correlation when a host runs several boards at once.
func (b *Board) ID() string {
	return b.id.String()
}
