package board

import (
	"github.com/google/uuid"
)

// ChangeSink receives a player's render the next time the board mutates.
// It is delivered exactly once; to observe a later change the host must
// call AddChangeWatcher again.
type ChangeSink func(render string)

// watcher pairs a sink with a registration token so a host can tell two
// registrations apart in logs (spec §4.4 calls these "one-shot delivery
// sinks"; the token is purely a logging/debugging aid, grounded in the
// teacher's pervasive use of uuid.New() for correlating ephemeral
// registrations).
type watcher struct {
	id   uuid.UUID
	sink ChangeSink
}

// AddChangeWatcher appends a one-shot sink for playerID. On the board's
// next mutation, every registered sink (across all players) is delivered
// its player-specific render, then the entire watcher map is cleared.
// Returns the registration token for log correlation.
func (b *Board) AddChangeWatcher(playerID string, sink ChangeSink) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.players[playerID]; !ok {
		return "", ErrUnknownPlayer
	}
	w := &watcher{id: uuid.New(), sink: sink}
	b.changeWatchers[playerID] = append(b.changeWatchers[playerID], w)
	return w.id.String(), nil
}

// notifyWatchers swaps out the watcher map and computes the renders under
// the caller's lock, then releases b.mu while it delivers them and
// re-acquires it before returning, per spec §9's
// guidance: "swap the map with an empty one under the lock, then deliver
// renders outside the lock to avoid re-entrancy."
func (b *Board) notifyWatchers() {
	if len(b.changeWatchers) == 0 {
		return
	}
	fired := b.changeWatchers
	b.changeWatchers = make(map[string][]*watcher)

	type delivery struct {
		sink   ChangeSink
		render string
	}
	var deliveries []delivery
	for playerID, watchers := range fired {
		render := b.renderLocked(playerID)
		for _, w := range watchers {
			deliveries = append(deliveries, delivery{sink: w.sink, render: render})
		}
	}
	b.mu.Unlock()
	for _, d := range deliveries {
		d.sink(d.render)
	}
	b.mu.Lock()
}
