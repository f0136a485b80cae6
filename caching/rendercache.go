// Package caching adapts the teacher's LRU-backed lookup cache
// (originally a game-code <-> game-id cache keyed by uint64/string) into
// a per-player render cache for the board engine: same NewCache/Add/Get
// shape, same hashicorp/golang-lru backing, repurposed to cache a
// player's rendered board snapshot until the next mutation invalidates
// the whole thing.
package caching

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// RenderCache memoizes a player's Render() output between mutations.
type RenderCache struct {
	byPlayer *lru.Cache
}

// NewRenderCache returns a cache holding at most size player renders.
func NewRenderCache(size int) (*RenderCache, error) {
	byPlayer, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "unable to initialize render cache")
	}
	return &RenderCache{byPlayer: byPlayer}, nil
}

// Get returns the cached render for playerID, if any.
func (c *RenderCache) Get(playerID string) (string, bool) {
	v, ok := c.byPlayer.Get(playerID)
	if !ok {
		return "", false
	}
	return v.(string), true
}

// Put stores render for playerID.
func (c *RenderCache) Put(playerID string, render string) {
	c.byPlayer.Add(playerID, render)
}

// Purge drops every cached render. Called on every board mutation, since
// a mutation can change what any player's render would show.
func (c *RenderCache) Purge() {
	c.byPlayer.Purge()
}
