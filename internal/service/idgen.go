package service

import (
	"sync"
	"time"
)

// IDGenerator issues message ids from the wall clock in milliseconds,
// bumping by one whenever the clock has not advanced past the last id.
type IDGenerator struct {
	mu   sync.Mutex
	last int64
}

// Next returns an id strictly greater than every id it returned before.
func (g *IDGenerator) Next(now time.Time) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := now.UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
