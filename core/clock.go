package core

import "sync"

// Clock is the ledger's block clock. Engines read height and time from it;
// nothing advances it except Advance.
type Clock struct {
	mu     sync.RWMutex
	height uint64
	now    int64
}

// NewClock starts a clock at height and unix time now.
func NewClock(height uint64, now int64) *Clock {
	return &Clock{height: height, now: now}
}

// Height is the current block height.
func (c *Clock) Height() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.height
}

// Now is the current block time in unix seconds.
func (c *Clock) Now() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

// Advance moves the clock forward by blocks and seconds and returns the new
// height and time.
func (c *Clock) Advance(blocks uint64, seconds int64) (uint64, int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height += blocks
	if seconds > 0 {
		c.now += seconds
	}
	return c.height, c.now
}

// Stamp returns height and time together.
func (c *Clock) Stamp() (uint64, int64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.height, c.now
}
