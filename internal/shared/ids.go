package shared

import "sync/atomic"

// IDGenerator hands out product ids. Ids are never reused within a session.
type IDGenerator interface {
	Next() int
}

// Counter is a monotonic IDGenerator safe for concurrent use.
type Counter struct {
	last atomic.Int64
}

// NewCounter returns a counter whose first id is start.
func NewCounter(start int) *Counter {
	c := &Counter{}
	c.last.Store(int64(start) - 1)
	return c
}

// Next returns the next id.
func (c *Counter) Next() int {
	return int(c.last.Add(1))
}
