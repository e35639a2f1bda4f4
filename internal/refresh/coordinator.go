// Package refresh holds the process-local invalidation counter that every
// successful mutation bumps.
package refresh

import "sync/atomic"

// Token only supports inequality: a changed token means derived data may be
// stale. It is never persisted.
type Token uint64

type Coordinator struct {
	token atomic.Uint64
}

func NewCoordinator() *Coordinator {
	return &Coordinator{}
}

// Bump is called after a create, update or delete has been acknowledged.
// Concurrent bumps never lose an increment.
func (c *Coordinator) Bump() Token {
	return Token(c.token.Add(1))
}

func (c *Coordinator) Current() Token {
	return Token(c.token.Load())
}

// Changed reports whether anything was bumped since seen was read.
func (c *Coordinator) Changed(seen Token) bool {
	return c.Current() != seen
}
