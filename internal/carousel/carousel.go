// Package carousel holds the position arithmetic for rotating strips.
package carousel

import (
	"context"
	"iter"
	"math"
	"sync/atomic"

	"agentzone/internal/schedule"
)

// Wrap maps offset into [0, width). A strip rendered twice side by side has a
// loop width of half its scroll width; wrapping at that point is seamless.
// A non-positive width always yields 0.
func Wrap(offset, width float64) float64 {
	if width <= 0 || math.IsNaN(offset) || math.IsInf(offset, 0) {
		return 0
	}
	w := math.Mod(offset, width)
	if w < 0 {
		w += width
	}
	return w
}

// Advance moves offset by step and wraps it.
func Advance(offset, step, width float64) float64 {
	return Wrap(offset+step, width)
}

// Next returns the index after i in a ring of n items.
func Next(i, n int) int {
	if n <= 0 {
		return 0
	}
	return ((i+1)%n + n) % n
}

// Rotator advances an index on every tick. Readers call Current from any
// goroutine.
type Rotator struct {
	n       atomic.Int64
	current atomic.Int64
}

func NewRotator(n int) *Rotator {
	r := &Rotator{}
	r.n.Store(int64(n))
	return r
}

// Resize changes the ring size, keeping the index in range.
func (r *Rotator) Resize(n int) {
	r.n.Store(int64(n))
	if n <= 0 {
		r.current.Store(0)
		return
	}
	r.current.Store(r.current.Load() % int64(n))
}

func (r *Rotator) Current() int {
	return int(r.current.Load())
}

// Step advances to the next index and returns it.
func (r *Rotator) Step() int {
	next := Next(int(r.current.Load()), int(r.n.Load()))
	r.current.Store(int64(next))
	return next
}

// Run steps once per tick until ticks ends or ctx is done.
func (r *Rotator) Run(ctx context.Context, ticks iter.Seq[schedule.Tick]) {
	for range ticks {
		if ctx.Err() != nil {
			return
		}
		r.Step()
	}
}
