// Package schedule turns a period into a lazy sequence of ticks.
package schedule

import (
	"context"
	"iter"
	"time"
)

// Tick is one scheduled advance. N counts from 1 within a single iteration.
type Tick struct {
	N  int
	At time.Time
}

// Every yields a Tick each period until ctx is done or the consumer stops.
// The sequence is restartable: every range over it starts a fresh timer.
// A non-positive period yields nothing.
func Every(ctx context.Context, period time.Duration) iter.Seq[Tick] {
	return func(yield func(Tick) bool) {
		if period <= 0 {
			return
		}
		ticker := time.NewTicker(period)
		defer ticker.Stop()

		for n := 1; ; n++ {
			select {
			case <-ctx.Done():
				return
			case at := <-ticker.C:
				if !yield(Tick{N: n, At: at}) {
					return
				}
			}
		}
	}
}

// Take yields at most n ticks from seq.
func Take(seq iter.Seq[Tick], n int) iter.Seq[Tick] {
	return func(yield func(Tick) bool) {
		if n <= 0 {
			return
		}
		taken := 0
		for t := range seq {
			if !yield(t) {
				return
			}
			taken++
			if taken >= n {
				return
			}
		}
	}
}
