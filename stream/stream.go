/*
Package stream moves batch inputs through channel stages.

Every stage closes its output when its input is exhausted or ctx is done,
whichever comes first, so a cancelled batch drains without leaking
goroutines.
*/
package stream

import (
	"context"
)

// Slice sends the elements of in, in order, until ctx is done.
func Slice[T any](ctx context.Context, in []T) <-chan T {
	out := make(chan T)
	go func() {
		defer close(out)
		for _, v := range in {
			select {
			case <-ctx.Done():
				return
			case out <- v:
			}
		}
	}()
	return out
}

// Map sends fn(v) for every v received from in, keeping the order of in.
// Up to workers calls of fn run at once; fewer than 1 means 1.
// Once ctx is done no further calls start and results still in flight
// are dropped.
func Map[I, O any](ctx context.Context, workers int, fn func(I) O, in <-chan I) <-chan O {
	if workers < 1 {
		workers = 1
	}
	// Each queued slot is one call of fn; the reader below holds one more.
	pending := make(chan chan O, workers-1)
	go func() {
		defer close(pending)
		for {
			var v I
			select {
			case <-ctx.Done():
				return
			case next, ok := <-in:
				if !ok {
					return
				}
				v = next
			}
			slot := make(chan O, 1)
			select {
			case <-ctx.Done():
				return
			case pending <- slot:
			}
			go func() { slot <- fn(v) }()
		}
	}()

	out := make(chan O)
	go func() {
		defer close(out)
		for slot := range pending {
			var r O
			select {
			case <-ctx.Done():
				return
			case r = <-slot:
			}
			select {
			case <-ctx.Done():
				return
			case out <- r:
			}
		}
	}()
	return out
}

// Collect gathers everything received from in until it closes or ctx is done.
func Collect[T any](ctx context.Context, in <-chan T) []T {
	out := make([]T, 0)
	for {
		select {
		case <-ctx.Done():
			return out
		case v, ok := <-in:
			if !ok {
				return out
			}
			out = append(out, v)
		}
	}
}
