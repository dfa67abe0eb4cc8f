package common

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var interruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT}

// CancelOnInterrupt returns a context canceled by the first interrupt signal.
// A second signal calls force, which is expected not to return.
// Calling the returned cancel stops listening for signals.
func CancelOnInterrupt(parent context.Context, force func()) (context.Context, context.CancelFunc) {
	ctx, cancel, _ := cancelOnInterrupt(parent, force)
	return ctx, cancel
}

// cancelOnInterrupt also returns a channel closed once signals are no
// longer relayed.
func cancelOnInterrupt(parent context.Context, force func()) (context.Context, context.CancelFunc, <-chan struct{}) {
	ctx, cancel := context.WithCancel(parent)
	interrupt := make(chan os.Signal, 2)
	signal.Notify(interrupt, interruptSignals...)

	stop := make(chan struct{})
	var once sync.Once
	stopAll := func() {
		once.Do(func() { close(stop) })
		cancel()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer signal.Stop(interrupt)
		select {
		case <-ctx.Done():
			return
		case sig := <-interrupt:
			slog.Warn("Received signal", "signal", sig, "i", 0)
			cancel()
		}
		select {
		case <-stop:
		case sig := <-interrupt:
			slog.Warn("Received signal", "signal", sig, "i", 1)
			force()
		}
	}()
	return ctx, stopAll, done
}
