package app

import (
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/sonemaro/menuscan/pkg/logger"
)

// signalHandler tracks SIGINT/SIGTERM delivery. The first signal cancels the
// running scan; the second exits immediately.
type signalHandler struct {
	ch       chan os.Signal
	done     chan struct{}
	received atomic.Int32
	once     sync.Once

	// exit terminates the process on the second signal
	exit func(code int)
}

// setupSignalHandling initializes signal handling for graceful shutdown
func (a *App) setupSignalHandling() {
	a.log.Debug("Initializing signal handlers")

	a.signals.ch = make(chan os.Signal, 2)
	a.signals.done = make(chan struct{})
	if a.signals.exit == nil {
		a.signals.exit = os.Exit
	}

	signal.Notify(a.signals.ch, syscall.SIGINT, syscall.SIGTERM)
	go a.handleSignals()
}

// handleSignals processes incoming system signals
func (a *App) handleSignals() {
	for {
		select {
		case <-a.signals.done:
			return
		case sig := <-a.signals.ch:
			n := a.signals.received.Add(1)

			a.log.WithFields(logger.Fields{
				"signal": sig.String(),
				"count":  n,
			}).Debug("Received system signal")

			if n == 1 {
				a.log.Warn("Interrupt received, stopping scan (repeat to force exit)")
				a.cancel()
				continue
			}

			a.log.Warn("Received second interrupt, forcing exit")
			a.mu.Lock()
			if a.progress != nil {
				a.progress.Stop()
			}
			a.mu.Unlock()
			a.signals.exit(130)
			return
		}
	}
}

func (s *signalHandler) stop() {
	s.once.Do(func() {
		if s.ch != nil {
			signal.Stop(s.ch)
		}
		if s.done != nil {
			close(s.done)
		}
	})
}
