package embedded

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// ShutdownHook returns the function to run on process exit. It stops the
// database if it is still running, taking the exclusive lock once and
// calling the internal stop directly.
func (m *Manager) ShutdownHook() func() {
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.inst == nil {
			return
		}
		if err := m.stopLocked(); err != nil {
			m.log.WithError(err).Warn("shutdown hook failed to stop the database")
		}
	}
}

// StopOnSignal runs the shutdown hook when one of sigs arrives, by default
// SIGINT or SIGTERM. The returned function uninstalls the handler.
func (m *Manager) StopOnSignal(ctx context.Context, sigs ...os.Signal) (cancel func()) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	ctx, cancel = context.WithCancel(ctx)
	hook := m.ShutdownHook()
	go func() {
		defer signal.Stop(ch)
		select {
		case sig := <-ch:
			m.log.WithField("signal", sig.String()).Info("stopping database on signal")
			hook()
		case <-ctx.Done():
		}
	}()
	return cancel
}
