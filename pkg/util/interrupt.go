package util

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// InterruptContext returns a context cancelled on the first SIGINT or SIGTERM.
func InterruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// WaitForInterrupt blocks until ctx, usually from InterruptContext, is done
// and then runs callback.
func WaitForInterrupt(ctx context.Context, callback func()) {
	<-ctx.Done()
	if callback != nil {
		callback()
	}
}
