package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/armadaproject/bootstats/internal/common/bootcontext"
)

// CreateContextWithShutdown returns a context that is cancelled when SIGINT or SIGTERM is received.
// SLURM sends SIGTERM to a job that reaches its time limit, which lets the task stop between iterations.
func CreateContextWithShutdown(parent *bootcontext.Context) (*bootcontext.Context, context.CancelFunc) {
	ctx, cancel := bootcontext.WithCancel(parent)
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		defer signal.Stop(c)
		select {
		case sig := <-c:
			ctx.Log.Warnf("Received %s, shutting down", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
