package shutdown

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/honeycarbs/skillgraph/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Closer releases a resource after the server has stopped
type Closer func(ctx context.Context) error

// Graceful blocks until one of signals arrives, stops s, then runs closers in
// order. All of it shares a single timeout.
func Graceful(signals []os.Signal, s Stoppable, timeout time.Duration, log *logging.Logger, closers ...Closer) {
	sigCtx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	Stop(ctx, s, log, closers...)
}

// Stop shuts s down and runs closers, logging failures instead of returning them.
func Stop(ctx context.Context, s Stoppable, log *logging.Logger, closers ...Closer) {
	if err := s.Shutdown(ctx); err != nil {
		log.Warn("graceful shutdown completed with error", "err", err)
	} else {
		log.Info("graceful shutdown completed successfully")
	}

	for _, c := range closers {
		if c == nil {
			continue
		}
		if err := c(ctx); err != nil {
			log.Warn("failed to release resource", "err", err)
		}
	}
}
