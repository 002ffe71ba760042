package components

import (
	"context"
	"log/slog"

	"mention-relay/internal/pkg/clock"
	"mention-relay/internal/pkg/config"
	"mention-relay/internal/usecase/commands"
	"mention-relay/internal/usecase/shared"
	"mention-relay/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		worker.NewSlogEvents,
		NewWorkerPool,
	),
	fx.Invoke(startWorkerPool),
)

func NewWorkerPool(
	queue shared.Queue,
	dispatcher commands.Dispatcher,
	events worker.Events,
	clk clock.Clock,
	logger *slog.Logger,
	cfg config.Config,
) *worker.Pool {
	return worker.NewPool(queue, dispatcher, events, clk, logger, cfg.Queue)
}

func startWorkerPool(lc fx.Lifecycle, pool *worker.Pool, logger *slog.Logger) {
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			pool.Start(ctx)
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()

			done := make(chan struct{})
			go func() {
				pool.Wait()
				close(done)
			}()

			select {
			case <-done:
				logger.Info("worker pool drained")
				return nil
			case <-stopCtx.Done():
				logger.Warn("worker pool shutdown timed out")
				return stopCtx.Err()
			}
		},
	})
}
