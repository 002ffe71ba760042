package components

import (
	"log/slog"

	"mention-relay/internal/infra/mailer"
	"mention-relay/internal/infra/queue"
	"mention-relay/internal/infra/readstore"
	repo_impl "mention-relay/internal/infra/repository"
	"mention-relay/internal/pkg/config"
	"mention-relay/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		repo_impl.NewNotificationRepository,
		repo_impl.NewUserRepository,
		NewQueue,
		NewMailer,
		// Read-side store backing the notification queries
		readstore.NewNotificationReadStore,
	),
)

func NewQueue(pool *pgxpool.Pool, cfg config.Config) shared.Queue {
	return queue.NewPostgresQueue(pool, cfg.Queue)
}

func NewMailer(cfg config.Config, logger *slog.Logger) shared.Mailer {
	return mailer.NewSMTPMailer(cfg.SMTP, logger)
}
