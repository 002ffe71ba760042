package components

import (
	"mention-relay/internal/pkg/clock"
	"mention-relay/internal/pkg/config"
	"mention-relay/internal/usecase"
	"mention-relay/internal/usecase/commands"
	"mention-relay/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseValidatorsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewProducer,
		NewMentionFanout,
		commands.NewEmailDelivery,
		commands.NewDispatcher,
		commands.NewNotificationCommands,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewMentionFanout(
	users shared.IdentityResolver,
	notifications shared.NotificationRepository,
	producer commands.Producer,
	clk clock.Clock,
	cfg config.Config,
) commands.MentionFanout {
	return commands.NewMentionFanout(users, notifications, producer, clk, cfg.Queue.EmailFanout)
}
