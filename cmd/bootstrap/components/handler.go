package components

import (
	"mention-relay/internal/handler"
	"mention-relay/internal/handler/api"
	"mention-relay/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewNotificationHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
