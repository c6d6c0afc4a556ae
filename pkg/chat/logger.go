package chat

import (
	"context"
	"log/slog"

	"github.com/jmuk/recipes/pkg/session"
)

func getLogger(ctx context.Context) *slog.Logger {
	logger, err := session.LoggerFromContext(ctx, "chat")
	if err != nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
