package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogNotifier writes messages to the process log. It stands in when no
// Telegram credentials are configured, matching delivery semantics without
// the external dependency at runtime.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) Send(_ context.Context, text string) error {
	n.Logger.Info("notification", zap.String("text", text))
	return nil
}
