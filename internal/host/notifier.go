package host

import (
	"log/slog"

	"github.com/starford/mysnippets/internal/sse"
)

// LogNotifier writes notices and events to a logger. It stands in for the
// SSE broker when no front end is attached, e.g. when serving MCP over stdio.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements menu.Notifier.
func (n LogNotifier) Notify(message string) {
	n.Logger.Info("notice", slog.String("message", message))
}

// Publish implements Publisher.
func (n LogNotifier) Publish(event sse.Event) {
	n.Logger.Info("event", slog.String("type", event.Type), slog.Any("data", event.Data))
}
