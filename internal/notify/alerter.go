package notify

import "log/slog"

// LogAlerter is the server-side stand-in for the admin UI's audible cue and
// toast: every materialized notification is logged, with the sound flag
// carried through for the consuming client.
type LogAlerter struct {
	logger *slog.Logger
}

func NewLogAlerter(logger *slog.Logger) *LogAlerter {
	return &LogAlerter{logger: logger}
}

func (a *LogAlerter) Alert(n Notification, sound bool) {
	a.logger.Info("order notification",
		"order_id", n.OrderID,
		"order_number", n.OrderNumber,
		"message", n.Message,
		"sound", sound,
	)
}
