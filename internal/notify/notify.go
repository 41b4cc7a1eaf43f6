// Package notify is the toast/partner-event sink the engine talks to.
// Delivery is fire-and-forget: the engine never waits on it and failures
// are swallowed, so reward computation cannot be blocked by a sink.
package notify

import "go.uber.org/zap"

type Notifier interface {
	// Toast surfaces a short user-facing message (habit penalty,
	// completion summary). Best effort.
	Toast(msg string)

	// PartnerEvent dispatches an event about a shared/co-op task to the
	// paired partner's device. Best effort; transport lives elsewhere.
	PartnerEvent(kind, taskTitle string)
}

// LogNotifier writes notifications to the structured log. It is the
// default sink when no platform delivery is wired in.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Toast(msg string) {
	n.log.Info("toast", zap.String("message", msg))
}

func (n *LogNotifier) PartnerEvent(kind, taskTitle string) {
	n.log.Info("partner event", zap.String("kind", kind), zap.String("task", taskTitle))
}

// Nop discards everything.
type Nop struct{}

func (Nop) Toast(string) {}

func (Nop) PartnerEvent(string, string) {}
