// Package notifier holds the alert.Observer implementations that deliver
// notifications outside the process.
package notifier

import (
	"codeberg.org/mutker/sysalert/internal/alert"
	"codeberg.org/mutker/sysalert/internal/logger"
)

// Log writes every notification to the structured log. Critical alerts are
// logged at error level.
type Log struct {
	log logger.Logger
}

var _ alert.Observer = (*Log)(nil)

func NewLog(log logger.Logger) *Log {
	return &Log{log: log}
}

func (l *Log) OnAlert(n alert.Notification) error {
	event := l.log.Warn()
	if n.Severity == alert.Critical {
		event = l.log.Error()
	}

	event.
		Str("id", n.ID).
		Str("type", n.Type.String()).
		Str("severity", n.Severity.String()).
		Float64("value", n.CurrentValue).
		Float64("threshold", n.Threshold).
		Msg(n.Title + ": " + n.Message)

	return nil
}
