package tracker

import (
	"log/slog"
)

// CallEvent records metadata about a single tracker request.
type CallEvent struct {
	Path      string
	LatencyMs int64
	Success   bool
	ErrorCode string
	Records   int
}

// Observer receives events about tracker calls.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes tracker call events to a slog.Logger.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver creates an Observer that logs events through logger.
func NewLogObserver(logger *slog.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	if !event.Success {
		o.logger.Warn("tracker_call", "path", event.Path, "latency_ms", event.LatencyMs, "error_code", event.ErrorCode)
		return
	}
	o.logger.Debug("tracker_call", "path", event.Path, "latency_ms", event.LatencyMs, "records", event.Records)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
