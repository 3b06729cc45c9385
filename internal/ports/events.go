package ports

import (
	"context"
	"time"
)

// AnalyticsEvent is a flat, string-valued record of something that happened at a table.
type AnalyticsEvent struct {
	Name       string
	Properties map[string]string
	Timestamp  time.Time
}

// EventPort publishes analytics events.
type EventPort interface {
	Emit(ctx context.Context, event AnalyticsEvent) error
}
