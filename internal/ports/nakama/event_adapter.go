package nakama

import (
	"context"

	"github.com/heroiclabs/nakama-common/api"
	"google.golang.org/protobuf/types/known/timestamppb"

	"blackjack/internal/ports"
)

// EventSender is the slice of runtime.NakamaModule the event adapter needs.
type EventSender interface {
	Event(ctx context.Context, evt *api.Event) error
}

// NakamaEventAdapter implements ports.EventPort with Nakama's event pipeline.
type NakamaEventAdapter struct {
	sender EventSender
}

func NewNakamaEventAdapter(sender EventSender) *NakamaEventAdapter {
	return &NakamaEventAdapter{sender: sender}
}

// Emit forwards event to Nakama as an internal (non-external) event.
func (a *NakamaEventAdapter) Emit(ctx context.Context, event ports.AnalyticsEvent) error {
	return a.sender.Event(ctx, &api.Event{
		Name:       event.Name,
		Properties: event.Properties,
		Timestamp:  timestamppb.New(event.Timestamp),
		External:   false,
	})
}
