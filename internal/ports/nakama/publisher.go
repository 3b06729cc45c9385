package nakama

import (
	"context"
	"strconv"
	"time"

	"github.com/heroiclabs/nakama-common/runtime"

	"blackjack/internal/app"
	"blackjack/internal/domain"
	"blackjack/internal/ports"
)

// publisher applies the side effects of a committed table mutation: the
// spectator feed, the wallet mirror and analytics events. Each is optional.
// Failures are logged and never undo the mutation.
type publisher struct {
	feeds   *feedDirectory
	economy ports.EconomyPort
	events  ports.EventPort
	now     func() time.Time

	// exists reports whether a match is still registered. A feed opened for a
	// match deleted in the meantime is closed again.
	exists func(ctx context.Context, matchID string) bool
}

// Publish dispatches the events raised by one operation. snapshot is the
// match right after the operation, or nil when the match is gone.
func (p *publisher) Publish(ctx context.Context, logger runtime.Logger, snapshot *domain.Match, events []app.Event) {
	if len(events) == 0 {
		return
	}
	logger = logger.WithField("matchId", events[0].MatchID)

	var settlement *domain.Settlement
	for _, ev := range events {
		switch ev.Kind {
		case app.EventMatchCreated:
			if p.feeds != nil {
				p.openFeed(ctx, logger, ev.MatchID)
			}
		case app.EventMatchDeleted:
			if p.feeds != nil {
				if err := p.feeds.Close(ctx, ev.MatchID); err != nil {
					logger.Error("publish: %v", err)
				}
			}
		case app.EventMatchSettled:
			payload := ev.Payload.(app.MatchSettledPayload)
			settlement = &payload.Settlement
		}
		p.emit(ctx, logger, ev)
	}

	if p.feeds != nil && snapshot != nil {
		var settled *settlementDTO
		if settlement != nil {
			dto := settlementToDTO(snapshot.ID, *settlement)
			settled = &dto
		}
		if err := p.feeds.Publish(ctx, matchToDTO(*snapshot, p.feeds.Lookup(snapshot.ID)), settled); err != nil {
			logger.Error("publish: %v", err)
		}
	}

	if p.economy != nil && settlement != nil && snapshot != nil {
		p.mirrorWallets(ctx, logger, *snapshot, *settlement)
	}
}

// openFeed starts the feed of a new match. The feed is registered before the
// existence check, so a concurrent delete either finds it or is seen here.
func (p *publisher) openFeed(ctx context.Context, logger runtime.Logger, matchID string) {
	if _, err := p.feeds.Open(ctx, matchID); err != nil {
		logger.Error("publish: %v", err)
		return
	}
	if p.exists == nil || p.exists(ctx, matchID) {
		return
	}
	logger.Warn("publish: Match deleted while its feed opened, closing feed")
	if err := p.feeds.Close(ctx, matchID); err != nil {
		logger.Error("publish: %v", err)
	}
}

func (p *publisher) mirrorWallets(ctx context.Context, logger runtime.Logger, m domain.Match, s domain.Settlement) {
	updates := make([]ports.WalletUpdate, 0, len(s.Outcomes))
	for _, o := range s.Outcomes {
		if o.UserID == "" || o.Net == 0 {
			continue
		}
		updates = append(updates, ports.WalletUpdate{
			UserID: o.UserID,
			Amount: o.Net,
			Metadata: map[string]interface{}{
				walletReasonKey: walletReasonValue,
				"matchId":       m.ID,
				"playerId":      o.PlayerID,
				"round":         m.Round,
				"result":        string(o.Result),
			},
		})
	}
	if len(updates) == 0 {
		return
	}
	if err := p.economy.UpdateBalances(ctx, updates); err != nil {
		logger.Error("publish: wallet mirror failed after settlement: %v", err)
	}
}

func (p *publisher) emit(ctx context.Context, logger runtime.Logger, ev app.Event) {
	if p.events == nil {
		return
	}
	event := ports.AnalyticsEvent{
		Name:       eventNamePrefix + string(ev.Kind),
		Properties: eventProperties(ev),
		Timestamp:  p.now(),
	}
	if err := p.events.Emit(ctx, event); err != nil {
		logger.Error("publish: emit %s: %v", event.Name, err)
	}
}

// eventProperties flattens an event payload into string properties.
func eventProperties(ev app.Event) map[string]string {
	props := map[string]string{"matchId": ev.MatchID}
	switch payload := ev.Payload.(type) {
	case app.MatchCreatedPayload:
		props["round"] = strconv.Itoa(payload.Round)
		if payload.PreviousMatchID != "" {
			props["previousMatchId"] = payload.PreviousMatchID
		}
	case app.PlayerJoinedPayload:
		props["playerId"] = payload.PlayerID
		props["userId"] = payload.UserID
		props["balance"] = strconv.FormatInt(payload.Balance, 10)
	case app.BetPlacedPayload:
		props["playerId"] = payload.PlayerID
		props["amount"] = strconv.FormatInt(payload.Amount, 10)
		props["balance"] = strconv.FormatInt(payload.Balance, 10)
	case app.CardDrawnPayload:
		props["playerId"] = payload.PlayerID
		props["card"] = strconv.Itoa(payload.Card)
		props["total"] = strconv.Itoa(payload.Total)
	case app.PlayerStoodPayload:
		props["playerId"] = payload.PlayerID
		props["total"] = strconv.Itoa(payload.Total)
	case app.PlayerBustedPayload:
		props["playerId"] = payload.PlayerID
		props["total"] = strconv.Itoa(payload.Total)
	case app.DealerPlayedPayload:
		props["cards"] = strconv.Itoa(len(payload.Hand))
		props["total"] = strconv.Itoa(payload.Total)
	case app.MatchSettledPayload:
		props["dealerTotal"] = strconv.Itoa(payload.Settlement.DealerTotal)
		props["players"] = strconv.Itoa(len(payload.Settlement.Outcomes))
	}
	return props
}
