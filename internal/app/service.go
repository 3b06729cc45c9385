package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"blackjack/internal/domain"
	apperrors "blackjack/internal/errors"
	"blackjack/internal/random"
)

const tracerName = "blackjack/internal/app"

// Service contains blackjack use-cases operating on registry-owned matches.
// All methods are safe for concurrent use; each match is mutated under its own lock.
type Service struct {
	registry *Registry
	deck     domain.CardDrawer
	rules    domain.Rules
	tracer   trace.Tracer
}

// NewService constructs a Service over registry. deck may be nil to use a
// crypto-seeded random source.
func NewService(registry *Registry, deck domain.CardDrawer, rules domain.Rules) *Service {
	if deck == nil {
		src, err := random.NewFromEntropy()
		if err != nil {
			src = random.New(time.Now().UnixNano())
		}
		deck = src
	}
	return &Service{
		registry: registry,
		deck:     deck,
		rules:    rules,
		tracer:   otel.Tracer(tracerName),
	}
}

// Rules returns the table rules matches are played under.
func (s *Service) Rules() domain.Rules {
	return s.rules
}

// CreateMatch opens a new empty match.
func (s *Service) CreateMatch(ctx context.Context) (domain.Match, []Event) {
	_, span := s.tracer.Start(ctx, "app.CreateMatch")
	defer span.End()

	snapshot := s.registry.Create().Snapshot()
	span.SetAttributes(attribute.String("match.id", snapshot.ID))
	return snapshot, []Event{{
		Kind:    EventMatchCreated,
		MatchID: snapshot.ID,
		Payload: MatchCreatedPayload{Round: snapshot.Round},
	}}
}

// DeleteMatch removes a match. It reports false for unknown ids, including
// ids that were already deleted.
func (s *Service) DeleteMatch(ctx context.Context, matchID string) (bool, []Event) {
	_, span := s.tracer.Start(ctx, "app.DeleteMatch", trace.WithAttributes(attribute.String("match.id", matchID)))
	defer span.End()

	if !s.registry.Remove(matchID) {
		span.SetAttributes(attribute.Bool("match.found", false))
		return false, nil
	}
	return true, []Event{{Kind: EventMatchDeleted, MatchID: matchID}}
}

// ListMatches returns snapshots of every live match in creation order.
func (s *Service) ListMatches(ctx context.Context) []domain.Match {
	_, span := s.tracer.Start(ctx, "app.ListMatches")
	defer span.End()

	tables := s.registry.List()
	out := make([]domain.Match, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.Snapshot())
	}
	span.SetAttributes(attribute.Int("match.count", len(out)))
	return out
}

// GetMatch returns a snapshot of one match.
func (s *Service) GetMatch(ctx context.Context, matchID string) (domain.Match, bool) {
	_, span := s.tracer.Start(ctx, "app.GetMatch", trace.WithAttributes(attribute.String("match.id", matchID)))
	defer span.End()

	t, ok := s.registry.Find(matchID)
	if !ok {
		return domain.Match{}, false
	}
	return t.Snapshot(), true
}

// AddPlayer seats a new player. userID records the caller and may be empty.
func (s *Service) AddPlayer(ctx context.Context, matchID, userID string) (player domain.Player, events []Event, err error) {
	_, span := s.tracer.Start(ctx, "app.AddPlayer", trace.WithAttributes(attribute.String("match.id", matchID)))
	defer func() { endSpan(span, err) }()

	t, err := s.lockTable(matchID)
	if err != nil {
		return domain.Player{}, nil, err
	}
	defer t.mu.Unlock()

	p, err := t.match.AddPlayer(s.registry.ids.NewID(), userID, s.rules)
	if err != nil {
		return domain.Player{}, nil, err
	}
	span.SetAttributes(attribute.String("player.id", p.ID))
	return *p.Clone(), []Event{{
		Kind:    EventPlayerJoined,
		MatchID: matchID,
		Payload: PlayerJoinedPayload{PlayerID: p.ID, UserID: p.UserID, Balance: p.Balance},
	}}, nil
}

// PlaceBet stakes amount chips for the player's current round.
func (s *Service) PlaceBet(ctx context.Context, matchID, playerID string, amount int64) (player domain.Player, events []Event, err error) {
	_, span := s.tracer.Start(ctx, "app.PlaceBet", trace.WithAttributes(
		attribute.String("match.id", matchID),
		attribute.String("player.id", playerID),
		attribute.Int64("bet.amount", amount),
	))
	defer func() { endSpan(span, err) }()

	t, err := s.lockTable(matchID)
	if err != nil {
		return domain.Player{}, nil, err
	}
	defer t.mu.Unlock()

	p, err := t.match.PlaceBet(playerID, amount)
	if err != nil {
		return domain.Player{}, nil, err
	}
	return *p.Clone(), []Event{{
		Kind:    EventBetPlaced,
		MatchID: matchID,
		Payload: BetPlacedPayload{PlayerID: p.ID, Amount: amount, Balance: p.Balance},
	}}, nil
}

// Act applies a player's move. When it leaves no active player, the dealer
// plays and the match settles before the snapshot is taken.
func (s *Service) Act(ctx context.Context, matchID, playerID string, move domain.Move) (match domain.Match, events []Event, err error) {
	_, span := s.tracer.Start(ctx, "app.Act", trace.WithAttributes(
		attribute.String("match.id", matchID),
		attribute.String("player.id", playerID),
		attribute.String("move", move.String()),
	))
	defer func() { endSpan(span, err) }()

	t, err := s.lockTable(matchID)
	if err != nil {
		return domain.Match{}, nil, err
	}
	defer t.mu.Unlock()

	settlement, err := t.match.Act(playerID, move, s.deck, s.rules)
	if err != nil {
		return domain.Match{}, nil, err
	}

	p, _ := domain.FindPlayer(t.match, playerID)
	total := domain.HandTotal(p.Hand)
	switch move {
	case domain.MoveDrawCard:
		events = append(events, Event{
			Kind:    EventCardDrawn,
			MatchID: matchID,
			Payload: CardDrawnPayload{PlayerID: playerID, Card: p.Hand[len(p.Hand)-1], Total: total},
		})
		if !p.Active {
			events = append(events, Event{
				Kind:    EventPlayerBusted,
				MatchID: matchID,
				Payload: PlayerBustedPayload{PlayerID: playerID, Total: total},
			})
		}
	case domain.MoveStand:
		events = append(events, Event{
			Kind:    EventPlayerStood,
			MatchID: matchID,
			Payload: PlayerStoodPayload{PlayerID: playerID, Total: total},
		})
	}

	if settlement != nil {
		span.SetAttributes(attribute.Bool("match.settled", true), attribute.Int("dealer.total", settlement.DealerTotal))
		events = append(events,
			Event{
				Kind:    EventDealerPlayed,
				MatchID: matchID,
				Payload: DealerPlayedPayload{Hand: append([]int{}, t.match.DealerHand...), Total: settlement.DealerTotal},
			},
			Event{
				Kind:    EventMatchSettled,
				MatchID: matchID,
				Payload: MatchSettledPayload{Settlement: *settlement},
			},
		)
	}

	return t.match.Clone(), events, nil
}

// Stand is Act with MoveStand.
func (s *Service) Stand(ctx context.Context, matchID, playerID string) (domain.Match, []Event, error) {
	return s.Act(ctx, matchID, playerID, domain.MoveStand)
}

// Rematch opens the next round of a finished match as a new match that keeps
// every player's id and balance. The finished match stays FINISHED and
// records the successor's id; a second rematch of it is InvalidState.
func (s *Service) Rematch(ctx context.Context, matchID string) (match domain.Match, events []Event, err error) {
	_, span := s.tracer.Start(ctx, "app.Rematch", trace.WithAttributes(attribute.String("match.id", matchID)))
	defer func() { endSpan(span, err) }()

	prev, err := s.lockTable(matchID)
	if err != nil {
		return domain.Match{}, nil, err
	}
	defer prev.mu.Unlock()

	if !prev.match.Finished() {
		return domain.Match{}, nil, domain.ErrMatchNotFinished
	}
	next, err := s.registry.Adopt(func(id string, createdAt time.Time) (*domain.Match, error) {
		return prev.match.NextRound(id, createdAt)
	})
	if err != nil {
		return domain.Match{}, nil, err
	}

	snapshot := next.Snapshot()
	span.SetAttributes(attribute.String("rematch.id", snapshot.ID))
	return snapshot, []Event{{
		Kind:    EventMatchCreated,
		MatchID: snapshot.ID,
		Payload: MatchCreatedPayload{Round: snapshot.Round, PreviousMatchID: matchID},
	}}, nil
}

// lockTable finds the match and returns its table locked.
func (s *Service) lockTable(matchID string) (*Table, error) {
	t, ok := s.registry.Find(matchID)
	if !ok {
		return nil, domain.ErrMatchNotFound
	}
	t.mu.Lock()
	return t, nil
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
		span.SetAttributes(attribute.String("error.code", string(apperrors.CodeOf(err))))
	}
	span.End()
}
