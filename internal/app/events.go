package app

import "blackjack/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventMatchCreated EventKind = "match_created"
	EventMatchDeleted EventKind = "match_deleted"
	EventPlayerJoined EventKind = "player_joined"
	EventBetPlaced    EventKind = "bet_placed"
	EventCardDrawn    EventKind = "card_drawn"
	EventPlayerStood  EventKind = "player_stood"
	EventPlayerBusted EventKind = "player_busted"
	EventDealerPlayed EventKind = "dealer_played"
	EventMatchSettled EventKind = "match_settled"
)

// Event is a domain/app event tied to one match.
type Event struct {
	Kind    EventKind
	MatchID string
	Payload any
}

type MatchCreatedPayload struct {
	Round           int
	PreviousMatchID string
}

type PlayerJoinedPayload struct {
	PlayerID string
	UserID   string
	Balance  int64
}

type BetPlacedPayload struct {
	PlayerID string
	Amount   int64
	Balance  int64
}

type CardDrawnPayload struct {
	PlayerID string
	Card     int
	Total    int
}

type PlayerStoodPayload struct {
	PlayerID string
	Total    int
}

type PlayerBustedPayload struct {
	PlayerID string
	Total    int
}

type DealerPlayedPayload struct {
	Hand  []int
	Total int
}

type MatchSettledPayload struct {
	Settlement domain.Settlement
}
