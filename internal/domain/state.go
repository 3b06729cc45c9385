package domain

import (
	"strings"
	"time"

	apperrors "blackjack/internal/errors"
)

// Status represents the lifecycle stage of a blackjack match.
type Status string

const (
	// StatusInProgress is the state where players bet and act.
	StatusInProgress Status = "IN_PROGRESS"
	// StatusFinished is the terminal state after the dealer played and bets settled.
	StatusFinished Status = "FINISHED"
)

// Move is a player decision.
type Move int

const (
	MoveUnspecified Move = iota
	MoveDrawCard
	MoveStand
)

func (m Move) String() string {
	switch m {
	case MoveDrawCard:
		return "DRAW_CARD"
	case MoveStand:
		return "STAND"
	default:
		return "UNSPECIFIED"
	}
}

// ParseMove converts a wire value into a Move.
func ParseMove(s string) (Move, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DRAW_CARD":
		return MoveDrawCard, nil
	case "STAND":
		return MoveStand, nil
	default:
		return MoveUnspecified, apperrors.WithMetadata(apperrors.CodeInvalidMove, "move must be DRAW_CARD or STAND", map[string]string{"move": s})
	}
}

// Player holds the domain state for a seat in a match.
type Player struct {
	ID         string
	UserID     string // Nakama user that seated the player, empty when unknown
	Hand       []int
	Balance    int64
	CurrentBet int64
	Active     bool
}

// Clone returns a deep copy of the player.
func (p *Player) Clone() *Player {
	out := *p
	out.Hand = append([]int{}, p.Hand...)
	return &out
}

// Match holds the authoritative state for one blackjack game.
type Match struct {
	ID              string
	Players         []*Player // seating order
	DealerHand      []int
	Status          Status
	Round           int
	PreviousMatchID string
	NextMatchID     string // set once the match has been continued by a rematch
	ChainID         string // id of the first match of a rematch chain
	CreatedAt       time.Time
}

// NewMatch returns an empty in-progress match.
func NewMatch(id string, createdAt time.Time) *Match {
	return &Match{
		ID:         id,
		ChainID:    id,
		Players:    []*Player{},
		DealerHand: []int{},
		Status:     StatusInProgress,
		Round:      1,
		CreatedAt:  createdAt,
	}
}

// Clone returns a deep copy that shares no memory with m.
func (m *Match) Clone() Match {
	out := *m
	out.Players = make([]*Player, 0, len(m.Players))
	for _, p := range m.Players {
		out.Players = append(out.Players, p.Clone())
	}
	out.DealerHand = append([]int{}, m.DealerHand...)
	return out
}
