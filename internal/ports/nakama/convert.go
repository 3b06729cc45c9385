package nakama

import (
	"time"

	"blackjack/internal/domain"
)

// matchDTO is the wire shape of a match returned by RPCs and the feed.
type matchDTO struct {
	ID              string      `json:"id"`
	Players         []playerDTO `json:"players"`
	DealerHand      []int       `json:"dealerHand"`
	Status          string      `json:"status"`
	Round           int         `json:"round"`
	PreviousMatchID string      `json:"previousMatchId,omitempty"`
	NextMatchID     string      `json:"nextMatchId,omitempty"`
	FeedMatchID     string      `json:"feedMatchId,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
}

type playerDTO struct {
	ID         string `json:"id"`
	UserID     string `json:"userId,omitempty"`
	Hand       []int  `json:"hand"`
	Balance    int64  `json:"balance"`
	CurrentBet int64  `json:"currentBet"`
	Active     bool   `json:"active"`
	SeatToken  string `json:"seatToken,omitempty"`
}

type outcomeDTO struct {
	PlayerID string `json:"playerId"`
	UserID   string `json:"userId,omitempty"`
	Total    int    `json:"total"`
	Bet      int64  `json:"bet"`
	Result   string `json:"result"`
	Payout   int64  `json:"payout"`
	Net      int64  `json:"net"`
}

type settlementDTO struct {
	MatchID     string       `json:"matchId"`
	DealerTotal int          `json:"dealerTotal"`
	Outcomes    []outcomeDTO `json:"outcomes"`
}

func matchToDTO(m domain.Match, feedMatchID string) matchDTO {
	players := make([]playerDTO, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, playerToDTO(*p))
	}
	return matchDTO{
		ID:              m.ID,
		Players:         players,
		DealerHand:      cardsOrEmpty(m.DealerHand),
		Status:          string(m.Status),
		Round:           m.Round,
		PreviousMatchID: m.PreviousMatchID,
		NextMatchID:     m.NextMatchID,
		FeedMatchID:     feedMatchID,
		CreatedAt:       m.CreatedAt.UTC(),
	}
}

func playerToDTO(p domain.Player) playerDTO {
	return playerDTO{
		ID:         p.ID,
		UserID:     p.UserID,
		Hand:       cardsOrEmpty(p.Hand),
		Balance:    p.Balance,
		CurrentBet: p.CurrentBet,
		Active:     p.Active,
	}
}

func settlementToDTO(matchID string, s domain.Settlement) settlementDTO {
	outcomes := make([]outcomeDTO, 0, len(s.Outcomes))
	for _, o := range s.Outcomes {
		outcomes = append(outcomes, outcomeDTO{
			PlayerID: o.PlayerID,
			UserID:   o.UserID,
			Total:    o.Total,
			Bet:      o.Bet,
			Result:   string(o.Result),
			Payout:   o.Payout,
			Net:      o.Net,
		})
	}
	return settlementDTO{MatchID: matchID, DealerTotal: s.DealerTotal, Outcomes: outcomes}
}

// cardsOrEmpty keeps hands encoded as [] rather than null.
func cardsOrEmpty(cards []int) []int {
	out := make([]int, len(cards))
	copy(out, cards)
	return out
}
