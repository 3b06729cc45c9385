package domain

import "time"

// AddPlayer seats a new active player with the starting balance.
func (m *Match) AddPlayer(playerID, userID string, rules Rules) (*Player, error) {
	if m.Status != StatusInProgress {
		return nil, ErrMatchFinished
	}
	if rules.MaxPlayers > 0 && len(m.Players) >= rules.MaxPlayers {
		return nil, ErrTableFull
	}
	p := &Player{
		ID:      playerID,
		UserID:  userID,
		Hand:    []int{},
		Balance: rules.StartingBalance,
		Active:  true,
	}
	m.Players = append(m.Players, p)
	return p, nil
}

// PlaceBet moves amount from the player's balance to the current bet.
func (m *Match) PlaceBet(playerID string, amount int64) (*Player, error) {
	p, err := m.actingPlayer(playerID)
	if err != nil {
		return nil, err
	}
	if p.CurrentBet > 0 {
		return nil, ErrBetAlreadyPlaced
	}
	if amount <= 0 || amount > p.Balance {
		return nil, ErrInvalidBet
	}
	p.Balance -= amount
	p.CurrentBet = amount
	return p, nil
}

// Act applies a player decision. When the decision leaves every player
// inactive the dealer plays and the match settles before Act returns; the
// returned Settlement is nil otherwise.
func (m *Match) Act(playerID string, move Move, deck CardDrawer, rules Rules) (*Settlement, error) {
	p, err := m.actingPlayer(playerID)
	if err != nil {
		return nil, err
	}

	switch move {
	case MoveDrawCard:
		p.Hand = append(p.Hand, deck.DrawCard())
		if !IsBust(p.Hand) {
			return nil, nil
		}
		p.Active = false
	case MoveStand:
		p.Active = false
	default:
		return nil, ErrInvalidMove
	}

	return m.advanceTurn(deck, rules), nil
}

// Finished reports whether the match reached its terminal state.
func (m *Match) Finished() bool {
	return m.Status == StatusFinished
}

func (m *Match) actingPlayer(playerID string) (*Player, error) {
	p, ok := FindPlayer(m, playerID)
	if !ok {
		return nil, ErrPlayerNotFound
	}
	if m.Status != StatusInProgress {
		return nil, ErrMatchFinished
	}
	if !p.Active {
		return nil, ErrPlayerInactive
	}
	return p, nil
}

// advanceTurn runs the dealer and settles once nobody is left to act.
func (m *Match) advanceTurn(deck CardDrawer, rules Rules) *Settlement {
	if CountActivePlayers(m) > 0 {
		return nil
	}

	m.DealerHand = DealerPlay(m.DealerHand, deck, rules.DealerStandsOn)
	settlement := Settle(m.DealerHand, m.Players, rules.Settlement)
	for i, outcome := range settlement.Outcomes {
		m.Players[i].Balance += outcome.Payout
	}
	m.Status = StatusFinished
	return &settlement
}

// NextRound returns a fresh in-progress match that carries every player's id,
// user and balance from the finished match m. A match continues at most
// once; m records the id of its successor.
func (m *Match) NextRound(id string, createdAt time.Time) (*Match, error) {
	if m.Status != StatusFinished {
		return nil, ErrMatchNotFinished
	}
	if m.NextMatchID != "" {
		return nil, ErrMatchContinued
	}
	next := NewMatch(id, createdAt)
	next.Round = m.Round + 1
	next.PreviousMatchID = m.ID
	next.ChainID = m.ChainID
	for _, p := range m.Players {
		next.Players = append(next.Players, &Player{
			ID:      p.ID,
			UserID:  p.UserID,
			Hand:    []int{},
			Balance: p.Balance,
			Active:  true,
		})
	}
	m.NextMatchID = id
	return next, nil
}
