package bot

import (
	"blackjack/internal/domain"
)

// Agent represents an autonomous bot player seated at one table.
type Agent struct {
	ID       string // Player id in the match
	Name     string
	Level    BotLevel
	Strategy Brain
}

// NewAgent builds an agent for identity using the brain of its difficulty.
func NewAgent(playerID string, identity BotIdentity) (*Agent, error) {
	level, err := ParseLevel(identity.Difficulty)
	if err != nil {
		return nil, err
	}
	brain, err := NewBrain(level)
	if err != nil {
		return nil, err
	}
	return &Agent{ID: playerID, Name: identity.DisplayName, Level: level, Strategy: brain}, nil
}

// Play asks the agent for its next move. An agent that is not seated or no
// longer active stands.
func (a *Agent) Play(match domain.Match) domain.Move {
	player, ok := domain.FindPlayer(&match, a.ID)
	if !ok || !player.Active {
		return domain.MoveStand
	}
	return a.Strategy.Decide(match, *player)
}

// Stake returns the agent's bet for the round, or 0 when it cannot bet.
func (a *Agent) Stake(match domain.Match) int64 {
	player, ok := domain.FindPlayer(&match, a.ID)
	if !ok || player.CurrentBet > 0 {
		return 0
	}
	return a.Strategy.Bet(*player)
}
