package bot

import (
	"blackjack/internal/domain"
)

// BotLevel selects how a bot plays.
type BotLevel int

const (
	BotLevelCautious BotLevel = iota + 1
	BotLevelStandard
	BotLevelBold
	BotLevelSmart
)

func (l BotLevel) String() string {
	switch l {
	case BotLevelCautious:
		return "cautious"
	case BotLevelStandard:
		return "standard"
	case BotLevelBold:
		return "bold"
	case BotLevelSmart:
		return "smart"
	default:
		return "unknown"
	}
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	// Bet returns the stake to place at the start of a round; 0 sits the round out.
	Bet(player domain.Player) int64
	// Decide returns DRAW_CARD or STAND for an active player.
	Decide(match domain.Match, player domain.Player) domain.Move
}
