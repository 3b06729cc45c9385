package bot

import (
	"blackjack/internal/domain"
	"blackjack/internal/random"
)

// ThresholdBot draws until its hand reaches StandAt.
type ThresholdBot struct {
	StandAt     int
	BetFraction float64
}

func (b *ThresholdBot) Bet(player domain.Player) int64 {
	return stake(player.Balance, b.BetFraction)
}

func (b *ThresholdBot) Decide(match domain.Match, player domain.Player) domain.Move {
	if domain.HandTotal(player.Hand) >= b.StandAt {
		return domain.MoveStand
	}
	return domain.MoveDrawCard
}

// SmartBot draws while the chance that the next card busts it stays at or
// below MaxBustChance. Every card value is equally likely.
type SmartBot struct {
	MaxBustChance float64
	BetFraction   float64
}

func (b *SmartBot) Bet(player domain.Player) int64 {
	return stake(player.Balance, b.BetFraction)
}

func (b *SmartBot) Decide(match domain.Match, player domain.Player) domain.Move {
	if BustChance(domain.HandTotal(player.Hand)) > b.MaxBustChance {
		return domain.MoveStand
	}
	return domain.MoveDrawCard
}

// BustChance returns the probability that one more card takes total above 21.
func BustChance(total int) float64 {
	busting := 0
	for card := random.MinCard; card <= random.MaxCard; card++ {
		if total+card > domain.TargetScore {
			busting++
		}
	}
	return float64(busting) / float64(random.MaxCard-random.MinCard+1)
}

// stake bets fraction of balance, at least 1 chip while any are left.
func stake(balance int64, fraction float64) int64 {
	if balance <= 0 {
		return 0
	}
	bet := int64(float64(balance) * fraction)
	if bet < 1 {
		bet = 1
	}
	if bet > balance {
		bet = balance
	}
	return bet
}
