package domain

// HandTotal sums the point values of a hand. Cards are stored as points, so
// there is no ace or face-card adjustment.
func HandTotal(hand []int) int {
	total := 0
	for _, card := range hand {
		total += card
	}
	return total
}

// IsBust reports whether the hand total exceeds TargetScore.
func IsBust(hand []int) bool {
	return HandTotal(hand) > TargetScore
}

// FindPlayer returns the player with the given id.
func FindPlayer(m *Match, playerID string) (*Player, bool) {
	for _, p := range m.Players {
		if p.ID == playerID {
			return p, true
		}
	}
	return nil, false
}

// CountActivePlayers returns how many players are still deciding.
func CountActivePlayers(m *Match) int {
	n := 0
	for _, p := range m.Players {
		if p.Active {
			n++
		}
	}
	return n
}
