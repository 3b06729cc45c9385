package domain

// CardDrawer supplies card point values in [1,10].
type CardDrawer interface {
	DrawCard() int
}

// DealerPlay draws onto hand while its total is below standsOn and returns
// the grown hand.
func DealerPlay(hand []int, deck CardDrawer, standsOn int) []int {
	for HandTotal(hand) < standsOn {
		hand = append(hand, deck.DrawCard())
	}
	return hand
}
