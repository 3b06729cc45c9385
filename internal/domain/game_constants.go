package domain

const (
	// TargetScore is the highest hand total that does not bust.
	TargetScore = 21
	// DefaultStartingBalance is the chip count of a newly seated player.
	DefaultStartingBalance int64 = 100
	// DefaultDealerStandsOn is the total at which the dealer stops drawing.
	DefaultDealerStandsOn = 17
)
