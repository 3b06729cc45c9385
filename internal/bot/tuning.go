package bot

// Tuning holds the knobs shared by the built-in strategies.
type Tuning struct {
	CautiousStandAt int
	StandardStandAt int
	BoldStandAt     int

	// SmartMaxBustChance is the highest bust probability SmartBot accepts for one more card.
	SmartMaxBustChance float64

	CautiousBetFraction float64
	StandardBetFraction float64
	BoldBetFraction     float64
}

// DefaultTuning mirrors common table play: cautious bots stand early and bet small.
var DefaultTuning = Tuning{
	CautiousStandAt:     12,
	StandardStandAt:     17,
	BoldStandAt:         19,
	SmartMaxBustChance:  0.5,
	CautiousBetFraction: 0.05,
	StandardBetFraction: 0.1,
	BoldBetFraction:     0.25,
}
