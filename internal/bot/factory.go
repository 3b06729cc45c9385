package bot

import (
	"fmt"
	"strings"
)

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel) (Brain, error) {
	switch level {
	case BotLevelCautious:
		return &ThresholdBot{StandAt: DefaultTuning.CautiousStandAt, BetFraction: DefaultTuning.CautiousBetFraction}, nil
	case BotLevelStandard:
		return &ThresholdBot{StandAt: DefaultTuning.StandardStandAt, BetFraction: DefaultTuning.StandardBetFraction}, nil
	case BotLevelBold:
		return &ThresholdBot{StandAt: DefaultTuning.BoldStandAt, BetFraction: DefaultTuning.BoldBetFraction}, nil
	case BotLevelSmart:
		return &SmartBot{MaxBustChance: DefaultTuning.SmartMaxBustChance, BetFraction: DefaultTuning.StandardBetFraction}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

// ParseLevel maps a difficulty name to a level.
func ParseLevel(name string) (BotLevel, error) {
	for _, level := range []BotLevel{BotLevelCautious, BotLevelStandard, BotLevelBold, BotLevelSmart} {
		if strings.EqualFold(strings.TrimSpace(name), level.String()) {
			return level, nil
		}
	}
	return 0, fmt.Errorf("unknown bot difficulty: %q", name)
}
