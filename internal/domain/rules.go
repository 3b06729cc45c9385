package domain

// SettlementMode selects how a lost bet is charged.
type SettlementMode int

const (
	// SettleSingleDebit charges a loss only the stake already taken when the
	// bet was placed.
	SettleSingleDebit SettlementMode = iota
	// SettleLegacyDoubleDebit charges the stake a second time at settlement.
	SettleLegacyDoubleDebit
)

func (m SettlementMode) String() string {
	if m == SettleLegacyDoubleDebit {
		return "legacy_double_debit"
	}
	return "single"
}

// Rules holds the table parameters a match is played under.
type Rules struct {
	StartingBalance int64
	DealerStandsOn  int
	MaxPlayers      int // 0 means unlimited
	Settlement      SettlementMode
}

// DefaultRules returns the standard table parameters.
func DefaultRules() Rules {
	return Rules{
		StartingBalance: DefaultStartingBalance,
		DealerStandsOn:  DefaultDealerStandsOn,
		Settlement:      SettleSingleDebit,
	}
}

// Result is the outcome of one player's hand against the dealer.
type Result string

const (
	ResultWin  Result = "WIN"
	ResultLose Result = "LOSE"
	ResultPush Result = "PUSH"
)

// PlayerOutcome is the settlement of a single player.
type PlayerOutcome struct {
	PlayerID string
	UserID   string
	Total    int
	Bet      int64
	Result   Result
	Payout   int64 // added to the balance at settlement
	Net      int64 // Payout minus the stake taken at bet time
}

// Settlement is the result of settling every player against the dealer.
type Settlement struct {
	DealerTotal int
	Outcomes    []PlayerOutcome
}

// Decide compares a player total with the dealer total.
// A busted player loses even when the dealer also busts.
func Decide(playerTotal, dealerTotal int) Result {
	switch {
	case playerTotal > TargetScore:
		return ResultLose
	case dealerTotal <= TargetScore && dealerTotal > playerTotal:
		return ResultLose
	case playerTotal == dealerTotal:
		return ResultPush
	default:
		return ResultWin
	}
}

// Payout returns the balance adjustment applied at settlement.
func Payout(result Result, bet int64, mode SettlementMode) int64 {
	switch result {
	case ResultWin:
		return 2 * bet
	case ResultPush:
		return bet
	default:
		if mode == SettleLegacyDoubleDebit {
			return -bet
		}
		return 0
	}
}

// Settle computes every player's outcome against the dealer hand.
// It does not mutate its inputs.
func Settle(dealerHand []int, players []*Player, mode SettlementMode) Settlement {
	dealerTotal := HandTotal(dealerHand)
	settlement := Settlement{
		DealerTotal: dealerTotal,
		Outcomes:    make([]PlayerOutcome, 0, len(players)),
	}
	for _, p := range players {
		total := HandTotal(p.Hand)
		result := Decide(total, dealerTotal)
		payout := Payout(result, p.CurrentBet, mode)
		settlement.Outcomes = append(settlement.Outcomes, PlayerOutcome{
			PlayerID: p.ID,
			UserID:   p.UserID,
			Total:    total,
			Bet:      p.CurrentBet,
			Result:   result,
			Payout:   payout,
			Net:      payout - p.CurrentBet,
		})
	}
	return settlement
}
