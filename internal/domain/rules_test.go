package domain

import (
	"testing"

	"blackjack/internal/random"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		player int
		dealer int
		want   Result
	}{
		{name: "player bust", player: 22, dealer: 18, want: ResultLose},
		{name: "both bust", player: 23, dealer: 24, want: ResultLose},
		{name: "dealer higher", player: 17, dealer: 19, want: ResultLose},
		{name: "push", player: 18, dealer: 18, want: ResultPush},
		{name: "push on 21", player: 21, dealer: 21, want: ResultPush},
		{name: "player higher", player: 20, dealer: 17, want: ResultWin},
		{name: "dealer bust", player: 12, dealer: 22, want: ResultWin},
		{name: "empty hand vs dealer bust", player: 0, dealer: 25, want: ResultWin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.player, tt.dealer); got != tt.want {
				t.Fatalf("Decide(%d, %d) = %s, want %s", tt.player, tt.dealer, got, tt.want)
			}
		})
	}
}

func TestPayout(t *testing.T) {
	tests := []struct {
		result Result
		mode   SettlementMode
		want   int64
	}{
		{ResultWin, SettleSingleDebit, 60},
		{ResultPush, SettleSingleDebit, 30},
		{ResultLose, SettleSingleDebit, 0},
		{ResultWin, SettleLegacyDoubleDebit, 60},
		{ResultPush, SettleLegacyDoubleDebit, 30},
		{ResultLose, SettleLegacyDoubleDebit, -30},
	}
	for _, tt := range tests {
		t.Run(string(tt.result)+"/"+tt.mode.String(), func(t *testing.T) {
			if got := Payout(tt.result, 30, tt.mode); got != tt.want {
				t.Fatalf("Payout() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSettleDoesNotMutate(t *testing.T) {
	players := []*Player{
		{ID: "a", Hand: []int{10, 9}, Balance: 50, CurrentBet: 50},
		{ID: "b", Hand: []int{10, 7}, Balance: 80, CurrentBet: 20},
		{ID: "c", Hand: []int{10, 10, 5}, Balance: 90, CurrentBet: 10},
	}
	s := Settle([]int{10, 8}, players, SettleSingleDebit)

	if s.DealerTotal != 18 {
		t.Fatalf("DealerTotal = %d, want 18", s.DealerTotal)
	}
	want := []struct {
		result Result
		payout int64
		net    int64
	}{
		{ResultWin, 100, 50},
		{ResultLose, 0, -20},
		{ResultLose, 0, -10},
	}
	for i, w := range want {
		o := s.Outcomes[i]
		if o.Result != w.result || o.Payout != w.payout || o.Net != w.net {
			t.Fatalf("outcome %d = %+v, want %+v", i, o, w)
		}
	}
	if players[0].Balance != 50 || players[1].Balance != 80 {
		t.Fatal("Settle mutated player balances")
	}
}

// Chips are conserved per player: balance before the bet equals balance after
// settlement plus the net result, and the net is one of -bet, 0 or +bet.
func TestSettlementConservesChips(t *testing.T) {
	src := random.New(11)
	for round := 0; round < 200; round++ {
		m := newTestMatch(t, "p1", "p2", "p3")
		bets := []int64{10, 35, 100}
		for i, p := range m.Players {
			if _, err := m.PlaceBet(p.ID, bets[i]); err != nil {
				t.Fatalf("PlaceBet error: %v", err)
			}
		}

		var settlement *Settlement
		for _, p := range m.Players {
			for p.Active {
				move := MoveDrawCard
				if HandTotal(p.Hand) >= 15 {
					move = MoveStand
				}
				s, err := m.Act(p.ID, move, src, DefaultRules())
				if err != nil {
					t.Fatalf("Act error: %v", err)
				}
				if s != nil {
					settlement = s
				}
			}
		}
		if settlement == nil || !m.Finished() {
			t.Fatalf("round %d did not settle", round)
		}
		if HandTotal(m.DealerHand) < DefaultDealerStandsOn {
			t.Fatalf("dealer stopped at %d", HandTotal(m.DealerHand))
		}
		// The dealer never draws past the threshold.
		withoutLast := m.DealerHand[:len(m.DealerHand)-1]
		if HandTotal(withoutLast) >= DefaultDealerStandsOn {
			t.Fatalf("dealer drew on %d", HandTotal(withoutLast))
		}

		for i, o := range settlement.Outcomes {
			p := m.Players[i]
			if DefaultStartingBalance+o.Net != p.Balance {
				t.Fatalf("player %s: start %d + net %d != balance %d", p.ID, DefaultStartingBalance, o.Net, p.Balance)
			}
			switch o.Result {
			case ResultWin:
				if o.Net != bets[i] {
					t.Fatalf("win net = %d, want %d", o.Net, bets[i])
				}
			case ResultPush:
				if o.Net != 0 {
					t.Fatalf("push net = %d, want 0", o.Net)
				}
			case ResultLose:
				if o.Net != -bets[i] {
					t.Fatalf("lose net = %d, want %d", o.Net, -bets[i])
				}
			}
		}
	}
}

func TestLegacyDoubleDebit(t *testing.T) {
	rules := DefaultRules()
	rules.Settlement = SettleLegacyDoubleDebit
	m := newTestMatch(t, "p1")
	if _, err := m.PlaceBet("p1", 30); err != nil {
		t.Fatal(err)
	}
	deck := random.NewScripted(10, 5, 10, 9)
	if _, err := m.Act("p1", MoveDrawCard, deck, rules); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Act("p1", MoveDrawCard, deck, rules); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Act("p1", MoveStand, deck, rules); err != nil {
		t.Fatal(err)
	}
	// 15 against 19: the stake is charged at bet time and again at settlement.
	if got := m.Players[0].Balance; got != 40 {
		t.Fatalf("balance = %d, want 40", got)
	}
}

func TestHandTotalAndBust(t *testing.T) {
	if HandTotal(nil) != 0 {
		t.Fatal("empty hand should total 0")
	}
	if IsBust([]int{10, 10, 1}) {
		t.Fatal("21 must not bust")
	}
	if !IsBust([]int{10, 10, 2}) {
		t.Fatal("22 must bust")
	}
}

func TestDealerPlay(t *testing.T) {
	hand := DealerPlay([]int{}, random.NewScripted(5, 5, 5, 2), 17)
	if HandTotal(hand) != 17 || len(hand) != 4 {
		t.Fatalf("hand = %v, want four cards totalling 17", hand)
	}
	already := DealerPlay([]int{10, 8}, random.NewScripted(), 17)
	if len(already) != 2 {
		t.Fatalf("dealer drew on 18: %v", already)
	}
}
