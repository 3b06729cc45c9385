package main

import (
	"context"
	"fmt"
	"log/slog"

	"blackjack/internal/app"
	"blackjack/internal/bot"
	"blackjack/internal/domain"
)

// tableReport is what one simulated table produced.
type tableReport struct {
	Table       int
	Names       map[string]string // player id -> bot display name
	Starting    int64
	Rounds      []roundReport
	Final       domain.Match
	ActionCount int
}

type roundReport struct {
	MatchID    string
	Round      int
	Settlement domain.Settlement
}

// simulation plays bot-only tables against one service.
type simulation struct {
	svc        *app.Service
	identities []bot.BotIdentity
	seats      int
	rounds     int
	logger     *slog.Logger
}

func (s *simulation) runTable(ctx context.Context, table int) (tableReport, error) {
	m, _ := s.svc.CreateMatch(ctx)
	report := tableReport{Table: table, Names: make(map[string]string), Starting: s.svc.Rules().StartingBalance}
	logger := s.logger.With("table", table)

	agents := make([]*bot.Agent, 0, s.seats)
	for i := 0; i < s.seats; i++ {
		identity := bot.IdentityAt(s.identities, table*s.seats+i)
		player, _, err := s.svc.AddPlayer(ctx, m.ID, identity.Username)
		if err != nil {
			return report, fmt.Errorf("table %d: seat %s: %w", table, identity.Username, err)
		}
		agent, err := bot.NewAgent(player.ID, identity)
		if err != nil {
			return report, fmt.Errorf("table %d: %w", table, err)
		}
		agents = append(agents, agent)
		report.Names[player.ID] = agent.Name
	}

	for round := 1; round <= s.rounds; round++ {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		settlement, actions, err := s.playRound(ctx, m, agents)
		if err != nil {
			return report, fmt.Errorf("table %d round %d: %w", table, round, err)
		}
		report.ActionCount += actions
		report.Rounds = append(report.Rounds, roundReport{MatchID: m.ID, Round: m.Round, Settlement: settlement})
		logger.Debug("round settled", "match", m.ID, "round", m.Round, "dealer", settlement.DealerTotal)

		if round == s.rounds {
			break
		}
		next, _, err := s.svc.Rematch(ctx, m.ID)
		if err != nil {
			return report, fmt.Errorf("table %d rematch: %w", table, err)
		}
		m = next
	}

	final, ok := s.svc.GetMatch(ctx, m.ID)
	if !ok {
		return report, fmt.Errorf("table %d: match %s vanished", table, m.ID)
	}
	report.Final = final
	return report, nil
}

// playRound bets, lets every agent act until it stands or busts, and returns
// the settlement of the round.
func (s *simulation) playRound(ctx context.Context, m domain.Match, agents []*bot.Agent) (domain.Settlement, int, error) {
	for _, agent := range agents {
		snapshot, _ := s.svc.GetMatch(ctx, m.ID)
		if stake := agent.Stake(snapshot); stake > 0 {
			if _, _, err := s.svc.PlaceBet(ctx, m.ID, agent.ID, stake); err != nil {
				return domain.Settlement{}, 0, fmt.Errorf("%s bet %d: %w", agent.Name, stake, err)
			}
		}
	}

	actions := 0
	for _, agent := range agents {
		for {
			snapshot, ok := s.svc.GetMatch(ctx, m.ID)
			if !ok {
				return domain.Settlement{}, actions, fmt.Errorf("match %s vanished", m.ID)
			}
			player, _ := domain.FindPlayer(&snapshot, agent.ID)
			if !player.Active {
				break
			}
			_, events, err := s.svc.Act(ctx, m.ID, agent.ID, agent.Play(snapshot))
			if err != nil {
				return domain.Settlement{}, actions, fmt.Errorf("%s act: %w", agent.Name, err)
			}
			actions++
			for _, ev := range events {
				if ev.Kind == app.EventMatchSettled {
					return ev.Payload.(app.MatchSettledPayload).Settlement, actions, nil
				}
			}
		}
	}
	return domain.Settlement{}, actions, fmt.Errorf("match %s did not settle", m.ID)
}
