package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"blackjack/internal/domain"
)

func printBanner(rules domain.Rules, opts options) {
	pterm.DefaultHeader.WithFullWidth().WithBackgroundStyle(pterm.NewStyle(pterm.BgGreen)).Println("Blackjack table simulator")
	pterm.Info.Printfln("%d tables x %d seats, %d rounds, dealer stands on %d, %s settlement",
		opts.tables, opts.seats, opts.rounds, rules.DealerStandsOn, rules.Settlement)
	pterm.Println()
}

func printTable(report tableReport) {
	var panels []pterm.Panel
	for _, p := range report.Final.Players {
		panels = append(panels, pterm.Panel{Data: playerBox(report, p)})
	}
	pterm.DefaultSection.Printfln("Table %d (final match %s, round %d)", report.Table, report.Final.ID, report.Final.Round)
	pterm.DefaultPanel.WithPanels([][]pterm.Panel{panels, {{Data: roundsBox(report)}}}).Render()
}

func playerBox(report tableReport, p *domain.Player) string {
	pbox := pterm.DefaultBox.WithHorizontalPadding(2).WithTopPadding(0).WithBottomPadding(0)
	delta := p.Balance - report.Starting
	change := pterm.LightGreen(fmt.Sprintf("+%d", delta))
	if delta < 0 {
		change = pterm.LightRed(strconv.FormatInt(delta, 10))
	}
	return pbox.WithTitle(pterm.LightCyan(report.Names[p.ID])).WithTitleTopLeft().
		Sprintf("Balance: %d (%s)\nLast hand: %s", p.Balance, change, handString(lastHand(report, p.ID)))
}

func roundsBox(report tableReport) string {
	var b strings.Builder
	for _, r := range report.Rounds {
		b.WriteString(fmt.Sprintf("Round %d  dealer %2d  ", r.Round, r.Settlement.DealerTotal))
		for _, o := range r.Settlement.Outcomes {
			b.WriteString(fmt.Sprintf("%s %s %+d  ", report.Names[o.PlayerID], resultString(o.Result), o.Net))
		}
		b.WriteString("\n")
	}
	return pterm.DefaultBox.WithTitle(pterm.LightYellow("|ROUNDS|")).WithTitleTopCenter().Sprint(strings.TrimRight(b.String(), "\n"))
}

func printSummary(reports []tableReport) {
	data := pterm.TableData{{"Table", "Rounds", "Actions", "Wins", "Pushes", "Losses", "House net"}}
	for _, r := range reports {
		var wins, pushes, losses int
		var house int64
		for _, round := range r.Rounds {
			for _, o := range round.Settlement.Outcomes {
				switch o.Result {
				case domain.ResultWin:
					wins++
				case domain.ResultPush:
					pushes++
				default:
					losses++
				}
				house -= o.Net
			}
		}
		data = append(data, []string{
			strconv.Itoa(r.Table),
			strconv.Itoa(len(r.Rounds)),
			strconv.Itoa(r.ActionCount),
			strconv.Itoa(wins),
			strconv.Itoa(pushes),
			strconv.Itoa(losses),
			strconv.FormatInt(house, 10),
		})
	}
	pterm.Println()
	pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
}

func lastHand(report tableReport, playerID string) int {
	if len(report.Rounds) == 0 {
		return 0
	}
	for _, o := range report.Rounds[len(report.Rounds)-1].Settlement.Outcomes {
		if o.PlayerID == playerID {
			return o.Total
		}
	}
	return 0
}

func handString(total int) string {
	if total > domain.TargetScore {
		return pterm.LightRed(fmt.Sprintf("%d bust", total))
	}
	return strconv.Itoa(total)
}

func resultString(r domain.Result) string {
	switch r {
	case domain.ResultWin:
		return pterm.LightGreen(string(r))
	case domain.ResultPush:
		return pterm.LightYellow(string(r))
	default:
		return pterm.LightRed(string(r))
	}
}
