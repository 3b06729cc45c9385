// Command blackjack-sim plays bot-only blackjack tables in the terminal
// against the same engine the Nakama module serves.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
	"golang.org/x/sync/errgroup"

	"blackjack/internal/app"
	"blackjack/internal/bot"
	"blackjack/internal/config"
	"blackjack/internal/random"
)

func main() {
	var (
		tables     int
		seats      int
		rounds     int
		seed       int64
		configPath string
		botsPath   string
		legacy     bool
		verbose    bool
	)
	flag.IntVar(&tables, "tables", 2, "number of tables to run concurrently")
	flag.IntVar(&seats, "seats", 3, "bots per table")
	flag.IntVar(&rounds, "rounds", 5, "rounds per table; each round after the first is a rematch")
	flag.Int64Var(&seed, "seed", 0, "card seed for reproducible runs (0 = random)")
	flag.StringVar(&configPath, "config", config.DefaultPath, "game config file")
	flag.StringVar(&botsPath, "bots", bot.DefaultIdentitiesPath, "bot identities file")
	flag.BoolVar(&legacy, "legacy", false, "settle losses with the legacy double debit")
	flag.BoolVar(&verbose, "v", false, "log every round")
	flag.Parse()

	logger := slog.New(pterm.NewSlogHandler(&pterm.DefaultLogger))
	if verbose {
		pterm.DefaultLogger.Level = pterm.LogLevelDebug
	}

	if err := run(logger, options{
		tables:     tables,
		seats:      seats,
		rounds:     rounds,
		seed:       seed,
		configPath: configPath,
		botsPath:   botsPath,
		legacy:     legacy,
	}); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

type options struct {
	tables     int
	seats      int
	rounds     int
	seed       int64
	configPath string
	botsPath   string
	legacy     bool
}

func run(logger *slog.Logger, opts options) error {
	if opts.tables < 1 || opts.seats < 1 || opts.rounds < 1 {
		return fmt.Errorf("tables, seats and rounds must be at least 1")
	}

	cfg, err := config.Load(opts.configPath, environ())
	if err != nil {
		return err
	}
	if opts.legacy {
		cfg.LegacyDoubleDebit = true
	}
	identities, err := bot.LoadIdentities(opts.botsPath)
	if err != nil {
		return err
	}

	src := random.New(opts.seed)
	if opts.seed == 0 {
		if src, err = random.NewFromEntropy(); err != nil {
			return err
		}
	}

	rules := cfg.Rules()
	sim := &simulation{
		svc:        app.NewService(app.NewRegistry(src), src, rules),
		identities: identities,
		seats:      opts.seats,
		rounds:     opts.rounds,
		logger:     logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printBanner(rules, opts)
	spinner, _ := pterm.DefaultSpinner.Start(fmt.Sprintf("Dealing %d tables ...", opts.tables))

	reports := make([]tableReport, opts.tables)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < opts.tables; i++ {
		g.Go(func() error {
			report, err := sim.runTable(gctx, i)
			if err != nil {
				return err
			}
			reports[i] = report
			logger.Info("table finished", "table", i, "rounds", len(report.Rounds), "actions", report.ActionCount)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		spinner.Fail(err.Error())
		return err
	}
	spinner.Success("All tables settled")

	for _, report := range reports {
		printTable(report)
	}
	printSummary(reports)
	return nil
}

// environ exposes the process environment the way the Nakama runtime env is shaped.
func environ() map[string]string {
	out := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}
