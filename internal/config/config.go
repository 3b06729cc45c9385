package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"blackjack/internal/domain"
)

// DefaultPath is where the game config file is looked up when no path is configured.
const DefaultPath = "data/blackjack.json"

// PathKey is the runtime env key that overrides DefaultPath.
const PathKey = "blackjack_config_path"

// GameConfig holds table rules and module switches.
type GameConfig struct {
	StartingBalance   int64  `json:"starting_balance" env:"blackjack_starting_balance"`
	DealerStandsOn    int    `json:"dealer_stands_on" env:"blackjack_dealer_stands_on"`
	MaxPlayers        int    `json:"max_players" env:"blackjack_max_players"`
	LegacyDoubleDebit bool   `json:"legacy_double_debit" env:"blackjack_legacy_double_debit"`
	RealtimeFeed      bool   `json:"realtime_feed" env:"blackjack_realtime_feed"`
	WalletSync        bool   `json:"wallet_sync" env:"blackjack_wallet_sync"`
	WalletCurrency    string `json:"wallet_currency" env:"blackjack_wallet_currency"`
	EmitEvents        bool   `json:"emit_events" env:"blackjack_emit_events"`

	// Secrets and endpoints come from the runtime env only.
	SeatTokenSecret string        `json:"-" env:"blackjack_seat_token_secret"`
	SeatTokenTTL    time.Duration `json:"-" env:"blackjack_seat_token_ttl"`
	OTelEndpoint    string        `json:"-" env:"blackjack_otel_endpoint"`
}

// Default returns the configuration used when nothing overrides it.
func Default() GameConfig {
	return GameConfig{
		StartingBalance: domain.DefaultStartingBalance,
		DealerStandsOn:  domain.DefaultDealerStandsOn,
		RealtimeFeed:    true,
		WalletCurrency:  "chips",
		SeatTokenTTL:    24 * time.Hour,
	}
}

// Load builds the configuration from defaults, then the JSON file at path
// (a missing file is skipped), then the runtime environment.
func Load(path string, environ map[string]string) (GameConfig, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("failed to read game config: %w", err)
		default:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("failed to unmarshal game config: %w", err)
			}
		}
	}

	if environ == nil {
		environ = map[string]string{}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot play under.
func (c GameConfig) Validate() error {
	if c.StartingBalance <= 0 {
		return fmt.Errorf("starting_balance must be positive, got %d", c.StartingBalance)
	}
	if c.DealerStandsOn < 1 || c.DealerStandsOn > domain.TargetScore {
		return fmt.Errorf("dealer_stands_on must be within 1..%d, got %d", domain.TargetScore, c.DealerStandsOn)
	}
	if c.MaxPlayers < 0 {
		return fmt.Errorf("max_players must not be negative, got %d", c.MaxPlayers)
	}
	if c.WalletSync && c.WalletCurrency == "" {
		return errors.New("wallet_currency is required when wallet_sync is enabled")
	}
	if c.SeatTokenSecret != "" && c.SeatTokenTTL <= 0 {
		return fmt.Errorf("seat_token_ttl must be positive, got %s", c.SeatTokenTTL)
	}
	return nil
}

// Rules converts the table settings into domain rules.
func (c GameConfig) Rules() domain.Rules {
	mode := domain.SettleSingleDebit
	if c.LegacyDoubleDebit {
		mode = domain.SettleLegacyDoubleDebit
	}
	return domain.Rules{
		StartingBalance: c.StartingBalance,
		DealerStandsOn:  c.DealerStandsOn,
		MaxPlayers:      c.MaxPlayers,
		Settlement:      mode,
	}
}
