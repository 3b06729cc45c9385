package nakama

import (
	"context"
	"fmt"

	"blackjack/internal/ports"
)

// WalletUpdater is the slice of runtime.NakamaModule the economy adapter needs.
type WalletUpdater interface {
	WalletUpdate(ctx context.Context, userID string, changeset map[string]int64, metadata map[string]interface{}, updateLedger bool) (map[string]int64, map[string]int64, error)
}

// NakamaEconomyAdapter implements ports.EconomyPort using Nakama's wallet system.
type NakamaEconomyAdapter struct {
	wallets  WalletUpdater
	currency string
}

// NewNakamaEconomyAdapter creates an economy adapter that books changes in currency.
func NewNakamaEconomyAdapter(wallets WalletUpdater, currency string) *NakamaEconomyAdapter {
	return &NakamaEconomyAdapter{
		wallets:  wallets,
		currency: currency,
	}
}

// UpdateBalances applies every non-zero change with a ledger entry.
// It stops at the first failure; earlier updates stay applied.
func (a *NakamaEconomyAdapter) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	for _, update := range updates {
		if update.Amount == 0 || update.UserID == "" {
			continue
		}

		changes := map[string]int64{
			a.currency: update.Amount,
		}

		if _, _, err := a.wallets.WalletUpdate(ctx, update.UserID, changes, update.Metadata, true); err != nil {
			return fmt.Errorf("failed to update wallet for user %s: %w", update.UserID, err)
		}
	}
	return nil
}
