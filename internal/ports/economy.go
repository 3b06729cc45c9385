package ports

import "context"

// WalletUpdate represents a single currency change for a user.
type WalletUpdate struct {
	UserID   string
	Amount   int64
	Metadata map[string]interface{}
}

// EconomyPort mirrors settled chip movements into an external wallet.
type EconomyPort interface {
	// UpdateBalances applies every non-zero change. It is called once per
	// settled match, after the match itself has been committed.
	UpdateBalances(ctx context.Context, updates []WalletUpdate) error
}
