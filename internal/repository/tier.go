package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
)

// GetTierDefinitions loads the seeded tier catalog, in rank order. The
// catalog is reference data: read once at startup, never written.
func (r *Repository) GetTierDefinitions(ctx context.Context) ([]model.TierDefinition, error) {
	var defs []model.TierDefinition
	err := r.db.SelectContext(ctx, &defs, "SELECT * FROM tier_definitions ORDER BY rank ASC")
	return defs, err
}

// TierPurchase is the result of a successful tier upgrade.
type TierPurchase struct {
	User  model.User
	Entry model.LedgerEntry
}

// PurchaseTier debits the tier price, moves the user onto the new tier
// with a fresh expiry, and records the completed tier_purchase entry
// with a negative amount, all in one transaction. The balance is
// re-checked under the row lock so a concurrent debit cannot push it
// negative.
func (r *Repository) PurchaseTier(ctx context.Context, userID int64, def model.TierDefinition, expiry time.Time) (*TierPurchase, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var balance float64
	err = tx.GetContext(ctx, &balance, "SELECT balance FROM users WHERE id = $1 FOR UPDATE", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user: %w", err)
	}

	if balance < def.Price {
		return nil, ErrInsufficientFunds
	}

	result := &TierPurchase{}
	err = tx.GetContext(ctx, &result.User, `
		UPDATE users SET balance = balance - $1, tier = $2, tier_expiry = $3
		WHERE id = $4 RETURNING *`,
		def.Price, def.Tier, expiry, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update user tier: %w", err)
	}

	description := fmt.Sprintf("Subscription to %s", def.Name)
	result.Entry, err = insertCompletedEntry(ctx, tx, userID, model.EntryKindTierPurchase, -def.Price, description)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}
