package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
)

var (
	ErrEntryNotFound     = errors.New("ledger entry not found")
	ErrEntryNotPending   = errors.New("ledger entry is not pending")
	ErrInsufficientFunds = errors.New("insufficient balance")
)

const entryColumns = "id, user_id, kind, amount, status, description, payment_method, receipt_ref, admin_notes, created_at, updated_at"

func (r *Repository) GetEntry(ctx context.Context, id uuid.UUID) (*model.LedgerEntry, error) {
	var entry model.LedgerEntry
	err := r.db.GetContext(ctx, &entry, "SELECT * FROM ledger_entries WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// CreatePendingEntry inserts a deposit or withdrawal awaiting an admin
// decision. No balance effect until approval.
func (r *Repository) CreatePendingEntry(ctx context.Context, entry *model.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (user_id, kind, amount, status, description, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Kind, entry.Amount, model.EntryStatusPending,
		entry.Description, entry.PaymentMethod,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

// AttachReceipt stores a receipt reference on the requester's own
// pending deposit. Any other target is reported as not found.
func (r *Repository) AttachReceipt(ctx context.Context, entryID uuid.UUID, userID int64, fileRef string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE ledger_entries SET receipt_ref = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND kind = $4 AND status = $5`,
		fileRef, entryID, userID, model.EntryKindDeposit, model.EntryStatusPending)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEntryNotFound
	}
	return nil
}

// ApproveEntry settles a pending entry: the transition to completed and
// the entry's exactly-once balance effect commit together. Approved
// deposits additionally fan out the supplied commission credits within
// the same transaction. A withdrawal whose (negative) amount would push
// the balance below zero fails with ErrInsufficientFunds and mutates
// nothing.
func (r *Repository) ApproveEntry(ctx context.Context, entryID uuid.UUID, credits []model.CommissionCredit) (*model.LedgerEntry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	entry, err := lockPendingEntry(ctx, tx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Kind != model.EntryKindDeposit {
		credits = nil
	}

	if err := lockBalances(ctx, tx, entry.UserID, credits); err != nil {
		return nil, err
	}

	var balance float64
	if err := tx.GetContext(ctx, &balance, "SELECT balance FROM users WHERE id = $1", entry.UserID); err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	newBalance := balance + entry.Amount
	if newBalance < 0 {
		return nil, ErrInsufficientFunds
	}

	err = tx.GetContext(ctx, entry, `
		UPDATE ledger_entries SET status = $1, updated_at = NOW()
		WHERE id = $2 RETURNING `+entryColumns,
		model.EntryStatusCompleted, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, "UPDATE users SET balance = $1 WHERE id = $2", newBalance, entry.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	if _, err := applyCommissionCredits(ctx, tx, credits); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

// RejectEntry marks a pending entry rejected. Terminal, no balance
// effect.
func (r *Repository) RejectEntry(ctx context.Context, entryID uuid.UUID, notes *string) (*model.LedgerEntry, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	entry, err := lockPendingEntry(ctx, tx, entryID)
	if err != nil {
		return nil, err
	}

	err = tx.GetContext(ctx, entry, `
		UPDATE ledger_entries SET status = $1, admin_notes = $2, updated_at = NOW()
		WHERE id = $3 RETURNING `+entryColumns,
		model.EntryStatusRejected, notes, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to update entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *Repository) GetUserBalance(ctx context.Context, userID int64) (float64, error) {
	var balance float64
	err := r.db.GetContext(ctx, &balance, "SELECT balance FROM users WHERE id = $1", userID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	return balance, err
}

func (r *Repository) GetEntries(ctx context.Context, userID int64, kind model.EntryKind, limit, offset int) ([]model.LedgerEntry, int, error) {
	var (
		entries []model.LedgerEntry
		total   int
	)

	if kind != "" {
		if err := r.db.GetContext(ctx, &total,
			"SELECT COUNT(*) FROM ledger_entries WHERE user_id = $1 AND kind = $2", userID, kind); err != nil {
			return nil, 0, err
		}
		err := r.db.SelectContext(ctx, &entries, `
			SELECT * FROM ledger_entries WHERE user_id = $1 AND kind = $2
			ORDER BY created_at DESC LIMIT $3 OFFSET $4`, userID, kind, limit, offset)
		return entries, total, err
	}

	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM ledger_entries WHERE user_id = $1", userID); err != nil {
		return nil, 0, err
	}
	err := r.db.SelectContext(ctx, &entries, `
		SELECT * FROM ledger_entries WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	return entries, total, err
}

// ListEntriesByStatus is the admin view across all users.
func (r *Repository) ListEntriesByStatus(ctx context.Context, status model.EntryStatus, limit, offset int) ([]model.LedgerEntry, error) {
	var entries []model.LedgerEntry
	err := r.db.SelectContext(ctx, &entries, `
		SELECT * FROM ledger_entries WHERE status = $1
		ORDER BY created_at ASC LIMIT $2 OFFSET $3`, status, limit, offset)
	return entries, err
}

func (r *Repository) GetEntrySummary(ctx context.Context, userID int64) (*model.EntrySummary, error) {
	var summary model.EntrySummary
	err := r.db.GetContext(ctx, &summary, `
		SELECT
			COUNT(*) FILTER (WHERE kind = 'deposit' AND status = 'completed') AS completed_deposits,
			COUNT(*) FILTER (WHERE kind = 'withdrawal' AND status = 'completed') AS completed_withdrawals,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_entries,
			COUNT(*) FILTER (WHERE status = 'rejected') AS rejected_entries
		FROM ledger_entries WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// GetUserEarnings aggregates completed reward entries by explicit
// (user, kind, status) queries instead of walking an object graph.
func (r *Repository) GetUserEarnings(ctx context.Context, userID int64) (*model.UserEarnings, error) {
	var earnings model.UserEarnings
	err := r.db.GetContext(ctx, &earnings, `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE kind IN ('task_reward', 'referral_commission')), 0) AS total_earnings,
			COALESCE(SUM(amount) FILTER (WHERE kind = 'task_reward'), 0) AS task_earnings,
			COALESCE(SUM(amount) FILTER (WHERE kind = 'referral_commission'), 0) AS referral_earnings
		FROM ledger_entries WHERE user_id = $1 AND status = 'completed'`, userID)
	if err != nil {
		return nil, err
	}
	return &earnings, nil
}

// lockPendingEntry loads an entry FOR UPDATE and verifies it is still
// pending. Calling approve or reject twice therefore fails the second
// time without touching any balance.
func lockPendingEntry(ctx context.Context, tx *sqlx.Tx, entryID uuid.UUID) (*model.LedgerEntry, error) {
	var entry model.LedgerEntry
	err := tx.GetContext(ctx, &entry, "SELECT * FROM ledger_entries WHERE id = $1 FOR UPDATE", entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if entry.Status != model.EntryStatusPending {
		return nil, ErrEntryNotPending
	}
	return &entry, nil
}

// lockBalances takes the row locks for every account a mutation will
// touch, in ascending id order. Overlapping referral chains then always
// acquire locks in the same order, which rules out deadlock.
func lockBalances(ctx context.Context, tx *sqlx.Tx, sourceID int64, credits []model.CommissionCredit) error {
	ids := make([]int64, 0, len(credits)+1)
	ids = append(ids, sourceID)
	for _, c := range credits {
		if c.ReferrerID != sourceID {
			ids = append(ids, c.ReferrerID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// Missing referrers simply do not return a row; they are skipped
	// later without error.
	rows, err := tx.QueryContext(ctx, "SELECT id FROM users WHERE id = ANY($1) ORDER BY id FOR UPDATE", ids)
	if err != nil {
		return fmt.Errorf("failed to lock accounts: %w", err)
	}
	return rows.Close()
}

// applyCommissionCredits credits each planned commission and appends
// its completed referral_commission entry. A referrer that no longer
// exists is skipped; the remaining credits still apply.
func applyCommissionCredits(ctx context.Context, tx *sqlx.Tx, credits []model.CommissionCredit) ([]model.LedgerEntry, error) {
	entries := make([]model.LedgerEntry, 0, len(credits))
	for _, credit := range credits {
		res, err := tx.ExecContext(ctx,
			"UPDATE users SET balance = balance + $1 WHERE id = $2",
			credit.Amount, credit.ReferrerID)
		if err != nil {
			return nil, fmt.Errorf("failed to credit referrer %d: %w", credit.ReferrerID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			continue
		}

		entry, err := insertCompletedEntry(ctx, tx, credit.ReferrerID,
			model.EntryKindReferralCommission, credit.Amount, credit.Description)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func insertCompletedEntry(ctx context.Context, tx *sqlx.Tx, userID int64, kind model.EntryKind, amount float64, description string) (model.LedgerEntry, error) {
	var entry model.LedgerEntry
	err := tx.GetContext(ctx, &entry, `
		INSERT INTO ledger_entries (user_id, kind, amount, status, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+entryColumns,
		userID, kind, amount, model.EntryStatusCompleted, description)
	if err != nil {
		return entry, fmt.Errorf("failed to insert %s entry: %w", kind, err)
	}
	return entry, nil
}
