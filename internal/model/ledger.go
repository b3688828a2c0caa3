package model

import (
	"time"

	"github.com/google/uuid"
)

type EntryKind string

const (
	EntryKindDeposit            EntryKind = "deposit"
	EntryKindWithdrawal         EntryKind = "withdrawal"
	EntryKindTaskReward         EntryKind = "task_reward"
	EntryKindReferralCommission EntryKind = "referral_commission"
	EntryKindTierPurchase       EntryKind = "tier_purchase"
)

type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusCompleted EntryStatus = "completed"
	EntryStatusRejected  EntryStatus = "rejected"
)

type PaymentMethod string

const (
	PaymentMethodVodafoneCash PaymentMethod = "vodafone_cash"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
)

// RecognizedPaymentMethod reports whether a deposit method is accepted.
func RecognizedPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodVodafoneCash, PaymentMethodBankTransfer:
		return true
	}
	return false
}

// LedgerEntry is a balance-affecting event. Amount is signed: negative
// for withdrawals and tier purchases, positive otherwise. Its effect on
// the owner's balance is applied exactly once, when the entry becomes
// completed (deposit/withdrawal) or at creation (all other kinds).
type LedgerEntry struct {
	ID            uuid.UUID      `json:"id" db:"id"`
	UserID        int64          `json:"user_id" db:"user_id"`
	Kind          EntryKind      `json:"kind" db:"kind"`
	Amount        float64        `json:"amount" db:"amount"`
	Status        EntryStatus    `json:"status" db:"status"`
	Description   *string        `json:"description,omitempty" db:"description"`
	PaymentMethod *PaymentMethod `json:"payment_method,omitempty" db:"payment_method"`
	ReceiptRef    *string        `json:"receipt_ref,omitempty" db:"receipt_ref"`
	AdminNotes    *string        `json:"admin_notes,omitempty" db:"admin_notes"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
}

// Pending reports whether the entry still awaits an admin decision.
func (e *LedgerEntry) Pending() bool {
	return e.Status == EntryStatusPending
}

// EntrySummary is the per-user transaction overview.
type EntrySummary struct {
	CompletedDeposits    int `json:"total_deposits" db:"completed_deposits"`
	CompletedWithdrawals int `json:"total_withdrawals" db:"completed_withdrawals"`
	PendingEntries       int `json:"pending_transactions" db:"pending_entries"`
	RejectedEntries      int `json:"rejected_transactions" db:"rejected_entries"`
}
