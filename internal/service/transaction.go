package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
	"github.com/domengo404/GoldEarn-Backend/internal/repository"
)

var (
	ErrInvalidAmount       = errors.New("amount must be greater than zero")
	ErrInvalidMethod       = errors.New("unrecognized payment method")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrEntryNotFound       = errors.New("transaction not found")
	ErrInvalidState        = errors.New("transaction is not pending")
)

// TransactionService manages the pending -> completed/rejected
// lifecycle of deposits and withdrawals. Both transitions are terminal;
// an entry's balance effect is applied exactly once, at approval.
type TransactionService struct {
	repo          *repository.Repository
	commissionSvc *CommissionService
}

func NewTransactionService(repo *repository.Repository, commissionSvc *CommissionService) *TransactionService {
	return &TransactionService{repo: repo, commissionSvc: commissionSvc}
}

// RequestDeposit creates a pending deposit. The balance is untouched
// until an admin approves.
func (s *TransactionService) RequestDeposit(ctx context.Context, userID int64, amount float64, method model.PaymentMethod) (*model.LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if !model.RecognizedPaymentMethod(method) {
		return nil, ErrInvalidMethod
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountFrozen
	}

	description := fmt.Sprintf("Deposit request for %.2f", amount)
	entry := &model.LedgerEntry{
		UserID:        userID,
		Kind:          model.EntryKindDeposit,
		Amount:        amount,
		Description:   &description,
		PaymentMethod: &method,
	}
	if err := s.repo.CreatePendingEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// AttachReceipt stores an opaque receipt reference on the requester's
// own pending deposit.
func (s *TransactionService) AttachReceipt(ctx context.Context, entryID uuid.UUID, userID int64, fileRef string) error {
	err := s.repo.AttachReceipt(ctx, entryID, userID, fileRef)
	if errors.Is(err, repository.ErrEntryNotFound) {
		return ErrEntryNotFound
	}
	return err
}

// RequestWithdrawal creates a pending withdrawal carrying a negative
// amount. The balance is not pre-debited; the check here only stops
// requests the account clearly cannot cover. The authoritative
// non-negativity check happens again at approval, under the row lock.
func (s *TransactionService) RequestWithdrawal(ctx context.Context, userID int64, amount float64) (*model.LedgerEntry, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountFrozen
	}
	if amount > user.Balance {
		return nil, ErrInsufficientBalance
	}

	description := fmt.Sprintf("Withdrawal request for %.2f", amount)
	entry := &model.LedgerEntry{
		UserID:      userID,
		Kind:        model.EntryKindWithdrawal,
		Amount:      -amount,
		Description: &description,
	}
	if err := s.repo.CreatePendingEntry(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Approve settles a pending entry. A deposit credits the owner and
// fans commissions out to the owner's upline within the same atomic
// unit; a withdrawal debits the owner unless that would push the
// balance negative, in which case nothing mutates.
func (s *TransactionService) Approve(ctx context.Context, entryID uuid.UUID) (*model.LedgerEntry, error) {
	entry, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	var credits []model.CommissionCredit
	if entry.Kind == model.EntryKindDeposit {
		owner, err := s.repo.GetUser(ctx, entry.UserID)
		if err != nil {
			return nil, err
		}
		credits, err = s.commissionSvc.PlanFor(ctx, owner, entry.Amount, "deposit")
		if err != nil {
			return nil, err
		}
	}

	approved, err := s.repo.ApproveEntry(ctx, entryID, credits)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEntryNotFound):
			return nil, ErrEntryNotFound
		case errors.Is(err, repository.ErrEntryNotPending):
			return nil, ErrInvalidState
		case errors.Is(err, repository.ErrInsufficientFunds):
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}
	return approved, nil
}

// Reject terminally refuses a pending entry. No balance effect, so a
// rejected withdrawal needs no refund.
func (s *TransactionService) Reject(ctx context.Context, entryID uuid.UUID, notes *string) (*model.LedgerEntry, error) {
	entry, err := s.repo.RejectEntry(ctx, entryID, notes)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEntryNotFound):
			return nil, ErrEntryNotFound
		case errors.Is(err, repository.ErrEntryNotPending):
			return nil, ErrInvalidState
		}
		return nil, err
	}
	return entry, nil
}

func (s *TransactionService) GetHistory(ctx context.Context, userID int64, kind model.EntryKind, limit, offset int) ([]model.LedgerEntry, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.GetEntries(ctx, userID, kind, limit, offset)
}

func (s *TransactionService) GetSummary(ctx context.Context, userID int64) (*model.EntrySummary, error) {
	return s.repo.GetEntrySummary(ctx, userID)
}

func (s *TransactionService) GetBalance(ctx context.Context, userID int64) (float64, error) {
	return s.repo.GetUserBalance(ctx, userID)
}
