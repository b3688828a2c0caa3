package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
	"github.com/domengo404/GoldEarn-Backend/internal/repository"
)

var ErrNotAdmin = errors.New("user is not an administrator")

// AdminService wraps the admin-facing reads and the approve/reject and
// freeze/unfreeze actions. It carries no business logic of its own
// beyond the authorization gate; money movement stays in the
// transaction lifecycle.
type AdminService struct {
	repo           *repository.Repository
	transactionSvc *TransactionService
}

func NewAdminService(repo *repository.Repository, transactionSvc *TransactionService) *AdminService {
	return &AdminService{repo: repo, transactionSvc: transactionSvc}
}

func (s *AdminService) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return s.repo.IsAdmin(ctx, userID)
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int, search string) ([]model.User, int, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListUsers(ctx, limit, offset, search)
}

// UserDetail is the admin drill-down for one account.
type UserDetail struct {
	User     model.User          `json:"user"`
	Earnings model.UserEarnings  `json:"earnings"`
	Summary  model.EntrySummary  `json:"summary"`
	Recent   []model.LedgerEntry `json:"recent_transactions"`
	Referral model.ReferralStats `json:"referral_stats"`
}

func (s *AdminService) GetUserDetail(ctx context.Context, userID int64) (*UserDetail, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	earnings, err := s.repo.GetUserEarnings(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := s.repo.GetEntrySummary(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.repo.GetEntries(ctx, userID, "", 10, 0)
	if err != nil {
		return nil, err
	}
	referral, err := s.repo.GetReferralStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserDetail{
		User:     *user,
		Earnings: *earnings,
		Summary:  *summary,
		Recent:   recent,
		Referral: *referral,
	}, nil
}

// SetUserActive freezes or unfreezes an account and logs the action.
// Accounts are only ever soft-deactivated.
func (s *AdminService) SetUserActive(ctx context.Context, adminID, targetUserID int64, active bool) error {
	if err := s.repo.SetUserActive(ctx, targetUserID, active); err != nil {
		return err
	}

	action := model.AdminActionFreezeUser
	if active {
		action = model.AdminActionUnfreezeUser
	}
	_ = s.repo.LogAdminAction(ctx, adminID, action, &targetUserID, nil)
	return nil
}

func (s *AdminService) ListPendingEntries(ctx context.Context, limit, offset int) ([]model.LedgerEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.repo.ListEntriesByStatus(ctx, model.EntryStatusPending, limit, offset)
}

// ApproveEntry delegates to the transaction lifecycle and logs the
// action.
func (s *AdminService) ApproveEntry(ctx context.Context, adminID int64, entryID uuid.UUID) (*model.LedgerEntry, error) {
	entry, err := s.transactionSvc.Approve(ctx, entryID)
	if err != nil {
		return nil, err
	}

	_ = s.repo.LogAdminAction(ctx, adminID, model.AdminActionApproveEntry, &entry.UserID, map[string]interface{}{
		"entry_id": entryID.String(),
		"kind":     entry.Kind,
		"amount":   entry.Amount,
	})
	return entry, nil
}

func (s *AdminService) RejectEntry(ctx context.Context, adminID int64, entryID uuid.UUID, notes *string) (*model.LedgerEntry, error) {
	entry, err := s.transactionSvc.Reject(ctx, entryID, notes)
	if err != nil {
		return nil, err
	}

	_ = s.repo.LogAdminAction(ctx, adminID, model.AdminActionRejectEntry, &entry.UserID, map[string]interface{}{
		"entry_id": entryID.String(),
	})
	return entry, nil
}

func (s *AdminService) GetReport(ctx context.Context) (*model.PlatformReport, error) {
	return s.repo.GetPlatformReport(ctx)
}
