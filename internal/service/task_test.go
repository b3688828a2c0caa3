package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
)

func expectTierExpiryResolve(mock sqlmock.Sqlmock, userID int64) {
	mock.ExpectExec("UPDATE users SET tier =").
		WithArgs(string(model.TierTrainee), userID).
		WillReturnResult(sqlmock.NewResult(0, 0))
}

func TestCanPerformTaskAtCap(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewTaskService(repo, testTierCatalog(), NewCommissionService(repo))

	expectTierExpiryResolve(mock, 5)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id =").
		WithArgs(int64(5)).
		WillReturnRows(userRow(testUser{id: 5, phone: "01012345678", tier: model.TierV2, active: true}))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM task_records").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	eligibility, err := svc.CanPerformTask(context.Background(), 5)
	if err != nil {
		t.Fatalf("eligibility: %v", err)
	}
	if eligibility.CanDoTask {
		t.Fatal("V2 with 2 completions today should be at its cap")
	}
	if eligibility.MaxDailyTasks != 2 || eligibility.DailyReward != 160 {
		t.Fatalf("V2 limits = %d/%v, want 2/160", eligibility.MaxDailyTasks, eligibility.DailyReward)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCompleteTaskCreditsRewardAndUpline(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewTaskService(repo, testTierCatalog(), NewCommissionService(repo))

	expectTierExpiryResolve(mock, 5)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id =").
		WithArgs(int64(5)).
		WillReturnRows(userRow(testUser{id: 5, phone: "01012345678", balance: 100, tier: model.TierV3, active: true}))

	// One level-1 referrer in the upline.
	mock.ExpectQuery("SELECT (.+) FROM referral_edges WHERE referred_id =").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"referrer_id", "referred_id", "level", "commission_rate"}).
			AddRow(2, 5, 1, 0.10))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users WHERE id = ANY").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2).AddRow(5))
	mock.ExpectQuery("SELECT balance FROM users WHERE id =").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(100.0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM task_records").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("INSERT INTO task_records").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "task_kind", "reward_amount", "completed_at"}).
			AddRow("5bd30cc4-0d5e-4d4e-9a03-5ecb1c0850dd", 5, "survey", 520.0, time.Now()))
	mock.ExpectQuery("INSERT INTO ledger_entries").
		WillReturnRows(entryRow("a0b4b0de-95a7-4f3f-8f16-1fb0a7c0c001", 5, model.EntryKindTaskReward, 520, model.EntryStatusCompleted))
	mock.ExpectExec("UPDATE users SET balance =").
		WithArgs(620.0, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE users SET balance = balance \\+").
		WithArgs(52.0, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO ledger_entries").
		WillReturnRows(entryRow("a0b4b0de-95a7-4f3f-8f16-1fb0a7c0c002", 2, model.EntryKindReferralCommission, 52, model.EntryStatusCompleted))
	mock.ExpectCommit()

	result, err := svc.CompleteTask(context.Background(), 5, "")
	if err != nil {
		t.Fatalf("complete task: %v", err)
	}
	if result.NewBalance != 620 {
		t.Fatalf("new balance = %v, want 620", result.NewBalance)
	}
	if result.Entry.Amount != 520 {
		t.Fatalf("reward = %v, want 520", result.Entry.Amount)
	}
	if len(result.Commissions) != 1 || result.Commissions[0].Amount != 52 {
		t.Fatalf("commissions = %+v, want one credit of 52", result.Commissions)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCompleteTaskAtCapRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewTaskService(repo, testTierCatalog(), NewCommissionService(repo))

	expectTierExpiryResolve(mock, 5)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id =").
		WithArgs(int64(5)).
		WillReturnRows(userRow(testUser{id: 5, phone: "01012345678", tier: model.TierV1, active: true}))
	mock.ExpectQuery("SELECT (.+) FROM referral_edges WHERE referred_id =").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"referrer_id", "referred_id", "level", "commission_rate"}))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM users WHERE id = ANY").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery("SELECT balance FROM users WHERE id =").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"balance"}).AddRow(0.0))
	// The in-transaction re-check finds the cap already spent.
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM task_records").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	if _, err := svc.CompleteTask(context.Background(), 5, ""); !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("err = %v, want ErrLimitExceeded", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCompleteTaskFrozenAccount(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewTaskService(repo, testTierCatalog(), NewCommissionService(repo))

	expectTierExpiryResolve(mock, 5)
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id =").
		WithArgs(int64(5)).
		WillReturnRows(userRow(testUser{id: 5, phone: "01012345678", tier: model.TierV1, active: false}))

	if _, err := svc.CompleteTask(context.Background(), 5, ""); !errors.Is(err, ErrAccountFrozen) {
		t.Fatalf("err = %v, want ErrAccountFrozen", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
