package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
)

// ErrDailyCapReached is returned when the in-transaction re-check finds
// the day's task cap already spent. Concurrent completions for the same
// account serialize on the user row lock, so the cap cannot be bypassed
// by a race.
var ErrDailyCapReached = errors.New("daily task cap reached")

// CountTasksToday returns how many tasks the user completed today (UTC
// calendar day). No lock is taken; callers needing a race-free answer
// use CompleteTask, which re-checks under the row lock.
func (r *Repository) CountTasksToday(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM task_records
		WHERE user_id = $1 AND completed_at::date = CURRENT_DATE`, userID)
	return count, err
}

// TaskCompletion is the result of one completed task: the record, the
// reward entry, the commission entries fanned out to the upline, and
// the user's balance after all credits.
type TaskCompletion struct {
	Record      model.TaskRecord
	Entry       model.LedgerEntry
	Commissions []model.LedgerEntry
	NewBalance  float64
}

// CompleteTask performs the whole task-completion atomic unit in one
// transaction: lock every involved account row in ascending id order,
// re-check the daily cap, insert the task record and the completed
// task_reward entry, credit the balance, then apply every planned
// commission credit to its referrer. Either all of it commits or none
// of it does.
func (r *Repository) CompleteTask(ctx context.Context, userID int64, taskKind string, reward float64, dailyCap int, credits []model.CommissionCredit) (*TaskCompletion, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if err := lockBalances(ctx, tx, userID, credits); err != nil {
		return nil, err
	}

	var balance float64
	err = tx.GetContext(ctx, &balance, "SELECT balance FROM users WHERE id = $1", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}

	var todayCount int
	err = tx.GetContext(ctx, &todayCount, `
		SELECT COUNT(*) FROM task_records
		WHERE user_id = $1 AND completed_at::date = CURRENT_DATE`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	if todayCount >= dailyCap {
		return nil, ErrDailyCapReached
	}

	result := &TaskCompletion{}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO task_records (user_id, task_kind, reward_amount)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, task_kind, reward_amount, completed_at`,
		userID, taskKind, reward,
	).Scan(&result.Record.ID, &result.Record.UserID, &result.Record.TaskKind,
		&result.Record.RewardAmount, &result.Record.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert task record: %w", err)
	}

	description := fmt.Sprintf("Daily task reward - %s", taskKind)
	result.Entry, err = insertCompletedEntry(ctx, tx, userID, model.EntryKindTaskReward, reward, description)
	if err != nil {
		return nil, err
	}

	newBalance := balance + reward
	_, err = tx.ExecContext(ctx, "UPDATE users SET balance = $1 WHERE id = $2", newBalance, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}
	result.NewBalance = newBalance

	result.Commissions, err = applyCommissionCredits(ctx, tx, credits)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Repository) GetTaskHistory(ctx context.Context, userID int64, limit, offset int) ([]model.TaskRecord, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM task_records WHERE user_id = $1", userID); err != nil {
		return nil, 0, err
	}

	var records []model.TaskRecord
	err := r.db.SelectContext(ctx, &records, `
		SELECT * FROM task_records WHERE user_id = $1
		ORDER BY completed_at DESC LIMIT $2 OFFSET $3`, userID, limit, offset)
	return records, total, err
}

func (r *Repository) GetTaskStats(ctx context.Context, userID int64) (*model.TaskStats, error) {
	var stats model.TaskStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(*) AS total_tasks,
			COUNT(*) FILTER (WHERE completed_at >= NOW() - INTERVAL '7 days') AS weekly_tasks,
			COUNT(*) FILTER (WHERE completed_at >= NOW() - INTERVAL '30 days') AS monthly_tasks,
			COALESCE(SUM(reward_amount), 0) AS total_earnings
		FROM task_records WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
