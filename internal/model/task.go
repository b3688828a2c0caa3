package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskRecord is one completed daily task. The reward amount is frozen
// at completion time, independent of later tier changes.
type TaskRecord struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       int64     `json:"user_id" db:"user_id"`
	TaskKind     string    `json:"task_kind" db:"task_kind"`
	RewardAmount float64   `json:"reward_amount" db:"reward_amount"`
	CompletedAt  time.Time `json:"completed_at" db:"completed_at"`
}

// DefaultTaskKind is used when a completion request names no kind.
const DefaultTaskKind = "survey"

// TaskStats summarizes a user's task activity.
type TaskStats struct {
	TotalTasks    int     `json:"total_tasks" db:"total_tasks"`
	WeeklyTasks   int     `json:"weekly_tasks" db:"weekly_tasks"`
	MonthlyTasks  int     `json:"monthly_tasks" db:"monthly_tasks"`
	TotalEarnings float64 `json:"total_task_earnings" db:"total_earnings"`
}
