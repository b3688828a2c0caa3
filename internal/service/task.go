package service

import (
	"context"
	"errors"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
	"github.com/domengo404/GoldEarn-Backend/internal/repository"
)

var ErrLimitExceeded = errors.New("daily task limit reached")

// TaskService is the daily task engine: eligibility checks and reward
// issuance with referral fan-out.
type TaskService struct {
	repo          *repository.Repository
	catalog       *model.TierCatalog
	commissionSvc *CommissionService
}

func NewTaskService(repo *repository.Repository, catalog *model.TierCatalog, commissionSvc *CommissionService) *TaskService {
	return &TaskService{repo: repo, catalog: catalog, commissionSvc: commissionSvc}
}

// TaskEligibility describes what a user can still do today.
type TaskEligibility struct {
	CanDoTask      bool       `json:"can_do_task"`
	CompletedToday int        `json:"tasks_completed_today"`
	MaxDailyTasks  int        `json:"max_daily_tasks"`
	DailyReward    float64    `json:"daily_reward"`
	Tier           model.Tier `json:"tier"`
}

// CanPerformTask compares today's completions against the tier-derived
// cap. Read-only; the authoritative check re-runs inside CompleteTask.
func (s *TaskService) CanPerformTask(ctx context.Context, userID int64) (*TaskEligibility, error) {
	if err := s.repo.ResolveTierExpiry(ctx, userID); err != nil {
		return nil, err
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.CountTasksToday(ctx, userID)
	if err != nil {
		return nil, err
	}

	cap := s.catalog.DailyTasks(user.Tier)
	return &TaskEligibility{
		CanDoTask:      count < cap,
		CompletedToday: count,
		MaxDailyTasks:  cap,
		DailyReward:    s.catalog.DailyReward(user.Tier),
		Tier:           user.Tier,
	}, nil
}

// CompleteTask issues the tier reward for one task. The task record,
// the reward entry, the balance credit and every upline commission
// commit as a single atomic unit; a conflict rolls all of them back.
func (s *TaskService) CompleteTask(ctx context.Context, userID int64, taskKind string) (*repository.TaskCompletion, error) {
	if taskKind == "" {
		taskKind = model.DefaultTaskKind
	}

	if err := s.repo.ResolveTierExpiry(ctx, userID); err != nil {
		return nil, err
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountFrozen
	}

	reward := s.catalog.DailyReward(user.Tier)
	cap := s.catalog.DailyTasks(user.Tier)

	credits, err := s.commissionSvc.PlanFor(ctx, user, reward, "task")
	if err != nil {
		return nil, err
	}

	result, err := s.repo.CompleteTask(ctx, userID, taskKind, reward, cap, credits)
	if err != nil {
		if errors.Is(err, repository.ErrDailyCapReached) {
			return nil, ErrLimitExceeded
		}
		return nil, err
	}
	return result, nil
}

func (s *TaskService) GetTaskHistory(ctx context.Context, userID int64, limit, offset int) ([]model.TaskRecord, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.GetTaskHistory(ctx, userID, limit, offset)
}

func (s *TaskService) GetTaskStats(ctx context.Context, userID int64) (*model.TaskStats, error) {
	return s.repo.GetTaskStats(ctx, userID)
}
