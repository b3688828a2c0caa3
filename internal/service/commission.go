package service

import (
	"context"
	"fmt"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
	"github.com/domengo404/GoldEarn-Backend/internal/repository"
)

// CommissionService fans a balance-increasing event out to up to three
// ancestor referrers. Each ancestor earns a fixed percentage of the
// original amount (10%/3%/1% by level), never a percentage of another
// commission. The planned credits are applied by the repository inside
// the same transaction as the event that earned them.
type CommissionService struct {
	repo *repository.Repository
}

func NewCommissionService(repo *repository.Repository) *CommissionService {
	return &CommissionService{repo: repo}
}

// Plan turns the source user's upline edges into commission credits.
// Edges arrive ordered by ascending referrer id and the credits keep
// that order, which fixes the lock order downstream.
func (s *CommissionService) Plan(edges []model.ReferralEdge, amount float64, sourceLabel, sourcePhone string) []model.CommissionCredit {
	credits := make([]model.CommissionCredit, 0, len(edges))
	for _, edge := range edges {
		credits = append(credits, model.CommissionCredit{
			ReferrerID:  edge.ReferrerID,
			Level:       edge.Level,
			Amount:      amount * edge.CommissionRate,
			Description: fmt.Sprintf("Level %d referral commission - %s %s", edge.Level, sourceLabel, sourcePhone),
		})
	}
	return credits
}

// PlanFor loads the upline of a source user and plans the fan-out for
// an event of the given amount and label.
func (s *CommissionService) PlanFor(ctx context.Context, sourceUser *model.User, amount float64, sourceLabel string) ([]model.CommissionCredit, error) {
	edges, err := s.repo.GetReferralEdges(ctx, sourceUser.ID)
	if err != nil {
		return nil, err
	}
	return s.Plan(edges, amount, sourceLabel, sourceUser.Phone), nil
}

func (s *CommissionService) GetReferralStats(ctx context.Context, userID int64) (*model.ReferralStats, error) {
	return s.repo.GetReferralStats(ctx, userID)
}

func (s *CommissionService) GetReferredUsers(ctx context.Context, referrerID int64, level int) ([]model.User, error) {
	if level < 1 || level > model.ReferralMaxLevel {
		level = 1
	}
	return s.repo.GetReferredUsers(ctx, referrerID, level)
}
