package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
	"github.com/domengo404/GoldEarn-Backend/internal/repository"
)

var (
	ErrBadCredential = errors.New("wrong payment password")
	ErrUnknownTier   = errors.New("tier package not found")
	ErrTierNotHigher = errors.New("account already holds this tier or higher")
)

// VIPService gates tier purchases against the catalog, tier ordering
// and balance, and lazily reverts expired tiers.
type VIPService struct {
	repo    *repository.Repository
	catalog *model.TierCatalog
	userSvc *UserService
}

func NewVIPService(repo *repository.Repository, catalog *model.TierCatalog, userSvc *UserService) *VIPService {
	return &VIPService{repo: repo, catalog: catalog, userSvc: userSvc}
}

// LoadCatalog reads the seeded tier definitions and validates that
// every tier has an entry before the service goes live.
func LoadCatalog(ctx context.Context, repo *repository.Repository) (*model.TierCatalog, error) {
	defs, err := repo.GetTierDefinitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load tier catalog: %w", err)
	}
	catalog := model.NewTierCatalog(defs)
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Subscribe purchases a tier. Trainees may buy into any tier; everyone
// else only strictly higher ones. The price debit, the tier change and
// the tier_purchase entry commit together, and no commission ever fans
// out from a tier purchase.
func (s *VIPService) Subscribe(ctx context.Context, userID int64, target model.Tier, paymentPassword string) (*repository.TierPurchase, error) {
	user, err := s.userSvc.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountFrozen
	}

	if user.HasPaymentPassword() && !s.userSvc.CheckPaymentPassword(user, paymentPassword) {
		return nil, ErrBadCredential
	}

	def, ok := s.catalog.Get(target)
	if !ok || !def.IsActive || target == model.TierTrainee {
		return nil, ErrUnknownTier
	}

	// Trainees buy into any tier, even one of equal nominal rank.
	if user.Tier != model.TierTrainee && s.catalog.Rank(target) <= s.catalog.Rank(user.Tier) {
		return nil, ErrTierNotHigher
	}

	if user.Balance < def.Price {
		return nil, ErrInsufficientBalance
	}

	expiry := time.Now().Add(model.TierSubscriptionDuration)
	purchase, err := s.repo.PurchaseTier(ctx, userID, def, expiry)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientFunds) {
			return nil, ErrInsufficientBalance
		}
		return nil, err
	}
	return purchase, nil
}

// VIPStatus is the current-tier view including the tier's catalog row.
type VIPStatus struct {
	Tier          model.Tier            `json:"current_tier"`
	TierExpiry    *time.Time            `json:"tier_expiry,omitempty"`
	Package       *model.TierDefinition `json:"current_package,omitempty"`
	MaxDailyTasks int                   `json:"max_daily_tasks"`
	DailyReward   float64               `json:"daily_reward"`
}

// ResolveStatus resolves a lapsed expiry first, so a stale paid tier
// reads back as trainee with trainee caps and rewards.
func (s *VIPService) ResolveStatus(ctx context.Context, userID int64) (*VIPStatus, error) {
	user, err := s.userSvc.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	status := &VIPStatus{
		Tier:          user.Tier,
		TierExpiry:    user.TierExpiry,
		MaxDailyTasks: s.catalog.DailyTasks(user.Tier),
		DailyReward:   s.catalog.DailyReward(user.Tier),
	}
	if user.Tier != model.TierTrainee {
		if def, ok := s.catalog.Get(user.Tier); ok {
			status.Package = &def
		}
	}
	return status, nil
}

// Packages lists the purchasable catalog in rank order.
func (s *VIPService) Packages() []model.TierDefinition {
	return s.catalog.Purchasable()
}

// Package returns one catalog row by tier.
func (s *VIPService) Package(tier model.Tier) (model.TierDefinition, error) {
	def, ok := s.catalog.Get(tier)
	if !ok || !def.IsActive {
		return model.TierDefinition{}, ErrUnknownTier
	}
	return def, nil
}
