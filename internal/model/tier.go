package model

import (
	"fmt"
	"time"
)

// TierDefinition is one row of the tier catalog. The catalog is seeded
// by migration and treated as read-only reference data afterwards.
type TierDefinition struct {
	Tier          Tier      `json:"tier" db:"tier"`
	Rank          int       `json:"rank" db:"rank"`
	Name          string    `json:"name" db:"name"`
	Price         float64   `json:"price" db:"price"`
	DailyTasks    int       `json:"daily_tasks" db:"daily_tasks"`
	DailyReward   float64   `json:"daily_reward" db:"daily_reward"`
	MonthlyIncome float64   `json:"monthly_income" db:"monthly_income"`
	YearlyIncome  float64   `json:"yearly_income" db:"yearly_income"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// TierCatalog is the in-memory view of tier_definitions, loaded once at
// startup and never mutated after Validate passes.
type TierCatalog struct {
	byTier map[Tier]TierDefinition
}

func NewTierCatalog(defs []TierDefinition) *TierCatalog {
	byTier := make(map[Tier]TierDefinition, len(defs))
	for _, d := range defs {
		byTier[d.Tier] = d
	}
	return &TierCatalog{byTier: byTier}
}

// Validate checks that every known tier has a catalog entry and that
// ranks follow the declared tier order.
func (c *TierCatalog) Validate() error {
	prevRank := -1
	for _, tier := range AllTiers {
		def, ok := c.byTier[tier]
		if !ok {
			return fmt.Errorf("tier catalog missing entry for %s", tier)
		}
		if def.Rank <= prevRank {
			return fmt.Errorf("tier catalog rank out of order at %s", tier)
		}
		prevRank = def.Rank
	}
	return nil
}

// Get returns the definition for a tier and whether it exists.
func (c *TierCatalog) Get(tier Tier) (TierDefinition, bool) {
	def, ok := c.byTier[tier]
	return def, ok
}

// Rank returns a tier's ordering rank. Unknown tiers rank as trainee.
func (c *TierCatalog) Rank(tier Tier) int {
	if def, ok := c.byTier[tier]; ok {
		return def.Rank
	}
	return c.byTier[TierTrainee].Rank
}

// DailyTasks returns the daily task cap for a tier. Unknown tiers fall
// back to trainee values rather than erroring.
func (c *TierCatalog) DailyTasks(tier Tier) int {
	if def, ok := c.byTier[tier]; ok {
		return def.DailyTasks
	}
	return c.byTier[TierTrainee].DailyTasks
}

// DailyReward returns the per-task reward for a tier, with the same
// trainee fallback as DailyTasks.
func (c *TierCatalog) DailyReward(tier Tier) float64 {
	if def, ok := c.byTier[tier]; ok {
		return def.DailyReward
	}
	return c.byTier[TierTrainee].DailyReward
}

// Purchasable returns the active purchasable tiers in rank order
// (everything except trainee, which is the free default).
func (c *TierCatalog) Purchasable() []TierDefinition {
	defs := make([]TierDefinition, 0, len(c.byTier))
	for _, tier := range AllTiers {
		def, ok := c.byTier[tier]
		if !ok || tier == TierTrainee || !def.IsActive {
			continue
		}
		defs = append(defs, def)
	}
	return defs
}

// TierSubscriptionDuration is how long a purchased tier stays active.
const TierSubscriptionDuration = 365 * 24 * time.Hour
