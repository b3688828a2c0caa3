package model

import "testing"

func testCatalog() *TierCatalog {
	defs := []TierDefinition{
		{Tier: TierTrainee, Rank: 0, Name: "Trainee", Price: 0, DailyTasks: 1, DailyReward: 50, IsActive: true},
		{Tier: TierV1, Rank: 1, Name: "V1", Price: 1500, DailyTasks: 1, DailyReward: 50, IsActive: true},
		{Tier: TierV2, Rank: 2, Name: "V2", Price: 4800, DailyTasks: 2, DailyReward: 160, IsActive: true},
		{Tier: TierV3, Rank: 3, Name: "V3", Price: 15000, DailyTasks: 4, DailyReward: 520, IsActive: true},
		{Tier: TierV4, Rank: 4, Name: "V4", Price: 50400, DailyTasks: 6, DailyReward: 1800, IsActive: true},
		{Tier: TierV5, Rank: 5, Name: "V5", Price: 162000, DailyTasks: 10, DailyReward: 6000, IsActive: true},
		{Tier: TierV6, Rank: 6, Name: "V6", Price: 304200, DailyTasks: 15, DailyReward: 11700, IsActive: true},
		{Tier: TierV7, Rank: 7, Name: "V7", Price: 650000, DailyTasks: 20, DailyReward: 26000, IsActive: true},
		{Tier: TierV8, Rank: 8, Name: "V8", Price: 1260000, DailyTasks: 25, DailyReward: 52500, IsActive: true},
		{Tier: TierPartner, Rank: 9, Name: "Partner", Price: 5200000, DailyTasks: 100, DailyReward: 2600000, IsActive: true},
	}
	return NewTierCatalog(defs)
}

func TestCatalogValidate(t *testing.T) {
	if err := testCatalog().Validate(); err != nil {
		t.Fatalf("complete catalog should validate: %v", err)
	}
}

func TestCatalogValidateMissingTier(t *testing.T) {
	catalog := NewTierCatalog([]TierDefinition{
		{Tier: TierTrainee, Rank: 0, IsActive: true},
	})
	if err := catalog.Validate(); err == nil {
		t.Fatal("catalog missing tiers should fail validation")
	}
}

func TestCatalogValidateRankOrder(t *testing.T) {
	catalog := testCatalog()
	def := catalog.byTier[TierV2]
	def.Rank = 0
	catalog.byTier[TierV2] = def
	if err := catalog.Validate(); err == nil {
		t.Fatal("out-of-order ranks should fail validation")
	}
}

func TestCatalogUnknownTierFallsBackToTrainee(t *testing.T) {
	catalog := testCatalog()

	if got := catalog.DailyTasks(Tier("V99")); got != 1 {
		t.Fatalf("unknown tier daily tasks = %d, want trainee's 1", got)
	}
	if got := catalog.DailyReward(Tier("V99")); got != 50 {
		t.Fatalf("unknown tier daily reward = %v, want trainee's 50", got)
	}
	if got := catalog.Rank(Tier("V99")); got != 0 {
		t.Fatalf("unknown tier rank = %d, want trainee's 0", got)
	}
}

func TestCatalogPurchasable(t *testing.T) {
	catalog := testCatalog()

	defs := catalog.Purchasable()
	if len(defs) != len(AllTiers)-1 {
		t.Fatalf("purchasable tiers = %d, want %d", len(defs), len(AllTiers)-1)
	}
	for i, def := range defs {
		if def.Tier == TierTrainee {
			t.Fatal("trainee must not be purchasable")
		}
		if i > 0 && def.Rank <= defs[i-1].Rank {
			t.Fatalf("purchasable tiers out of rank order at %s", def.Tier)
		}
	}
}

func TestCatalogPurchasableSkipsInactive(t *testing.T) {
	catalog := testCatalog()
	def := catalog.byTier[TierV5]
	def.IsActive = false
	catalog.byTier[TierV5] = def

	for _, d := range catalog.Purchasable() {
		if d.Tier == TierV5 {
			t.Fatal("inactive tier must not be purchasable")
		}
	}
}
