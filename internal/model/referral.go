package model

import (
	"time"

	"github.com/google/uuid"
)

// Referral levels and their fixed commission rates. Rates are a share
// of the original reward amount, never compounded across levels.
const (
	ReferralMaxLevel = 3

	CommissionRateLevel1 = 0.10
	CommissionRateLevel2 = 0.03
	CommissionRateLevel3 = 0.01
)

// CommissionRateForLevel returns the fixed rate for a referral level,
// or 0 for levels outside 1..3.
func CommissionRateForLevel(level int) float64 {
	switch level {
	case 1:
		return CommissionRateLevel1
	case 2:
		return CommissionRateLevel2
	case 3:
		return CommissionRateLevel3
	}
	return 0
}

// ReferralEdge links a referrer to a referred user at a fixed level.
// Edges are created once at registration by walking the referrer chain
// upward and are never mutated or recomputed.
type ReferralEdge struct {
	ID             uuid.UUID `json:"id" db:"id"`
	ReferrerID     int64     `json:"referrer_id" db:"referrer_id"`
	ReferredID     int64     `json:"referred_id" db:"referred_id"`
	Level          int       `json:"level" db:"level"`
	CommissionRate float64   `json:"commission_rate" db:"commission_rate"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// CommissionCredit is a planned referral commission: one credit to an
// ancestor referrer, applied atomically with the mutation that earned
// it.
type CommissionCredit struct {
	ReferrerID  int64
	Level       int
	Amount      float64
	Description string
}

// ReferralStats summarizes a user's downline.
type ReferralStats struct {
	Level1Referrals    int     `json:"level_1_referrals" db:"level_1_referrals"`
	TotalTeamReferrals int     `json:"total_team_referrals" db:"total_team_referrals"`
	Level1Deposits     float64 `json:"level_1_deposit_amount" db:"level_1_deposits"`
	TotalTeamDeposits  float64 `json:"total_team_deposit_amount" db:"total_team_deposits"`
}
