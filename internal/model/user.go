package model

import (
	"time"
)

type Tier string

const (
	TierTrainee Tier = "trainee"
	TierV1      Tier = "V1"
	TierV2      Tier = "V2"
	TierV3      Tier = "V3"
	TierV4      Tier = "V4"
	TierV5      Tier = "V5"
	TierV6      Tier = "V6"
	TierV7      Tier = "V7"
	TierV8      Tier = "V8"
	TierPartner Tier = "partner"
)

// AllTiers lists every tier in ascending rank order. The catalog is
// validated against this list at startup.
var AllTiers = []Tier{
	TierTrainee, TierV1, TierV2, TierV3, TierV4,
	TierV5, TierV6, TierV7, TierV8, TierPartner,
}

type User struct {
	ID                  int64      `json:"id" db:"id"`
	Phone               string     `json:"phone" db:"phone"`
	PasswordHash        string     `json:"-" db:"password_hash"`
	PaymentPasswordHash *string    `json:"-" db:"payment_password_hash"`
	ReferralCode        string     `json:"referral_code" db:"referral_code"`
	ReferredBy          *int64     `json:"referred_by,omitempty" db:"referred_by"`
	Nickname            *string    `json:"nickname,omitempty" db:"nickname"`
	Balance             float64    `json:"balance" db:"balance"`
	Tier                Tier       `json:"tier" db:"tier"`
	TierExpiry          *time.Time `json:"tier_expiry,omitempty" db:"tier_expiry"`
	CreditScore         int        `json:"credit_score" db:"credit_score"`
	IsActive            bool       `json:"is_active" db:"is_active"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	LastLogin           *time.Time `json:"last_login,omitempty" db:"last_login"`
}

// TierExpired reports whether the user's paid tier has lapsed. A user
// with no expiry set (trainee) never expires.
func (u *User) TierExpired(now time.Time) bool {
	return u.TierExpiry != nil && u.TierExpiry.Before(now)
}

// HasPaymentPassword reports whether a payment password was ever set.
func (u *User) HasPaymentPassword() bool {
	return u.PaymentPasswordHash != nil && *u.PaymentPasswordHash != ""
}

// UserEarnings aggregates completed reward entries for a user, computed
// on demand from the ledger.
type UserEarnings struct {
	Total    float64 `json:"total_earnings" db:"total_earnings"`
	Task     float64 `json:"task_earnings" db:"task_earnings"`
	Referral float64 `json:"referral_earnings" db:"referral_earnings"`
}
