package repository

import (
	"context"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
)

// GetReferralEdges returns the upline edges of a referred user, ordered
// by ascending referrer id so commission credits derived from them lock
// accounts deterministically.
func (r *Repository) GetReferralEdges(ctx context.Context, referredID int64) ([]model.ReferralEdge, error) {
	var edges []model.ReferralEdge
	err := r.db.SelectContext(ctx, &edges, `
		SELECT * FROM referral_edges WHERE referred_id = $1 ORDER BY referrer_id ASC`, referredID)
	return edges, err
}

func (r *Repository) GetReferredUsers(ctx context.Context, referrerID int64, level int) ([]model.User, error) {
	var users []model.User
	err := r.db.SelectContext(ctx, &users, `
		SELECT u.* FROM users u
		JOIN referral_edges e ON e.referred_id = u.id
		WHERE e.referrer_id = $1 AND e.level = $2
		ORDER BY u.created_at DESC`, referrerID, level)
	return users, err
}

func (r *Repository) GetReferralStats(ctx context.Context, referrerID int64) (*model.ReferralStats, error) {
	var stats model.ReferralStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(*) FILTER (WHERE level = 1) AS level_1_referrals,
			COUNT(*) AS total_team_referrals,
			COALESCE((
				SELECT SUM(le.amount) FROM ledger_entries le
				JOIN referral_edges e ON e.referred_id = le.user_id
				WHERE e.referrer_id = $1 AND e.level = 1
					AND le.kind = 'deposit' AND le.status = 'completed'
			), 0) AS level_1_deposits,
			COALESCE((
				SELECT SUM(le.amount) FROM ledger_entries le
				JOIN referral_edges e ON e.referred_id = le.user_id
				WHERE e.referrer_id = $1
					AND le.kind = 'deposit' AND le.status = 'completed'
			), 0) AS total_team_deposits
		FROM referral_edges WHERE referrer_id = $1`, referrerID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
