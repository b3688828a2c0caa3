package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicatePhone = errors.New("phone already exists")
)

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation on the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == constraint
}

func (r *Repository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE phone = $1", phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	var user model.User
	err := r.db.GetContext(ctx, &user, "SELECT * FROM users WHERE referral_code = $1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ReferralCodeExists reports whether a generated code is already taken.
func (r *Repository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM users WHERE referral_code = $1)", code)
	return exists, err
}

func (r *Repository) PhoneExists(ctx context.Context, phone string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM users WHERE phone = $1)", phone)
	return exists, err
}

// CreateUser inserts the user together with the referral edges of its
// upline as one atomic unit. Edges are created only here, at
// registration, and never recomputed afterwards.
func (r *Repository) CreateUser(ctx context.Context, user *model.User, edges []model.ReferralEdge) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO users (phone, password_hash, referral_code, referred_by, nickname)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, balance, tier, credit_score, is_active, created_at`

	err = tx.QueryRowContext(ctx, query,
		user.Phone,
		user.PasswordHash,
		user.ReferralCode,
		user.ReferredBy,
		user.Nickname,
	).Scan(&user.ID, &user.Balance, &user.Tier, &user.CreditScore, &user.IsActive, &user.CreatedAt)
	if err != nil {
		// Two racing registrations with the same phone both pass the
		// pre-insert existence check; the constraint settles it.
		if isUniqueViolation(err, "users_phone_key") {
			return ErrDuplicatePhone
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	for i := range edges {
		edges[i].ReferredID = user.ID
		_, err = tx.ExecContext(ctx, `
			INSERT INTO referral_edges (referrer_id, referred_id, level, commission_rate)
			VALUES ($1, $2, $3, $4)`,
			edges[i].ReferrerID, edges[i].ReferredID, edges[i].Level, edges[i].CommissionRate)
		if err != nil {
			return fmt.Errorf("failed to create referral edge: %w", err)
		}
	}

	return tx.Commit()
}

func (r *Repository) UpdateLastLogin(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET last_login = $1 WHERE id = $2", at, userID)
	return err
}

func (r *Repository) UpdateNickname(ctx context.Context, userID int64, nickname *string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET nickname = $1 WHERE id = $2", nickname, userID)
	return err
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, userID int64, hash string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET password_hash = $1 WHERE id = $2", hash, userID)
	return err
}

func (r *Repository) UpdatePaymentPasswordHash(ctx context.Context, userID int64, hash string) error {
	_, err := r.db.ExecContext(ctx, "UPDATE users SET payment_password_hash = $1 WHERE id = $2", hash, userID)
	return err
}

// SetUserActive freezes or unfreezes an account. Frozen accounts are
// never deleted.
func (r *Repository) SetUserActive(ctx context.Context, userID int64, active bool) error {
	res, err := r.db.ExecContext(ctx, "UPDATE users SET is_active = $1 WHERE id = $2", active, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ResolveTierExpiry lazily reverts a lapsed paid tier back to trainee.
// The conditional UPDATE makes the reset idempotent and race-free.
func (r *Repository) ResolveTierExpiry(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users SET tier = $1, tier_expiry = NULL
		WHERE id = $2 AND tier_expiry IS NOT NULL AND tier_expiry < NOW()`,
		model.TierTrainee, userID)
	return err
}

func (r *Repository) ListUsers(ctx context.Context, limit, offset int, search string) ([]model.User, int, error) {
	var users []model.User
	var total int

	if search != "" {
		pattern := "%" + search + "%"
		if err := r.db.GetContext(ctx, &total,
			"SELECT COUNT(*) FROM users WHERE phone LIKE $1 OR nickname LIKE $1", pattern); err != nil {
			return nil, 0, err
		}
		err := r.db.SelectContext(ctx, &users, `
			SELECT * FROM users WHERE phone LIKE $1 OR nickname LIKE $1
			ORDER BY created_at DESC LIMIT $2 OFFSET $3`, pattern, limit, offset)
		return users, total, err
	}

	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM users"); err != nil {
		return nil, 0, err
	}
	err := r.db.SelectContext(ctx, &users,
		"SELECT * FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	return users, total, err
}
