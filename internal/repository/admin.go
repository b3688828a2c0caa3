package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
)

var ErrAdminNotFound = errors.New("admin not found")

func (r *Repository) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM admins WHERE user_id = $1)", userID)
	return exists, err
}

func (r *Repository) GetAdmin(ctx context.Context, userID int64) (*model.Admin, error) {
	var admin model.Admin
	err := r.db.GetContext(ctx, &admin, "SELECT * FROM admins WHERE user_id = $1", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *Repository) LogAdminAction(ctx context.Context, adminID int64, action string, targetUserID *int64, details map[string]interface{}) error {
	var payload []byte
	if details != nil {
		var err error
		payload, err = json.Marshal(details)
		if err != nil {
			return err
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_logs (admin_id, action, target_user_id, details)
		VALUES ($1, $2, $3, $4)`, adminID, action, targetUserID, payload)
	return err
}

func (r *Repository) GetPlatformReport(ctx context.Context) (*model.PlatformReport, error) {
	var report model.PlatformReport
	err := r.db.GetContext(ctx, &report, `
		SELECT
			(SELECT COUNT(*) FROM users) AS total_users,
			(SELECT COUNT(*) FROM users WHERE is_active) AS active_users,
			COALESCE((SELECT SUM(amount) FROM ledger_entries WHERE kind = 'deposit' AND status = 'completed'), 0) AS total_deposits,
			COALESCE((SELECT ABS(SUM(amount)) FROM ledger_entries WHERE kind = 'withdrawal' AND status = 'completed'), 0) AS total_withdrawals`)
	if err != nil {
		return nil, err
	}
	return &report, nil
}
