package model

import (
	"time"

	"github.com/google/uuid"
)

type AdminRole string

const (
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSuperAdmin AdminRole = "superadmin"
)

type Admin struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Role      AdminRole `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	CreatedBy *int64    `json:"created_by,omitempty" db:"created_by"`
}

type AdminLog struct {
	ID           uuid.UUID `json:"id" db:"id"`
	AdminID      int64     `json:"admin_id" db:"admin_id"`
	Action       string    `json:"action" db:"action"`
	TargetUserID *int64    `json:"target_user_id,omitempty" db:"target_user_id"`
	Details      []byte    `json:"details,omitempty" db:"details"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Admin action constants
const (
	AdminActionFreezeUser   = "freeze_user"
	AdminActionUnfreezeUser = "unfreeze_user"
	AdminActionApproveEntry = "approve_entry"
	AdminActionRejectEntry  = "reject_entry"
)

// PlatformReport is the admin dashboard aggregate.
type PlatformReport struct {
	TotalUsers       int     `json:"total_users" db:"total_users"`
	ActiveUsers      int     `json:"active_users" db:"active_users"`
	TotalDeposits    float64 `json:"total_deposits" db:"total_deposits"`
	TotalWithdrawals float64 `json:"total_withdrawals" db:"total_withdrawals"`
}
