package service

import (
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
	"github.com/domengo404/GoldEarn-Backend/internal/repository"
)

// idListConverter lets []int64 args cross the mock driver. The account
// lock query binds its id list as one array parameter, which the pgx
// driver accepts but the default mock converter rejects.
type idListConverter struct{}

func (idListConverter) ConvertValue(v interface{}) (driver.Value, error) {
	if ids, ok := v.([]int64); ok {
		return ids, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newMockRepo(t *testing.T) (*repository.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.ValueConverterOption(idListConverter{}))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return repository.NewWithDB(sqlx.NewDb(db, "sqlmock")), mock
}

var userColumns = []string{
	"id", "phone", "password_hash", "payment_password_hash", "referral_code",
	"balance", "tier", "tier_expiry", "credit_score", "is_active", "created_at",
}

type testUser struct {
	id              int64
	phone           string
	passwordHash    string
	paymentPassword *string
	balance         float64
	tier            model.Tier
	tierExpiry      *time.Time
	active          bool
}

func userRow(u testUser) *sqlmock.Rows {
	return sqlmock.NewRows(userColumns).AddRow(
		u.id, u.phone, u.passwordHash, u.paymentPassword, "ABC123",
		u.balance, string(u.tier), u.tierExpiry, 60, u.active, time.Now(),
	)
}

func entryRow(id string, userID int64, kind model.EntryKind, amount float64, status model.EntryStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "user_id", "kind", "amount", "status", "created_at", "updated_at"}).
		AddRow(id, userID, string(kind), amount, string(status), now, now)
}

func testTierCatalog() *model.TierCatalog {
	return model.NewTierCatalog([]model.TierDefinition{
		{Tier: model.TierTrainee, Rank: 0, Name: "Trainee", Price: 0, DailyTasks: 1, DailyReward: 50, IsActive: true},
		{Tier: model.TierV1, Rank: 1, Name: "V1", Price: 1500, DailyTasks: 1, DailyReward: 50, IsActive: true},
		{Tier: model.TierV2, Rank: 2, Name: "V2", Price: 4800, DailyTasks: 2, DailyReward: 160, IsActive: true},
		{Tier: model.TierV3, Rank: 3, Name: "V3", Price: 15000, DailyTasks: 4, DailyReward: 520, IsActive: true},
		{Tier: model.TierV4, Rank: 4, Name: "V4", Price: 50400, DailyTasks: 6, DailyReward: 1800, IsActive: true},
		{Tier: model.TierV5, Rank: 5, Name: "V5", Price: 162000, DailyTasks: 10, DailyReward: 6000, IsActive: true},
		{Tier: model.TierV6, Rank: 6, Name: "V6", Price: 304200, DailyTasks: 15, DailyReward: 11700, IsActive: true},
		{Tier: model.TierV7, Rank: 7, Name: "V7", Price: 650000, DailyTasks: 20, DailyReward: 26000, IsActive: true},
		{Tier: model.TierV8, Rank: 8, Name: "V8", Price: 1260000, DailyTasks: 25, DailyReward: 52500, IsActive: true},
		{Tier: model.TierPartner, Rank: 9, Name: "Partner", Price: 5200000, DailyTasks: 100, DailyReward: 2600000, IsActive: true},
	})
}
