package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
)

func TestPhonePattern(t *testing.T) {
	valid := []string{"01012345678", "01112345678", "01212345678", "01512345678"}
	for _, phone := range valid {
		if !phonePattern.MatchString(phone) {
			t.Fatalf("phone %q should be valid", phone)
		}
	}

	invalid := []string{
		"01312345678", // unknown prefix
		"0101234567",  // too short
		"010123456789",
		"21012345678",
		"0101234567a",
		"",
	}
	for _, phone := range invalid {
		if phonePattern.MatchString(phone) {
			t.Fatalf("phone %q should be invalid", phone)
		}
	}
}

func TestRegisterInvalidPhone(t *testing.T) {
	svc := NewUserService(nil)
	if _, err := svc.Register(context.Background(), "123", "secret1", ""); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("err = %v, want ErrInvalidPhone", err)
	}
}

func TestRandomReferralCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := randomReferralCode()
		if err != nil {
			t.Fatalf("generate code: %v", err)
		}
		if len(code) != referralCodeLength {
			t.Fatalf("code %q length = %d, want %d", code, len(code), referralCodeLength)
		}
		for _, ch := range code {
			if !strings.ContainsRune(referralCodeCharset, ch) {
				t.Fatalf("code %q contains %q outside charset", code, ch)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatal("codes should not all collide")
	}
}

func TestGenerateReferralCodeRetriesOnCollision(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewUserService(repo)

	// First candidate collides with an existing code; a second one is
	// generated and accepted.
	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM users WHERE referral_code =").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM users WHERE referral_code =").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	code, err := svc.generateReferralCode(context.Background())
	if err != nil {
		t.Fatalf("generate referral code: %v", err)
	}
	if len(code) != referralCodeLength {
		t.Fatalf("code %q length = %d, want %d", code, len(code), referralCodeLength)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRegisterConcurrentDuplicatePhone(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewUserService(repo)

	// The pre-insert existence check sees no duplicate; a racing
	// registration wins the insert and the unique constraint fires.
	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM users WHERE phone =").
		WithArgs("01012345678").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM users WHERE referral_code =").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_phone_key"})
	mock.ExpectRollback()

	if _, err := svc.Register(context.Background(), "01012345678", "secret1", ""); !errors.Is(err, ErrPhoneTaken) {
		t.Fatalf("err = %v, want ErrPhoneTaken", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewUserService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	mock.ExpectQuery("SELECT (.+) FROM users WHERE phone =").
		WithArgs("01012345678").
		WillReturnRows(userRow(testUser{
			id: 1, phone: "01012345678", passwordHash: string(hash),
			tier: model.TierTrainee, active: true,
		}))

	if _, err := svc.Login(context.Background(), "01012345678", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLoginFrozenAccount(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewUserService(repo)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	mock.ExpectQuery("SELECT (.+) FROM users WHERE phone =").
		WithArgs("01012345678").
		WillReturnRows(userRow(testUser{
			id: 1, phone: "01012345678", passwordHash: string(hash),
			tier: model.TierTrainee, active: false,
		}))

	if _, err := svc.Login(context.Background(), "01012345678", "secret1"); !errors.Is(err, ErrAccountFrozen) {
		t.Fatalf("err = %v, want ErrAccountFrozen", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCheckPaymentPassword(t *testing.T) {
	svc := NewUserService(nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("pay-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	hashStr := string(hash)

	withPassword := &model.User{PaymentPasswordHash: &hashStr}
	if !svc.CheckPaymentPassword(withPassword, "pay-secret") {
		t.Fatal("correct payment password should match")
	}
	if svc.CheckPaymentPassword(withPassword, "other") {
		t.Fatal("wrong payment password should not match")
	}

	// An account that never set one matches nothing.
	if svc.CheckPaymentPassword(&model.User{}, "pay-secret") {
		t.Fatal("unset payment password should never match")
	}
}

func TestRegisterBuildsUplineEdges(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewUserService(repo)

	grandparentID := int64(1)

	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM users WHERE phone =").
		WithArgs("01599999999").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	// Direct referrer, itself referred by user 1.
	mock.ExpectQuery("SELECT (.+) FROM users WHERE referral_code =").
		WithArgs("REF002").
		WillReturnRows(sqlmock.NewRows([]string{"id", "phone", "password_hash", "referral_code", "referred_by", "tier", "is_active"}).
			AddRow(2, "01012345678", "x", "REF002", grandparentID, string(model.TierTrainee), true))
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id =").
		WithArgs(grandparentID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "phone", "password_hash", "referral_code", "tier", "is_active"}).
			AddRow(1, "01011111111", "x", "REF001", string(model.TierTrainee), true))

	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM users WHERE referral_code =").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WillReturnRows(sqlmock.NewRows([]string{"id", "balance", "tier", "credit_score", "is_active", "created_at"}).
			AddRow(3, 0.0, string(model.TierTrainee), 60, true, time.Now()))
	mock.ExpectExec("INSERT INTO referral_edges").
		WithArgs(int64(2), int64(3), 1, 0.10).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO referral_edges").
		WithArgs(int64(1), int64(3), 2, 0.03).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user, err := svc.Register(context.Background(), "01599999999", "secret1", "REF002")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID != 3 {
		t.Fatalf("user id = %d, want 3", user.ID)
	}
	if user.ReferredBy == nil || *user.ReferredBy != 2 {
		t.Fatalf("referred_by = %v, want 2", user.ReferredBy)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
