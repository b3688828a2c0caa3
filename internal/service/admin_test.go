package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/domengo404/GoldEarn-Backend/internal/repository"
)

func TestIsAdmin(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewAdminService(repo, nil)

	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM admins").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM admins").
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := svc.IsAdmin(context.Background(), 1)
	if err != nil || !ok {
		t.Fatalf("IsAdmin(1) = %v, %v, want true", ok, err)
	}
	ok, err = svc.IsAdmin(context.Background(), 2)
	if err != nil || ok {
		t.Fatalf("IsAdmin(2) = %v, %v, want false", ok, err)
	}
}

func TestSetUserActiveLogsAction(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewAdminService(repo, nil)

	mock.ExpectExec("UPDATE users SET is_active =").
		WithArgs(false, int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO admin_logs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.SetUserActive(context.Background(), 1, 7, false); err != nil {
		t.Fatalf("freeze: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSetUserActiveUnknownUser(t *testing.T) {
	repo, mock := newMockRepo(t)
	svc := NewAdminService(repo, nil)

	mock.ExpectExec("UPDATE users SET is_active =").
		WithArgs(false, int64(999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := svc.SetUserActive(context.Background(), 1, 999, false); !errors.Is(err, repository.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}
