package service

import (
	"context"
	"crypto/rand"
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/domengo404/GoldEarn-Backend/internal/model"
	"github.com/domengo404/GoldEarn-Backend/internal/repository"
)

var (
	ErrInvalidPhone        = errors.New("invalid phone number")
	ErrPhoneTaken          = errors.New("phone number already registered")
	ErrInvalidCredentials  = errors.New("wrong phone number or password")
	ErrAccountFrozen       = errors.New("account is frozen")
	ErrReferralCodeInvalid = errors.New("invalid referral code")
	ErrWrongPassword       = errors.New("wrong password")
)

var phonePattern = regexp.MustCompile(`^(010|011|012|015)\d{8}$`)

type UserService struct {
	repo *repository.Repository
}

func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// Register creates an account and, when a referral code is supplied,
// its referral edges. The referrer chain is resolved to account ids
// here, once; the edges are inserted together with the user in one
// atomic unit and never recomputed.
func (s *UserService) Register(ctx context.Context, phone, password, referralCode string) (*model.User, error) {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return nil, ErrInvalidPhone
	}

	taken, err := s.repo.PhoneExists(ctx, phone)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrPhoneTaken
	}

	var (
		referredBy *int64
		edges      []model.ReferralEdge
	)
	if referralCode = strings.TrimSpace(referralCode); referralCode != "" {
		referrer, err := s.repo.GetUserByReferralCode(ctx, referralCode)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return nil, ErrReferralCodeInvalid
			}
			return nil, err
		}
		referredBy = &referrer.ID
		edges, err = s.buildReferralChain(ctx, referrer)
		if err != nil {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	code, err := s.generateReferralCode(ctx)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Phone:        phone,
		PasswordHash: string(hash),
		ReferralCode: code,
		ReferredBy:   referredBy,
	}

	if err := s.repo.CreateUser(ctx, user, edges); err != nil {
		if errors.Is(err, repository.ErrDuplicatePhone) {
			return nil, ErrPhoneTaken
		}
		return nil, err
	}
	return user, nil
}

// buildReferralChain walks the referrer chain upward, producing one
// edge per level with that level's fixed commission rate.
func (s *UserService) buildReferralChain(ctx context.Context, referrer *model.User) ([]model.ReferralEdge, error) {
	edges := make([]model.ReferralEdge, 0, model.ReferralMaxLevel)
	current := referrer

	for level := 1; level <= model.ReferralMaxLevel && current != nil; level++ {
		edges = append(edges, model.ReferralEdge{
			ReferrerID:     current.ID,
			Level:          level,
			CommissionRate: model.CommissionRateForLevel(level),
		})

		if current.ReferredBy == nil {
			break
		}
		parent, err := s.repo.GetUser(ctx, *current.ReferredBy)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				break
			}
			return nil, err
		}
		current = parent
	}
	return edges, nil
}

func (s *UserService) Login(ctx context.Context, phone, password string) (*model.User, error) {
	user, err := s.repo.GetUserByPhone(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountFrozen
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	return user, nil
}

// GetUser returns the account after lazily resolving a lapsed tier.
func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	if err := s.repo.ResolveTierExpiry(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, id)
}

func (s *UserService) GetEarnings(ctx context.Context, userID int64) (*model.UserEarnings, error) {
	return s.repo.GetUserEarnings(ctx, userID)
}

func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePasswordHash(ctx, userID, string(hash))
}

func (s *UserService) SetPaymentPassword(ctx context.Context, userID int64, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePaymentPasswordHash(ctx, userID, string(hash))
}

// CheckPaymentPassword reports whether the supplied payment password
// matches. An account without one set never matches.
func (s *UserService) CheckPaymentPassword(user *model.User, password string) bool {
	if !user.HasPaymentPassword() {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*user.PaymentPasswordHash), []byte(password)) == nil
}

func (s *UserService) UpdateNickname(ctx context.Context, userID int64, nickname *string) error {
	return s.repo.UpdateNickname(ctx, userID, nickname)
}

const (
	referralCodeLength  = 6
	referralCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// generateReferralCode produces a short uppercase alphanumeric code,
// retrying until the store confirms it is unique.
func (s *UserService) generateReferralCode(ctx context.Context) (string, error) {
	for {
		code, err := randomReferralCode()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.ReferralCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

func randomReferralCode() (string, error) {
	buf := make([]byte, referralCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = referralCodeCharset[int(b)%len(referralCodeCharset)]
	}
	return string(buf), nil
}
