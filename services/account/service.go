// Package account lets a customer keep an account after a confirmed booking.
package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	accountRepo "aircare/database/repository/account"
	"aircare/models"
	"aircare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrAccountExists    = errors.New("an account with this email already exists")
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrMissingBooking   = errors.New("a confirmed booking is required")
	ErrWeakPassword     = errors.New("password is too weak")
)

var (
	hasLetter = regexp.MustCompile(`[A-Za-z]`)
	hasNumber = regexp.MustCompile(`[0-9]`)
)

// VerifyPasswordComplexity checks that the password meets complexity requirements.
func VerifyPasswordComplexity(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("%w: use at least 8 characters", ErrWeakPassword)
	}
	if !hasLetter.MatchString(pw) {
		return fmt.Errorf("%w: include at least one letter", ErrWeakPassword)
	}
	if !hasNumber.MatchString(pw) {
		return fmt.Errorf("%w: include at least one number", ErrWeakPassword)
	}
	return nil
}

type AccountService interface {
	CreateAccount(ctx context.Context, info models.CustomerInfo, bookingID, password, confirm string) (*models.Account, error)
}

type DefaultAccountService struct {
	Repo   accountRepo.AccountRepository
	Clock  utils.Clock
	Logger *zap.Logger
}

func NewDefaultAccountService(repo accountRepo.AccountRepository, logger *zap.Logger) *DefaultAccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAccountService{Repo: repo, Clock: utils.SystemClock(), Logger: logger}
}

// CreateAccount stores a new account for the booking's customer.
func (s *DefaultAccountService) CreateAccount(ctx context.Context, info models.CustomerInfo, bookingID, password, confirm string) (*models.Account, error) {
	if bookingID == "" {
		return nil, ErrMissingBooking
	}
	if err := VerifyPasswordComplexity(password); err != nil {
		return nil, err
	}
	if password != confirm {
		return nil, ErrPasswordMismatch
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, accountRepo.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.Clock.Now()
	acct := &models.Account{
		ID:           uuid.New().String(),
		Email:        email,
		Phone:        info.Phone,
		FirstName:    info.FirstName,
		LastName:     info.LastName,
		PasswordHash: string(hashed),
		BookingIDs:   []string{bookingID},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Upsert(ctx, acct); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	s.Logger.Info("customer account created", zap.String("accountId", acct.ID), zap.String("bookingId", bookingID))
	return acct, nil
}

// CheckPassword reports whether password matches acct's hash.
func CheckPassword(acct *models.Account, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) == nil
}
