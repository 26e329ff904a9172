package account

import (
	"context"
	"errors"
	"testing"
	"time"

	accountRepo "aircare/database/repository/account"
	"aircare/models"
	"aircare/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	byEmail map[string]*models.Account
	err     error
}

func (m *memoryRepo) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.byEmail[email]
	if !ok {
		return nil, accountRepo.ErrNotFound
	}
	return a, nil
}

func (m *memoryRepo) Upsert(ctx context.Context, a *models.Account) error {
	m.byEmail[a.Email] = a
	return nil
}

var customerInfo = models.CustomerInfo{FirstName: "Wei", LastName: "Tan", Email: "Wei@Gmail.com", Phone: "91234567"}

func newService() (*DefaultAccountService, *memoryRepo) {
	repo := &memoryRepo{byEmail: map[string]*models.Account{}}
	svc := NewDefaultAccountService(repo, nil)
	svc.Clock = utils.FixedClock{T: time.Date(2026, 10, 18, 9, 0, 0, 0, utils.Singapore)}
	return svc, repo
}

func TestVerifyPasswordComplexity(t *testing.T) {
	assert.ErrorIs(t, VerifyPasswordComplexity("abc123"), ErrWeakPassword)
	assert.ErrorIs(t, VerifyPasswordComplexity("abcdefgh"), ErrWeakPassword)
	assert.ErrorIs(t, VerifyPasswordComplexity("12345678"), ErrWeakPassword)
	assert.NoError(t, VerifyPasswordComplexity("aircon2026"))
}

func TestCreateAccount(t *testing.T) {
	svc, repo := newService()
	acct, err := svc.CreateAccount(context.Background(), customerInfo, "bk-1", "aircon2026", "aircon2026")
	require.NoError(t, err)

	assert.Equal(t, "wei@gmail.com", acct.Email)
	assert.Equal(t, []string{"bk-1"}, acct.BookingIDs)
	assert.NotEqual(t, "aircon2026", acct.PasswordHash)
	assert.True(t, CheckPassword(acct, "aircon2026"))
	assert.False(t, CheckPassword(acct, "wrong-pass1"))
	assert.Same(t, acct, repo.byEmail["wei@gmail.com"])
}

func TestCreateAccountRejects(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, customerInfo, "", "aircon2026", "aircon2026")
	assert.ErrorIs(t, err, ErrMissingBooking)

	_, err = svc.CreateAccount(ctx, customerInfo, "bk-1", "aircon2026", "aircon2027")
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	_, err = svc.CreateAccount(ctx, customerInfo, "bk-1", "short1", "short1")
	assert.ErrorIs(t, err, ErrWeakPassword)

	repo.byEmail["wei@gmail.com"] = &models.Account{Email: "wei@gmail.com"}
	_, err = svc.CreateAccount(ctx, customerInfo, "bk-1", "aircon2026", "aircon2026")
	assert.ErrorIs(t, err, ErrAccountExists)
}

func TestCreateAccountRepoFailure(t *testing.T) {
	svc, repo := newService()
	repo.err = errors.New("connection reset")

	_, err := svc.CreateAccount(context.Background(), customerInfo, "bk-1", "aircon2026", "aircon2026")
	assert.ErrorContains(t, err, "connection reset")
}
