package flow

import (
	"context"
	"sync"
	"testing"
	"time"

	"aircare/models"
	"aircare/services/booking"
	"aircare/services/customer"
	"aircare/services/otp"
	"aircare/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBookings struct {
	mu    sync.Mutex
	items map[string]*models.Booking
	seq   int
}

func (m *memBookings) CreateBooking(ctx context.Context, d models.BookingDraft) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	id := "bk-" + string(rune('0'+m.seq))
	m.items[id] = &models.Booking{ID: id, ServiceID: d.ServiceID, Customer: d.Customer,
		Status: models.BookingPending, PaymentStatus: models.PaymentPending}
	return id, nil
}

func (m *memBookings) UpdateBooking(ctx context.Context, id string, u models.BookingUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return booking.ErrNotFound
	}
	if u.Status != nil {
		b.Status = *u.Status
	}
	if u.PaymentStatus != nil {
		b.PaymentStatus = *u.PaymentStatus
	}
	if u.Date != nil {
		b.Date = *u.Date
	}
	if u.ServiceID != nil {
		b.ServiceID = *u.ServiceID
	}
	if u.Customer != nil {
		b.Customer = *u.Customer
	}
	return nil
}

func (m *memBookings) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.items[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

type stubPayments struct {
	mu      sync.Mutex
	status  string
	created int
	amounts []int64
}

func (p *stubPayments) CreatePaymentIntent(ctx context.Context, req models.PaymentIntentRequest) (models.PaymentIntent, error) {
	p.mu.Lock()
	p.created++
	p.mu.Unlock()
	return models.PaymentIntent{ID: "pi_" + req.BookingID, ClientSecret: "secret", Amount: req.Amount}, nil
}

func (p *stubPayments) GetPaymentIntent(ctx context.Context, id string) (models.PaymentIntent, error) {
	return models.PaymentIntent{ID: id, Status: p.status}, nil
}

func (p *stubPayments) UpdatePaymentIntentAmount(ctx context.Context, id string, amount int64) (models.PaymentIntent, error) {
	p.mu.Lock()
	p.amounts = append(p.amounts, amount)
	p.mu.Unlock()
	return models.PaymentIntent{ID: id, Amount: amount}, nil
}

type acceptAll struct{}

func (acceptAll) SendOTP(ctx context.Context, phone, widgetID string) (otp.SendResult, error) {
	return otp.SendResult{IsValid: true, VerificationID: "v1"}, nil
}

func (acceptAll) VerifyOTP(ctx context.Context, vid, code string) (otp.VerifyResult, error) {
	return otp.VerifyResult{IsValid: true}, nil
}

func (acceptAll) Teardown(ctx context.Context, vid string) error { return nil }

type registryFixture struct {
	registry *Registry
	bookings *memBookings
	payments *stubPayments
	timers   *fakeClockwork
}

func newRegistryFixture() registryFixture {
	f := registryFixture{
		bookings: &memBookings{items: map[string]*models.Booking{}},
		payments: &stubPayments{},
		timers:   &fakeClockwork{},
	}
	f.registry = NewRegistry(Dependencies{
		Bookings: f.bookings,
		Payments: f.payments,
		NewVerifier: func() customer.Verifier {
			return otp.NewClient(acceptAll{}, nil, nil)
		},
		Timers:   f.timers.factory,
		Currency: "sgd",
		Clock:    utils.FixedClock{T: testNow},
	})
	return f
}

func fillCustomer(t *testing.T, s *Session) {
	t.Helper()
	ctx := context.Background()
	for field, value := range map[string]string{
		models.FieldFirstName:  "Wei",
		models.FieldLastName:   "Tan",
		models.FieldEmail:      "wei@gmail.com",
		models.FieldMobile:     "91234567",
		models.FieldAddress:    "123 Ang Mo Kio Ave 3",
		models.FieldPostalCode: "560123",
	} {
		_, err := s.Form.Change(ctx, field, value)
		require.NoError(t, err)
	}
}

func TestRegistryFullBooking(t *testing.T) {
	f := newRegistryFixture()
	ctx := context.Background()
	s := f.registry.Start()

	got, err := f.registry.Get(s.ID)
	require.NoError(t, err)
	require.Same(t, s, got)

	_, err = s.Flow.SelectService(models.Service{ID: "general-servicing", Title: "General Servicing", Price: 60})
	require.NoError(t, err)
	_, err = s.Flow.Advance()
	require.NoError(t, err)

	fillCustomer(t, s)
	bookingID, err := s.SubmitCustomer(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepSchedule, s.Flow.Step())
	assert.Equal(t, bookingID, s.Flow.Data().BookingID)
	require.NotNil(t, s.Flow.Data().CustomerInfo)

	_, err = s.Flow.SelectSchedule("2026-10-21", "14:00")
	require.NoError(t, err)
	_, _ = s.Flow.Advance()
	_, _ = s.Flow.Advance()
	require.Equal(t, StepPayment, s.Flow.Step())

	state, err := s.InitPayment(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentReady, state.Status)
	assert.Equal(t, bookingID, state.BookingID)
	assert.Equal(t, "2026-10-21", f.bookings.items[bookingID].Date)

	f.payments.status = "succeeded"
	state, err = s.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSucceeded, state.Status)
	assert.Equal(t, StepConfirmation, s.Flow.Step())
	assert.Equal(t, models.PaymentCompleted, s.Flow.Data().PaymentStatus)
	assert.Equal(t, models.BookingConfirmed, f.bookings.items[bookingID].Status)
}

func TestBackThenReselectKeepsOneBookingAndIntent(t *testing.T) {
	f := newRegistryFixture()
	ctx := context.Background()
	s := f.registry.Start()

	_, err := s.Flow.SelectService(models.Service{ID: "general-servicing", Title: "General Servicing", Price: 60})
	require.NoError(t, err)
	_, err = s.Flow.Advance()
	require.NoError(t, err)
	fillCustomer(t, s)
	bookingID, err := s.SubmitCustomer(ctx)
	require.NoError(t, err)
	_, err = s.Flow.SelectSchedule("2026-10-21", "14:00")
	require.NoError(t, err)
	_, _ = s.Flow.Advance()
	_, _ = s.Flow.Advance()
	state, err := s.InitPayment(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(6000), state.Amount)

	for s.Flow.Step() != StepService {
		_, err := s.Back()
		require.NoError(t, err)
	}
	_, err = s.Flow.SelectService(models.Service{ID: "chemical-overhaul", Title: "Chemical Overhaul", Price: 180})
	require.NoError(t, err)
	_, err = s.Flow.Advance()
	require.NoError(t, err)
	again, err := s.SubmitCustomer(ctx)
	require.NoError(t, err)
	assert.Equal(t, bookingID, again)
	_, err = s.Flow.SelectSchedule("2026-10-25", "10:00")
	require.NoError(t, err)
	_, _ = s.Flow.Advance()
	_, _ = s.Flow.Advance()
	require.Equal(t, StepPayment, s.Flow.Step())

	state, err = s.InitPayment(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(18000), state.Amount)
	assert.Equal(t, 180.0, s.Flow.Data().TotalAmount)
	assert.Equal(t, 1, f.payments.created)
	assert.Equal(t, []int64{18000}, f.payments.amounts)

	assert.Len(t, f.bookings.items, 1)
	stored := f.bookings.items[bookingID]
	assert.Equal(t, "chemical-overhaul", stored.ServiceID)
	assert.Equal(t, "2026-10-25", stored.Date)
}

func TestSubmitCustomerRequiresCustomerStep(t *testing.T) {
	f := newRegistryFixture()
	s := f.registry.Start()
	_, err := s.SubmitCustomer(context.Background())
	assert.ErrorIs(t, err, ErrWrongStep)

	_, err = s.InitPayment(context.Background())
	assert.ErrorIs(t, err, ErrWrongStep)
}

func TestRegistryExpiredSession(t *testing.T) {
	f := newRegistryFixture()
	s := f.registry.Start()

	f.timers.active()[20*time.Minute].fn()

	_, err := f.registry.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 0, f.registry.Len())

	_, err = f.registry.Get("unknown")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistryBackFromStartEndsSession(t *testing.T) {
	f := newRegistryFixture()
	s := f.registry.Start()

	_, err := s.Back()
	require.NoError(t, err)
	_, err = f.registry.Get(s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestPaymentSettledRoutesToLiveSession(t *testing.T) {
	f := newRegistryFixture()
	ctx := context.Background()
	s := f.registry.Start()

	assert.False(t, f.registry.PaymentSettled(ctx, "bk-9", "pi_x", true, ""))

	_, _ = s.Flow.SelectService(models.Service{ID: "general-servicing", Price: 60})
	info := models.CustomerInfo{FirstName: "Wei", Email: "wei@gmail.com", Phone: "91234567"}
	_, _ = s.Flow.UpdateBookingData(models.BookingPatch{CustomerInfo: &info})
	for i := 0; i < 4; i++ {
		_, _ = s.Flow.Next()
	}
	state, err := s.InitPayment(ctx)
	require.NoError(t, err)

	assert.True(t, f.registry.PaymentSettled(ctx, state.BookingID, "pi_x", false, "Card declined"))
	assert.Equal(t, "Card declined", s.Payment().State().Error)
	assert.Equal(t, StepPayment, s.Flow.Step())

	assert.True(t, f.registry.PaymentSettled(ctx, state.BookingID, "pi_x", true, ""))
	assert.Equal(t, StepConfirmation, s.Flow.Step())
	assert.Equal(t, "pi_x", s.Flow.Data().PaymentIntentID)
}

func TestSetTipUpdatesFlowTotal(t *testing.T) {
	f := newRegistryFixture()
	s := f.registry.Start()
	_, _ = s.Flow.SelectService(models.Service{ID: "general-servicing", Price: 60})

	_, err := s.SetTip(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, 65.0, s.Flow.Data().TotalAmount)
}

func TestRegistryClose(t *testing.T) {
	f := newRegistryFixture()
	f.registry.Start()
	f.registry.Start()
	require.Equal(t, 2, f.registry.Len())

	f.registry.Close()
	assert.Equal(t, 0, f.registry.Len())
	assert.Empty(t, f.timers.active())
}

type stubAccounts struct {
	info      models.CustomerInfo
	bookingID string
}

func (a *stubAccounts) CreateAccount(ctx context.Context, info models.CustomerInfo, bookingID, password, confirm string) (*models.Account, error) {
	a.info, a.bookingID = info, bookingID
	return &models.Account{Email: info.Email, BookingIDs: []string{bookingID}}, nil
}

func TestCreateAccountOnlyAtConfirmation(t *testing.T) {
	f := newRegistryFixture()
	accounts := &stubAccounts{}
	f.registry.deps.Accounts = accounts
	ctx := context.Background()
	s := f.registry.Start()

	_, err := s.CreateAccount(ctx, "aircon2026", "aircon2026")
	assert.ErrorIs(t, err, ErrWrongStep)

	info := models.CustomerInfo{FirstName: "Wei", Email: "wei@gmail.com", Phone: "91234567"}
	bookingID := "bk-7"
	_, _ = s.Flow.UpdateBookingData(models.BookingPatch{CustomerInfo: &info, BookingID: &bookingID})
	for i := 0; i < 4; i++ {
		_, _ = s.Flow.Next()
	}
	_, err = s.Flow.CompletePayment("pi_7")
	require.NoError(t, err)

	acct, err := s.CreateAccount(ctx, "aircon2026", "aircon2026")
	require.NoError(t, err)
	assert.Equal(t, "wei@gmail.com", acct.Email)
	assert.Equal(t, "bk-7", accounts.bookingID)
}

func TestCreateAccountDisabled(t *testing.T) {
	f := newRegistryFixture()
	s := f.registry.Start()
	_, err := s.CreateAccount(context.Background(), "aircon2026", "aircon2026")
	assert.ErrorIs(t, err, ErrAccountsDisabled)
}
