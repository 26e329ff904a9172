package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	bookingRepo "aircare/database/repository/booking"
	"aircare/models"
	"aircare/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	items     map[string]models.Booking
	createErr error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]models.Booking{}}
}

func (m *memoryRepo) Create(ctx context.Context, b *models.Booking) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.items[b.ID] = *b
	return nil
}

func (m *memoryRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := m.items[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return &b, nil
}

func (m *memoryRepo) Update(ctx context.Context, b *models.Booking) error {
	if _, ok := m.items[b.ID]; !ok {
		return bookingRepo.ErrNotFound
	}
	m.items[b.ID] = *b
	return nil
}

func testDraft() models.BookingDraft {
	return models.BookingDraft{
		ServiceID:    "general-servicing",
		ServiceTitle: "General Servicing",
		ServicePrice: 60,
		Customer: models.CustomerInfo{
			FirstName: "Tan",
			LastName:  "Wei",
			Email:     "wei@example.com",
			Phone:     "91234567",
		},
		Date:      "2026-11-02",
		Time:      "10:00",
		TipAmount: 5,
	}
}

func newTestService() (*DefaultBookingService, *memoryRepo) {
	repo := newMemoryRepo()
	svc := NewDefaultBookingService(repo, nil)
	svc.Clock = utils.FixedClock{T: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)}
	return svc, repo
}

func TestCreateBooking(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.CreateBooking(context.Background(), testDraft())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	stored := repo.items[id]
	assert.Equal(t, models.BookingPending, stored.Status)
	assert.Equal(t, models.PaymentPending, stored.PaymentStatus)
	assert.Equal(t, 65.0, stored.TotalAmount)
	assert.Equal(t, []string{}, stored.Brands)
	assert.Equal(t, svc.Clock.Now(), stored.CreatedAt)
}

func TestCreateBookingRejectsIncompleteDraft(t *testing.T) {
	svc, repo := newTestService()

	d := testDraft()
	d.ServiceID = ""
	_, err := svc.CreateBooking(context.Background(), d)

	var draftErr *DraftError
	require.ErrorAs(t, err, &draftErr)
	assert.Equal(t, "serviceId", draftErr.Field)
	assert.Empty(t, repo.items)
}

func TestCreateBookingRepositoryFailure(t *testing.T) {
	svc, repo := newTestService()
	repo.createErr = errors.New("connection refused")

	_, err := svc.CreateBooking(context.Background(), testDraft())
	assert.ErrorContains(t, err, "connection refused")
}

func TestUpdateBookingStatusTransitions(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	id, err := svc.CreateBooking(ctx, testDraft())
	require.NoError(t, err)

	completed := models.BookingCompleted
	err = svc.UpdateBooking(ctx, id, models.BookingUpdate{Status: &completed})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	confirmed := models.BookingConfirmed
	paid := models.PaymentCompleted
	intent := "pi_123"
	require.NoError(t, svc.UpdateBooking(ctx, id, models.BookingUpdate{
		Status:          &confirmed,
		PaymentStatus:   &paid,
		PaymentIntentID: &intent,
	}))
	require.NoError(t, svc.UpdateBooking(ctx, id, models.BookingUpdate{Status: &confirmed}))
	require.NoError(t, svc.UpdateBooking(ctx, id, models.BookingUpdate{Status: &completed}))

	cancelled := models.BookingCancelled
	err = svc.UpdateBooking(ctx, id, models.BookingUpdate{Status: &cancelled})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	b, err := svc.GetBooking(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, b.Status)
	assert.Equal(t, models.PaymentCompleted, b.PaymentStatus)
	assert.Equal(t, "pi_123", b.PaymentIntentID)
}

func TestUpdateBookingRecomputesTotal(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	id, err := svc.CreateBooking(ctx, testDraft())
	require.NoError(t, err)

	tip := 12.5
	require.NoError(t, svc.UpdateBooking(ctx, id, models.BookingUpdate{TipAmount: &tip}))
	assert.Equal(t, 72.5, repo.items[id].TotalAmount)
}

func TestGetBookingNotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetBooking(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	paid := models.PaymentCompleted
	err = svc.UpdateBooking(context.Background(), "missing", models.BookingUpdate{PaymentStatus: &paid})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBookingSchedule(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	d := testDraft()
	d.Date, d.Time = "", ""
	id, err := svc.CreateBooking(ctx, d)
	require.NoError(t, err)

	date, slot := "2026-11-05", "14:00"
	require.NoError(t, svc.UpdateBooking(ctx, id, models.BookingUpdate{
		Date:   &date,
		Time:   &slot,
		Brands: []string{"Daikin"},
	}))

	stored := repo.items[id]
	assert.Equal(t, "2026-11-05", stored.Date)
	assert.Equal(t, "14:00", stored.Time)
	assert.Equal(t, []string{"Daikin"}, stored.Brands)
	assert.Equal(t, []string{}, stored.Issues)
}

func TestUpdateBookingServiceAndCustomer(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	id, err := svc.CreateBooking(ctx, testDraft())
	require.NoError(t, err)

	serviceID, title, price, duration := "chemical-overhaul", "Chemical Overhaul", 180.0, 180
	customer := testDraft().Customer
	customer.Email = "tan.wei@example.com"
	require.NoError(t, svc.UpdateBooking(ctx, id, models.BookingUpdate{
		ServiceID:       &serviceID,
		ServiceTitle:    &title,
		ServicePrice:    &price,
		ServiceDuration: &duration,
		Customer:        &customer,
	}))

	stored := repo.items[id]
	assert.Equal(t, "chemical-overhaul", stored.ServiceID)
	assert.Equal(t, "Chemical Overhaul", stored.ServiceTitle)
	assert.Equal(t, 180, stored.ServiceDuration)
	assert.Equal(t, "tan.wei@example.com", stored.Customer.Email)
	assert.Equal(t, 185.0, stored.TotalAmount)

	negative := -1.0
	var draftErr *DraftError
	err = svc.UpdateBooking(ctx, id, models.BookingUpdate{ServicePrice: &negative})
	require.ErrorAs(t, err, &draftErr)
	assert.Equal(t, "servicePrice", draftErr.Field)
}
