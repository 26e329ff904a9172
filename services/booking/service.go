package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bookingRepo "aircare/database/repository/booking"
	"aircare/models"
	"aircare/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var statusTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled},
}

// DefaultBookingService implements BookingService on top of a repository.
type DefaultBookingService struct {
	Repo   bookingRepo.BookingRepository
	Clock  utils.Clock
	Logger *zap.Logger
}

func NewDefaultBookingService(repo bookingRepo.BookingRepository, logger *zap.Logger) *DefaultBookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultBookingService{Repo: repo, Clock: utils.SystemClock(), Logger: logger}
}

func (s *DefaultBookingService) CreateBooking(ctx context.Context, draft models.BookingDraft) (string, error) {
	if err := checkDraft(draft); err != nil {
		return "", err
	}

	now := s.Clock.Now()
	b := &models.Booking{
		ID:              uuid.New().String(),
		ServiceID:       draft.ServiceID,
		ServiceTitle:    draft.ServiceTitle,
		ServicePrice:    draft.ServicePrice,
		ServiceDuration: draft.ServiceDuration,
		Customer:        draft.Customer,
		Date:            draft.Date,
		Time:            draft.Time,
		Brands:          nonNil(draft.Brands),
		Issues:          nonNil(draft.Issues),
		Status:          models.BookingPending,
		PaymentStatus:   models.PaymentPending,
		TipAmount:       draft.TipAmount,
		TotalAmount:     draft.ServicePrice + draft.TipAmount,
		PushToken:       draft.PushToken,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.Create(ctx, b); err != nil {
		return "", fmt.Errorf("CreateBooking: %w", err)
	}

	s.Logger.Info("booking created",
		zap.String("bookingId", b.ID),
		zap.String("serviceId", b.ServiceID),
		zap.Float64("total", b.TotalAmount))
	return b.ID, nil
}

func (s *DefaultBookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, id)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("GetBooking: %w", err)
	}
	return b, nil
}

// UpdateBooking applies the non-nil fields of update. Status changes must
// follow pending → confirmed → completed, with cancellation allowed before
// completion. Setting the current status again is accepted.
func (s *DefaultBookingService) UpdateBooking(ctx context.Context, id string, update models.BookingUpdate) error {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return err
	}

	if update.ServiceID != nil {
		if *update.ServiceID == "" {
			return newDraftError("serviceId", "is required")
		}
		b.ServiceID = *update.ServiceID
	}
	if update.ServiceTitle != nil {
		b.ServiceTitle = *update.ServiceTitle
	}
	if update.ServicePrice != nil {
		if *update.ServicePrice < 0 {
			return newDraftError("servicePrice", "must not be negative")
		}
		b.ServicePrice = *update.ServicePrice
	}
	if update.ServiceDuration != nil {
		b.ServiceDuration = *update.ServiceDuration
	}
	if update.Customer != nil {
		b.Customer = *update.Customer
	}
	if update.Date != nil {
		b.Date = *update.Date
	}
	if update.Time != nil {
		b.Time = *update.Time
	}
	if update.Brands != nil {
		b.Brands = append([]string{}, update.Brands...)
	}
	if update.Issues != nil {
		b.Issues = append([]string{}, update.Issues...)
	}
	if update.Status != nil && *update.Status != b.Status {
		if !canTransition(b.Status, *update.Status) {
			return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, b.Status, *update.Status)
		}
		b.Status = *update.Status
	}
	if update.PaymentStatus != nil {
		b.PaymentStatus = *update.PaymentStatus
	}
	if update.PaymentIntentID != nil {
		b.PaymentIntentID = *update.PaymentIntentID
	}
	if update.TipAmount != nil {
		if *update.TipAmount < 0 {
			return newDraftError("tipAmount", "must not be negative")
		}
		b.TipAmount = *update.TipAmount
	}
	if update.PushToken != nil {
		b.PushToken = *update.PushToken
	}
	b.TotalAmount = b.ServicePrice + b.TipAmount
	b.UpdatedAt = s.Clock.Now()

	if err := s.Repo.Update(ctx, b); err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("UpdateBooking: %w", err)
	}
	return nil
}

func canTransition(from, to models.BookingStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func checkDraft(d models.BookingDraft) error {
	switch {
	case strings.TrimSpace(d.ServiceID) == "":
		return newDraftError("serviceId", "is required")
	case d.ServicePrice < 0:
		return newDraftError("servicePrice", "must not be negative")
	case d.TipAmount < 0:
		return newDraftError("tipAmount", "must not be negative")
	case strings.TrimSpace(d.Customer.Email) == "":
		return newDraftError("customer.email", "is required")
	case strings.TrimSpace(d.Customer.Phone) == "":
		return newDraftError("customer.phone", "is required")
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
