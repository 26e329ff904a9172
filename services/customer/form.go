// Package customer implements the customer-details step of the booking flow.
package customer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"aircare/models"
	"aircare/services/otp"
	"aircare/services/validation"

	"go.uber.org/zap"
)

const (
	noticeEmailUnavailable = "We couldn't verify your email right now. You can still continue."
	noticePlaceFailed      = "We couldn't load that address. Please enter it manually."
	noticeSaveFailed       = "We couldn't save your details. Please try again."
)

// Verifier is the OTP and email verification state machine of one form.
type Verifier interface {
	SendOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, code string) error
	Reset(ctx context.Context)
	ValidateEmail(ctx context.Context, email string) (otp.EmailResult, error)
	ClearEmail()
	VerifiedPhone() (string, bool)
	Snapshot() models.OTPState
}

// BookingStore persists the booking built from the submitted form. A form
// that already saved a booking updates it on later submits.
type BookingStore interface {
	CreateBooking(ctx context.Context, draft models.BookingDraft) (string, error)
	UpdateBooking(ctx context.Context, id string, update models.BookingUpdate) error
}

// SaveFunc receives the booking id and customer details after a submit.
type SaveFunc func(bookingID string, info models.CustomerInfo)

// FormState is the serialisable view of a form.
type FormState struct {
	Info          models.CustomerInfo               `json:"info"`
	MobileDisplay string                            `json:"mobileDisplay"`
	Fields        map[string]models.ValidationState `json:"fields"`
	Suggestion    *validation.EmailSuggestion       `json:"suggestion,omitempty"`
	Focus         string                            `json:"focus,omitempty"`
	Notice        string                            `json:"notice,omitempty"`
	OTP           models.OTPState                   `json:"otp"`
	IsValid       bool                              `json:"isValid"`
	Submitting    bool                              `json:"submitting"`
	BookingID     string                            `json:"bookingId,omitempty"`
}

// Form owns the customer draft and its per-field validation. Events are
// applied in arrival order; collaborator calls run without the lock held.
type Form struct {
	mu sync.Mutex

	info          models.CustomerInfo
	mobileDisplay string
	fields        map[string]models.ValidationState
	suggestion    *validation.EmailSuggestion
	emailSeq      int
	focus         string
	notice        string
	submitting    bool
	bookingID     string

	verifier Verifier
	bookings BookingStore
	places   PlaceResolver
	onSave   SaveFunc
	logger   *zap.Logger
}

type FormOption func(*Form)

func WithPlaces(p PlaceResolver) FormOption {
	return func(f *Form) { f.places = p }
}

func WithOnSave(fn SaveFunc) FormOption {
	return func(f *Form) { f.onSave = fn }
}

func NewForm(verifier Verifier, bookings BookingStore, logger *zap.Logger, opts ...FormOption) *Form {
	if logger == nil {
		logger = zap.NewNop()
	}
	f := &Form{
		fields:   make(map[string]models.ValidationState),
		verifier: verifier,
		bookings: bookings,
		logger:   logger,
		focus:    models.FieldFirstName,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// set stores value in the draft; must be called with f.mu held.
func (f *Form) set(field, value string) bool {
	switch field {
	case models.FieldFirstName:
		f.info.FirstName = value
	case models.FieldLastName:
		f.info.LastName = value
	case models.FieldEmail:
		f.info.Email = strings.TrimSpace(value)
	case models.FieldMobile:
		f.mobileDisplay = validation.FormatMobile(value)
		f.info.Phone = validation.SanitizeMobile(value)
	case models.FieldAddress:
		f.info.Address.BlockStreet = value
	case models.FieldPostalCode:
		f.info.Address.PostalCode = strings.TrimSpace(value)
	case models.FieldFloorUnit:
		f.info.Address.FloorUnit = value
	case models.FieldCondoName:
		f.info.Address.CondoName = value
	case models.FieldLobbyTower:
		f.info.Address.LobbyTower = value
	case models.FieldRegion:
		f.info.Address.Region = value
	case models.FieldSpecialInstructions:
		f.info.SpecialInstructions = value
	default:
		return false
	}
	return true
}

func (f *Form) value(field string) string {
	switch field {
	case models.FieldFirstName:
		return f.info.FirstName
	case models.FieldLastName:
		return f.info.LastName
	case models.FieldEmail:
		return f.info.Email
	case models.FieldMobile:
		return f.info.Phone
	case models.FieldAddress:
		return f.info.Address.BlockStreet
	case models.FieldPostalCode:
		return f.info.Address.PostalCode
	case models.FieldFloorUnit:
		return f.info.Address.FloorUnit
	case models.FieldCondoName:
		return f.info.Address.CondoName
	case models.FieldLobbyTower:
		return f.info.Address.LobbyTower
	case models.FieldRegion:
		return f.info.Address.Region
	case models.FieldSpecialInstructions:
		return f.info.SpecialInstructions
	}
	return ""
}

func isField(field string) bool {
	switch field {
	case models.FieldFirstName, models.FieldLastName, models.FieldEmail, models.FieldMobile,
		models.FieldAddress, models.FieldPostalCode, models.FieldFloorUnit, models.FieldCondoName,
		models.FieldLobbyTower, models.FieldRegion, models.FieldSpecialInstructions:
		return true
	}
	return false
}

func (f *Form) revalidate(field string) models.ValidationState {
	state := validation.Validate(field, f.value(field))
	f.fields[field] = state
	return state
}

// Change updates a field and recomputes its validation. Email changes also
// look for a typo and consult the email verifier.
func (f *Form) Change(ctx context.Context, field, value string) (models.ValidationState, error) {
	f.mu.Lock()
	if !f.set(field, value) {
		f.mu.Unlock()
		return models.ValidationState{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	state := f.revalidate(field)

	switch field {
	case models.FieldMobile:
		phone := f.info.Phone
		f.mu.Unlock()
		f.dropStaleVerification(ctx, phone)
		return state, nil
	case models.FieldEmail:
		return f.checkEmail(ctx, state)
	}
	f.mu.Unlock()
	return state, nil
}

// checkEmail must be called with f.mu held and releases it.
func (f *Form) checkEmail(ctx context.Context, state models.ValidationState) (models.ValidationState, error) {
	f.emailSeq++
	seq := f.emailSeq
	email := f.info.Email
	f.suggestion = nil
	f.verifier.ClearEmail()

	if !state.Valid {
		f.mu.Unlock()
		return state, nil
	}
	if s := validation.FindEmailTypo(email); s != nil {
		f.suggestion = s
		f.mu.Unlock()
		return state, nil
	}
	f.mu.Unlock()

	res, err := f.verifier.ValidateEmail(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()
	current := f.fields[models.FieldEmail]
	if seq != f.emailSeq {
		return current, nil
	}
	if err != nil {
		f.logger.Warn("email verification unavailable", zap.Error(err))
		f.notice = noticeEmailUnavailable
		return current, nil
	}
	if !res.IsValid {
		msg := res.Error
		if msg == "" {
			msg = "This email address cannot receive mail"
		}
		current = models.ValidationState{Touched: true, Valid: false, Error: msg}
		f.fields[models.FieldEmail] = current
	}
	return current, nil
}

func (f *Form) dropStaleVerification(ctx context.Context, phone string) {
	pending, _ := f.verifier.VerifiedPhone()
	if pending != "" && pending != phone {
		f.verifier.Reset(ctx)
	}
}

// Blur marks field as touched, surfacing its error.
func (f *Form) Blur(field string) (models.ValidationState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !isField(field) {
		return models.ValidationState{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if state, ok := f.fields[field]; ok && state.Touched {
		return state, nil
	}
	return f.revalidate(field), nil
}

// ApplySuggestion replaces the email with the suggested correction.
func (f *Form) ApplySuggestion(ctx context.Context) (models.ValidationState, error) {
	f.mu.Lock()
	s := f.suggestion
	f.mu.Unlock()
	if s == nil {
		return models.ValidationState{}, ErrNoSuggestion
	}
	return f.Change(ctx, models.FieldEmail, s.Full)
}

// SelectPlace sets block/street and postal code together from an
// autocomplete result and moves focus to the unit number.
func (f *Form) SelectPlace(place models.PlaceResult) (models.Address, error) {
	addr := AddressFromPlace(place)
	if addr.BlockStreet == "" && addr.PostalCode == "" {
		return models.Address{}, ErrPlaceIncomplete
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.info.Address.BlockStreet = addr.BlockStreet
	f.info.Address.PostalCode = addr.PostalCode
	if addr.Region != "" {
		f.info.Address.Region = addr.Region
	}
	f.revalidate(models.FieldAddress)
	f.revalidate(models.FieldPostalCode)
	f.focus = models.FieldFloorUnit
	f.notice = ""
	return f.info.Address, nil
}

// SelectPlaceID resolves placeID through the places collaborator first.
func (f *Form) SelectPlaceID(ctx context.Context, placeID string) (models.Address, error) {
	if f.places == nil {
		return models.Address{}, ErrPlacesUnavailable
	}
	place, err := f.places.PlaceDetails(ctx, placeID)
	if err != nil {
		f.logger.Warn("place lookup failed", zap.String("placeId", placeID), zap.Error(err))
		f.setNotice(noticePlaceFailed)
		return models.Address{}, err
	}
	return f.SelectPlace(place)
}

// SendOTP requests a code for the current mobile number.
func (f *Form) SendOTP(ctx context.Context) error {
	f.mu.Lock()
	state := validation.Validate(models.FieldMobile, f.info.Phone)
	if !state.Valid {
		f.fields[models.FieldMobile] = state
		f.mu.Unlock()
		return ErrMobileInvalid
	}
	phone := f.info.Phone
	f.mu.Unlock()

	if err := f.verifier.SendOTP(ctx, phone); err != nil {
		f.logger.Info("otp send not completed", zap.Error(err))
		return err
	}
	return nil
}

// VerifyOTP checks code and moves focus to the address on success.
func (f *Form) VerifyOTP(ctx context.Context, code string) error {
	if err := f.verifier.VerifyOTP(ctx, strings.TrimSpace(code)); err != nil {
		return err
	}
	f.mu.Lock()
	f.focus = models.FieldAddress
	f.mu.Unlock()
	return nil
}

func (f *Form) ResetOTP(ctx context.Context) {
	f.verifier.Reset(ctx)
}

// IsFormValid is true when every required field is valid.
func (f *Form) IsFormValid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validLocked()
}

func (f *Form) validLocked() bool {
	for _, field := range validation.RequiredFields {
		if !f.fields[field].Valid {
			return false
		}
	}
	return true
}

// Submit saves the booking for data with the form's customer details and
// hands the booking id to the save callback. The first submit creates the
// booking; later ones update it.
func (f *Form) Submit(ctx context.Context, data models.BookingData) (string, error) {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return "", ErrSubmitInProgress
	}
	invalid := map[string]string{}
	for _, field := range validation.RequiredFields {
		state := f.fields[field]
		if !state.Touched {
			state = f.revalidate(field)
		}
		if !state.Valid {
			invalid[field] = state.Error
		}
	}
	if len(invalid) > 0 {
		f.mu.Unlock()
		return "", &FormError{Fields: invalid}
	}

	draft := data.Draft()
	draft.Customer = f.info
	id := data.BookingID
	if id == "" {
		id = f.bookingID
	}
	f.submitting = true
	f.mu.Unlock()

	var err error
	if id == "" {
		id, err = f.bookings.CreateBooking(ctx, draft)
	} else {
		err = f.bookings.UpdateBooking(ctx, id, draft.Update())
	}

	f.mu.Lock()
	f.submitting = false
	if err != nil {
		f.notice = noticeSaveFailed
		f.mu.Unlock()
		f.logger.Error("saving the booking failed", zap.String("bookingId", id), zap.Error(err))
		return "", err
	}
	f.bookingID = id
	f.notice = ""
	info := f.info
	onSave := f.onSave
	f.mu.Unlock()

	if onSave != nil {
		onSave(id, info)
	}
	return id, nil
}

func (f *Form) setNotice(msg string) {
	f.mu.Lock()
	f.notice = msg
	f.mu.Unlock()
}

// Info returns a copy of the customer draft.
func (f *Form) Info() models.CustomerInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.info
}

func (f *Form) Snapshot() FormState {
	f.mu.Lock()
	fields := make(map[string]models.ValidationState, len(f.fields))
	for k, v := range f.fields {
		fields[k] = v
	}
	state := FormState{
		Info:          f.info,
		MobileDisplay: f.mobileDisplay,
		Fields:        fields,
		Suggestion:    f.suggestion,
		Focus:         f.focus,
		Notice:        f.notice,
		IsValid:       f.validLocked(),
		Submitting:    f.submitting,
		BookingID:     f.bookingID,
	}
	f.mu.Unlock()
	state.OTP = f.verifier.Snapshot()
	return state
}
