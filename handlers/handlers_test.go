package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"aircare/models"
	"aircare/services/account"
	"aircare/services/booking"
	"aircare/services/catalogue"
	"aircare/services/customer"
	"aircare/services/flow"
	"aircare/services/otp"
	"aircare/services/payment"
	"aircare/services/templates"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeCatalogue struct{}

func (fakeCatalogue) ListServices(ctx context.Context) ([]models.Service, error) {
	return catalogue.DefaultServices(), nil
}

func (fakeCatalogue) GetService(ctx context.Context, id string) (models.Service, error) {
	for _, s := range catalogue.DefaultServices() {
		if s.ID == id {
			return s, nil
		}
	}
	return models.Service{}, catalogue.ErrNotFound
}

type memBookings struct {
	mu    sync.Mutex
	items map[string]*models.Booking
}

func (m *memBookings) CreateBooking(ctx context.Context, d models.BookingDraft) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := "bk-1"
	m.items[id] = &models.Booking{ID: id, Customer: d.Customer, Status: models.BookingPending, PaymentStatus: models.PaymentPending}
	return id, nil
}

func (m *memBookings) UpdateBooking(ctx context.Context, id string, u models.BookingUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return booking.ErrNotFound
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

type noPayments struct{}

func (noPayments) CreatePaymentIntent(ctx context.Context, req models.PaymentIntentRequest) (models.PaymentIntent, error) {
	return models.PaymentIntent{}, errors.New("payments offline")
}

func (noPayments) GetPaymentIntent(ctx context.Context, id string) (models.PaymentIntent, error) {
	return models.PaymentIntent{}, errors.New("payments offline")
}

func (noPayments) UpdatePaymentIntentAmount(ctx context.Context, id string, amount int64) (models.PaymentIntent, error) {
	return models.PaymentIntent{}, errors.New("payments offline")
}

type silentOTP struct{}

func (silentOTP) SendOTP(ctx context.Context, phone, widgetID string) (otp.SendResult, error) {
	return otp.SendResult{IsValid: true, VerificationID: "v1"}, nil
}

func (silentOTP) VerifyOTP(ctx context.Context, vid, code string) (otp.VerifyResult, error) {
	return otp.VerifyResult{IsValid: code == "123456", Error: "Invalid code"}, nil
}

func (silentOTP) Teardown(ctx context.Context, vid string) error { return nil }

type noTimer struct{}

func (noTimer) Stop() bool { return true }

func newTestRouter(t *testing.T) (*gin.Engine, *flow.Registry) {
	t.Helper()
	registry := flow.NewRegistry(flow.Dependencies{
		Bookings: &memBookings{items: map[string]*models.Booking{}},
		Payments: noPayments{},
		NewVerifier: func() customer.Verifier {
			return otp.NewClient(silentOTP{}, nil, nil)
		},
		Timers: func(d time.Duration, fn func()) flow.Timer { return noTimer{} },
		Logger: zap.NewNop(),
	})
	t.Cleanup(registry.Close)

	fh := NewFlowHandler(registry, fakeCatalogue{})
	th := NewTemplateHandler(templates.NewDefaultTemplateService(nil, nil))

	r := gin.New()
	r.POST("/api/flows", fh.StartFlow)
	r.GET("/api/flows/:id", fh.GetFlow)
	r.POST("/api/flows/:id/next", fh.Next)
	r.POST("/api/flows/:id/back", fh.Back)
	r.POST("/api/flows/:id/service", fh.SelectService)
	r.PATCH("/api/flows/:id/data", fh.UpdateData)
	r.POST("/api/flows/:id/customer/fields", fh.ChangeField)
	r.POST("/api/flows/:id/customer/submit", fh.SubmitCustomer)
	r.POST("/api/flows/:id/customer/otp/send", fh.SendOTP)
	r.POST("/api/flows/:id/customer/otp/verify", fh.VerifyOTP)
	r.POST("/api/flows/:id/payment/init", fh.InitPayment)
	r.POST("/api/flows/:id/account", fh.CreateAccount)
	r.GET("/api/services", fh.ListServices)
	r.POST("/api/admin/templates/preview", th.PreviewTemplate)
	return r, registry
}

func do(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func startFlow(t *testing.T, r *gin.Engine) string {
	t.Helper()
	w := do(r, http.MethodPost, "/api/flows", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var state flow.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	require.NotEmpty(t, state.ID)
	assert.Equal(t, flow.StepService, state.Flow.Step)
	return state.ID
}

func TestStartAndGetFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	id := startFlow(t, r)

	w := do(r, http.MethodGet, "/api/flows/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/api/flows/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNextRequiresService(t *testing.T) {
	r, _ := newTestRouter(t)
	id := startFlow(t, r)

	w := do(r, http.MethodPost, "/api/flows/"+id+"/next", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/flows/"+id+"/service", gin.H{"serviceId": "no-such-service"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/flows/"+id+"/service", gin.H{"serviceId": "chemical-wash"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/flows/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state flow.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, flow.StepCustomer, state.Flow.Step)
	assert.Equal(t, 120.0, state.Flow.Data.TotalAmount)
}

func TestUpdateDataOnlyTouchesBookingDetails(t *testing.T) {
	r, _ := newTestRouter(t)
	id := startFlow(t, r)

	w := do(r, http.MethodPost, "/api/flows/"+id+"/service", gin.H{"serviceId": "chemical-wash"})
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPatch, "/api/flows/"+id+"/data", gin.H{
		"servicePrice":    0.01,
		"customerInfo":    gin.H{"email": "nope", "phone": "1"},
		"date":            "1999-01-01",
		"time":            "bogus",
		"status":          "confirmed",
		"paymentStatus":   "completed",
		"bookingId":       "someone-elses",
		"paymentIntentId": "pi_forged",
		"brands":          []string{"Daikin"},
		"issues":          []string{"noisy"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var state flow.SessionState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	data := state.Flow.Data
	assert.Equal(t, []string{"Daikin"}, data.Brands)
	assert.Equal(t, []string{"noisy"}, data.Issues)
	assert.Equal(t, 120.0, data.ServicePrice)
	assert.Equal(t, 120.0, data.TotalAmount)
	assert.Nil(t, data.CustomerInfo)
	assert.Empty(t, data.Date)
	assert.Empty(t, data.BookingID)
	assert.Empty(t, data.PaymentIntentID)
	assert.Equal(t, models.PaymentPending, data.PaymentStatus)
	assert.Equal(t, models.BookingPending, data.Status)

	w = do(r, http.MethodPost, "/api/flows/"+id+"/next", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(r, http.MethodPost, "/api/flows/"+id+"/next", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBackFromFirstStepEndsSession(t *testing.T) {
	r, _ := newTestRouter(t)
	id := startFlow(t, r)

	w := do(r, http.MethodPost, "/api/flows/"+id+"/back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"exited":true`)

	w = do(r, http.MethodGet, "/api/flows/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerSubmitReportsInvalidFields(t *testing.T) {
	r, registry := newTestRouter(t)
	id := startFlow(t, r)
	s, err := registry.Get(id)
	require.NoError(t, err)
	_, _ = s.Flow.Next()

	w := do(r, http.MethodPost, "/api/flows/"+id+"/customer/fields", gin.H{"field": "email", "value": "not-an-email"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a valid email address")

	w = do(r, http.MethodPost, "/api/flows/"+id+"/customer/fields", gin.H{"field": "favouriteColour", "value": "blue"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/flows/"+id+"/customer/submit", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "firstName")
}

func TestOTPEndpoints(t *testing.T) {
	r, registry := newTestRouter(t)
	id := startFlow(t, r)
	s, _ := registry.Get(id)
	_, _ = s.Flow.Next()

	w := do(r, http.MethodPost, "/api/flows/"+id+"/customer/otp/send", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	do(r, http.MethodPost, "/api/flows/"+id+"/customer/fields", gin.H{"field": "mobile", "value": "9123 4567"})
	w = do(r, http.MethodPost, "/api/flows/"+id+"/customer/otp/send", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/flows/"+id+"/customer/otp/verify", gin.H{"code": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/flows/"+id+"/customer/otp/verify", gin.H{"code": "123456"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"phase":"verified"`)
}

func TestPaymentInitOnlyAtPaymentStep(t *testing.T) {
	r, _ := newTestRouter(t)
	id := startFlow(t, r)

	w := do(r, http.MethodPost, "/api/flows/"+id+"/payment/init", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(r, http.MethodPost, "/api/flows/"+id+"/account", gin.H{"password": "aircon2026", "confirmPassword": "aircon2026"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestListServices(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodGet, "/api/services", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out []models.Service
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Len(t, out, len(catalogue.DefaultServices()))
}

func TestPreviewTemplate(t *testing.T) {
	r, _ := newTestRouter(t)
	w := do(r, http.MethodPost, "/api/admin/templates/preview", gin.H{
		"name":    "booking_confirmation",
		"type":    "sms",
		"content": "Hi {{firstName}}, see you on {{date}}.",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Validation models.TemplateValidation `json:"validation"`
		Rendered   templates.Rendered        `json:"rendered"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Validation.IsValid)
	assert.Equal(t, "Hi Wei Ming, see you on 2026-11-02.", body.Rendered.Body)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{flow.ErrSessionNotFound, http.StatusNotFound},
		{flow.ErrSessionExpired, http.StatusGone},
		{flow.ErrPaymentIncomplete, http.StatusConflict},
		{&customer.FormError{Fields: map[string]string{"email": "required"}}, http.StatusBadRequest},
		{&templates.InvalidTemplateError{}, http.StatusBadRequest},
		{account.ErrWeakPassword, http.StatusBadRequest},
		{payment.ErrNotReady, http.StatusConflict},
		{otp.ErrRequestInFlight, http.StatusConflict},
		{customer.ErrPlacesUnavailable, http.StatusServiceUnavailable},
		{errors.New("stripe: connection refused"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
