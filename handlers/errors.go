package handlers

import (
	"errors"
	"net/http"

	"aircare/services/account"
	"aircare/services/booking"
	"aircare/services/catalogue"
	"aircare/services/customer"
	"aircare/services/flow"
	"aircare/services/otp"
	"aircare/services/payment"
	"aircare/services/templates"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func isAny(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	var (
		formErr  *customer.FormError
		draftErr *booking.DraftError
		tmplErr  *templates.InvalidTemplateError
	)
	switch {
	case isAny(err, flow.ErrSessionNotFound, catalogue.ErrNotFound, templates.ErrNotFound, booking.ErrNotFound):
		return http.StatusNotFound
	case isAny(err, flow.ErrSessionExpired, flow.ErrClosed):
		return http.StatusGone
	case errors.As(err, &formErr), errors.As(err, &draftErr), errors.As(err, &tmplErr),
		isAny(err,
			customer.ErrUnknownField, customer.ErrMobileInvalid, customer.ErrPlaceIncomplete,
			flow.ErrInvalidDate, flow.ErrInvalidSlot, flow.ErrPastSlot,
			otp.ErrCodeRequired, otp.ErrRejected,
			payment.ErrInvalidTip,
			account.ErrWeakPassword, account.ErrPasswordMismatch):
		return http.StatusBadRequest
	case isAny(err,
		flow.ErrWrongStep, flow.ErrServiceRequired, flow.ErrCustomerIncomplete, flow.ErrScheduleIncomplete,
		flow.ErrPaymentIncomplete, flow.ErrServiceInactive,
		customer.ErrNoSuggestion, customer.ErrSubmitInProgress,
		otp.ErrNoVerification, otp.ErrRequestInFlight, otp.ErrAlreadyVerified, otp.ErrInvalidTransition, otp.ErrReset,
		payment.ErrNotReady, payment.ErrMissingIdentifiers,
		booking.ErrInvalidTransition,
		account.ErrAccountExists, account.ErrMissingBooking):
		return http.StatusConflict
	case isAny(err, customer.ErrPlacesUnavailable, flow.ErrAccountsDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

// respondError writes err in the service's error envelope.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var formErr *customer.FormError
	if errors.As(err, &formErr) {
		body["fields"] = formErr.Fields
	}
	var tmplErr *templates.InvalidTemplateError
	if errors.As(err, &tmplErr) {
		body["validation"] = tmplErr.Validation
	}

	if status >= http.StatusInternalServerError {
		getLogger(c).Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
}
