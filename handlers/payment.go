package handlers

import (
	"errors"
	"io"
	"net/http"

	"aircare/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxWebhookBody = 65536

// InitPayment handles POST /api/flows/:id/payment/init.
func (h *FlowHandler) InitPayment(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := s.InitPayment(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.snapshot(c, s)
}

// SetTip handles POST /api/flows/:id/payment/tip.
func (h *FlowHandler) SetTip(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var body struct {
		Amount *float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := s.SetTip(c.Request.Context(), *body.Amount); err != nil {
		respondError(c, err)
		return
	}
	h.snapshot(c, s)
}

// Reconcile handles POST /api/flows/:id/payment/reconcile, called after the
// browser confirmed the card payment.
func (h *FlowHandler) Reconcile(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := s.Reconcile(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.snapshot(c, s)
}

// WebhookHandler receives Stripe events.
type WebhookHandler struct {
	Webhooks *payment.WebhookHandler
}

// HandleStripeWebhook handles POST /api/payments/webhook.
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "failed to read request body"})
		return
	}

	err = h.Webhooks.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, payment.ErrInvalidSignature):
		getLogger(c).Warn("stripe webhook rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
	case errors.Is(err, payment.ErrMissingBooking):
		c.JSON(http.StatusOK, gin.H{"received": true, "ignored": true})
	default:
		getLogger(c).Error("stripe webhook failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
	}
}
