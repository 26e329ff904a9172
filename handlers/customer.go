package handlers

import (
	"net/http"

	"aircare/models"

	"github.com/gin-gonic/gin"
)

// ChangeField handles POST /api/flows/:id/customer/fields.
func (h *FlowHandler) ChangeField(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var body struct {
		Field string `json:"field" binding:"required"`
		Value string `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	state, err := s.Form.Change(c.Request.Context(), body.Field, body.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"field": body.Field, "validation": state, "form": s.Form.Snapshot()})
}

// BlurField handles POST /api/flows/:id/customer/blur.
func (h *FlowHandler) BlurField(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var body struct {
		Field string `json:"field" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	state, err := s.Form.Blur(body.Field)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"field": body.Field, "validation": state})
}

// ApplySuggestion handles POST /api/flows/:id/customer/suggestion.
func (h *FlowHandler) ApplySuggestion(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := s.Form.ApplySuggestion(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Form.Snapshot())
}

// SelectPlace handles POST /api/flows/:id/customer/place. The body carries a
// place id to resolve or the autocomplete result itself.
func (h *FlowHandler) SelectPlace(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var body models.PlaceResult
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	var (
		addr models.Address
		err  error
	)
	if len(body.AddressComponents) == 0 && body.FormattedAddress == "" && body.PlaceID != "" {
		addr, err = s.Form.SelectPlaceID(c.Request.Context(), body.PlaceID)
	} else {
		addr, err = s.Form.SelectPlace(body)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"address": addr, "form": s.Form.Snapshot()})
}

// SendOTP handles POST /api/flows/:id/customer/otp/send.
func (h *FlowHandler) SendOTP(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if err := s.Form.SendOTP(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Form.Snapshot())
}

// VerifyOTP handles POST /api/flows/:id/customer/otp/verify.
func (h *FlowHandler) VerifyOTP(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.Form.VerifyOTP(c.Request.Context(), body.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.Form.Snapshot())
}

// ResetOTP handles POST /api/flows/:id/customer/otp/reset.
func (h *FlowHandler) ResetOTP(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Form.ResetOTP(c.Request.Context())
	c.JSON(http.StatusOK, s.Form.Snapshot())
}

// SubmitCustomer handles POST /api/flows/:id/customer/submit.
func (h *FlowHandler) SubmitCustomer(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := s.SubmitCustomer(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.snapshot(c, s)
}
