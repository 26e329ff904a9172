package handlers

import (
	"errors"
	"net/http"

	"aircare/models"
	"aircare/services/catalogue"
	"aircare/services/flow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FlowHandler exposes the booking wizard sessions.
type FlowHandler struct {
	Registry  *flow.Registry
	Catalogue catalogue.CatalogueService
}

func NewFlowHandler(registry *flow.Registry, cat catalogue.CatalogueService) *FlowHandler {
	return &FlowHandler{Registry: registry, Catalogue: cat}
}

// session loads the session named by the :id path parameter.
func (h *FlowHandler) session(c *gin.Context) (*flow.Session, bool) {
	s, err := h.Registry.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return s, true
}

func (h *FlowHandler) snapshot(c *gin.Context, s *flow.Session) {
	c.JSON(http.StatusOK, s.Snapshot())
}

// StartFlow handles POST /api/flows.
func (h *FlowHandler) StartFlow(c *gin.Context) {
	s := h.Registry.Start()
	getLogger(c).Info("booking flow started", zap.String("sessionId", s.ID))
	c.JSON(http.StatusCreated, s.Snapshot())
}

// GetFlow handles GET /api/flows/:id.
func (h *FlowHandler) GetFlow(c *gin.Context) {
	if s, ok := h.session(c); ok {
		h.snapshot(c, s)
	}
}

// Next handles POST /api/flows/:id/next.
func (h *FlowHandler) Next(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := s.Flow.Advance(); err != nil {
		respondError(c, err)
		return
	}
	h.snapshot(c, s)
}

// Back handles POST /api/flows/:id/back. Going back from the first step ends
// the session.
func (h *FlowHandler) Back(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	if _, err := s.Back(); err != nil {
		respondError(c, err)
		return
	}
	if s.Flow.Closed() {
		c.JSON(http.StatusOK, gin.H{"id": s.ID, "exited": true})
		return
	}
	h.snapshot(c, s)
}

// Cancel handles POST /api/flows/:id/cancel.
func (h *FlowHandler) Cancel(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.Flow.Cancel()
	c.JSON(http.StatusOK, gin.H{"id": s.ID, "exited": true})
}

// bookingDetailsRequest holds the booking details the browser may edit
// directly. Service, customer, schedule and payment fields change only
// through their own steps.
type bookingDetailsRequest struct {
	Brands              []string `json:"brands"`
	Issues              []string `json:"issues"`
	SpecialInstructions *string  `json:"specialInstructions"`
	PushToken           *string  `json:"pushToken"`
}

// UpdateData handles PATCH /api/flows/:id/data.
func (h *FlowHandler) UpdateData(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req bookingDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	patch := models.BookingPatch{Brands: req.Brands, Issues: req.Issues, PushToken: req.PushToken}
	if req.SpecialInstructions != nil {
		if _, err := s.Form.Change(c.Request.Context(), models.FieldSpecialInstructions, *req.SpecialInstructions); err != nil {
			respondError(c, err)
			return
		}
		if ci := s.Flow.Data().CustomerInfo; ci != nil {
			ci.SpecialInstructions = *req.SpecialInstructions
			patch.CustomerInfo = ci
		}
	}
	if _, err := s.Flow.UpdateBookingData(patch); err != nil {
		respondError(c, err)
		return
	}
	h.snapshot(c, s)
}

// SelectService handles POST /api/flows/:id/service.
func (h *FlowHandler) SelectService(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var body struct {
		ServiceID string `json:"serviceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	svc, err := h.Catalogue.GetService(c.Request.Context(), body.ServiceID)
	if errors.Is(err, catalogue.ErrNotFound) {
		err = flow.ErrServiceInactive
	}
	if err != nil {
		respondError(c, err)
		return
	}
	if _, err := s.Flow.SelectService(svc); err != nil {
		respondError(c, err)
		return
	}
	h.snapshot(c, s)
}

// SelectSchedule handles POST /api/flows/:id/schedule.
func (h *FlowHandler) SelectSchedule(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var body struct {
		Date string `json:"date" binding:"required"`
		Time string `json:"time" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := s.Flow.SelectSchedule(body.Date, body.Time); err != nil {
		respondError(c, err)
		return
	}
	h.snapshot(c, s)
}

// CreateAccount handles POST /api/flows/:id/account.
func (h *FlowHandler) CreateAccount(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var body struct {
		Password        string `json:"password" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	acct, err := s.CreateAccount(c.Request.Context(), body.Password, body.ConfirmPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, acct)
}
