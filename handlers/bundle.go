package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Catalogue and health
	ListServices gin.HandlerFunc
	Health       gin.HandlerFunc

	// Booking flow sessions
	StartFlow      gin.HandlerFunc
	GetFlow        gin.HandlerFunc
	Next           gin.HandlerFunc
	Back           gin.HandlerFunc
	Cancel         gin.HandlerFunc
	UpdateData     gin.HandlerFunc
	SelectService  gin.HandlerFunc
	SelectSchedule gin.HandlerFunc
	CreateAccount  gin.HandlerFunc

	// Customer step
	ChangeField     gin.HandlerFunc
	BlurField       gin.HandlerFunc
	ApplySuggestion gin.HandlerFunc
	SelectPlace     gin.HandlerFunc
	SendOTP         gin.HandlerFunc
	VerifyOTP       gin.HandlerFunc
	ResetOTP        gin.HandlerFunc
	SubmitCustomer  gin.HandlerFunc

	// Payment step
	InitPayment   gin.HandlerFunc
	SetTip        gin.HandlerFunc
	Reconcile     gin.HandlerFunc
	StripeWebhook gin.HandlerFunc

	// Template admin
	ListTemplates   gin.HandlerFunc
	GetTemplate     gin.HandlerFunc
	PutTemplate     gin.HandlerFunc
	PreviewTemplate gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from the handler structs.
func NewHandlerBundle(fh *FlowHandler, wh *WebhookHandler, th *TemplateHandler) *HandlerBundle {
	return &HandlerBundle{
		ListServices: fh.ListServices,
		Health:       Health,

		StartFlow:      fh.StartFlow,
		GetFlow:        fh.GetFlow,
		Next:           fh.Next,
		Back:           fh.Back,
		Cancel:         fh.Cancel,
		UpdateData:     fh.UpdateData,
		SelectService:  fh.SelectService,
		SelectSchedule: fh.SelectSchedule,
		CreateAccount:  fh.CreateAccount,

		ChangeField:     fh.ChangeField,
		BlurField:       fh.BlurField,
		ApplySuggestion: fh.ApplySuggestion,
		SelectPlace:     fh.SelectPlace,
		SendOTP:         fh.SendOTP,
		VerifyOTP:       fh.VerifyOTP,
		ResetOTP:        fh.ResetOTP,
		SubmitCustomer:  fh.SubmitCustomer,

		InitPayment:   fh.InitPayment,
		SetTip:        fh.SetTip,
		Reconcile:     fh.Reconcile,
		StripeWebhook: wh.HandleStripeWebhook,

		ListTemplates:   th.ListTemplates,
		GetTemplate:     th.GetTemplate,
		PutTemplate:     th.PutTemplate,
		PreviewTemplate: th.PreviewTemplate,
	}
}
