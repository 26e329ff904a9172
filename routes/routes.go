package routes

import (
	"net/http"
	"time"

	"aircare/handlers"
	"aircare/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterFlowRoutes sets up the booking wizard endpoints.
func RegisterFlowRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/services", hb.ListServices)

	flows := r.Group("/api/flows")
	{
		flows.POST("", hb.StartFlow)
		flows.GET("/:id", hb.GetFlow)
		flows.POST("/:id/next", hb.Next)
		flows.POST("/:id/back", hb.Back)
		flows.POST("/:id/cancel", hb.Cancel)
		flows.PATCH("/:id/data", hb.UpdateData)
		flows.POST("/:id/service", hb.SelectService)
		flows.POST("/:id/schedule", hb.SelectSchedule)
		flows.POST("/:id/account", hb.CreateAccount)

		cust := flows.Group("/:id/customer")
		cust.POST("/fields", hb.ChangeField)
		cust.POST("/blur", hb.BlurField)
		cust.POST("/suggestion", hb.ApplySuggestion)
		cust.POST("/place", hb.SelectPlace)
		cust.POST("/otp/send", hb.SendOTP)
		cust.POST("/otp/verify", hb.VerifyOTP)
		cust.POST("/otp/reset", hb.ResetOTP)
		cust.POST("/submit", hb.SubmitCustomer)

		pay := flows.Group("/:id/payment")
		pay.POST("/init", hb.InitPayment)
		pay.POST("/tip", hb.SetTip)
		pay.POST("/reconcile", hb.Reconcile)
	}
}

// RegisterPaymentRoutes sets up provider callbacks.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/payments/webhook", hb.StripeWebhook)
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthAdminMiddleware())
		adminGroup.GET("/templates", hb.ListTemplates)
		adminGroup.POST("/templates/preview", hb.PreviewTemplate)
		adminGroup.GET("/templates/:id", hb.GetTemplate)
		adminGroup.PUT("/templates/:id", hb.PutTemplate)
	}
}

// RegisterHealthRoute registers the health-check and metrics endpoints.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, origins []string) {
	r.Use(cors.New(corsConfig(origins)))

	RegisterHealthRoute(r, hb)
	RegisterFlowRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
