package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aircare/config"
	"aircare/cron"
	"aircare/database"
	accountRepo "aircare/database/repository/account"
	bookingRepo "aircare/database/repository/booking"
	catalogueRepo "aircare/database/repository/catalogue"
	templateRepo "aircare/database/repository/template"
	"aircare/handlers"
	"aircare/middleware"
	"aircare/routes"
	"aircare/services/account"
	"aircare/services/analytics"
	"aircare/services/booking"
	"aircare/services/catalogue"
	"aircare/services/customer"
	"aircare/services/flow"
	"aircare/services/notification"
	"aircare/services/otp"
	"aircare/services/payment"
	"aircare/services/templates"
	"aircare/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	database.InitDB()
	utils.InitRedis()
	utils.FirebaseInit()

	rootCtx, stopMonitor := context.WithCancel(context.Background())
	utils.StartHealthMonitor(rootCtx, utils.AllRedisClients(), database.MongoClient)

	// repositories.
	db := database.DB()
	bookings, err := bookingRepo.NewMongoBookingRepo(db)
	if err != nil {
		logger.Fatal("main: failed to initialize booking repository", zap.Error(err))
	}
	accounts, err := accountRepo.NewMongoAccountRepo(db)
	if err != nil {
		logger.Fatal("main: failed to initialize account repository", zap.Error(err))
	}
	templatesStore := templateRepo.NewMongoTemplateRepo(db)
	catalogueStore := catalogueRepo.NewMongoCatalogueRepo(db)

	// services.
	tracker := analytics.New(prometheus.DefaultRegisterer)
	defer tracker.Close()

	bookingService := booking.NewDefaultBookingService(bookings, logger.Named("booking"))
	templateService := templates.NewDefaultTemplateService(templatesStore, logger.Named("templates"))
	catalogueService := catalogue.NewDefaultCatalogueService(catalogueStore, utils.GetCacheClient(), logger.Named("catalogue"))
	accountService := account.NewDefaultAccountService(accounts, logger.Named("account"))

	sms := otp.LogSender{Logger: logger.Named("sms")}
	otpProvider := otp.NewRedisProvider(utils.GetOTPCacheClient(), sms, cfg.OTPTTL, cfg.OTPMaxAttempts, logger.Named("otp"))
	emailVerifier := otp.NewMXEmailVerifier()

	reminderClient := asynq.NewClient(cron.RedisOpt())
	defer reminderClient.Close()

	notificationService, err := notification.NewDefaultNotificationService(templateService, logger.Named("notification"))
	if err != nil {
		logger.Fatal("main: failed to initialize notification service", zap.Error(err))
	}
	notificationService.SMS = sms
	notificationService.Reminders = notification.AsynqScheduler{Client: reminderClient}
	notificationService.LeadTime = cfg.ReminderLeadTime
	if sender := notification.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName, logger.Named("email")); sender != nil {
		notificationService.Email = sender
	}
	if utils.FCMClient != nil {
		notificationService.Push = notification.FCMSender{Client: utils.FCMClient}
	}

	var places customer.PlaceResolver
	if cfg.GoogleAPIKey != "" {
		places = customer.NewPlacesClient(cfg.GoogleAPIKey)
	}

	registry := flow.NewRegistry(flow.Dependencies{
		Bookings: bookingService,
		Payments: payment.NewStripeProvider(cfg.StripeKey),
		NewVerifier: func() customer.Verifier {
			return otp.NewClient(otpProvider, emailVerifier, logger.Named("otp"), otp.WithRecorder(tracker))
		},
		Places:      places,
		Notifier:    notificationService,
		Accounts:    accountService,
		Tracker:     tracker,
		WarnAfter:   cfg.FlowWarningAfter,
		ExpireAfter: cfg.FlowExpiryAfter,
		Currency:    cfg.PaymentCurrency,
		Logger:      logger.Named("flow"),
	})
	defer registry.Close()

	webhooks := &payment.WebhookHandler{
		Secret:   cfg.StripeWebhookSecret,
		Bookings: bookingService,
		Sessions: registry,
		Notifier: notificationService,
		Logger:   logger.Named("webhook"),
	}

	worker := cron.InitReminderWorker(notificationService)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewFlowHandler(registry, catalogueService),
		&handlers.WebhookHandler{Webhooks: webhooks},
		handlers.NewTemplateHandler(templateService),
	)
	routes.RegisterRoutes(router, handlerBundle, cfg.AllowedOrigins())

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()
	stopMonitor()
	if err := database.Close(ctx); err != nil {
		logger.Warn("main: mongo disconnect failed", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
