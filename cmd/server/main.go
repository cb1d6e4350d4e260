package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/brightpath/institute-api/internal/config"
	"github.com/brightpath/institute-api/internal/crm"
	"github.com/brightpath/institute-api/internal/database"
	"github.com/brightpath/institute-api/internal/handler"
	"github.com/brightpath/institute-api/internal/logger"
	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/notify"
	"github.com/brightpath/institute-api/internal/payment"
	"github.com/brightpath/institute-api/internal/repository"
	"github.com/brightpath/institute-api/internal/router"
	"github.com/brightpath/institute-api/internal/service"
	"github.com/brightpath/institute-api/internal/validator"
	"github.com/brightpath/institute-api/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("email_provider", cfg.EmailProvider).
		Msg("Starting Institute API")

	if cfg.RazorpayKeySecret == "" {
		log.Warn().Msg("RAZORPAY_KEY_SECRET is empty; payment verification will reject every signature")
	}

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to MongoDB ────────────────────────────────────────────
	mongo, err := database.NewMongoClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer mongo.Close(context.Background())
	db := mongo.Database()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	examRepo := repository.NewExamRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	grievanceRepo := repository.NewGrievanceRepository(db)
	resultRepo := repository.NewResultRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	stores := repository.NewContentStores(db)

	// ─── Side-effect channels ──────────────────────────────────────────
	queue := notify.NewRedisQueue(rdb)
	feed := service.NewActivityFeed(rdb)
	crmClient := crm.NewMockClient(log)
	gateway := payment.NewRazorpayGateway(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, adminRepo, service.NewRedisSessionStore(rdb), log)
	adminUserService := service.NewAdminUserService(adminRepo, cfg.BcryptCost)
	examService := service.NewExamService(examRepo)
	registrationService := service.NewRegistrationService(registrationRepo, examRepo, queue, crmClient, feed, log)
	paymentService := service.NewPaymentService(gateway, registrationRepo, examRepo, queue, feed, service.PaymentConfig{
		KeySecret:  cfg.RazorpayKeySecret,
		Currency:   cfg.PaymentCurrency,
		AdminEmail: cfg.AdminEmail,
		StaleAfter: cfg.ReconcileAfter,
	}, log)
	hallTicketService := service.NewHallTicketService(registrationRepo, examRepo, cfg.HallTicketWindow)
	grievanceService := service.NewGrievanceService(grievanceRepo, registrationRepo, queue, feed, log)
	resultService := service.NewResultService(resultRepo, examRepo)
	contactService := service.NewContactService(stores.Contacts, queue, crmClient, feed, cfg.AdminEmail, log)
	dashboardService := service.NewDashboardService(registrationRepo, grievanceRepo, stores.Contacts, examRepo)
	settingService := service.NewSettingService(settingRepo, log)
	mediaService := service.NewMediaService(cfg)
	analyticsService := service.NewAnalyticsService(service.NewRedisAnalyticsCounter(rdb), feed, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Courses: handler.NewContentHandler(
			service.NewContentService[model.Course, *model.Course](stores.Courses), "courses", "course", log),
		Faculty: handler.NewContentHandler(
			service.NewContentService[model.Faculty, *model.Faculty](stores.Faculty), "faculty", "member", log),
		Facilities: handler.NewContentHandler(
			service.NewContentService[model.Facility, *model.Facility](stores.Facilities), "facilities", "facility", log),
		Testimonials: handler.NewContentHandler(
			service.NewContentService[model.Testimonial, *model.Testimonial](stores.Testimonials), "testimonials", "testimonial", log),
		Activities: handler.NewContentHandler(
			service.NewContentService[model.Activity, *model.Activity](stores.Activities), "activities", "activity", log),
		Videos: handler.NewContentHandler(
			service.NewContentService[model.Video, *model.Video](stores.Videos), "videos", "video", log),
		FAQs: handler.NewContentHandler(
			service.NewContentService[model.FAQ, *model.FAQ](stores.FAQs), "faqs", "faq", log).
			WithFilter(handler.FAQFilter),
		Notifications: handler.NewContentHandler(
			service.NewContentService[model.Notification, *model.Notification](stores.Notifications), "notifications", "notification", log),
		EmailTemplates: handler.NewContentHandler(
			service.NewContentService[model.EmailTemplate, *model.EmailTemplate](stores.EmailTemplates), "emailTemplates", "emailTemplate", log),

		Exam:         handler.NewExamHandler(examService, log),
		Registration: handler.NewRegistrationHandler(registrationService, mediaService, log),
		Payment:      handler.NewPaymentHandler(paymentService, log),
		HallTicket:   handler.NewHallTicketHandler(hallTicketService, log),
		Grievance:    handler.NewGrievanceHandler(grievanceService, mediaService, log),
		Result:       handler.NewResultHandler(resultService, log),
		Contact:      handler.NewContactHandler(contactService, log),
		Auth:         handler.NewAuthHandler(authService, log),
		AdminUser:    handler.NewAdminUserHandler(adminUserService, log),
		Dashboard:    handler.NewDashboardHandler(dashboardService, log),
		Setting:      handler.NewSettingHandler(settingService, log),
		Media:        handler.NewMediaHandler(mediaService, log),
		Analytics:    handler.NewAnalyticsHandler(analyticsService, log),
		Activity:     handler.NewActivityHandler(feed, log, cfg.AllowedOrigins),
		System: handler.NewSystemHandler(rdb, map[string]handler.HealthCheck{
			"mongo": mongo.Ping,
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	sender := notify.NewSender(cfg.EmailProvider, notify.SenderConfig{
		From:         cfg.EmailFrom,
		SMTPHost:     cfg.SMTPHost,
		SMTPPort:     cfg.SMTPPort,
		SMTPUsername: cfg.SMTPUsername,
		SMTPPassword: cfg.SMTPPassword,
		ResendAPIKey: cfg.ResendAPIKey,
	}, log)
	notificationWorker := worker.NewNotificationWorker(
		rdb,
		notify.NewRenderer(stores.EmailTemplates, log),
		sender,
		worker.RetryPolicy{MaxAttempts: cfg.NotifyMaxAttempts, BaseDelay: cfg.NotifyBaseDelay},
		cfg.EmailFrom,
		log,
	)
	workers.Add(1)
	go func() {
		defer workers.Done()
		notificationWorker.Start(workerCtx)
	}()

	reconciler, err := worker.NewReconciler(paymentService, cfg.ReconcileSchedule, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid reconcile schedule")
	}
	reconciler.Start()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the scheduler, then let the notification worker drain its queue.
	reconciler.Stop(shutdownCtx)
	workerCancel()

	drained := make(chan struct{})
	go func() {
		workers.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Workers did not drain in time")
	}

	log.Info().Msg("Shutdown complete")
}
