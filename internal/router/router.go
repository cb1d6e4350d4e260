package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brightpath/institute-api/internal/config"
	"github.com/brightpath/institute-api/internal/handler"
	"github.com/brightpath/institute-api/internal/middleware"
	"github.com/brightpath/institute-api/internal/model"
	"github.com/brightpath/institute-api/internal/response"
)

// ContentRoutes is the route surface of a content collection.
type ContentRoutes interface {
	ListPublic(c *gin.Context)
	GetPublic(c *gin.Context)
	ListAdmin(c *gin.Context)
	GetAdmin(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// Handlers groups all handler instances for route setup.
type Handlers struct {
	// Plain content collections.
	Courses        ContentRoutes
	Faculty        ContentRoutes
	Facilities     ContentRoutes
	Testimonials   ContentRoutes
	Activities     ContentRoutes
	Videos         ContentRoutes
	FAQs           ContentRoutes
	Notifications  ContentRoutes
	EmailTemplates ContentRoutes

	Exam         *handler.ExamHandler
	Registration *handler.RegistrationHandler
	Payment      *handler.PaymentHandler
	HallTicket   *handler.HallTicketHandler
	Grievance    *handler.GrievanceHandler
	Result       *handler.ResultHandler
	Contact      *handler.ContactHandler
	Auth         *handler.AuthHandler
	AdminUser    *handler.AdminUserHandler
	Dashboard    *handler.DashboardHandler
	Setting      *handler.SettingHandler
	Media        *handler.MediaHandler
	Analytics    *handler.AnalyticsHandler
	Activity     *handler.ActivityHandler
	System       *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds the rate limiter's background cleanup.
func SetupRouter(
	ctx context.Context,
	auth middleware.TokenValidator,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Metrics())
	router.Use(middleware.Brotli())

	// Serve uploaded media files statically with aggressive caching (1 year).
	uploadsGroup := router.Group("/uploads")
	uploadsGroup.Use(middleware.CacheControl(31536000))
	{
		uploadsGroup.Static("/", cfg.UploadDir)
	}

	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public form posts share one per-IP budget; analytics beacons get a
	// larger one of their own.
	formLimiter := middleware.NewRateLimiter(ctx, cfg.PublicRateLimit, time.Minute)
	beaconLimiter := middleware.NewRateLimiter(ctx, cfg.PublicRateLimit*4, time.Minute)
	limited := formLimiter.Middleware()

	api := router.Group("/api")

	// ─── 1. Public content (cacheable) ─────────────────────────────────
	content := api.Group("")
	content.Use(middleware.CacheControl(60))
	{
		publicContent(content, "/courses", handlers.Courses)
		publicContent(content, "/faculty", handlers.Faculty)
		publicContent(content, "/facilities", handlers.Facilities)
		publicContent(content, "/testimonials", handlers.Testimonials)
		publicContent(content, "/activities", handlers.Activities)
		publicContent(content, "/videos", handlers.Videos)
		publicContent(content, "/faqs", handlers.FAQs)
		publicContent(content, "/notifications", handlers.Notifications)

		content.GET("/exams", handlers.Exam.ListPublic)
		content.GET("/exams/:idOrSlug", handlers.Exam.GetExam)
		content.GET("/settings", handlers.Setting.GetPublicSettings)
		content.GET("/settings/:key", handlers.Setting.GetPublicSetting)
	}

	// ─── 2. Public applicant flows (rate limited, personal data) ──────
	applicant := api.Group("")
	applicant.Use(middleware.NoStore())
	{
		applicant.POST("/exam-registrations", limited, handlers.Registration.CreateRegistration)
		applicant.POST("/payment/create-order", limited, handlers.Payment.CreateOrder)
		applicant.POST("/payment/verify", limited, handlers.Payment.VerifyPayment)
		applicant.GET("/hall-ticket", handlers.HallTicket.GetHallTicket)
		applicant.GET("/hall-ticket/pdf", handlers.HallTicket.DownloadHallTicket)
		applicant.POST("/grievances", limited, handlers.Grievance.FileGrievance)
		applicant.GET("/results", handlers.Result.LookupResult)
		applicant.POST("/contacts", limited, handlers.Contact.SubmitContact)
		applicant.POST("/analytics/events", beaconLimiter.Middleware(), handlers.Analytics.RecordEvent)
	}

	// ─── 3. Auth ───────────────────────────────────────────────────────
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.NoStore())
	{
		authGroup.POST("", limited, handlers.Auth.Login)
		authGroup.POST("/logout", middleware.RequireAdminJWT(auth), handlers.Auth.Logout)
		authGroup.GET("/me", middleware.RequireAdminJWT(auth), handlers.Auth.Me)
	}

	// ─── 4. Admin edits on public paths (JWT + RBAC) ───────────────────
	api.PUT("/exam-registrations/:id",
		middleware.NoStore(),
		middleware.RequireAdminJWT(auth),
		middleware.RequirePermission(model.PermissionRegistrationsWrite),
		handlers.Registration.UpdateRegistration,
	)
	api.PUT("/grievances/:id",
		middleware.NoStore(),
		middleware.RequireAdminJWT(auth),
		middleware.RequirePermission(model.PermissionGrievancesWrite),
		handlers.Grievance.UpdateGrievance,
	)

	// ─── 5. Admin Group (JWT + RBAC) ───────────────────────────────────
	adminAPI := api.Group("/admin")
	adminAPI.Use(middleware.NoStore(), middleware.RequireAdminJWT(auth))
	{
		// Content collections: any admin reads, writers need the permission.
		adminContent(adminAPI, "/courses", handlers.Courses, model.PermissionContentWrite)
		adminContent(adminAPI, "/faculty", handlers.Faculty, model.PermissionContentWrite)
		adminContent(adminAPI, "/facilities", handlers.Facilities, model.PermissionContentWrite)
		adminContent(adminAPI, "/testimonials", handlers.Testimonials, model.PermissionContentWrite)
		adminContent(adminAPI, "/activities", handlers.Activities, model.PermissionContentWrite)
		adminContent(adminAPI, "/videos", handlers.Videos, model.PermissionContentWrite)
		adminContent(adminAPI, "/faqs", handlers.FAQs, model.PermissionContentWrite)
		adminContent(adminAPI, "/notifications", handlers.Notifications, model.PermissionContentWrite)
		adminContent(adminAPI, "/exams", handlers.Exam, model.PermissionExamsWrite)
		adminContent(adminAPI, "/results", handlers.Result, model.PermissionResultsWrite)

		// Email templates
		templates := adminAPI.Group("/email-templates", middleware.RequirePermission(model.PermissionTemplatesWrite))
		{
			templates.GET("", handlers.EmailTemplates.ListAdmin)
			templates.GET("/:id", handlers.EmailTemplates.GetAdmin)
			templates.POST("", handlers.EmailTemplates.Create)
			templates.PUT("/:id", handlers.EmailTemplates.Update)
			templates.DELETE("/:id", handlers.EmailTemplates.Delete)
		}

		// Contacts
		contacts := adminAPI.Group("/contacts", middleware.RequirePermission(model.PermissionContactsWrite))
		{
			contacts.GET("", handlers.Contact.ListAdmin)
			contacts.GET("/:id", handlers.Contact.GetAdmin)
			contacts.POST("", handlers.Contact.Create)
			contacts.PUT("/:id", handlers.Contact.Update)
			contacts.DELETE("/:id", handlers.Contact.Delete)
		}

		// Exam registrations
		regs := adminAPI.Group("/exam-registrations")
		{
			regs.GET("",
				middleware.RequirePermission(model.PermissionRegistrationsRead),
				handlers.Registration.ListRegistrations,
			)
			regs.GET("/export",
				middleware.RequirePermission(model.PermissionRegistrationsRead),
				handlers.Registration.ExportRegistrations,
			)
			regs.GET("/:id",
				middleware.RequirePermission(model.PermissionRegistrationsRead),
				handlers.Registration.GetRegistration,
			)
			regs.PUT("/:id",
				middleware.RequirePermission(model.PermissionRegistrationsWrite),
				handlers.Registration.UpdateRegistration,
			)
			regs.PUT("/:id/payment-status",
				middleware.RequirePermission(model.PermissionRegistrationsWrite),
				handlers.Registration.UpdatePaymentStatus,
			)
			regs.DELETE("/:id",
				middleware.RequirePermission(model.PermissionRegistrationsWrite),
				handlers.Registration.DeleteRegistration,
			)
		}

		// Grievances
		grievances := adminAPI.Group("/grievances", middleware.RequirePermission(model.PermissionGrievancesWrite))
		{
			grievances.GET("", handlers.Grievance.ListGrievances)
			grievances.GET("/:id", handlers.Grievance.GetGrievance)
			grievances.PUT("/:id", handlers.Grievance.UpdateGrievance)
			grievances.DELETE("/:id", handlers.Grievance.DeleteGrievance)
		}

		// Admin user management
		adminAPI.GET("/admin-users",
			middleware.RequirePermission(model.PermissionAdminsRead),
			handlers.AdminUser.ListAdmins,
		)
		adminAPI.GET("/admin-users/:id",
			middleware.RequirePermission(model.PermissionAdminsRead),
			handlers.AdminUser.GetAdmin,
		)
		adminAPI.POST("/admin-users",
			middleware.RequirePermission(model.PermissionAdminsWrite),
			handlers.AdminUser.CreateAdmin,
		)
		adminAPI.PUT("/admin-users/:id",
			middleware.RequirePermission(model.PermissionAdminsWrite),
			handlers.AdminUser.UpdateAdmin,
		)
		adminAPI.DELETE("/admin-users/:id",
			middleware.RequirePermission(model.PermissionAdminsWrite),
			handlers.AdminUser.DeleteAdmin,
		)
		adminAPI.GET("/roles",
			middleware.RequirePermission(model.PermissionAdminsRead),
			handlers.AdminUser.GetRoles,
		)

		// Dashboard, analytics, system
		adminAPI.GET("/dashboard",
			middleware.RequirePermission(model.PermissionDashboardRead),
			handlers.Dashboard.GetDashboardData,
		)
		adminAPI.GET("/analytics",
			middleware.RequirePermission(model.PermissionAnalyticsRead),
			handlers.Analytics.GetSummary,
		)
		adminAPI.GET("/system",
			handlers.System.Status, // Open to all admins
		)

		// Settings
		settingsGroup := adminAPI.Group("/settings")
		{
			settingsGroup.GET("", handlers.Setting.GetAllSettings)
			settingsGroup.PUT("", middleware.RequirePermission(model.PermissionSettingsWrite), handlers.Setting.UpdateSettings)
		}

		// Media upload
		adminAPI.POST("/media/upload",
			middleware.RequirePermission(model.PermissionMediaUpload),
			handlers.Media.UploadMedia,
		)
	}

	// ─── 6. WebSocket (token in query) ─────────────────────────────────
	wsGroup := router.Group("/ws/admin")
	wsGroup.Use(middleware.RequireAdminWSAuth(auth))
	{
		wsGroup.GET("/activity",
			middleware.RequirePermission(model.PermissionDashboardRead),
			handlers.Activity.Stream,
		)
	}

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	return router
}

// publicContent mounts the read-only public routes of a collection.
func publicContent(g *gin.RouterGroup, path string, h ContentRoutes) {
	g.GET(path, h.ListPublic)
	g.GET(path+"/:id", h.GetPublic)
}

// adminContent mounts the admin CRUD routes of a collection. Reads are open
// to every admin; writes require perm.
func adminContent(g *gin.RouterGroup, path string, h ContentRoutes, perm model.Permission) {
	g.GET(path, h.ListAdmin)
	g.GET(path+"/:id", h.GetAdmin)
	g.POST(path, middleware.RequirePermission(perm), h.Create)
	g.PUT(path+"/:id", middleware.RequirePermission(perm), h.Update)
	g.DELETE(path+"/:id", middleware.RequirePermission(perm), h.Delete)
}
