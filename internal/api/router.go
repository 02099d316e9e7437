package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/certtrack/certification-system/internal/api/handler"
	"github.com/certtrack/certification-system/internal/api/middleware"
	"github.com/certtrack/certification-system/internal/core/domain"
	"github.com/certtrack/certification-system/internal/core/ports"
	"github.com/certtrack/certification-system/internal/core/service"
	"github.com/certtrack/certification-system/internal/infrastructure/config"
	"github.com/certtrack/certification-system/internal/infrastructure/http/handlers"
	"github.com/certtrack/certification-system/internal/infrastructure/queue"
	"github.com/certtrack/certification-system/internal/infrastructure/storage"
)

const tokenTTL = 24 * time.Hour

// App bundles the assembled HTTP server with the pieces the caller drives at
// startup: the broadcast dispatcher to Start and the auth service used to
// provision the default admin account.
type App struct {
	Echo       *echo.Echo
	Dispatcher *queue.Dispatcher
	Auth       ports.AuthService
}

// NewRouter assembles repositories, services, and handlers over the given
// key-value store.
func NewRouter(store ports.KVStore, cfg *config.Config, log zerolog.Logger) *App {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echoprometheus.NewMiddleware("certtrack"))

	// Repositories over the key-value store.
	users := storage.NewUserStore(store)
	notifications := storage.NewNotificationStore(store)
	auditStore := storage.NewAuditStore(store)
	configStore := storage.NewConfigStore(store)

	// Core services.
	auditLog := service.NewAuditLog(auditStore, log)
	authService := service.NewAuthService(users, auditLog, cfg.JWTSecret, tokenTTL, log)
	certService := service.NewCertificationService(users, configStore, auditLog, log)
	renewalService := service.NewRenewalService(users, auditLog, log)
	notificationService := service.NewNotificationService(users, notifications, configStore, auditLog, log)
	adminService := service.NewAdminService(users, notifications, configStore, auditLog, log)

	dispatcher := queue.NewDispatcher(cfg.BroadcastWorkers, notificationService, log)

	// Handlers.
	authHandler := handler.NewAuthHandler(authService, auditLog, log)
	certHandler := handler.NewCertificationHandler(certService, log)
	renewalHandler := handler.NewRenewalHandler(renewalService, log)
	notificationHandler := handler.NewNotificationHandler(notificationService, dispatcher, log)
	adminHandler := handler.NewAdminHandler(adminService, auditLog, log)
	healthHandler := handlers.NewHealthHandler(store)

	// Public routes.
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	v1 := e.Group("/api/v1")
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)

	// Authenticated routes.
	auth := v1.Group("", middleware.Auth(cfg.JWTSecret))

	auth.GET("/profile", authHandler.Profile)
	auth.PUT("/profile/nickname", authHandler.UpdateNickname)
	auth.PUT("/profile/image", authHandler.UpdateImage)
	auth.PUT("/profile/password", authHandler.ChangePassword)
	auth.GET("/profile/activity", authHandler.Activity)

	auth.POST("/certifications", certHandler.Add)
	auth.GET("/certifications", certHandler.List)
	auth.GET("/certifications/stats", certHandler.Stats)
	auth.POST("/certifications/bulk-delete", certHandler.BulkDelete)
	auth.GET("/certifications/:id", certHandler.Get)
	auth.PUT("/certifications/:id", certHandler.Update)
	auth.PUT("/certifications/:id/category", certHandler.UpdateCategory)
	auth.DELETE("/certifications/:id", certHandler.Delete)
	auth.POST("/certifications/:id/renewal", renewalHandler.Request)

	auth.GET("/notifications", notificationHandler.List)
	auth.PUT("/notifications/:id/read", notificationHandler.MarkRead)
	auth.DELETE("/notifications/:id", notificationHandler.Delete)
	auth.DELETE("/notifications", notificationHandler.ClearAll)

	// Admin routes.
	admin := auth.Group("/admin", middleware.RBAC(domain.RoleAdmin))

	admin.GET("/users", adminHandler.ListUsers)
	admin.DELETE("/users/:username", adminHandler.DeleteUser)
	admin.PUT("/users/:username/role", adminHandler.ToggleRole)
	admin.GET("/users/export", adminHandler.ExportUsers)
	admin.POST("/users/import", adminHandler.ImportUsers)

	admin.GET("/certifications", certHandler.ListAll)
	admin.GET("/certifications/export", certHandler.ExportCSV)
	admin.DELETE("/certifications/:username/:id", certHandler.DeleteForUser)

	admin.GET("/renewals", renewalHandler.ListPending)
	admin.POST("/renewals/:username/:id/approve", renewalHandler.Approve)
	admin.POST("/renewals/:username/:id/reject", renewalHandler.Reject)

	admin.POST("/notifications", notificationHandler.Broadcast)
	admin.GET("/notifications", notificationHandler.ListBroadcasts)
	admin.DELETE("/notifications/:id", notificationHandler.DeleteBroadcast)
	admin.GET("/notifications/preferences", notificationHandler.Preferences)
	admin.PUT("/notifications/preferences", notificationHandler.SavePreferences)

	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/config", adminHandler.GetConfig)
	admin.PUT("/config", adminHandler.SaveConfig)
	admin.POST("/config/reset", adminHandler.ResetConfig)
	admin.GET("/analytics", adminHandler.Analytics)
	admin.GET("/analytics/export", adminHandler.ExportAnalytics)
	admin.POST("/backup", adminHandler.Backup)
	admin.GET("/audit", adminHandler.AuditLog)

	return &App{Echo: e, Dispatcher: dispatcher, Auth: authService}
}
