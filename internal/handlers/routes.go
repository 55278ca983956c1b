package handlers

import (
	"time"

	"github.com/filadex/filadex-server/internal/config"
	"github.com/filadex/filadex-server/internal/middleware"
	"github.com/filadex/filadex-server/internal/models"
	"github.com/filadex/filadex-server/internal/services"
	"github.com/filadex/filadex-server/internal/session"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	Sessions *session.Manager
}

// RegisterRoutes mounts the full /api surface on the app. Shared between
// cmd/server and the handler tests so both run the same route table.
func RegisterRoutes(app *fiber.App, deps Deps) {
	authSvc := &services.AuthService{DB: deps.DB, Log: deps.Log}
	filamentSvc := &services.FilamentService{DB: deps.DB, Log: deps.Log}
	statsSvc := &services.StatisticsService{DB: deps.DB, Log: deps.Log}
	sharingSvc := &services.SharingService{DB: deps.DB, Log: deps.Log}
	themeSvc := &services.ThemeService{DB: deps.DB, Log: deps.Log}
	userSvc := &services.UserService{DB: deps.DB, Log: deps.Log}

	authHandler := &AuthHandler{
		Auth:       authSvc,
		Sessions:   deps.Sessions,
		SessionTTL: time.Duration(deps.Cfg.SessionTTL) * time.Hour,
	}
	filamentHandler := &FilamentHandler{Filaments: filamentSvc}
	statsHandler := &StatisticsHandler{Statistics: statsSvc}
	sharingHandler := &SharingHandler{Sharing: sharingSvc}
	themeHandler := &ThemeHandler{Theme: themeSvc}
	userHandler := &UserHandler{Users: userSvc}
	healthHandler := &HealthHandler{Cfg: deps.Cfg, DB: deps.DB}

	requireAuth := middleware.RequireAuth(deps.DB, deps.Sessions)
	requireAdmin := middleware.RequireAdmin(deps.DB, deps.Sessions)
	optionalAuth := middleware.OptionalAuth(deps.DB, deps.Sessions)

	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	// Auth
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/logout", authHandler.Logout)
	api.Get("/auth/me", requireAuth, authHandler.Me)
	api.Post("/auth/change-password", requireAuth, authHandler.ChangePassword)

	// Filaments (export registered before :id so the route wins)
	api.Get("/filaments/export", requireAuth, filamentHandler.Export)
	api.Get("/filaments", requireAuth, filamentHandler.List)
	api.Post("/filaments", requireAuth, filamentHandler.Create)
	api.Get("/filaments/:id", requireAuth, filamentHandler.Get)
	api.Patch("/filaments/:id", requireAuth, filamentHandler.Update)
	api.Delete("/filaments/:id", requireAuth, filamentHandler.Delete)

	// Reference lists
	refs := api.Group("", requireAuth)
	(&ReferenceHandler[models.Manufacturer]{Store: services.NewManufacturerStore(deps.DB, deps.Log)}).Register(refs)
	(&ReferenceHandler[models.Material]{Store: services.NewMaterialStore(deps.DB, deps.Log)}).Register(refs)
	(&ReferenceHandler[models.Color]{Store: services.NewColorStore(deps.DB, deps.Log)}).Register(refs)
	(&ReferenceHandler[models.Diameter]{Store: services.NewDiameterStore(deps.DB, deps.Log)}).Register(refs)
	(&ReferenceHandler[models.StorageLocation]{Store: services.NewStorageLocationStore(deps.DB, deps.Log)}).Register(refs)

	// Statistics
	api.Get("/statistics", requireAuth, statsHandler.Report)

	// Sharing
	api.Get("/user-sharing", requireAuth, sharingHandler.List)
	api.Post("/user-sharing", requireAuth, sharingHandler.Set)
	api.Get("/public/filaments/:id", sharingHandler.Public)

	// Theme
	api.Get("/theme", optionalAuth, themeHandler.Get)
	api.Post("/theme", requireAuth, themeHandler.Set)

	// Admin user management
	api.Get("/users", requireAdmin, userHandler.List)
	api.Post("/users", requireAdmin, userHandler.Create)
	api.Put("/users/:id", requireAdmin, userHandler.Update)
	api.Delete("/users/:id", requireAdmin, userHandler.Delete)
}
