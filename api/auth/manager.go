package auth

import (
	"ashtray_server/api/middleware"
	"ashtray_server/services"
	"ashtray_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AuthRoutesManager struct {
	logger      *gecho.Logger
	authService *services.AuthService
	cfg         *structs.Config
	mw          *middleware.Middleware
}

func NewAuthRoutesManager(
	logger *gecho.Logger,
	authService *services.AuthService,
	cfg *structs.Config,
	mw *middleware.Middleware,
) *AuthRoutesManager {
	return &AuthRoutesManager{
		logger:      logger,
		authService: authService,
		cfg:         cfg,
		mw:          mw,
	}
}

func (arm *AuthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin/auth", func(r chi.Router) {
		// must be fetched before any state-changing admin call
		r.Get("/csrf", arm.HandleCSRF)

		r.Group(func(r chi.Router) {
			r.Use(arm.mw.CSRFMiddleware())
			r.Post("/login", arm.HandleLogin)
			r.Post("/logout", arm.HandleLogout)
		})

		r.Group(func(r chi.Router) {
			r.Use(arm.mw.AdminAuthMiddleware)
			r.Get("/me", arm.HandleMe)
		})
	})
}
