package api

import (
	"ashtray_server/api/admin"
	"ashtray_server/api/auth"
	"ashtray_server/api/cart"
	"ashtray_server/api/health"
	"ashtray_server/api/middleware"
	"ashtray_server/api/payments"
	"ashtray_server/api/products"
	"ashtray_server/services"
	"ashtray_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	productRoutes *products.ProductRoutesManager
	cartRoutes    *cart.CartRoutesManager
	paymentRoutes *payments.PaymentRoutesManager
	healthRoutes  *health.HealthRoutesManager
	authRoutes    *auth.AuthRoutesManager
	adminRoutes   *admin.AdminRoutesManager
}

func NewRouterManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	sm *services.ServiceManager,
	mw *middleware.Middleware,
) *routerManager {
	return &routerManager{
		productRoutes: products.NewProductRoutesManager(logger, sm.ProductService),
		cartRoutes:    cart.NewCartRoutesManager(logger, cfg, sm.CartService, sm.CheckoutService),
		paymentRoutes: payments.NewPaymentRoutesManager(logger, cfg, sm.CartService, sm.PaymentService, sm.WebhookService),
		healthRoutes:  health.NewHealthRoutesManager(logger, sm.HealthService),
		authRoutes:    auth.NewAuthRoutesManager(logger, sm.AuthService, cfg, mw),
		adminRoutes: admin.NewAdminRoutesManager(
			logger,
			sm.ProductService,
			sm.CustomerService,
			sm.OrderService,
			sm.StatsService,
			mw,
		),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.productRoutes.RegisterRoutes(r)
	rm.cartRoutes.RegisterRoutes(r)
	rm.paymentRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
}
