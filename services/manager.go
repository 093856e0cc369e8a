package services

import (
	"ashtray_server/database"
	"ashtray_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	AuthService     *AuthService
	EmailService    *EmailService
	CacheService    *CacheService
	HealthService   *HealthService
	ProductService  *ProductService
	CustomerService *CustomerService
	CartService     *CartService
	CheckoutService *CheckoutService
	OrderService    *OrderService
	PaymentService  *PaymentService
	WebhookService  *WebhookService
	StatsService    *StatsService
}

// NewServiceManager wires every service against Stripe as the payment processor.
func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	return NewServiceManagerWithProcessor(logger, cfg, db, NewStripeProcessor(logger, cfg.Stripe))
}

func NewServiceManagerWithProcessor(logger *gecho.Logger, cfg *structs.Config, db *database.DB, processor PaymentProcessor) *ServiceManager {
	cacheService := NewCacheService(logger, cfg.Cache)
	emailService := NewEmailService(logger, cfg.Email)
	productService := NewProductService(logger, db, cacheService)
	customerService := NewCustomerService(logger, db)
	cartService := NewCartService(logger, db, productService)
	checkoutService := NewCheckoutService(logger, db, customerService, emailService)

	return &ServiceManager{
		AuthService:     NewAuthService(logger, cfg.Auth, db),
		EmailService:    emailService,
		CacheService:    cacheService,
		HealthService:   NewHealthService(logger, db, cacheService),
		ProductService:  productService,
		CustomerService: customerService,
		CartService:     cartService,
		CheckoutService: checkoutService,
		OrderService:    NewOrderService(logger, db),
		PaymentService:  NewPaymentService(logger, cfg.Stripe, processor),
		WebhookService:  NewWebhookService(logger, db, processor, cartService, checkoutService),
		StatsService:    NewStatsService(logger, db),
	}
}
