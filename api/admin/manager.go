package admin

import (
	"ashtray_server/api/middleware"
	"ashtray_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type AdminRoutesManager struct {
	logger          *gecho.Logger
	productService  *services.ProductService
	customerService *services.CustomerService
	orderService    *services.OrderService
	statsService    *services.StatsService
	mw              *middleware.Middleware
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
	customerService *services.CustomerService,
	orderService *services.OrderService,
	statsService *services.StatsService,
	mw *middleware.Middleware,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:          logger,
		productService:  productService,
		customerService: customerService,
		orderService:    orderService,
		statsService:    statsService,
		mw:              mw,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(ar.mw.AdminAuthMiddleware)
		r.Use(ar.mw.CSRFMiddleware())

		r.Get("/stats", ar.GetDashboardStats)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", ar.ListProducts)
			r.Post("/", ar.CreateProduct)
			r.Get("/{id}", ar.GetProduct)
			r.Put("/{id}", ar.UpdateProduct)
			r.Delete("/{id}", ar.DeleteProduct)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", ar.ListCustomers)
			r.Post("/", ar.CreateCustomer)
			r.Get("/{id}", ar.GetCustomer)
			r.Put("/{id}", ar.UpdateCustomer)
			r.Delete("/{id}", ar.DeleteCustomer)
			r.Get("/{id}/orders", ar.ListCustomerOrders)
		})

		r.Route("/addresses", func(r chi.Router) {
			r.Get("/", ar.ListAddresses)
			r.Post("/", ar.CreateAddress)
			r.Get("/{id}", ar.GetAddress)
			r.Put("/{id}", ar.UpdateAddress)
			r.Delete("/{id}", ar.DeleteAddress)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ar.ListOrders)
			r.Get("/{id}", ar.GetOrderDetails)
			r.Put("/{id}", ar.UpdateOrder)
			r.Delete("/{id}", ar.DeleteOrder)
		})
	})
}
