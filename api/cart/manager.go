package cart

import (
	"ashtray_server/services"
	"ashtray_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CartRoutesManager struct {
	logger          *gecho.Logger
	cfg             *structs.Config
	cartService     *services.CartService
	checkoutService *services.CheckoutService
}

func NewCartRoutesManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	cartService *services.CartService,
	checkoutService *services.CheckoutService,
) *CartRoutesManager {
	return &CartRoutesManager{
		logger:          logger,
		cfg:             cfg,
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

func (crm *CartRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", crm.GetCart)
		r.Post("/items", crm.AddItem)
		r.Post("/items/update", crm.UpdateItem)
		r.Post("/items/remove", crm.RemoveItem)
		r.Post("/clear", crm.ClearCart)
		r.Post("/checkout", crm.Checkout)
	})
}
