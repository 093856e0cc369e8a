package products

import (
	"ashtray_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ProductRoutesManager struct {
	logger         *gecho.Logger
	productService *services.ProductService
}

func NewProductRoutesManager(
	logger *gecho.Logger,
	productService *services.ProductService,
) *ProductRoutesManager {
	return &ProductRoutesManager{
		logger:         logger,
		productService: productService,
	}
}

func (prm *ProductRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/products", prm.FetchProducts)
	r.Get("/products/{id}", prm.FetchProductByID)
}
