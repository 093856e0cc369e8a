package products

import (
	"ashtray_server/handling"
	"ashtray_server/services"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchProducts handles GET /products: active products only, paginated, with optional name search.
func (p *ProductRoutesManager) FetchProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseListOptions(r)
	if err != nil {
		handling.HandleError(err, "Invalid query parameters", p.logger, w)
		return
	}

	result, err := p.productService.ListProducts(r.Context(), services.ProductListOptions{
		Page:     opts.Page,
		PageSize: opts.PageSize,
		Search:   opts.Search,
	})
	if err != nil {
		handling.HandleError(err, "Unable to fetch products", p.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products":   result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

// FetchProductByID handles GET /products/{id}. Inactive products are reported as missing.
func (p *ProductRoutesManager) FetchProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(chi.URLParam(r, "id"), "product")
	if err != nil {
		handling.HandleError(err, "Invalid product id", p.logger, w)
		return
	}

	product, err := p.productService.GetProduct(r.Context(), id, true)
	if err != nil {
		handling.HandleError(err, "Unable to fetch product", p.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"product": product,
		}),
		gecho.Send(),
	)
}
