package admin

import (
	"ashtray_server/handling"
	"ashtray_server/lib"
	"ashtray_server/services"
	"ashtray_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// ListProducts lists every product, inactive ones included.
func (ar *AdminRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseListOptions(r)
	if err != nil {
		handling.HandleError(err, "Invalid query parameters", ar.logger, w)
		return
	}

	result, err := ar.productService.ListProducts(r.Context(), services.ProductListOptions{
		Page:            opts.Page,
		PageSize:        opts.PageSize,
		Search:          opts.Search,
		IncludeInactive: true,
	})
	if err != nil {
		handling.HandleError(err, "Unable to fetch products", ar.logger, w)
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

func (ar *AdminRoutesManager) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(chi.URLParam(r, "id"), "product")
	if err != nil {
		handling.HandleError(err, "Invalid product id", ar.logger, w)
		return
	}

	product, err := ar.productService.GetProduct(r.Context(), id, false)
	if err != nil {
		handling.HandleError(err, "Unable to fetch product", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(product), gecho.Send())
}

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProductRequest](r)
	if err != nil {
		handling.HandleError(err, "Please check the product information and try again", ar.logger, w)
		return
	}

	product, err := ar.productService.CreateProduct(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Unable to create product. Please try again", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product created successfully"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(chi.URLParam(r, "id"), "product")
	if err != nil {
		handling.HandleError(err, "Invalid product id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.ProductUpdateRequest](r)
	if err != nil {
		handling.HandleError(err, "Please check the product information and try again", ar.logger, w)
		return
	}

	product, err := ar.productService.UpdateProduct(r.Context(), id, body)
	if err != nil {
		handling.HandleError(err, "Unable to update product. Please try again", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product updated successfully"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

// DeleteProduct refuses with 409 while an order line still references the product.
func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(chi.URLParam(r, "id"), "product")
	if err != nil {
		handling.HandleError(err, "Invalid product id", ar.logger, w)
		return
	}

	if err := ar.productService.DeleteProduct(r.Context(), id); err != nil {
		handling.HandleError(err, "Unable to delete product. Please try again", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Product deleted successfully"), gecho.Send())
}
