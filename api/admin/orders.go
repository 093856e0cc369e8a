package admin

import (
	"ashtray_server/handling"
	"ashtray_server/lib"
	"ashtray_server/services"
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// ListOrders lists orders newest first with optional status and email filters.
func (ar *AdminRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseListOptions(r, "status", "email")
	if err != nil {
		handling.HandleError(err, "Invalid query parameters", ar.logger, w)
		return
	}

	status := opts.Filters["status"]
	if status != "" && !tables.OrderStatus(status).Valid() {
		handling.HandleError(lib.NewValidationError("unknown order status %q", status), "Invalid query parameters", ar.logger, w)
		return
	}

	result, err := ar.orderService.ListOrders(r.Context(), services.OrderListOptions{
		Page:     opts.Page,
		PageSize: opts.PageSize,
		Status:   status,
		Email:    opts.Filters["email"],
	})
	if err != nil {
		handling.HandleError(err, "Unable to fetch orders", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"orders":     result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

// GetOrderDetails returns the order with its line items, customer and shipping address.
func (ar *AdminRoutesManager) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUID(chi.URLParam(r, "id"), "order")
	if err != nil {
		handling.HandleError(err, "Invalid order id", ar.logger, w)
		return
	}

	order, err := ar.orderService.GetOrder(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Unable to fetch order", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(order), gecho.Send())
}

// UpdateOrder changes status, notes or shipping address. The total is not writable.
func (ar *AdminRoutesManager) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUID(chi.URLParam(r, "id"), "order")
	if err != nil {
		handling.HandleError(err, "Invalid order id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.OrderUpdateRequest](r)
	if err != nil {
		handling.HandleError(err, "Please check the order information and try again", ar.logger, w)
		return
	}

	order, err := ar.orderService.UpdateOrder(r.Context(), id, body)
	if err != nil {
		handling.HandleError(err, "Unable to update order", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order updated successfully"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseUUID(chi.URLParam(r, "id"), "order")
	if err != nil {
		handling.HandleError(err, "Invalid order id", ar.logger, w)
		return
	}

	if err := ar.orderService.DeleteOrder(r.Context(), id); err != nil {
		handling.HandleError(err, "Unable to delete order", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Order deleted successfully"), gecho.Send())
}
