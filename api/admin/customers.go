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

func (ar *AdminRoutesManager) ListCustomers(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseListOptions(r, "email")
	if err != nil {
		handling.HandleError(err, "Invalid query parameters", ar.logger, w)
		return
	}

	result, err := ar.customerService.ListCustomers(r.Context(), services.CustomerListOptions{
		Page:     opts.Page,
		PageSize: opts.PageSize,
		Search:   opts.Search,
		Email:    opts.Filters["email"],
	})
	if err != nil {
		handling.HandleError(err, "Unable to fetch customers", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"customers":  result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(chi.URLParam(r, "id"), "customer")
	if err != nil {
		handling.HandleError(err, "Invalid customer id", ar.logger, w)
		return
	}

	customer, err := ar.customerService.GetCustomer(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Unable to fetch customer", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(customer), gecho.Send())
}

func (ar *AdminRoutesManager) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CustomerRequest](r)
	if err != nil {
		handling.HandleError(err, "Please check the customer information and try again", ar.logger, w)
		return
	}

	customer, err := ar.customerService.CreateCustomer(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Unable to create customer", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Customer created successfully"),
		gecho.WithData(customer),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(chi.URLParam(r, "id"), "customer")
	if err != nil {
		handling.HandleError(err, "Invalid customer id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CustomerRequest](r)
	if err != nil {
		handling.HandleError(err, "Please check the customer information and try again", ar.logger, w)
		return
	}

	customer, err := ar.customerService.UpdateCustomer(r.Context(), id, body)
	if err != nil {
		handling.HandleError(err, "Unable to update customer", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Customer updated successfully"),
		gecho.WithData(customer),
		gecho.Send(),
	)
}

// DeleteCustomer removes the customer; their orders stay with the customer link cleared.
func (ar *AdminRoutesManager) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(chi.URLParam(r, "id"), "customer")
	if err != nil {
		handling.HandleError(err, "Invalid customer id", ar.logger, w)
		return
	}

	if err := ar.customerService.DeleteCustomer(r.Context(), id); err != nil {
		handling.HandleError(err, "Unable to delete customer", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Customer deleted successfully"), gecho.Send())
}

func (ar *AdminRoutesManager) ListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(chi.URLParam(r, "id"), "customer")
	if err != nil {
		handling.HandleError(err, "Invalid customer id", ar.logger, w)
		return
	}

	orders, err := ar.orderService.CustomerOrders(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Unable to fetch customer orders", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"orders": orders,
			"count":  len(orders),
		}),
		gecho.Send(),
	)
}
