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

// ListAddresses supports customer_id and customer_email filters.
func (ar *AdminRoutesManager) ListAddresses(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseListOptions(r, "customer_id", "customer_email")
	if err != nil {
		handling.HandleError(err, "Invalid query parameters", ar.logger, w)
		return
	}

	listOpts := services.AddressListOptions{
		Page:          opts.Page,
		PageSize:      opts.PageSize,
		CustomerEmail: opts.Filters["customer_email"],
	}
	if raw, ok := opts.Filters["customer_id"]; ok {
		if listOpts.CustomerID, err = handling.ParseID(raw, "customer"); err != nil {
			handling.HandleError(err, "Invalid query parameters", ar.logger, w)
			return
		}
	}

	result, err := ar.customerService.ListAddresses(r.Context(), listOpts)
	if err != nil {
		handling.HandleError(err, "Unable to fetch addresses", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"addresses":  result.Data,
			"pagination": result.Pagination,
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetAddress(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(chi.URLParam(r, "id"), "address")
	if err != nil {
		handling.HandleError(err, "Invalid address id", ar.logger, w)
		return
	}

	address, err := ar.customerService.GetAddress(r.Context(), id)
	if err != nil {
		handling.HandleError(err, "Unable to fetch address", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithData(address), gecho.Send())
}

func (ar *AdminRoutesManager) CreateAddress(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AddressRequest](r)
	if err != nil {
		handling.HandleError(err, "Please check the address and try again", ar.logger, w)
		return
	}

	address, err := ar.customerService.CreateAddress(r.Context(), body)
	if err != nil {
		handling.HandleError(err, "Unable to create address", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Address created successfully"),
		gecho.WithData(address),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(chi.URLParam(r, "id"), "address")
	if err != nil {
		handling.HandleError(err, "Invalid address id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.AddressRequest](r)
	if err != nil {
		handling.HandleError(err, "Please check the address and try again", ar.logger, w)
		return
	}

	address, err := ar.customerService.UpdateAddress(r.Context(), id, body)
	if err != nil {
		handling.HandleError(err, "Unable to update address", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Address updated successfully"),
		gecho.WithData(address),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	id, err := handling.ParseID(chi.URLParam(r, "id"), "address")
	if err != nil {
		handling.HandleError(err, "Invalid address id", ar.logger, w)
		return
	}

	if err := ar.customerService.DeleteAddress(r.Context(), id); err != nil {
		handling.HandleError(err, "Unable to delete address", ar.logger, w)
		return
	}

	gecho.Success(w, gecho.WithMessage("Address deleted successfully"), gecho.Send())
}
