package payments

import (
	"ashtray_server/handling"
	"ashtray_server/lib"
	"ashtray_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (prm *PaymentRoutesManager) GetConfig(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(prm.paymentService.Config()),
		gecho.Send(),
	)
}

// CreatePaymentIntent handles POST /payments/intent for the cart total.
func (prm *PaymentRoutesManager) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	cart, err := handling.ResolveCart(w, r, prm.cartService, prm.cfg.Cookies)
	if err != nil {
		handling.HandleError(err, "Unable to load cart", prm.logger, w)
		return
	}

	items, err := prm.cartService.Items(r.Context(), cart)
	if err != nil {
		handling.HandleError(err, "Unable to load cart", prm.logger, w)
		return
	}

	resp, err := prm.paymentService.CreatePaymentIntent(r.Context(), cart, items)
	if err != nil {
		handling.HandleError(err, "Unable to start payment", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(resp),
		gecho.Send(),
	)
}

// CreateCheckoutSession handles POST /payments/checkout-session. The body is optional.
func (prm *PaymentRoutesManager) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	cart, err := handling.ResolveCart(w, r, prm.cartService, prm.cfg.Cookies)
	if err != nil {
		handling.HandleError(err, "Unable to load cart", prm.logger, w)
		return
	}

	body, err := lib.ExtractOptionalBody[structs.CheckoutSessionRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid request body", prm.logger, w)
		return
	}

	items, err := prm.cartService.Items(r.Context(), cart)
	if err != nil {
		handling.HandleError(err, "Unable to load cart", prm.logger, w)
		return
	}

	resp, err := prm.paymentService.CreateCheckoutSession(r.Context(), cart, items, body)
	if err != nil {
		handling.HandleError(err, "Unable to start checkout", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(resp),
		gecho.Send(),
	)
}
