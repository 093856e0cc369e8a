package cart

import (
	"ashtray_server/api/middleware"
	"ashtray_server/handling"
	"ashtray_server/lib"
	"ashtray_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// Checkout handles POST /cart/checkout: the cart becomes a pending order and is emptied.
func (crm *CartRoutesManager) Checkout(w http.ResponseWriter, r *http.Request) {
	cart, err := handling.ResolveCart(w, r, crm.cartService, crm.cfg.Cookies)
	if err != nil {
		handling.HandleError(err, "Unable to load cart", crm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.CheckoutRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid checkout request", crm.logger, w)
		return
	}

	order, err := crm.checkoutService.Checkout(r.Context(), cart.CartToken, middleware.GetDeviceID(r.Context()), body)
	if err != nil {
		handling.HandleError(err, "Unable to place order. Please try again", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Order placed"),
		gecho.WithData(map[string]any{
			"order": order,
		}),
		gecho.Send(),
	)
}
