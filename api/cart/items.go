package cart

import (
	"ashtray_server/handling"
	"ashtray_server/lib"
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"net/http"

	"github.com/MonkyMars/gecho"
)

func (crm *CartRoutesManager) GetCart(w http.ResponseWriter, r *http.Request) {
	cart, err := handling.ResolveCart(w, r, crm.cartService, crm.cfg.Cookies)
	if err != nil {
		handling.HandleError(err, "Unable to load cart", crm.logger, w)
		return
	}

	crm.respondWithCart(w, r, cart, "")
}

func (crm *CartRoutesManager) AddItem(w http.ResponseWriter, r *http.Request) {
	cart, err := handling.ResolveCart(w, r, crm.cartService, crm.cfg.Cookies)
	if err != nil {
		handling.HandleError(err, "Unable to load cart", crm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.AddCartItemRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid request body", crm.logger, w)
		return
	}

	quantity := 1
	if body.Quantity != nil {
		quantity = *body.Quantity
	}

	if err := crm.cartService.AddItem(r.Context(), cart, body.ProductID, quantity); err != nil {
		handling.HandleError(err, "Unable to add item to cart", crm.logger, w)
		return
	}

	crm.respondWithCart(w, r, cart, "Item added to cart")
}

func (crm *CartRoutesManager) UpdateItem(w http.ResponseWriter, r *http.Request) {
	cart, err := handling.ResolveCart(w, r, crm.cartService, crm.cfg.Cookies)
	if err != nil {
		handling.HandleError(err, "Unable to load cart", crm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateCartItemRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid request body", crm.logger, w)
		return
	}

	if err := crm.cartService.UpdateItem(r.Context(), cart, body.ProductID, *body.Quantity); err != nil {
		handling.HandleError(err, "Unable to update cart item", crm.logger, w)
		return
	}

	crm.respondWithCart(w, r, cart, "Cart updated")
}

func (crm *CartRoutesManager) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := handling.ResolveCart(w, r, crm.cartService, crm.cfg.Cookies)
	if err != nil {
		handling.HandleError(err, "Unable to load cart", crm.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.RemoveCartItemRequest](r)
	if err != nil {
		handling.HandleError(err, "Invalid request body", crm.logger, w)
		return
	}

	if err := crm.cartService.RemoveItem(r.Context(), cart, body.ProductID); err != nil {
		handling.HandleError(err, "Unable to remove cart item", crm.logger, w)
		return
	}

	crm.respondWithCart(w, r, cart, "Item removed from cart")
}

func (crm *CartRoutesManager) ClearCart(w http.ResponseWriter, r *http.Request) {
	cart, err := handling.ResolveCart(w, r, crm.cartService, crm.cfg.Cookies)
	if err != nil {
		handling.HandleError(err, "Unable to load cart", crm.logger, w)
		return
	}

	if err := crm.cartService.Clear(r.Context(), cart); err != nil {
		handling.HandleError(err, "Unable to clear cart", crm.logger, w)
		return
	}

	crm.respondWithCart(w, r, cart, "Cart cleared")
}

func (crm *CartRoutesManager) respondWithCart(w http.ResponseWriter, r *http.Request, cart *tables.Cart, message string) {
	view, err := crm.cartService.View(r.Context(), cart)
	if err != nil {
		handling.HandleError(err, "Unable to load cart", crm.logger, w)
		return
	}

	if message == "" {
		gecho.Success(w, gecho.WithData(view), gecho.Send())
		return
	}
	gecho.Success(w, gecho.WithMessage(message), gecho.WithData(view), gecho.Send())
}
