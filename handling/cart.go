package handling

import (
	"ashtray_server/lib"
	"ashtray_server/services"
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"net/http"
)

// ResolveCart loads the cart named by the cart cookie, creating one when the cookie is absent or stale.
// The cookie is re-set on every call so its expiry slides with activity.
func ResolveCart(w http.ResponseWriter, r *http.Request, cartService *services.CartService, cookies *structs.CookieConfig) (*tables.Cart, error) {
	token, _ := lib.GetCookieValue(lib.CartCookieName, r)

	cart, _, err := cartService.GetOrCreateCart(r.Context(), token)
	if err != nil {
		return nil, err
	}

	lib.SetCartCookie(cart.CartToken, cookies, w)
	return cart, nil
}
