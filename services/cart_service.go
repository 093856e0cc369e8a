package services

import (
	"ashtray_server/database"
	"ashtray_server/lib"
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type CartService struct {
	logger         *gecho.Logger
	db             *database.DB
	productService *ProductService
}

func NewCartService(logger *gecho.Logger, db *database.DB, productService *ProductService) *CartService {
	return &CartService{
		logger:         logger,
		db:             db,
		productService: productService,
	}
}

// GetOrCreateCart resolves token to a cart, creating a fresh cart with a new token when the token is
// empty, malformed or unknown. created tells the caller the token must be sent back to the client.
func (cs *CartService) GetOrCreateCart(ctx context.Context, token string) (cart *tables.Cart, created bool, err error) {
	if token != "" && lib.IsValidOpaqueID(token) {
		cart, err = cs.GetCart(ctx, cs.db, token)
		if err == nil {
			return cart, false, nil
		}
		var notFound *lib.NotFoundError
		if !errors.As(err, &notFound) {
			return nil, false, err
		}
		cs.logger.Debug("Cart token not found, issuing a new cart", gecho.Field("cart_token", token))
	}

	cart = &tables.Cart{CartToken: lib.NewCartToken()}
	if _, err := cs.db.NewInsert().Model(cart).Returning("*").Exec(ctx); err != nil {
		return nil, false, lib.MapPgError(err, "cart")
	}
	return cart, true, nil
}

// GetCart looks a cart up by token without creating it.
func (cs *CartService) GetCart(ctx context.Context, db bun.IDB, token string) (*tables.Cart, error) {
	cart, err := database.Query[tables.Cart](db).Where("cart_token", token).First(ctx)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, lib.NewNotFoundError("cart")
	}
	return cart, nil
}

// lockCart reads the cart row with FOR UPDATE so concurrent checkouts of the same cart serialize.
func lockCart(ctx context.Context, tx bun.IDB, token string) (*tables.Cart, error) {
	cart := new(tables.Cart)
	err := tx.NewSelect().Model(cart).Where("cart_token = ?", token).For("UPDATE").Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, lib.NewNotFoundError("cart")
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// shareLockCart takes FOR SHARE on the cart row. Item writes hold it so they queue behind a checkout's
// FOR UPDATE instead of landing between its snapshot and the cart clear.
func shareLockCart(ctx context.Context, tx bun.IDB, cartID int64) error {
	var id int64
	err := tx.NewSelect().
		Model((*tables.Cart)(nil)).
		Column("id").
		Where("id = ?", cartID).
		For("SHARE").
		Scan(ctx, &id)
	if errors.Is(err, sql.ErrNoRows) {
		return lib.NewNotFoundError("cart")
	}
	return err
}

// cartItems loads the items of a cart with their current products, oldest first.
func cartItems(ctx context.Context, db bun.IDB, cartID int64) ([]tables.CartItem, error) {
	return database.Query[tables.CartItem](db).
		Relation("Product").
		Where("ci.cart_id", cartID).
		OrderBy("ci.id", database.ASC).
		All(ctx)
}

// View builds the cart response. Totals use current product prices and are never stored.
func (cs *CartService) View(ctx context.Context, cart *tables.Cart) (*structs.CartView, error) {
	items, err := cartItems(ctx, cs.db, cart.ID)
	if err != nil {
		cs.logger.Error("Failed to load cart items", gecho.Field("error", err), gecho.Field("cart_id", cart.ID))
		return nil, err
	}
	return buildCartView(cart, items), nil
}

func buildCartView(cart *tables.Cart, items []tables.CartItem) *structs.CartView {
	view := &structs.CartView{
		ID:         cart.ID,
		CartToken:  cart.CartToken,
		CustomerID: cart.CustomerID,
		Items:      make([]structs.CartItemView, 0, len(items)),
		TotalPrice: decimal.Zero,
	}

	for _, item := range items {
		if item.Product == nil {
			continue
		}
		lineTotal := item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		view.Items = append(view.Items, structs.CartItemView{
			ID: item.ID,
			Product: structs.CartProduct{
				ID:    item.Product.ID,
				Name:  item.Product.Name,
				Price: item.Product.Price,
				Image: item.Product.Image,
				Stock: item.Product.Stock,
			},
			Quantity:   item.Quantity,
			TotalPrice: lineTotal,
		})
		view.ItemCount += item.Quantity
		view.TotalPrice = view.TotalPrice.Add(lineTotal)
	}

	return view
}

// AddItem adds quantity of an active product, incrementing an existing line in one statement.
func (cs *CartService) AddItem(ctx context.Context, cart *tables.Cart, productID int64, quantity int) error {
	if quantity < 1 || quantity > structs.MaxItemQuantity {
		return lib.NewValidationError("quantity must be between 1 and %d", structs.MaxItemQuantity)
	}
	if _, err := cs.productService.GetProduct(ctx, productID, true); err != nil {
		return err
	}

	var total int
	err := cs.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := shareLockCart(ctx, tx, cart.ID); err != nil {
			return err
		}
		if err := tx.NewRaw(
			`INSERT INTO cart_items (cart_id, product_id, quantity) VALUES (?, ?, ?)
			ON CONFLICT (cart_id, product_id) DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
			RETURNING quantity`,
			cart.ID, productID, quantity,
		).Scan(ctx, &total); err != nil {
			return err
		}
		if total > structs.MaxItemQuantity {
			return lib.NewValidationError("quantity per item cannot exceed %d", structs.MaxItemQuantity)
		}
		return nil
	})
	if err != nil {
		// the product may have been deleted since the lookup
		if lib.SQLState(err) == "23503" {
			return lib.NewNotFoundError("product")
		}
		return lib.MapPgError(err, "cart item")
	}

	cs.touch(ctx, cart)
	cs.logger.Debug("Cart item added",
		gecho.Field("cart_id", cart.ID),
		gecho.Field("product_id", productID),
		gecho.Field("quantity", total),
	)
	return nil
}

// UpdateItem sets the quantity of an existing line exactly. A quantity of zero or less removes it.
func (cs *CartService) UpdateItem(ctx context.Context, cart *tables.Cart, productID int64, quantity int) error {
	if quantity <= 0 {
		return cs.RemoveItem(ctx, cart, productID)
	}
	if quantity > structs.MaxItemQuantity {
		return lib.NewValidationError("quantity per item cannot exceed %d", structs.MaxItemQuantity)
	}

	var updated int64
	err := cs.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		if err := shareLockCart(ctx, tx, cart.ID); err != nil {
			return err
		}
		res, err := tx.NewUpdate().
			Model((*tables.CartItem)(nil)).
			Set("quantity = ?", quantity).
			Where("cart_id = ?", cart.ID).
			Where("product_id = ?", productID).
			Exec(ctx)
		if err != nil {
			return err
		}
		updated, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return lib.MapPgError(err, "cart item")
	}
	if updated == 0 {
		return lib.NewNotFoundError("cart item")
	}

	cs.touch(ctx, cart)
	return nil
}

func (cs *CartService) RemoveItem(ctx context.Context, cart *tables.Cart, productID int64) error {
	res, err := cs.db.NewDelete().
		Model((*tables.CartItem)(nil)).
		Where("cart_id = ?", cart.ID).
		Where("product_id = ?", productID).
		Exec(ctx)
	if err != nil {
		return lib.MapPgError(err, "cart item")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lib.NewNotFoundError("cart item")
	}

	cs.touch(ctx, cart)
	return nil
}

// Clear empties the cart; the cart row and its token stay valid.
func (cs *CartService) Clear(ctx context.Context, cart *tables.Cart) error {
	if err := clearCartItems(ctx, cs.db, cart.ID); err != nil {
		return err
	}
	cs.touch(ctx, cart)
	return nil
}

func clearCartItems(ctx context.Context, db bun.IDB, cartID int64) error {
	_, err := db.NewDelete().Model((*tables.CartItem)(nil)).Where("cart_id = ?", cartID).Exec(ctx)
	if err != nil {
		return lib.MapPgError(err, "cart item")
	}
	return nil
}

// touch bumps updated_at; failures are logged and otherwise ignored.
func (cs *CartService) touch(ctx context.Context, cart *tables.Cart) {
	now := time.Now()
	_, err := cs.db.NewUpdate().Model(cart).Set("updated_at = ?", now).WherePK().Exec(ctx)
	if err != nil {
		cs.logger.Warn("Failed to update cart timestamp", gecho.Field("error", err), gecho.Field("cart_id", cart.ID))
		return
	}
	cart.UpdatedAt = now
}

// Items returns the cart lines with their current products.
func (cs *CartService) Items(ctx context.Context, cart *tables.Cart) ([]tables.CartItem, error) {
	return cartItems(ctx, cs.db, cart.ID)
}
