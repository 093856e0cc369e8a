package services

import (
	"ashtray_server/database"
	"ashtray_server/database/dbtest"
	"ashtray_server/lib"
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shopFixture struct {
	db        *database.DB
	sm        *ServiceManager
	processor *fakeProcessor
}

func newShopFixture(t *testing.T) *shopFixture {
	db := dbtest.StartPostgres(t)

	cfg := &structs.Config{
		Cache:  &structs.CacheConfig{Enabled: false},
		Auth:   &structs.AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: 0},
		Email:  &structs.EmailConfig{},
		Stripe: testStripeConfig(),
	}
	processor := &fakeProcessor{}

	return &shopFixture{
		db:        db,
		sm:        NewServiceManagerWithProcessor(gecho.NewDefaultLogger(), cfg, db, processor),
		processor: processor,
	}
}

func (f *shopFixture) reset(t *testing.T) {
	dbtest.Truncate(t, f.db)
}

func (f *shopFixture) product(t *testing.T, name, price string, active bool) *tables.Product {
	t.Helper()
	p := &tables.Product{Name: name, Price: decimal.RequireFromString(price), Stock: 10, Active: active}
	_, err := f.db.NewInsert().Model(p).Returning("*").Exec(context.Background())
	require.NoError(t, err)
	return p
}

func (f *shopFixture) cart(t *testing.T) *tables.Cart {
	t.Helper()
	cart, created, err := f.sm.CartService.GetOrCreateCart(context.Background(), "")
	require.NoError(t, err)
	require.True(t, created)
	return cart
}

func (f *shopFixture) count(t *testing.T, model any) int {
	t.Helper()
	n, err := f.db.NewSelect().Model(model).Count(context.Background())
	require.NoError(t, err)
	return n
}

func testShipping() *structs.ShippingAddress {
	return &structs.ShippingAddress{
		StreetAddress: "1 Main St",
		City:          "Springfield",
		State:         "IL",
		Country:       "US",
		PostalCode:    "62701",
	}
}

func requireValidation(t *testing.T, err error) {
	t.Helper()
	var validationErr *lib.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func requireNotFound(t *testing.T, err error) {
	t.Helper()
	var notFound *lib.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestShopAgainstPostgres(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	t.Run("cart token round trip", func(t *testing.T) {
		f.reset(t)
		cart := f.cart(t)

		same, created, err := f.sm.CartService.GetOrCreateCart(ctx, cart.CartToken)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, cart.ID, same.ID)

		fresh, created, err := f.sm.CartService.GetOrCreateCart(ctx, "not-a-token")
		require.NoError(t, err)
		assert.True(t, created)
		assert.NotEqual(t, cart.CartToken, fresh.CartToken)
	})

	t.Run("inactive product cannot be added", func(t *testing.T) {
		f.reset(t)
		cart := f.cart(t)
		hidden := f.product(t, "Hidden", "3.00", false)

		requireNotFound(t, f.sm.CartService.AddItem(ctx, cart, hidden.ID, 1))
		requireNotFound(t, f.sm.CartService.AddItem(ctx, cart, 999, 1))
		assert.Zero(t, f.count(t, (*tables.CartItem)(nil)))
	})

	t.Run("adding twice accumulates on one row", func(t *testing.T) {
		f.reset(t)
		cart := f.cart(t)
		p := f.product(t, "Crystal", "10.00", true)

		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 1))
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 2))

		view, err := f.sm.CartService.View(ctx, cart)
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, 3, view.Items[0].Quantity)
		assert.Equal(t, 3, view.ItemCount)
		assert.True(t, decimal.RequireFromString("30").Equal(view.TotalPrice))
	})

	t.Run("accumulated quantity is capped", func(t *testing.T) {
		f.reset(t)
		cart := f.cart(t)
		p := f.product(t, "Crystal", "10.00", true)

		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, structs.MaxItemQuantity))
		var validationErr *lib.ValidationError
		require.ErrorAs(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 1), &validationErr)
		require.ErrorAs(t, f.sm.CartService.UpdateItem(ctx, cart, p.ID, structs.MaxItemQuantity+1), &validationErr)

		view, err := f.sm.CartService.View(ctx, cart)
		require.NoError(t, err)
		require.Len(t, view.Items, 1)
		assert.Equal(t, structs.MaxItemQuantity, view.Items[0].Quantity)
	})

	t.Run("concurrent adds are not lost", func(t *testing.T) {
		f.reset(t)
		cart := f.cart(t)
		p := f.product(t, "Crystal", "10.00", true)

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 1))
			}()
		}
		wg.Wait()

		items, err := f.sm.CartService.Items(ctx, cart)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 10, items[0].Quantity)
	})

	t.Run("update sets exactly and non-positive removes", func(t *testing.T) {
		f.reset(t)
		cart := f.cart(t)
		a := f.product(t, "A", "1.00", true)
		b := f.product(t, "B", "1.00", true)
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, a.ID, 2))
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, b.ID, 2))

		require.NoError(t, f.sm.CartService.UpdateItem(ctx, cart, a.ID, 5))
		items, err := f.sm.CartService.Items(ctx, cart)
		require.NoError(t, err)
		assert.Equal(t, 5, items[0].Quantity)

		require.NoError(t, f.sm.CartService.UpdateItem(ctx, cart, a.ID, 0))
		require.NoError(t, f.sm.CartService.UpdateItem(ctx, cart, b.ID, -3))
		assert.Zero(t, f.count(t, (*tables.CartItem)(nil)))

		requireNotFound(t, f.sm.CartService.UpdateItem(ctx, cart, a.ID, 1))
		requireNotFound(t, f.sm.CartService.RemoveItem(ctx, cart, a.ID))
	})

	t.Run("clear keeps the cart", func(t *testing.T) {
		f.reset(t)
		cart := f.cart(t)
		p := f.product(t, "A", "1.00", true)
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 2))

		require.NoError(t, f.sm.CartService.Clear(ctx, cart))
		assert.Zero(t, f.count(t, (*tables.CartItem)(nil)))
		assert.Equal(t, 1, f.count(t, (*tables.Cart)(nil)))
	})

	t.Run("checkout of an empty cart writes nothing", func(t *testing.T) {
		f.reset(t)
		cart := f.cart(t)

		_, err := f.sm.CheckoutService.Checkout(ctx, cart.CartToken, "", &structs.CheckoutRequest{
			CustomerEmail:   "jane@example.com",
			ShippingAddress: testShipping(),
		})
		requireValidation(t, err)
		assert.Zero(t, f.count(t, (*tables.Customer)(nil)))
		assert.Zero(t, f.count(t, (*tables.Address)(nil)))
		assert.Zero(t, f.count(t, (*tables.Order)(nil)))
	})

	t.Run("checkout snapshots prices and clears the cart", func(t *testing.T) {
		f.reset(t)
		cart := f.cart(t)
		a := f.product(t, "A", "10.00", true)
		b := f.product(t, "B", "5.00", true)
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, a.ID, 2))
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, b.ID, 1))

		order, err := f.sm.CheckoutService.Checkout(ctx, cart.CartToken, "", &structs.CheckoutRequest{
			CustomerEmail:   "jane@example.com",
			ShippingAddress: testShipping(),
			Notes:           "leave at the door",
		})
		require.NoError(t, err)
		assert.Equal(t, tables.OrderStatusPending, order.Status)
		assert.Equal(t, "25.00", order.TotalAmount.StringFixed(2))
		require.Len(t, order.Items, 2)
		assert.Zero(t, f.count(t, (*tables.CartItem)(nil)))

		_, err = f.sm.ProductService.UpdateProduct(ctx, a.ID, &structs.ProductUpdateRequest{Price: ptr(decimal.RequireFromString("99.00"))})
		require.NoError(t, err)

		stored, err := f.sm.OrderService.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, stored.Items, 2)
		sum := decimal.Zero
		for _, item := range stored.Items {
			sum = sum.Add(item.LineTotal())
			if item.ProductID == a.ID {
				assert.Equal(t, "10.00", item.Price.StringFixed(2))
			}
		}
		assert.True(t, sum.Equal(stored.TotalAmount))
		assert.Equal(t, "leave at the door", stored.Notes)
		require.NotNil(t, stored.ShippingAddress)
		assert.Equal(t, "Springfield", stored.ShippingAddress.City)

		_, err = f.sm.CheckoutService.Checkout(ctx, cart.CartToken, "", &structs.CheckoutRequest{
			CustomerEmail:   "jane@example.com",
			ShippingAddress: testShipping(),
		})
		requireValidation(t, err)
	})

	t.Run("checkout reuses customer and address", func(t *testing.T) {
		f.reset(t)
		p := f.product(t, "A", "1.00", true)

		for range 2 {
			cart := f.cart(t)
			require.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 1))
			_, err := f.sm.CheckoutService.Checkout(ctx, cart.CartToken, "", &structs.CheckoutRequest{
				CustomerEmail:   "Jane@Example.com",
				ShippingAddress: testShipping(),
			})
			require.NoError(t, err)
		}

		assert.Equal(t, 1, f.count(t, (*tables.Customer)(nil)))
		assert.Equal(t, 1, f.count(t, (*tables.Address)(nil)))
		assert.Equal(t, 2, f.count(t, (*tables.Order)(nil)))
	})

	t.Run("anonymous cart customer is promoted", func(t *testing.T) {
		f.reset(t)
		p := f.product(t, "A", "1.00", true)
		cart := f.cart(t)

		device := "4c8d3b4e-3f57-4a0e-8f4b-8c9a2f1d7e10"
		anon := &tables.Customer{DeviceID: &device}
		_, err := f.db.NewInsert().Model(anon).Returning("*").Exec(ctx)
		require.NoError(t, err)
		_, err = f.db.NewUpdate().Model(cart).Set("customer_id = ?", anon.ID).WherePK().Exec(ctx)
		require.NoError(t, err)

		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 1))
		order, err := f.sm.CheckoutService.Checkout(ctx, cart.CartToken, device, &structs.CheckoutRequest{
			CustomerEmail:   "anon@example.com",
			ShippingAddress: testShipping(),
		})
		require.NoError(t, err)
		require.NotNil(t, order.CustomerID)
		assert.Equal(t, anon.ID, *order.CustomerID)
		assert.Equal(t, 1, f.count(t, (*tables.Customer)(nil)))

		promoted, err := f.sm.CustomerService.GetCustomer(ctx, anon.ID)
		require.NoError(t, err)
		require.NotNil(t, promoted.Email)
		assert.Equal(t, "anon@example.com", *promoted.Email)
	})

	t.Run("cart is relinked to an existing email customer", func(t *testing.T) {
		f.reset(t)
		p := f.product(t, "A", "1.00", true)

		existing, err := f.sm.CustomerService.CreateCustomer(ctx, &structs.CustomerRequest{Email: ptr("known@example.com"), Name: "Known"})
		require.NoError(t, err)

		cart := f.cart(t)
		anon := &tables.Customer{}
		_, err = f.db.NewInsert().Model(anon).Returning("*").Exec(ctx)
		require.NoError(t, err)
		_, err = f.db.NewUpdate().Model(cart).Set("customer_id = ?", anon.ID).WherePK().Exec(ctx)
		require.NoError(t, err)

		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 1))
		order, err := f.sm.CheckoutService.Checkout(ctx, cart.CartToken, "", &structs.CheckoutRequest{
			CustomerEmail:   "known@example.com",
			ShippingAddress: testShipping(),
		})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, *order.CustomerID)

		relinked, err := f.sm.CartService.GetCart(ctx, f.db, cart.CartToken)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, *relinked.CustomerID)
	})

	t.Run("payment succeeded marks the latest pending order paid", func(t *testing.T) {
		f.reset(t)
		p := f.product(t, "A", "4.00", true)
		cart := f.cart(t)
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 1))
		order, err := f.sm.CheckoutService.Checkout(ctx, cart.CartToken, "", &structs.CheckoutRequest{
			CustomerEmail:   "jane@example.com",
			ShippingAddress: testShipping(),
		})
		require.NoError(t, err)

		event := &PaymentEvent{ID: "evt_paid", Type: EventPaymentSucceeded, CartToken: cart.CartToken, PaymentReference: "pi_1"}
		outcome, err := f.sm.WebhookService.HandleEvent(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, tables.EventOutcomeProcessed, outcome)

		paid, err := f.sm.OrderService.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, tables.OrderStatusPaid, paid.Status)
		assert.Equal(t, "pi_1", paid.PaymentReference)

		outcome, err = f.sm.WebhookService.HandleEvent(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, tables.EventOutcomeDuplicate, outcome)
	})

	t.Run("payment succeeded without pending order is unreconciled", func(t *testing.T) {
		f.reset(t)
		cart := f.cart(t)
		customer, err := f.sm.CustomerService.CreateCustomer(ctx, &structs.CustomerRequest{Email: ptr("jane@example.com")})
		require.NoError(t, err)
		_, err = f.db.NewUpdate().Model(cart).Set("customer_id = ?", customer.ID).WherePK().Exec(ctx)
		require.NoError(t, err)

		outcome, err := f.sm.WebhookService.HandleEvent(ctx, &PaymentEvent{
			ID: "evt_unreconciled", Type: EventPaymentSucceeded, CartToken: cart.CartToken, PaymentReference: "pi_2",
		})
		require.NoError(t, err)
		assert.Equal(t, tables.EventOutcomeUnreconciled, outcome)
		assert.Zero(t, f.count(t, (*tables.Order)(nil)))

		recorded := new(tables.ProcessedEvent)
		require.NoError(t, f.db.NewSelect().Model(recorded).Where("event_id = ?", "evt_unreconciled").Scan(ctx))
		assert.Equal(t, tables.EventOutcomeUnreconciled, recorded.Outcome)
	})

	t.Run("payment succeeded without cart reference is ignored", func(t *testing.T) {
		f.reset(t)
		outcome, err := f.sm.WebhookService.HandleEvent(ctx, &PaymentEvent{ID: "evt_nocart", Type: EventPaymentSucceeded})
		require.NoError(t, err)
		assert.Equal(t, tables.EventOutcomeIgnored, outcome)
	})

	t.Run("checkout session creates a paid order", func(t *testing.T) {
		f.reset(t)
		a := f.product(t, "A", "10.00", true)
		b := f.product(t, "B", "5.00", true)
		cart := f.cart(t)
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, a.ID, 2))
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, b.ID, 1))

		event := &PaymentEvent{
			ID:               "evt_session",
			Type:             EventCheckoutCompleted,
			CartToken:        cart.CartToken,
			SessionID:        "cs_1",
			PaymentReference: "pi_3",
			Email:            "buyer@example.com",
			Name:             "Buyer",
			Shipping:         &structs.ShippingAddress{StreetAddress: "2 Side St", City: "Leeds", Country: "GB", PostalCode: "LS1", Default: true},
		}
		outcome, err := f.sm.WebhookService.HandleEvent(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, tables.EventOutcomeProcessed, outcome)

		orders, err := f.sm.OrderService.ListOrders(ctx, OrderListOptions{Email: "buyer@example.com"})
		require.NoError(t, err)
		require.Len(t, orders.Data, 1)
		order := orders.Data[0]
		assert.Equal(t, tables.OrderStatusPaid, order.Status)
		assert.Equal(t, "pi_3", order.PaymentReference)
		assert.Equal(t, "25.00", order.TotalAmount.StringFixed(2))
		assert.Equal(t, "Order created from checkout session cs_1", order.Notes)
		assert.Zero(t, f.count(t, (*tables.CartItem)(nil)))

		outcome, err = f.sm.WebhookService.HandleEvent(ctx, event)
		require.NoError(t, err)
		assert.Equal(t, tables.EventOutcomeDuplicate, outcome)
		assert.Equal(t, 1, f.count(t, (*tables.Order)(nil)))
	})

	t.Run("checkout session for an unknown cart writes nothing", func(t *testing.T) {
		f.reset(t)
		_, err := f.sm.WebhookService.HandleEvent(ctx, &PaymentEvent{
			ID: "evt_missing", Type: EventCheckoutCompleted, CartToken: "0b7c1c9e-1111-4a0e-8f4b-8c9a2f1d7e10",
			SessionID: "cs_2", PaymentReference: "cs_2", Email: "x@example.com",
		})
		requireNotFound(t, err)
		assert.Zero(t, f.count(t, (*tables.ProcessedEvent)(nil)))
		assert.Zero(t, f.count(t, (*tables.Customer)(nil)))
		assert.Zero(t, f.count(t, (*tables.Order)(nil)))
	})

	t.Run("checkout session for an empty cart is acknowledged", func(t *testing.T) {
		f.reset(t)
		cart := f.cart(t)
		outcome, err := f.sm.WebhookService.HandleEvent(ctx, &PaymentEvent{
			ID: "evt_empty", Type: EventCheckoutCompleted, CartToken: cart.CartToken, SessionID: "cs_3", Email: "x@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, tables.EventOutcomeIgnored, outcome)
		assert.Zero(t, f.count(t, (*tables.Order)(nil)))
	})

	t.Run("payment failed only logs", func(t *testing.T) {
		f.reset(t)
		outcome, err := f.sm.WebhookService.HandleEvent(ctx, &PaymentEvent{ID: "evt_failed", Type: EventPaymentFailed, FailureMessage: "declined"})
		require.NoError(t, err)
		assert.Equal(t, tables.EventOutcomeLogged, outcome)
		assert.Zero(t, f.count(t, (*tables.ProcessedEvent)(nil)))
	})

	t.Run("signature failure is rejected before dispatch", func(t *testing.T) {
		f.reset(t)
		f.processor.err = &lib.SignatureError{}
		defer func() { f.processor.err = nil }()

		_, err := f.sm.WebhookService.HandleNotification(ctx, []byte(`{}`), "bad")
		var sigErr *lib.SignatureError
		require.ErrorAs(t, err, &sigErr)
		assert.Zero(t, f.count(t, (*tables.ProcessedEvent)(nil)))
	})

	t.Run("admin order updates follow the status machine", func(t *testing.T) {
		f.reset(t)
		p := f.product(t, "A", "1.00", true)
		cart := f.cart(t)
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 1))
		order, err := f.sm.CheckoutService.Checkout(ctx, cart.CartToken, "", &structs.CheckoutRequest{
			CustomerEmail:   "jane@example.com",
			ShippingAddress: testShipping(),
		})
		require.NoError(t, err)

		_, err = f.sm.OrderService.UpdateOrder(ctx, order.ID, &structs.OrderUpdateRequest{Status: ptr("shipped")})
		requireValidation(t, err)

		updated, err := f.sm.OrderService.UpdateOrder(ctx, order.ID, &structs.OrderUpdateRequest{Status: ptr("processing"), Notes: ptr("packed")})
		require.NoError(t, err)
		assert.Equal(t, tables.OrderStatusProcessing, updated.Status)
		assert.Equal(t, "packed", updated.Notes)
		assert.True(t, order.TotalAmount.Equal(updated.TotalAmount))
	})

	t.Run("product referenced by an order cannot be deleted", func(t *testing.T) {
		f.reset(t)
		p := f.product(t, "A", "1.00", true)
		cart := f.cart(t)
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 1))
		_, err := f.sm.CheckoutService.Checkout(ctx, cart.CartToken, "", &structs.CheckoutRequest{
			CustomerEmail:   "jane@example.com",
			ShippingAddress: testShipping(),
		})
		require.NoError(t, err)

		err = f.sm.ProductService.DeleteProduct(ctx, p.ID)
		var conflict *lib.ConflictError
		require.ErrorAs(t, err, &conflict)
	})

	t.Run("deleting a customer detaches its orders", func(t *testing.T) {
		f.reset(t)
		p := f.product(t, "A", "1.00", true)
		cart := f.cart(t)
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 1))
		order, err := f.sm.CheckoutService.Checkout(ctx, cart.CartToken, "", &structs.CheckoutRequest{
			CustomerEmail:   "jane@example.com",
			ShippingAddress: testShipping(),
		})
		require.NoError(t, err)

		require.NoError(t, f.sm.CustomerService.DeleteCustomer(ctx, *order.CustomerID))

		kept, err := f.sm.OrderService.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		assert.Nil(t, kept.CustomerID)
		assert.Nil(t, kept.ShippingAddressID)
		assert.Len(t, kept.Items, 1)
	})

	t.Run("dashboard stats", func(t *testing.T) {
		f.reset(t)
		p := f.product(t, "A", "10.00", true)
		f.product(t, "B", "1.00", false)
		cart := f.cart(t)
		require.NoError(t, f.sm.CartService.AddItem(ctx, cart, p.ID, 2))
		_, err := f.sm.CheckoutService.Checkout(ctx, cart.CartToken, "", &structs.CheckoutRequest{
			CustomerEmail:   "jane@example.com",
			ShippingAddress: testShipping(),
		})
		require.NoError(t, err)

		stats, err := f.sm.StatsService.Dashboard(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, stats.Products.Total)
		assert.Equal(t, 1, stats.Products.Active)
		assert.Equal(t, 1, stats.CustomersWithEmail)
		assert.Equal(t, "20.00", stats.TotalSales.StringFixed(2))
		require.Len(t, stats.OrdersByStatus, 1)
		assert.Equal(t, structs.StatusCount{Status: "pending", Count: 1}, stats.OrdersByStatus[0])
		require.Len(t, stats.RecentOrders, 1)
		require.Len(t, stats.OrdersLast30Days, 1)
		assert.Equal(t, 1, stats.OrdersLast30Days[0].Count)
	})

	t.Run("bootstrap admin can log in", func(t *testing.T) {
		f.reset(t)
		auth := NewAuthService(gecho.NewDefaultLogger(), &structs.AuthConfig{
			AccessTokenSecret: "test-secret",
			AccessTokenExpiry: time.Hour,
			AdminEmail:        "Admin@Example.com",
			AdminPassword:     "correct horse battery",
		}, f.db)

		require.NoError(t, auth.EnsureAdmin(ctx))
		require.NoError(t, auth.EnsureAdmin(ctx))
		assert.Equal(t, 1, f.count(t, (*tables.AdminUser)(nil)))

		session, err := auth.Login(ctx, &structs.AdminLoginRequest{Email: "admin@example.com", Password: "correct horse battery"})
		require.NoError(t, err)
		claims, err := lib.ParseToken(session.AccessToken, "test-secret")
		require.NoError(t, err)
		assert.Equal(t, lib.AdminRole, claims.Role)

		_, err = auth.Login(ctx, &structs.AdminLoginRequest{Email: "admin@example.com", Password: "wrong password"})
		assert.ErrorIs(t, err, lib.ErrInvalidCredentials)
		_, err = auth.Login(ctx, &structs.AdminLoginRequest{Email: "nobody@example.com", Password: "wrong password"})
		assert.ErrorIs(t, err, lib.ErrInvalidCredentials)
	})
}

func ptr[T any](v T) *T {
	return &v
}
