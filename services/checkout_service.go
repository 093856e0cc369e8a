package services

import (
	"ashtray_server/database"
	"ashtray_server/lib"
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"context"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

const (
	orderSourceCheckout = "checkout"
	orderSourceSession  = "checkout_session"
)

type CheckoutService struct {
	logger          *gecho.Logger
	db              *database.DB
	customerService *CustomerService
	emailService    *EmailService
}

func NewCheckoutService(logger *gecho.Logger, db *database.DB, customerService *CustomerService, emailService *EmailService) *CheckoutService {
	return &CheckoutService{
		logger:          logger,
		db:              db,
		customerService: customerService,
		emailService:    emailService,
	}
}

// orderPlacement describes everything the order engine needs besides the cart.
type orderPlacement struct {
	Identity CustomerIdentity
	Shipping *structs.ShippingAddress // nil places the order without an address
	Notes    string

	// PaymentReference, when set, marks the order paid right after it is created.
	PaymentReference string
}

// placeOrder converts the locked cart and its loaded items into an order inside tx. Every order
// starts out pending; a confirmed payment is a transition to paid within the same transaction.
// The cart is emptied but kept.
func (cs *CheckoutService) placeOrder(ctx context.Context, tx bun.IDB, cart *tables.Cart, items []tables.CartItem, placement orderPlacement) (*tables.Order, *tables.Customer, error) {
	if len(items) == 0 {
		return nil, nil, lib.NewValidationError("cart is empty")
	}

	customer, err := cs.customerService.ResolveCustomer(ctx, tx, cart, placement.Identity)
	if err != nil {
		return nil, nil, err
	}

	order := &tables.Order{
		ID:          uuid.New(),
		CustomerID:  &customer.ID,
		Status:      tables.OrderStatusPending,
		TotalAmount: decimal.Zero,
		Notes:       placement.Notes,
	}

	if placement.Shipping != nil {
		address, err := cs.customerService.ResolveAddress(ctx, tx, customer.ID, placement.Shipping)
		if err != nil {
			return nil, nil, err
		}
		order.ShippingAddressID = &address.ID
		order.ShippingAddress = address
	}

	if _, err := tx.NewInsert().Model(order).Returning("*").Exec(ctx); err != nil {
		return nil, nil, lib.MapPgError(err, "order")
	}

	orderItems, total := snapshotItems(order.ID, items)
	if _, err := tx.NewInsert().Model(&orderItems).Returning("*").Exec(ctx); err != nil {
		return nil, nil, lib.MapPgError(err, "order item")
	}

	order.TotalAmount = total
	order.UpdatedAt = time.Now()
	if _, err := tx.NewUpdate().Model(order).Column("total_amount", "updated_at").WherePK().Exec(ctx); err != nil {
		return nil, nil, lib.MapPgError(err, "order")
	}

	if placement.PaymentReference != "" {
		if err := markPaid(ctx, tx, order, placement.PaymentReference); err != nil {
			return nil, nil, err
		}
	}

	if err := clearCartItems(ctx, tx, cart.ID); err != nil {
		return nil, nil, err
	}

	for i, item := range orderItems {
		item.Product = items[i].Product
	}
	order.Items = orderItems
	order.Customer = customer

	return order, customer, nil
}

// snapshotItems copies the current product prices onto new order lines and sums them.
func snapshotItems(orderID uuid.UUID, items []tables.CartItem) ([]*tables.OrderItem, decimal.Decimal) {
	orderItems := make([]*tables.OrderItem, 0, len(items))
	total := decimal.Zero

	for _, item := range items {
		price := lib.Money(item.Product.Price)
		line := &tables.OrderItem{
			OrderID:   orderID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     price,
		}
		line.TotalPrice = line.LineTotal()
		total = total.Add(line.TotalPrice)
		orderItems = append(orderItems, line)
	}

	return orderItems, total
}

// markPaid transitions a pending order to paid and records the processor reference.
func markPaid(ctx context.Context, tx bun.IDB, order *tables.Order, reference string) error {
	if err := ValidateTransition(order.Status, tables.OrderStatusPaid); err != nil {
		return err
	}

	order.Status = tables.OrderStatusPaid
	order.PaymentReference = reference
	order.UpdatedAt = time.Now()

	_, err := tx.NewUpdate().
		Model(order).
		Column("status", "payment_reference", "updated_at").
		WherePK().
		Exec(ctx)
	return lib.MapPgError(err, "order")
}

// Checkout turns the cart behind cartToken into a pending order. Validation happens before any write
// and the whole conversion commits or rolls back as one unit.
func (cs *CheckoutService) Checkout(ctx context.Context, cartToken, deviceID string, req *structs.CheckoutRequest) (*tables.Order, error) {
	if req.CustomerEmail == "" || req.ShippingAddress == nil {
		return nil, lib.NewValidationError("email and shipping address are required")
	}

	var (
		order    *tables.Order
		customer *tables.Customer
	)
	err := cs.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		cart, err := lockCart(ctx, tx, cartToken)
		if err != nil {
			return err
		}

		items, err := cartItems(ctx, tx, cart.ID)
		if err != nil {
			return err
		}

		order, customer, err = cs.placeOrder(ctx, tx, cart, items, orderPlacement{
			Identity: CustomerIdentity{Email: req.CustomerEmail, DeviceID: deviceID},
			Shipping: req.ShippingAddress,
			Notes:    req.Notes,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	OrdersCreated.WithLabelValues(orderSourceCheckout).Inc()
	cs.logger.Info("Order placed",
		gecho.Field("order_id", order.ID),
		gecho.Field("customer_id", customer.ID),
		gecho.Field("total", order.TotalAmount.StringFixed(2)),
		gecho.Field("items", len(order.Items)),
	)

	cs.sendConfirmation(customer, order)
	return order, nil
}

func (cs *CheckoutService) sendConfirmation(customer *tables.Customer, order *tables.Order) {
	if !cs.emailService.Enabled() || !customer.HasEmail() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := cs.emailService.SendOrderConfirmation(ctx, *customer.Email, customer.Name, order); err != nil {
			cs.logger.Error("Failed to send order confirmation email",
				gecho.Field("error", err),
				gecho.Field("order_id", order.ID),
			)
			return
		}
		cs.logger.Info("Order confirmation email sent", gecho.Field("order_id", order.ID))
	}()
}
