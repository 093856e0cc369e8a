package services

import (
	"ashtray_server/database"
	"ashtray_server/lib"
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"context"
	"database/sql"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// statusTransitions lists the statuses each status may move to. Delivered and cancelled are final.
var statusTransitions = map[tables.OrderStatus][]tables.OrderStatus{
	tables.OrderStatusPending: {
		tables.OrderStatusPaid,
		tables.OrderStatusProcessing,
		tables.OrderStatusCancelled,
	},
	tables.OrderStatusPaid: {
		tables.OrderStatusProcessing,
		tables.OrderStatusCancelled,
	},
	tables.OrderStatusProcessing: {
		tables.OrderStatusShipped,
		tables.OrderStatusCancelled,
	},
	tables.OrderStatusShipped: {
		tables.OrderStatusDelivered,
	},
}

// ValidateTransition returns a ValidationError unless current may move to next.
func ValidateTransition(current, next tables.OrderStatus) error {
	if !next.Valid() {
		return lib.NewValidationError("unknown order status %q", next)
	}
	if !slices.Contains(statusTransitions[current], next) {
		return lib.NewValidationError("invalid status transition from %s to %s", current, next)
	}
	return nil
}

type OrderService struct {
	logger *gecho.Logger
	db     *database.DB
}

func NewOrderService(logger *gecho.Logger, db *database.DB) *OrderService {
	return &OrderService{
		logger: logger,
		db:     db,
	}
}

// OrderListOptions filters the admin order listing.
type OrderListOptions struct {
	Page       int
	PageSize   int
	Status     string
	Email      string
	CustomerID int64
}

// ListOrders returns orders newest first, without items.
func (os *OrderService) ListOrders(ctx context.Context, opts OrderListOptions) (*database.Page[tables.Order], error) {
	query := database.Query[tables.Order](os.db).Relation("Customer")

	if opts.Status != "" {
		status := tables.OrderStatus(opts.Status)
		if !status.Valid() {
			return nil, lib.NewValidationError("unknown order status %q", opts.Status)
		}
		query = query.Where("o.status", status)
	}
	if opts.Email != "" {
		query = query.Where("customer.email", strings.ToLower(opts.Email))
	}
	if opts.CustomerID > 0 {
		query = query.Where("o.customer_id", opts.CustomerID)
	}
	query = query.OrderBy("o.order_date", database.DESC).OrderBy("o.id", database.ASC)

	page, err := database.Paginate(ctx, query, opts.Page, opts.PageSize)
	if err != nil {
		os.logger.Error("Failed to list orders", gecho.Field("error", err))
		return nil, err
	}
	return page, nil
}

// CustomerOrders lists every order of one customer with items, newest first.
func (os *OrderService) CustomerOrders(ctx context.Context, customerID int64) ([]tables.Order, error) {
	exists, err := os.db.NewSelect().Model((*tables.Customer)(nil)).Where("id = ?", customerID).Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, lib.NewNotFoundError("customer")
	}

	return database.Query[tables.Order](os.db).
		Relation("ShippingAddress").
		Relation("Items", orderItemsByID).
		Relation("Items.Product").
		Where("o.customer_id", customerID).
		OrderBy("o.order_date", database.DESC).
		All(ctx)
}

func orderItemsByID(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Order("oi.id ASC")
}

// GetOrder loads an order with its customer, address, items and products.
func (os *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*tables.Order, error) {
	return loadOrder(ctx, os.db, id)
}

func loadOrder(ctx context.Context, db bun.IDB, id uuid.UUID) (*tables.Order, error) {
	order, err := database.Query[tables.Order](db).
		Relation("Customer").
		Relation("ShippingAddress").
		Relation("Items", orderItemsByID).
		Relation("Items.Product").
		Where("o.id", id).
		First(ctx)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, lib.NewNotFoundError("order")
	}
	return order, nil
}

// UpdateOrder changes status, notes or shipping address. The total is derived from the items and
// can never be set directly.
func (os *OrderService) UpdateOrder(ctx context.Context, id uuid.UUID, req *structs.OrderUpdateRequest) (*tables.Order, error) {
	var previous tables.OrderStatus

	err := os.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		order := new(tables.Order)
		err := tx.NewSelect().Model(order).Where("o.id = ?", id).For("UPDATE").Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return lib.NewNotFoundError("order")
		}
		if err != nil {
			return err
		}
		previous = order.Status

		columns := []string{"updated_at"}
		order.UpdatedAt = time.Now()

		if req.Status != nil && tables.OrderStatus(*req.Status) != order.Status {
			next := tables.OrderStatus(*req.Status)
			if err := ValidateTransition(order.Status, next); err != nil {
				return err
			}
			order.Status = next
			columns = append(columns, "status")
		}
		if req.Notes != nil {
			order.Notes = *req.Notes
			columns = append(columns, "notes")
		}
		if req.ShippingAddressID != nil {
			if err := checkAddressOwner(ctx, tx, *req.ShippingAddressID, order.CustomerID); err != nil {
				return err
			}
			order.ShippingAddressID = req.ShippingAddressID
			columns = append(columns, "shipping_address_id")
		}

		_, err = tx.NewUpdate().Model(order).Column(columns...).WherePK().Exec(ctx)
		return lib.MapPgError(err, "order")
	})
	if err != nil {
		return nil, err
	}

	order, err := loadOrder(ctx, os.db, id)
	if err != nil {
		return nil, err
	}
	if order.Status != previous {
		os.logger.Info("Order status updated",
			gecho.Field("order_id", id),
			gecho.Field("old_status", previous),
			gecho.Field("new_status", order.Status),
		)
	}
	return order, nil
}

// checkAddressOwner makes sure an order only ships to an address of its own customer.
func checkAddressOwner(ctx context.Context, tx bun.IDB, addressID int64, customerID *int64) error {
	address, err := database.Query[tables.Address](tx).Where("id", addressID).First(ctx)
	if err != nil {
		return err
	}
	if address == nil {
		return lib.NewNotFoundError("address")
	}
	if customerID == nil || address.CustomerID != *customerID {
		return lib.NewValidationError("shipping address belongs to another customer")
	}
	return nil
}

func (os *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	res, err := os.db.NewDelete().Model((*tables.Order)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return lib.MapPgError(err, "order")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lib.NewNotFoundError("order")
	}
	os.logger.Info("Order deleted", gecho.Field("order_id", id))
	return nil
}

// latestPendingOrder returns the customer's most recent pending order, locked, or nil when there is none.
func latestPendingOrder(ctx context.Context, tx bun.IDB, customerID int64) (*tables.Order, error) {
	order := new(tables.Order)
	err := tx.NewSelect().
		Model(order).
		Where("o.customer_id = ?", customerID).
		Where("o.status = ?", tables.OrderStatusPending).
		OrderExpr("o.order_date DESC, o.id DESC").
		Limit(1).
		For("UPDATE").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}
