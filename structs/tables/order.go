package tables

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Order struct {
	bun.BaseModel `bun:"table:orders,alias:o"`

	ID                uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	CustomerID        *int64          `bun:"customer_id" json:"customer_id,omitempty"`
	ShippingAddressID *int64          `bun:"shipping_address_id" json:"shipping_address_id,omitempty"`
	OrderDate         time.Time       `bun:"order_date,notnull,default:current_timestamp" json:"order_date"`
	Status            OrderStatus     `bun:"status,notnull" json:"status"`
	TotalAmount       decimal.Decimal `bun:"total_amount,type:numeric(10,2),notnull" json:"total_amount"`
	Notes             string          `bun:"notes,notnull,default:''" json:"notes,omitempty"`
	PaymentReference  string          `bun:"payment_reference,notnull,default:''" json:"payment_reference,omitempty"`
	UpdatedAt         time.Time       `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Customer        *Customer    `bun:"rel:belongs-to,join:customer_id=id" json:"customer,omitempty"`
	ShippingAddress *Address     `bun:"rel:belongs-to,join:shipping_address_id=id" json:"shipping_address,omitempty"`
	Items           []*OrderItem `bun:"rel:has-many,join:id=order_id" json:"items,omitempty"`
}

// OrderItem carries the product price at the moment the order was placed.
type OrderItem struct {
	bun.BaseModel `bun:"table:order_items,alias:oi"`

	ID        int64           `bun:"id,pk,autoincrement" json:"id"`
	OrderID   uuid.UUID       `bun:"order_id,type:uuid,notnull" json:"order_id"`
	ProductID int64           `bun:"product_id,notnull" json:"product_id"`
	Quantity  int             `bun:"quantity,notnull" json:"quantity"`
	Price     decimal.Decimal `bun:"price,type:numeric(10,2),notnull" json:"price"`

	TotalPrice decimal.Decimal `bun:"-" json:"total_price"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
}

var _ bun.AfterScanRowHook = (*OrderItem)(nil)

func (oi *OrderItem) AfterScanRow(ctx context.Context) error {
	oi.TotalPrice = oi.LineTotal()
	return nil
}

// LineTotal is price times quantity, never stored.
func (oi *OrderItem) LineTotal() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPaid       OrderStatus = "paid"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}
