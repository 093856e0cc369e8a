package structs

import (
	"ashtray_server/structs/tables"
	"time"

	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description" validate:"max=5000"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Active      *bool            `json:"active"`
	Image       string           `json:"image" validate:"max=1024"`
}

type ProductUpdateRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Active      *bool            `json:"active"`
	Image       *string          `json:"image" validate:"omitempty,max=1024"`
}

type CustomerRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     string  `json:"name" validate:"max=255"`
	DeviceID *string `json:"device_id" validate:"omitempty,max=255"`
}

type AddressRequest struct {
	CustomerID int64 `json:"customer_id" validate:"required,gt=0"`
	ShippingAddress
}

type OrderUpdateRequest struct {
	Status            *string `json:"status" validate:"omitempty,oneof=pending paid processing shipped delivered cancelled"`
	Notes             *string `json:"notes" validate:"omitempty,max=2000"`
	ShippingAddressID *int64  `json:"shipping_address_id" validate:"omitempty,gt=0"`
}

type StatusCount struct {
	Status string `bun:"status" json:"status"`
	Count  int    `bun:"count" json:"count"`
}

type DailyOrders struct {
	Date    time.Time       `bun:"date" json:"date"`
	Count   int             `bun:"count" json:"count"`
	Revenue decimal.Decimal `bun:"revenue" json:"revenue"`
}

type ProductTotals struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// DashboardStats is the read-only summary shown on the admin landing page.
type DashboardStats struct {
	Products           ProductTotals   `json:"products"`
	OrdersByStatus     []StatusCount   `json:"orders_by_status"`
	RecentOrders       []tables.Order  `json:"recent_orders"`
	OrdersLast30Days   []DailyOrders   `json:"orders_last_30_days"`
	CustomersWithEmail int             `json:"customers_with_email"`
	TotalSales         decimal.Decimal `json:"total_sales"`
}
