package tables

import (
	"time"

	"github.com/uptrace/bun"
)

type Cart struct {
	bun.BaseModel `bun:"table:carts,alias:c"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	CartToken  string    `bun:"cart_token,notnull,unique" json:"cart_token"`
	CustomerID *int64    `bun:"customer_id" json:"customer_id,omitempty"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`

	Customer *Customer `bun:"rel:belongs-to,join:customer_id=id" json:"customer,omitempty"`
}

// CartItem is unique per (cart, product); quantity is always at least one.
type CartItem struct {
	bun.BaseModel `bun:"table:cart_items,alias:ci"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	CartID    int64     `bun:"cart_id,notnull,unique:cart_items_cart_product" json:"cart_id"`
	ProductID int64     `bun:"product_id,notnull,unique:cart_items_cart_product" json:"product_id"`
	Quantity  int       `bun:"quantity,notnull" json:"quantity"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Product *Product `bun:"rel:belongs-to,join:product_id=id" json:"product,omitempty"`
}
