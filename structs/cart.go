package structs

import (
	"github.com/shopspring/decimal"
)

// MaxItemQuantity caps a single cart line.
const MaxItemQuantity = 999

type AddCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  *int  `json:"quantity,omitempty" validate:"omitempty,gte=1,max=999"`
}

// UpdateCartItemRequest sets an exact quantity; zero or negative removes the item.
type UpdateCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  *int  `json:"quantity" validate:"required,max=999"`
}

type RemoveCartItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type CartProduct struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image,omitempty"`
	Stock int             `json:"stock"`
}

type CartItemView struct {
	ID         int64           `json:"id"`
	Product    CartProduct     `json:"product"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartView struct {
	ID         int64           `json:"id"`
	CartToken  string          `json:"cart_token"`
	CustomerID *int64          `json:"customer_id,omitempty"`
	Items      []CartItemView  `json:"items"`
	ItemCount  int             `json:"item_count"`
	TotalPrice decimal.Decimal `json:"total_price"`
}
