package tables

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

type Product struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID          int64           `bun:"id,pk,autoincrement" json:"id"`
	Name        string          `bun:"name,notnull" json:"name"`
	Description string          `bun:"description,notnull,default:''" json:"description"`
	Price       decimal.Decimal `bun:"price,type:numeric(10,2),notnull" json:"price"`
	Stock       int             `bun:"stock,notnull,default:0" json:"stock"`
	Active      bool            `bun:"active,notnull" json:"active"`
	Image       string          `bun:"image,notnull,default:''" json:"image,omitempty"` // path or absolute URL
	CreatedAt   time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time       `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
