package tables

import (
	"time"

	"github.com/uptrace/bun"
)

// Customer is either anonymous (keyed by device id) or identified by a unique email.
type Customer struct {
	bun.BaseModel `bun:"table:customers,alias:cu"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	Email     *string   `bun:"email,unique" json:"email,omitempty"`
	Name      string    `bun:"name,notnull,default:''" json:"name,omitempty"`
	DeviceID  *string   `bun:"device_id" json:"device_id,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}

// HasEmail reports whether the customer has left the anonymous state.
func (c *Customer) HasEmail() bool {
	return c != nil && c.Email != nil && *c.Email != ""
}

type Address struct {
	bun.BaseModel `bun:"table:addresses,alias:a"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	CustomerID       int64     `bun:"customer_id,notnull" json:"customer_id"`
	StreetAddress    string    `bun:"street_address,notnull" json:"street_address"`
	ApartmentAddress string    `bun:"apartment_address,notnull,default:''" json:"apartment_address"`
	City             string    `bun:"city,notnull" json:"city"`
	State            string    `bun:"state,notnull,default:''" json:"state"`
	Country          string    `bun:"country,notnull" json:"country"`
	PostalCode       string    `bun:"postal_code,notnull" json:"postal_code"`
	IsDefault        bool      `bun:"is_default,notnull" json:"default"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`

	Customer *Customer `bun:"rel:belongs-to,join:customer_id=id" json:"customer,omitempty"`
}
