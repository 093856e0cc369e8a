package database

import (
	"ashtray_server/structs/tables"
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type tableDef struct {
	model       any
	foreignKeys []string
}

// schema lists tables in dependency order.
var schema = []tableDef{
	{model: (*tables.Product)(nil)},
	{model: (*tables.Customer)(nil)},
	{model: (*tables.Address)(nil), foreignKeys: []string{
		`("customer_id") REFERENCES "customers" ("id") ON DELETE CASCADE`,
	}},
	{model: (*tables.Cart)(nil), foreignKeys: []string{
		`("customer_id") REFERENCES "customers" ("id") ON DELETE SET NULL`,
	}},
	{model: (*tables.CartItem)(nil), foreignKeys: []string{
		`("cart_id") REFERENCES "carts" ("id") ON DELETE CASCADE`,
		`("product_id") REFERENCES "products" ("id") ON DELETE CASCADE`,
	}},
	{model: (*tables.Order)(nil), foreignKeys: []string{
		`("customer_id") REFERENCES "customers" ("id") ON DELETE SET NULL`,
		`("shipping_address_id") REFERENCES "addresses" ("id") ON DELETE SET NULL`,
	}},
	{model: (*tables.OrderItem)(nil), foreignKeys: []string{
		`("order_id") REFERENCES "orders" ("id") ON DELETE CASCADE`,
		`("product_id") REFERENCES "products" ("id") ON DELETE RESTRICT`,
	}},
	{model: (*tables.ProcessedEvent)(nil)},
	{model: (*tables.AdminUser)(nil)},
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS customers_device_id_idx ON customers (device_id)`,
	`CREATE INDEX IF NOT EXISTS addresses_customer_id_idx ON addresses (customer_id)`,
	`CREATE INDEX IF NOT EXISTS orders_customer_status_idx ON orders (customer_id, status, order_date DESC)`,
	`CREATE INDEX IF NOT EXISTS orders_order_date_idx ON orders (order_date DESC)`,
	`CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items (order_id)`,
	`CREATE INDEX IF NOT EXISTS products_active_name_idx ON products (active, name)`,
	`ALTER TABLE cart_items DROP CONSTRAINT IF EXISTS cart_items_quantity_positive`,
	`ALTER TABLE cart_items ADD CONSTRAINT cart_items_quantity_positive CHECK (quantity > 0)`,
}

// Migrate creates any missing tables and indexes.
func Migrate(ctx context.Context, db bun.IDB) error {
	for _, def := range schema {
		q := db.NewCreateTable().Model(def.model).IfNotExists()
		for _, fk := range def.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", def.model, err)
		}
	}

	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %q: %w", stmt, err)
		}
	}
	return nil
}
