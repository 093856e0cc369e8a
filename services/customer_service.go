package services

import (
	"ashtray_server/database"
	"ashtray_server/lib"
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"context"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

type CustomerService struct {
	logger *gecho.Logger
	db     *database.DB
}

func NewCustomerService(logger *gecho.Logger, db *database.DB) *CustomerService {
	return &CustomerService{
		logger: logger,
		db:     db,
	}
}

// customerDecision says which customer record an email-bearing checkout ends up on.
type customerDecision int

const (
	// useEmailCustomer: a customer already owns the email; the cart is relinked to it.
	useEmailCustomer customerDecision = iota
	// promoteCartCustomer: the cart's anonymous customer receives the email in place.
	promoteCartCustomer
	// createEmailCustomer: nobody owns the email and the cart has no anonymous customer to promote.
	createEmailCustomer
)

// decideCustomer picks the winning customer record. An existing owner of the email always wins,
// since emails are unique. Without one, an anonymous cart customer is promoted so its cart history
// is kept; a cart customer that already carries a different email is left alone.
func decideCustomer(cartCustomer, emailCustomer *tables.Customer) customerDecision {
	switch {
	case emailCustomer != nil:
		return useEmailCustomer
	case cartCustomer != nil && !cartCustomer.HasEmail():
		return promoteCartCustomer
	default:
		return createEmailCustomer
	}
}

// CustomerIdentity is what a checkout knows about the buyer.
type CustomerIdentity struct {
	Email    string
	Name     string
	DeviceID string
}

// ResolveCustomer finds or creates the customer for email and links cart to it. It must run inside tx.
func (cs *CustomerService) ResolveCustomer(ctx context.Context, tx bun.IDB, cart *tables.Cart, identity CustomerIdentity) (*tables.Customer, error) {
	email := strings.ToLower(strings.TrimSpace(identity.Email))
	if email == "" {
		return nil, lib.NewValidationError("customer email is required")
	}

	emailCustomer, err := database.Query[tables.Customer](tx).Where("email", email).First(ctx)
	if err != nil {
		return nil, err
	}

	var cartCustomer *tables.Customer
	if cart.CustomerID != nil {
		cartCustomer, err = database.Query[tables.Customer](tx).Where("id", *cart.CustomerID).First(ctx)
		if err != nil {
			return nil, err
		}
	}

	var customer *tables.Customer
	switch decideCustomer(cartCustomer, emailCustomer) {
	case useEmailCustomer:
		customer = emailCustomer
		if customer.Name == "" && identity.Name != "" {
			customer.Name = identity.Name
			if _, err := tx.NewUpdate().Model(customer).Column("name").WherePK().Exec(ctx); err != nil {
				return nil, lib.MapPgError(err, "customer")
			}
		}

	case promoteCartCustomer:
		customer = cartCustomer
		customer.Email = &email
		if identity.Name != "" {
			customer.Name = identity.Name
		}
		if _, err := tx.NewUpdate().Model(customer).Column("email", "name").WherePK().Exec(ctx); err != nil {
			return nil, lib.MapPgError(err, "customer")
		}
		cs.logger.Debug("Promoted anonymous customer", gecho.Field("customer_id", customer.ID))

	case createEmailCustomer:
		customer = &tables.Customer{Email: &email, Name: identity.Name}
		if identity.DeviceID != "" {
			customer.DeviceID = &identity.DeviceID
		}
		if _, err := tx.NewInsert().Model(customer).Returning("*").Exec(ctx); err != nil {
			return nil, lib.MapPgError(err, "customer")
		}
	}

	if cart.CustomerID == nil || *cart.CustomerID != customer.ID {
		cart.CustomerID = &customer.ID
		if _, err := tx.NewUpdate().Model(cart).Column("customer_id").Set("updated_at = current_timestamp").WherePK().Exec(ctx); err != nil {
			return nil, lib.MapPgError(err, "cart")
		}
	}

	return customer, nil
}

// ResolveAddress returns the customer's address with identical fields, creating it if none matches.
// The default flag is taken from the first request that creates the row.
func (cs *CustomerService) ResolveAddress(ctx context.Context, tx bun.IDB, customerID int64, fields *structs.ShippingAddress) (*tables.Address, error) {
	address, err := database.Query[tables.Address](tx).
		Where("customer_id", customerID).
		Where("street_address", fields.StreetAddress).
		Where("apartment_address", fields.ApartmentAddress).
		Where("city", fields.City).
		Where("state", fields.State).
		Where("country", fields.Country).
		Where("postal_code", fields.PostalCode).
		OrderBy("id", database.ASC).
		First(ctx)
	if err != nil {
		return nil, err
	}
	if address != nil {
		return address, nil
	}

	address = addressFromFields(customerID, fields)
	if _, err := tx.NewInsert().Model(address).Returning("*").Exec(ctx); err != nil {
		return nil, lib.MapPgError(err, "address")
	}
	return address, nil
}

func addressFromFields(customerID int64, fields *structs.ShippingAddress) *tables.Address {
	return &tables.Address{
		CustomerID:       customerID,
		StreetAddress:    fields.StreetAddress,
		ApartmentAddress: fields.ApartmentAddress,
		City:             fields.City,
		State:            fields.State,
		Country:          fields.Country,
		PostalCode:       fields.PostalCode,
		IsDefault:        fields.Default,
	}
}

// CustomerListOptions filters the admin customer listing.
type CustomerListOptions struct {
	Page     int
	PageSize int
	Search   string
	Email    string
}

func (cs *CustomerService) ListCustomers(ctx context.Context, opts CustomerListOptions) (*database.Page[tables.Customer], error) {
	query := database.Query[tables.Customer](cs.db).Search("name", opts.Search)
	if opts.Email != "" {
		query = query.Where("email", strings.ToLower(opts.Email))
	}
	query = query.OrderBy("created_at", database.DESC).OrderBy("id", database.DESC)

	return database.Paginate(ctx, query, opts.Page, opts.PageSize)
}

func (cs *CustomerService) GetCustomer(ctx context.Context, id int64) (*tables.Customer, error) {
	customer, err := database.Query[tables.Customer](cs.db).Where("id", id).First(ctx)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, lib.NewNotFoundError("customer")
	}
	return customer, nil
}

func (cs *CustomerService) CreateCustomer(ctx context.Context, req *structs.CustomerRequest) (*tables.Customer, error) {
	customer := &tables.Customer{
		Name:     req.Name,
		Email:    normalizeEmail(req.Email),
		DeviceID: req.DeviceID,
	}
	if _, err := cs.db.NewInsert().Model(customer).Returning("*").Exec(ctx); err != nil {
		return nil, lib.MapPgError(err, "customer")
	}
	return customer, nil
}

// UpdateCustomer replaces the editable fields of a customer.
func (cs *CustomerService) UpdateCustomer(ctx context.Context, id int64, req *structs.CustomerRequest) (*tables.Customer, error) {
	customer := &tables.Customer{
		ID:       id,
		Name:     req.Name,
		Email:    normalizeEmail(req.Email),
		DeviceID: req.DeviceID,
	}
	err := cs.db.NewUpdate().
		Model(customer).
		Column("name", "email", "device_id").
		WherePK().
		Returning("*").
		Scan(ctx)
	if err != nil {
		return nil, lib.MapPgError(err, "customer")
	}
	return customer, nil
}

// DeleteCustomer removes the customer and its addresses. Orders and carts are detached, not deleted.
func (cs *CustomerService) DeleteCustomer(ctx context.Context, id int64) error {
	res, err := cs.db.NewDelete().Model((*tables.Customer)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return lib.MapPgError(err, "customer")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lib.NewNotFoundError("customer")
	}
	cs.logger.Info("Customer deleted", gecho.Field("customer_id", id))
	return nil
}

// AddressListOptions filters the admin address listing.
type AddressListOptions struct {
	Page          int
	PageSize      int
	CustomerID    int64
	CustomerEmail string
}

func (cs *CustomerService) ListAddresses(ctx context.Context, opts AddressListOptions) (*database.Page[tables.Address], error) {
	query := database.Query[tables.Address](cs.db).Relation("Customer")
	if opts.CustomerID > 0 {
		query = query.Where("a.customer_id", opts.CustomerID)
	}
	if opts.CustomerEmail != "" {
		query = query.Where("customer.email", strings.ToLower(opts.CustomerEmail))
	}
	query = query.OrderBy("a.created_at", database.DESC).OrderBy("a.id", database.DESC)

	return database.Paginate(ctx, query, opts.Page, opts.PageSize)
}

func (cs *CustomerService) GetAddress(ctx context.Context, id int64) (*tables.Address, error) {
	address, err := database.Query[tables.Address](cs.db).Relation("Customer").Where("a.id", id).First(ctx)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, lib.NewNotFoundError("address")
	}
	return address, nil
}

func (cs *CustomerService) CreateAddress(ctx context.Context, req *structs.AddressRequest) (*tables.Address, error) {
	address := addressFromFields(req.CustomerID, &req.ShippingAddress)
	if _, err := cs.db.NewInsert().Model(address).Returning("*").Exec(ctx); err != nil {
		// 23503 here means the customer does not exist
		if lib.SQLState(err) == "23503" {
			return nil, lib.NewNotFoundError("customer")
		}
		return nil, lib.MapPgError(err, "address")
	}
	return address, nil
}

func (cs *CustomerService) UpdateAddress(ctx context.Context, id int64, req *structs.AddressRequest) (*tables.Address, error) {
	address := addressFromFields(req.CustomerID, &req.ShippingAddress)
	address.ID = id

	err := cs.db.NewUpdate().
		Model(address).
		ExcludeColumn("id", "created_at").
		WherePK().
		Returning("*").
		Scan(ctx)
	if err != nil {
		if lib.SQLState(err) == "23503" {
			return nil, lib.NewNotFoundError("customer")
		}
		return nil, lib.MapPgError(err, "address")
	}
	return address, nil
}

// DeleteAddress removes an address; orders shipped to it keep their history without the link.
func (cs *CustomerService) DeleteAddress(ctx context.Context, id int64) error {
	res, err := cs.db.NewDelete().Model((*tables.Address)(nil)).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return lib.MapPgError(err, "address")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return lib.NewNotFoundError("address")
	}
	return nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*email))
	if normalized == "" {
		return nil
	}
	return &normalized
}
