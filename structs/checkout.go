package structs

type ShippingAddress struct {
	StreetAddress    string `json:"street_address" validate:"required,max=255"`
	ApartmentAddress string `json:"apartment_address" validate:"max=255"`
	City             string `json:"city" validate:"required,max=100"`
	State            string `json:"state" validate:"max=100"`
	Country          string `json:"country" validate:"required,max=100"`
	PostalCode       string `json:"postal_code" validate:"required,max=20"`
	Default          bool   `json:"default"`
}

type CheckoutRequest struct {
	CustomerEmail   string           `json:"customer_email" validate:"required,email"`
	ShippingAddress *ShippingAddress `json:"shipping_address" validate:"required"`
	Notes           string           `json:"notes" validate:"max=2000"`
}
