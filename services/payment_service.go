package services

import (
	"ashtray_server/lib"
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"context"
	"strings"
	"unicode/utf8"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"
)

const maxLineItemDescription = 500

// ShippingCountries are the countries hosted checkout collects addresses for.
var ShippingCountries = []string{"US", "CA", "GB", "AU"}

// LineItem is one row of a hosted checkout page.
type LineItem struct {
	Name        string
	Description string
	Image       string
	UnitAmount  int64 // minor units
	Quantity    int64
}

type CheckoutSessionParams struct {
	CartToken  string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
}

type PaymentEventType string

const (
	EventPaymentSucceeded  PaymentEventType = "payment_intent.succeeded"
	EventPaymentFailed     PaymentEventType = "payment_intent.payment_failed"
	EventCheckoutCompleted PaymentEventType = "checkout.session.completed"
)

// PaymentEvent is a verified processor notification reduced to what reconciliation needs.
type PaymentEvent struct {
	ID               string
	Type             PaymentEventType
	CartToken        string
	PaymentReference string
	SessionID        string
	Email            string
	Name             string
	Shipping         *structs.ShippingAddress
	FailureMessage   string
}

// PaymentProcessor is the external payment provider.
type PaymentProcessor interface {
	CreatePaymentIntent(ctx context.Context, amount int64, cartToken string) (*structs.PaymentIntentResponse, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutSessionParams) (*structs.CheckoutSessionResponse, error)
	// ParseEvent authenticates payload against the signature header. Failures are *lib.SignatureError.
	ParseEvent(payload []byte, signature string) (*PaymentEvent, error)
}

// PaymentService starts payments for the current cart contents. It never creates orders.
type PaymentService struct {
	logger    *gecho.Logger
	cfg       *structs.StripeConfig
	processor PaymentProcessor
}

func NewPaymentService(logger *gecho.Logger, cfg *structs.StripeConfig, processor PaymentProcessor) *PaymentService {
	return &PaymentService{
		logger:    logger,
		cfg:       cfg,
		processor: processor,
	}
}

func (ps *PaymentService) Config() *structs.PaymentConfigResponse {
	return &structs.PaymentConfigResponse{PublishableKey: ps.cfg.PublishableKey}
}

// MaxChargeAmount is the largest single charge the processor accepts, in minor units.
const MaxChargeAmount int64 = 99_999_999

// CartAmount sums the cart in minor units, per line, the way the processor charges it. Totals above
// MaxChargeAmount are a ValidationError; the sum is kept in decimal so it cannot wrap.
func CartAmount(items []tables.CartItem) (int64, error) {
	total := decimal.Zero
	for _, item := range items {
		if item.Product == nil {
			continue
		}
		unit := decimal.NewFromInt(lib.ToMinorUnits(item.Product.Price))
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if total.GreaterThan(decimal.NewFromInt(MaxChargeAmount)) {
		return 0, lib.NewValidationError("cart total exceeds the maximum charge of %s", lib.FromMinorUnits(MaxChargeAmount).StringFixed(2))
	}
	return total.IntPart(), nil
}

// CreatePaymentIntent asks the processor for a payment intent covering the cart total.
func (ps *PaymentService) CreatePaymentIntent(ctx context.Context, cart *tables.Cart, items []tables.CartItem) (*structs.PaymentIntentResponse, error) {
	if len(items) == 0 {
		return nil, lib.NewValidationError("cart is empty")
	}
	amount, err := CartAmount(items)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, lib.NewValidationError("invalid cart total")
	}

	resp, err := ps.processor.CreatePaymentIntent(ctx, amount, cart.CartToken)
	if err != nil {
		PaymentRequests.WithLabelValues("payment_intent", "error").Inc()
		return nil, err
	}
	PaymentRequests.WithLabelValues("payment_intent", "ok").Inc()

	ps.logger.Info("Payment intent created",
		gecho.Field("cart_id", cart.ID),
		gecho.Field("payment_intent", resp.PaymentIntentID),
		gecho.Field("amount", lib.FromMinorUnits(amount).StringFixed(2)),
	)
	return resp, nil
}

// CreateCheckoutSession asks the processor for a hosted checkout page for the cart.
func (ps *PaymentService) CreateCheckoutSession(ctx context.Context, cart *tables.Cart, items []tables.CartItem, req *structs.CheckoutSessionRequest) (*structs.CheckoutSessionResponse, error) {
	if len(items) == 0 {
		return nil, lib.NewValidationError("cart is empty")
	}
	if _, err := CartAmount(items); err != nil {
		return nil, err
	}

	params := CheckoutSessionParams{
		CartToken:  cart.CartToken,
		LineItems:  BuildLineItems(items, ps.cfg.PlaceholderImage),
		SuccessURL: ps.cfg.DefaultSuccessURL,
		CancelURL:  ps.cfg.DefaultCancelURL,
	}
	if req != nil && req.SuccessURL != "" {
		params.SuccessURL = req.SuccessURL
	}
	if req != nil && req.CancelURL != "" {
		params.CancelURL = req.CancelURL
	}

	resp, err := ps.processor.CreateCheckoutSession(ctx, params)
	if err != nil {
		PaymentRequests.WithLabelValues("checkout_session", "error").Inc()
		return nil, err
	}
	PaymentRequests.WithLabelValues("checkout_session", "ok").Inc()

	ps.logger.Info("Checkout session created",
		gecho.Field("cart_id", cart.ID),
		gecho.Field("session_id", resp.SessionID),
		gecho.Field("line_items", len(params.LineItems)),
	)
	return resp, nil
}

// BuildLineItems maps cart lines onto hosted checkout rows. Descriptions are cut to the processor's
// limit and images that are not absolute URLs are replaced by placeholder.
func BuildLineItems(items []tables.CartItem, placeholder string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		p := item.Product
		if p == nil {
			continue
		}
		out = append(out, LineItem{
			Name:        p.Name,
			Description: truncateRunes(p.Description, maxLineItemDescription),
			Image:       lineItemImage(p.Image, placeholder),
			UnitAmount:  lib.ToMinorUnits(p.Price),
			Quantity:    int64(item.Quantity),
		})
	}
	return out
}

func lineItemImage(image, placeholder string) string {
	switch {
	case image == "":
		return ""
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return image
	default:
		return placeholder
	}
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit])
}

