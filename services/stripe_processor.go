package services

import (
	"ashtray_server/lib"
	"ashtray_server/structs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/stripe/stripe-go/v82"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"
)

const stripeServiceName = "stripe"

var errStripeNotConfigured = errors.New("stripe secret key is not configured")

// StripeProcessor talks to Stripe with a key and backend owned by the instance, never the
// package-level stripe.Key.
type StripeProcessor struct {
	logger   *gecho.Logger
	cfg      *structs.StripeConfig
	intents  *paymentintent.Client
	sessions *checkoutsession.Client
}

func NewStripeProcessor(logger *gecho.Logger, cfg *structs.StripeConfig) *StripeProcessor {
	backendConfig := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: cfg.Timeout},
		LeveledLogger:     &stripeLogger{logger: logger},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if cfg.APIBaseURL != "" {
		backendConfig.URL = stripe.String(cfg.APIBaseURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig)

	return &StripeProcessor{
		logger:   logger,
		cfg:      cfg,
		intents:  &paymentintent.Client{B: backend, Key: cfg.SecretKey},
		sessions: &checkoutsession.Client{B: backend, Key: cfg.SecretKey},
	}
}

func (sp *StripeProcessor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if sp.cfg.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, sp.cfg.Timeout)
}

func (sp *StripeProcessor) CreatePaymentIntent(ctx context.Context, amount int64, cartToken string) (*structs.PaymentIntentResponse, error) {
	if sp.cfg.SecretKey == "" {
		return nil, &lib.ExternalServiceError{Service: stripeServiceName, Err: errStripeNotConfigured}
	}

	ctx, cancel := sp.withTimeout(ctx)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(sp.cfg.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("cart_id", cartToken)

	intent, err := sp.intents.New(params)
	if err != nil {
		return nil, stripeError("create payment intent", err)
	}

	return &structs.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}

func (sp *StripeProcessor) CreateCheckoutSession(ctx context.Context, req CheckoutSessionParams) (*structs.CheckoutSessionResponse, error) {
	if sp.cfg.SecretKey == "" {
		return nil, &lib.ExternalServiceError{Service: stripeServiceName, Err: errStripeNotConfigured}
	}

	ctx, cancel := sp.withTimeout(ctx)
	defer cancel()

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(item.Name),
		}
		if item.Description != "" {
			product.Description = stripe.String(item.Description)
		}
		if item.Image != "" {
			product.Images = stripe.StringSlice([]string{item.Image})
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(sp.cfg.Currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(ShippingCountries),
		},
	}
	params.Context = ctx
	params.AddMetadata("cart_id", req.CartToken)

	session, err := sp.sessions.New(params)
	if err != nil {
		return nil, stripeError("create checkout session", err)
	}

	return &structs.CheckoutSessionResponse{
		CheckoutURL: session.URL,
		SessionID:   session.ID,
	}, nil
}

// stripeError hides processor detail behind ExternalServiceError. Timeouts are retryable.
func stripeError(op string, err error) error {
	var netErr net.Error
	retryable := errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())

	return &lib.ExternalServiceError{
		Service:   stripeServiceName,
		Retryable: retryable,
		Err:       fmt.Errorf("%s: %w", op, err),
	}
}

// ParseEvent verifies the Stripe-Signature header and decodes the event object.
func (sp *StripeProcessor) ParseEvent(payload []byte, signature string) (*PaymentEvent, error) {
	if sp.cfg.WebhookSecret == "" {
		return nil, &lib.SignatureError{Err: errors.New("webhook secret is not configured")}
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, sp.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, &lib.SignatureError{Err: err}
	}
	if event.Data == nil {
		return nil, &lib.SignatureError{Err: errors.New("event has no data object")}
	}

	return decodeStripeEvent(event.ID, string(event.Type), event.Data.Raw)
}

// legacyShipping reads the top-level shipping_details that sessions carried before the
// collected_information field existed. Events pinned to older API versions still send it.
type legacyShipping struct {
	ShippingDetails *struct {
		Name    string          `json:"name"`
		Address *stripe.Address `json:"address"`
	} `json:"shipping_details"`
}

func decodeStripeEvent(id, eventType string, raw json.RawMessage) (*PaymentEvent, error) {
	event := &PaymentEvent{ID: id, Type: PaymentEventType(eventType)}

	switch event.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(raw, &intent); err != nil {
			return nil, &lib.SignatureError{Err: fmt.Errorf("malformed payment intent: %w", err)}
		}
		event.CartToken = intent.Metadata["cart_id"]
		event.PaymentReference = intent.ID
		if intent.LastPaymentError != nil {
			event.FailureMessage = intent.LastPaymentError.Msg
		}

	case EventCheckoutCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(raw, &session); err != nil {
			return nil, &lib.SignatureError{Err: fmt.Errorf("malformed checkout session: %w", err)}
		}
		event.CartToken = session.Metadata["cart_id"]
		event.SessionID = session.ID
		event.PaymentReference = session.ID
		if session.PaymentIntent != nil && session.PaymentIntent.ID != "" {
			event.PaymentReference = session.PaymentIntent.ID
		}

		event.Email = session.CustomerEmail
		if session.CustomerDetails != nil {
			if session.CustomerDetails.Email != "" {
				event.Email = session.CustomerDetails.Email
			}
			event.Name = session.CustomerDetails.Name
		}

		var (
			address      *stripe.Address
			shippingName string
		)
		if ci := session.CollectedInformation; ci != nil && ci.ShippingDetails != nil {
			address, shippingName = ci.ShippingDetails.Address, ci.ShippingDetails.Name
		} else {
			var legacy legacyShipping
			if err := json.Unmarshal(raw, &legacy); err == nil && legacy.ShippingDetails != nil {
				address, shippingName = legacy.ShippingDetails.Address, legacy.ShippingDetails.Name
			}
		}
		if address != nil {
			event.Shipping = &structs.ShippingAddress{
				StreetAddress:    address.Line1,
				ApartmentAddress: address.Line2,
				City:             address.City,
				State:            address.State,
				Country:          address.Country,
				PostalCode:       address.PostalCode,
				Default:          true,
			}
			if event.Name == "" {
				event.Name = shippingName
			}
		}
	}

	return event, nil
}

// stripeLogger routes stripe-go's own logging through gecho.
type stripeLogger struct {
	logger *gecho.Logger
}

func (l *stripeLogger) Debugf(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), gecho.Field("component", stripeServiceName))
}

func (l *stripeLogger) Infof(format string, v ...any) {
	l.logger.Debug(fmt.Sprintf(format, v...), gecho.Field("component", stripeServiceName))
}

func (l *stripeLogger) Warnf(format string, v ...any) {
	l.logger.Warn(fmt.Sprintf(format, v...), gecho.Field("component", stripeServiceName))
}

func (l *stripeLogger) Errorf(format string, v ...any) {
	l.logger.Error(fmt.Sprintf(format, v...), gecho.Field("component", stripeServiceName))
}
