package services

import (
	"ashtray_server/database"
	"ashtray_server/structs/tables"
	"context"
	"errors"

	"github.com/MonkyMars/gecho"
	"github.com/uptrace/bun"
)

var errDuplicateEvent = errors.New("event already processed")

// WebhookService reconciles asynchronous payment notifications with orders. Every mutating handler
// records the event id in the same transaction, so a redelivered event is acknowledged and skipped.
type WebhookService struct {
	logger          *gecho.Logger
	db              *database.DB
	processor       PaymentProcessor
	cartService     *CartService
	checkoutService *CheckoutService
}

func NewWebhookService(logger *gecho.Logger, db *database.DB, processor PaymentProcessor, cartService *CartService, checkoutService *CheckoutService) *WebhookService {
	return &WebhookService{
		logger:          logger,
		db:              db,
		processor:       processor,
		cartService:     cartService,
		checkoutService: checkoutService,
	}
}

// HandleNotification verifies payload and dispatches it. Nothing is written unless the signature is
// valid. The returned outcome is what got recorded for the event.
func (ws *WebhookService) HandleNotification(ctx context.Context, payload []byte, signature string) (tables.EventOutcome, error) {
	event, err := ws.processor.ParseEvent(payload, signature)
	if err != nil {
		return "", err
	}
	return ws.HandleEvent(ctx, event)
}

// HandleEvent dispatches an already verified event on its type.
func (ws *WebhookService) HandleEvent(ctx context.Context, event *PaymentEvent) (tables.EventOutcome, error) {
	var (
		outcome tables.EventOutcome
		err     error
	)

	switch event.Type {
	case EventPaymentSucceeded:
		outcome, err = ws.record(ctx, event, ws.paymentSucceeded)
	case EventCheckoutCompleted:
		outcome, err = ws.record(ctx, event, ws.checkoutCompleted)
	case EventPaymentFailed:
		ws.logger.Warn("Payment failed",
			gecho.Field("event_id", event.ID),
			gecho.Field("payment_intent", event.PaymentReference),
			gecho.Field("cart_token", event.CartToken),
			gecho.Field("reason", event.FailureMessage),
		)
		outcome = tables.EventOutcomeLogged
	default:
		ws.logger.Debug("Unhandled payment event", gecho.Field("event_id", event.ID), gecho.Field("type", event.Type))
		outcome = tables.EventOutcomeIgnored
	}

	if errors.Is(err, errDuplicateEvent) {
		outcome, err = tables.EventOutcomeDuplicate, nil
		ws.logger.Info("Duplicate payment event acknowledged", gecho.Field("event_id", event.ID), gecho.Field("type", event.Type))
	}
	if err != nil {
		WebhookEvents.WithLabelValues(string(event.Type), "error").Inc()
		return "", err
	}

	WebhookEvents.WithLabelValues(string(event.Type), string(outcome)).Inc()
	if event.Type == EventCheckoutCompleted && outcome == tables.EventOutcomeProcessed {
		OrdersCreated.WithLabelValues(orderSourceSession).Inc()
	}
	return outcome, nil
}

type eventHandler func(ctx context.Context, tx bun.Tx, event *PaymentEvent) (tables.EventOutcome, error)

// record claims the event id and runs handler in one transaction. When handler fails the claim is
// rolled back with everything else, so the processor's redelivery gets another attempt.
func (ws *WebhookService) record(ctx context.Context, event *PaymentEvent, handler eventHandler) (tables.EventOutcome, error) {
	var outcome tables.EventOutcome

	err := ws.db.Transaction(ctx, func(ctx context.Context, tx bun.Tx) error {
		claim := &tables.ProcessedEvent{
			EventID:   event.ID,
			EventType: string(event.Type),
			Outcome:   tables.EventOutcomeProcessed,
		}
		res, err := tx.NewInsert().Model(claim).On("CONFLICT (event_id) DO NOTHING").Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errDuplicateEvent
		}

		outcome, err = handler(ctx, tx, event)
		if err != nil {
			return err
		}

		if outcome != tables.EventOutcomeProcessed {
			_, err = tx.NewUpdate().
				Model(claim).
				Set("outcome = ?", outcome).
				WherePK().
				Exec(ctx)
		}
		return err
	})

	return outcome, err
}

// paymentSucceeded marks the newest pending order of the cart's customer as paid. It never creates
// an order.
func (ws *WebhookService) paymentSucceeded(ctx context.Context, tx bun.Tx, event *PaymentEvent) (tables.EventOutcome, error) {
	if event.CartToken == "" {
		ws.logger.Warn("Payment event without cart reference", gecho.Field("event_id", event.ID))
		return tables.EventOutcomeIgnored, nil
	}

	cart, err := ws.cartService.GetCart(ctx, tx, event.CartToken)
	if err != nil {
		return "", err
	}
	if cart.CustomerID == nil {
		ws.logger.Warn("Unreconciled payment: cart has no customer",
			gecho.Field("event_id", event.ID),
			gecho.Field("cart_id", cart.ID),
		)
		return tables.EventOutcomeUnreconciled, nil
	}

	order, err := latestPendingOrder(ctx, tx, *cart.CustomerID)
	if err != nil {
		return "", err
	}
	if order == nil {
		ws.logger.Warn("Unreconciled payment: no pending order",
			gecho.Field("event_id", event.ID),
			gecho.Field("customer_id", *cart.CustomerID),
		)
		return tables.EventOutcomeUnreconciled, nil
	}

	if err := markPaid(ctx, tx, order, event.PaymentReference); err != nil {
		return "", err
	}

	ws.logger.Info("Order marked as paid",
		gecho.Field("order_id", order.ID),
		gecho.Field("payment_intent", event.PaymentReference),
	)
	return tables.EventOutcomeProcessed, nil
}

// checkoutCompleted creates the order for a hosted checkout from the still filled cart and confirms
// its payment.
func (ws *WebhookService) checkoutCompleted(ctx context.Context, tx bun.Tx, event *PaymentEvent) (tables.EventOutcome, error) {
	if event.CartToken == "" {
		ws.logger.Warn("Checkout session without cart reference", gecho.Field("event_id", event.ID))
		return tables.EventOutcomeIgnored, nil
	}

	cart, err := lockCart(ctx, tx, event.CartToken)
	if err != nil {
		return "", err
	}

	items, err := cartItems(ctx, tx, cart.ID)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		ws.logger.Warn("Checkout session for an empty cart",
			gecho.Field("event_id", event.ID),
			gecho.Field("cart_id", cart.ID),
		)
		return tables.EventOutcomeIgnored, nil
	}

	if event.Email == "" {
		ws.logger.Warn("Checkout session without customer email",
			gecho.Field("event_id", event.ID),
			gecho.Field("session_id", event.SessionID),
		)
		return tables.EventOutcomeIgnored, nil
	}

	order, _, err := ws.checkoutService.placeOrder(ctx, tx, cart, items, orderPlacement{
		Identity:         CustomerIdentity{Email: event.Email, Name: event.Name},
		Shipping:         event.Shipping,
		Notes:            "Order created from checkout session " + event.SessionID,
		PaymentReference: event.PaymentReference,
	})
	if err != nil {
		return "", err
	}

	ws.logger.Info("Order created from checkout session",
		gecho.Field("order_id", order.ID),
		gecho.Field("session_id", event.SessionID),
		gecho.Field("total", order.TotalAmount.StringFixed(2)),
	)
	return tables.EventOutcomeProcessed, nil
}
