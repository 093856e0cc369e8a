package services

import (
	"ashtray_server/structs"
	"ashtray_server/structs/tables"
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/resend/resend-go/v3"
)

// EmailService sends transactional mail through Resend. Without an API key it only logs.
type EmailService struct {
	logger *gecho.Logger
	cfg    *structs.EmailConfig
	client *resend.Client
}

func NewEmailService(logger *gecho.Logger, cfg *structs.EmailConfig) *EmailService {
	es := &EmailService{logger: logger, cfg: cfg}
	if cfg != nil && cfg.ApiKey != "" {
		es.client = resend.NewClient(cfg.ApiKey)
	}
	return es
}

func (es *EmailService) Enabled() bool {
	return es != nil && es.client != nil
}

func (es *EmailService) SendEmail(ctx context.Context, to []string, subject string, body string) error {
	if !es.Enabled() {
		es.logger.Debug("Email disabled, not sending", gecho.Field("to", to), gecho.Field("subject", subject))
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    es.cfg.From,
		To:      to,
		Html:    body,
		Subject: subject,
	}

	if _, err := es.client.Emails.SendWithContext(ctx, params); err != nil {
		es.logger.Error("Failed to send email", gecho.Field("error", err), gecho.Field("to", to))
		return err
	}
	return nil
}

// SendOrderConfirmation mails the order summary to the customer. The order must have its items,
// products and shipping address loaded.
func (es *EmailService) SendOrderConfirmation(ctx context.Context, email, name string, order *tables.Order) error {
	var items strings.Builder
	for _, item := range order.Items {
		productName := fmt.Sprintf("Product #%d", item.ProductID)
		if item.Product != nil {
			productName = item.Product.Name
		}
		fmt.Fprintf(&items, "<li>%dx %s - $%s</li>", item.Quantity, html.EscapeString(productName), item.LineTotal().StringFixed(2))
	}

	address := "-"
	if a := order.ShippingAddress; a != nil {
		address = html.EscapeString(strings.Join(nonEmpty(
			strings.TrimSpace(a.StreetAddress+" "+a.ApartmentAddress),
			strings.TrimSpace(a.PostalCode+" "+a.City),
			a.State,
			a.Country,
		), ", "))
	}

	greeting := "Hi there"
	if name != "" {
		greeting = "Hi " + html.EscapeString(name)
	}

	body := fmt.Sprintf(`
		<!DOCTYPE html>
		<html>
		<head>
			<meta charset="UTF-8">
			<style>
				body { font-family: Arial, sans-serif; line-height: 1.6; color: #222; }
				.container { max-width: 600px; margin: 0 auto; padding: 20px; }
				.order-details { background-color: #f6f6f6; padding: 15px; border-radius: 5px; }
				ul { list-style-type: none; padding: 0; }
				li { padding: 5px 0; border-bottom: 1px solid #eee; }
			</style>
		</head>
		<body>
			<div class="container">
				<h1>Thanks for your order!</h1>
				<p>%s,</p>
				<p>We received your order. You will hear from us again once it ships.</p>
				<div class="order-details">
					<h3>Order <strong>%s</strong></h3>
					<ul>%s</ul>
					<p><strong>Total: $%s</strong></p>
					<h4>Shipping to</h4>
					<p>%s</p>
				</div>
			</div>
		</body>
		</html>
	`, greeting, order.ID, items.String(), order.TotalAmount.StringFixed(2), address)

	subject := fmt.Sprintf("Order confirmation %s", shortOrderID(order))
	return es.SendEmail(ctx, []string{email}, subject, body)
}

func shortOrderID(order *tables.Order) string {
	return strings.ToUpper(order.ID.String()[:8])
}

func nonEmpty(parts ...string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
