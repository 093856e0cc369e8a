package payments

import (
	"ashtray_server/handling"
	"errors"
	"io"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// HandleWebhook handles POST /payments/webhook. Duplicates and events that need no action still get a
// 200 so the processor stops redelivering them.
func (prm *PaymentRoutesManager) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			prm.logger.Warn("Webhook payload too large", gecho.Field("limit", tooLarge.Limit))
			gecho.BadRequest(w, gecho.WithMessage("Payload too large"), gecho.Send())
			return
		}
		prm.logger.Warn("Failed to read webhook payload", gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage("Invalid payload"), gecho.Send())
		return
	}

	outcome, err := prm.webhookService.HandleNotification(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		handling.HandleError(err, "Webhook processing failed", prm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"received": true,
			"outcome":  outcome,
		}),
		gecho.Send(),
	)
}
