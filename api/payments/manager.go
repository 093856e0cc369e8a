package payments

import (
	"ashtray_server/services"
	"ashtray_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// maxWebhookBytes bounds processor notifications; real payloads are a few KiB.
const maxWebhookBytes = 64 * 1024

type PaymentRoutesManager struct {
	logger         *gecho.Logger
	cfg            *structs.Config
	cartService    *services.CartService
	paymentService *services.PaymentService
	webhookService *services.WebhookService
}

func NewPaymentRoutesManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	cartService *services.CartService,
	paymentService *services.PaymentService,
	webhookService *services.WebhookService,
) *PaymentRoutesManager {
	return &PaymentRoutesManager{
		logger:         logger,
		cfg:            cfg,
		cartService:    cartService,
		paymentService: paymentService,
		webhookService: webhookService,
	}
}

func (prm *PaymentRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/payments", func(r chi.Router) {
		r.Get("/config", prm.GetConfig)
		r.Post("/intent", prm.CreatePaymentIntent)
		r.Post("/checkout-session", prm.CreateCheckoutSession)
		r.Post("/webhook", prm.HandleWebhook)
	})
}
