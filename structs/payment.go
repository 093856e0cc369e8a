package structs

type CheckoutSessionRequest struct {
	SuccessURL string `json:"success_url,omitempty" validate:"omitempty,url"`
	CancelURL  string `json:"cancel_url,omitempty" validate:"omitempty,url"`
}

type PaymentIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
}

type CheckoutSessionResponse struct {
	CheckoutURL string `json:"checkout_url"`
	SessionID   string `json:"session_id"`
}

type PaymentConfigResponse struct {
	PublishableKey string `json:"publishable_key"`
}
