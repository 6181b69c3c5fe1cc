package billing

import "pixelwall_backend/pkg/plan"

// ProviderSubscription sağlayıcı tarafındaki aktif aboneliğin özeti
type ProviderSubscription struct {
	ID                string
	ItemID            string
	PriceID           string
	CancelAtPeriodEnd bool
	CurrentPeriodEnd  int64
}

// CheckoutParams yeni bir ödeme oturumu için gerekli alanlar
type CheckoutParams struct {
	UserID      uint
	Tier        plan.Type
	CustomerRef string
	PriceID     string
	SuccessURL  string
	CancelURL   string
}

// Provider harici fatura sağlayıcısına giden çağrıları soyutlar.
// Stripe implementasyonu stripe.go içinde.
type Provider interface {
	CreateCustomer(email, name string) (string, error)
	CreateCheckoutSession(params CheckoutParams) (string, error)
	ListActiveSubscriptions(customerRef string) ([]ProviderSubscription, error)
	SetCancelAtPeriodEnd(subscriptionID string, cancel bool) error
	UpdateSubscriptionPrice(subscriptionID, itemID, priceID string) error
}
