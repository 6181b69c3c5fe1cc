package billing

import (
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
	"github.com/stripe/stripe-go/v74/customer"
	"github.com/stripe/stripe-go/v74/subscription"
)

// StripeProvider Provider arayüzünün stripe-go implementasyonu
type StripeProvider struct{}

func NewStripeProvider(apiKey string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{}
}

func (p *StripeProvider) CreateCustomer(email, name string) (string, error) {
	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}

	cust, err := customer.New(params)
	if err != nil {
		return "", fmt.Errorf("could not create Stripe customer: %w", err)
	}

	return cust.ID, nil
}

func (p *StripeProvider) CreateCheckoutSession(params CheckoutParams) (string, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:          stripe.String(params.CustomerRef),
		ClientReferenceID: stripe.String(strconv.FormatUint(uint64(params.UserID), 10)),
		SuccessURL:        stripe.String(params.SuccessURL),
		CancelURL:         stripe.String(params.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(params.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
	}
	// Webhook tarafında kademeyi geri okuyabilmek için
	sessionParams.AddMetadata("tier", string(params.Tier))

	sess, err := session.New(sessionParams)
	if err != nil {
		return "", fmt.Errorf("could not create checkout session: %w", err)
	}

	return sess.URL, nil
}

func (p *StripeProvider) ListActiveSubscriptions(customerRef string) ([]ProviderSubscription, error) {
	params := &stripe.SubscriptionListParams{
		Customer: stripe.String(customerRef),
		Status:   stripe.String(string(stripe.SubscriptionStatusActive)),
	}

	var subs []ProviderSubscription
	iter := subscription.List(params)
	for iter.Next() {
		s := iter.Subscription()
		ps := ProviderSubscription{
			ID:                s.ID,
			CancelAtPeriodEnd: s.CancelAtPeriodEnd,
			CurrentPeriodEnd:  s.CurrentPeriodEnd,
		}
		if s.Items != nil && len(s.Items.Data) > 0 {
			ps.ItemID = s.Items.Data[0].ID
			if s.Items.Data[0].Price != nil {
				ps.PriceID = s.Items.Data[0].Price.ID
			}
		}
		subs = append(subs, ps)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("could not list subscriptions: %w", err)
	}

	return subs, nil
}

func (p *StripeProvider) SetCancelAtPeriodEnd(subscriptionID string, cancel bool) error {
	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(cancel),
	}

	if _, err := subscription.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("could not update subscription %s: %w", subscriptionID, err)
	}
	return nil
}

func (p *StripeProvider) UpdateSubscriptionPrice(subscriptionID, itemID, priceID string) error {
	params := &stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{
				ID:    stripe.String(itemID),
				Price: stripe.String(priceID),
			},
		},
		ProrationBehavior: stripe.String("create_prorations"),
	}

	if _, err := subscription.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("could not update subscription %s price: %w", subscriptionID, err)
	}
	return nil
}
