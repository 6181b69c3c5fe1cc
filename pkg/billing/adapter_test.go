package billing

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"pixelwall_backend/internal/model"
	"pixelwall_backend/pkg/credits"
	"pixelwall_backend/pkg/plan"
)

var errInsufficient = errors.New("insufficient pixel balance")

// fakeAccounts tek satır atomik güncellemeleri taklit eden bellek içi depo
type fakeAccounts struct {
	mu    sync.Mutex
	users map[uint]*model.User
}

func newFakeAccounts(users ...*model.User) *fakeAccounts {
	f := &fakeAccounts{users: make(map[uint]*model.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeAccounts) GetByID(id uint) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *u
	return &copied, nil
}

func (f *fakeAccounts) GetBySubscriptionID(subID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.StripeSubID == subID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errors.New("record not found")
}

func (f *fakeAccounts) SetPlan(userID uint, tier plan.Type, customerRef string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return errors.New("record not found")
	}
	u.Plan = string(tier)
	if customerRef != "" && u.StripeCustomerID == "" {
		u.StripeCustomerID = customerRef
	}
	return nil
}

func (f *fakeAccounts) SetSubscription(userID uint, subID string, cancelPending bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return errors.New("record not found")
	}
	u.StripeSubID = subID
	u.CancelAtPeriodEnd = cancelPending
	return nil
}

func (f *fakeAccounts) AdjustPixels(userID uint, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return errors.New("record not found")
	}
	if u.Pixels+delta < 0 {
		return errInsufficient
	}
	u.Pixels += delta
	return nil
}

// fakeProvider yapılan çağrıları kaydeder
type fakeProvider struct {
	subs          map[string][]ProviderSubscription // customerRef -> aktif abonelikler
	cancelFlags   map[string]bool
	priceUpdates  map[string]string // subID -> yeni price
	failNextCall  bool
	customerCount int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		subs:         make(map[string][]ProviderSubscription),
		cancelFlags:  make(map[string]bool),
		priceUpdates: make(map[string]string),
	}
}

func (p *fakeProvider) CreateCustomer(email, name string) (string, error) {
	p.customerCount++
	return "cust_fake", nil
}

func (p *fakeProvider) CreateCheckoutSession(params CheckoutParams) (string, error) {
	return "https://checkout.example/session", nil
}

func (p *fakeProvider) ListActiveSubscriptions(customerRef string) ([]ProviderSubscription, error) {
	if p.failNextCall {
		p.failNextCall = false
		return nil, errors.New("provider unavailable")
	}
	return p.subs[customerRef], nil
}

func (p *fakeProvider) SetCancelAtPeriodEnd(subscriptionID string, cancel bool) error {
	if p.failNextCall {
		p.failNextCall = false
		return errors.New("provider unavailable")
	}
	p.cancelFlags[subscriptionID] = cancel
	return nil
}

func (p *fakeProvider) UpdateSubscriptionPrice(subscriptionID, itemID, priceID string) error {
	if p.failNextCall {
		p.failNextCall = false
		return errors.New("provider unavailable")
	}
	p.priceUpdates[subscriptionID] = priceID
	return nil
}

func newTestAdapter(accounts *fakeAccounts, provider *fakeProvider) *Adapter {
	return NewAdapter(accounts, provider, credits.NewLedger(accounts))
}

func freshUser(id uint) *model.User {
	u := &model.User{Plan: string(plan.Free), Pixels: 0}
	u.ID = id
	return u
}

func TestCheckoutCompleted(t *testing.T) {
	t.Run("fresh account premium checkout", func(t *testing.T) {
		accounts := newFakeAccounts(freshUser(1))
		provider := newFakeProvider()
		adapter := newTestAdapter(accounts, provider)

		err := adapter.HandleCheckoutCompleted(1, plan.Premium, "cust_123", "sub_1")
		assert.NoError(t, err)

		user, _ := accounts.GetByID(1)
		assert.Equal(t, "premium", user.Plan)
		assert.Equal(t, 60, user.Pixels)
		assert.Equal(t, "cust_123", user.StripeCustomerID)
		assert.Equal(t, "sub_1", user.StripeSubID)
	})

	t.Run("replay does not grant twice", func(t *testing.T) {
		accounts := newFakeAccounts(freshUser(1))
		provider := newFakeProvider()
		adapter := newTestAdapter(accounts, provider)

		assert.NoError(t, adapter.HandleCheckoutCompleted(1, plan.Premium, "cust_123", "sub_1"))
		assert.NoError(t, adapter.HandleCheckoutCompleted(1, plan.Premium, "cust_123", "sub_1"))

		user, _ := accounts.GetByID(1)
		assert.Equal(t, "premium", user.Plan)
		assert.Equal(t, 60, user.Pixels, "replayed checkout must not grant pixels again")
		assert.Empty(t, provider.cancelFlags, "replay must not flag anything for cancellation")
	})

	t.Run("upgrade flags previous subscription for period end", func(t *testing.T) {
		user := freshUser(1)
		user.Plan = "premium"
		user.Pixels = 60
		user.StripeCustomerID = "cust_1"
		user.StripeSubID = "sub_1"

		accounts := newFakeAccounts(user)
		provider := newFakeProvider()
		adapter := newTestAdapter(accounts, provider)

		err := adapter.HandleCheckoutCompleted(1, plan.King, "cust_1", "sub_2")
		assert.NoError(t, err)

		updated, _ := accounts.GetByID(1)
		assert.Equal(t, "king", updated.Plan)
		assert.Equal(t, 60+125, updated.Pixels)
		assert.Equal(t, "sub_2", updated.StripeSubID)
		assert.True(t, provider.cancelFlags["sub_1"], "old subscription must be flagged cancel-at-period-end")
	})

	t.Run("provider failure aborts before local mutation", func(t *testing.T) {
		user := freshUser(1)
		user.Plan = "premium"
		user.Pixels = 60
		user.StripeSubID = "sub_1"

		accounts := newFakeAccounts(user)
		provider := newFakeProvider()
		provider.failNextCall = true
		adapter := newTestAdapter(accounts, provider)

		err := adapter.HandleCheckoutCompleted(1, plan.King, "cust_1", "sub_2")
		assert.Error(t, err)

		unchanged, _ := accounts.GetByID(1)
		assert.Equal(t, "premium", unchanged.Plan)
		assert.Equal(t, 60, unchanged.Pixels)
		assert.Equal(t, "sub_1", unchanged.StripeSubID)
	})

	t.Run("unknown tier rejected", func(t *testing.T) {
		accounts := newFakeAccounts(freshUser(1))
		adapter := newTestAdapter(accounts, newFakeProvider())

		err := adapter.HandleCheckoutCompleted(1, plan.Type("platinum"), "cust_1", "sub_1")
		assert.ErrorIs(t, err, ErrUnknownTier)
	})
}

func TestSubscriptionDeleted(t *testing.T) {
	t.Run("downgrades to free when no active subscription remains", func(t *testing.T) {
		user := freshUser(1)
		user.Plan = "king"
		user.Pixels = 125
		user.StripeCustomerID = "cust_1"
		user.StripeSubID = "sub_1"

		accounts := newFakeAccounts(user)
		provider := newFakeProvider()
		adapter := newTestAdapter(accounts, provider)

		err := adapter.HandleSubscriptionDeleted("sub_1")
		assert.NoError(t, err)

		updated, _ := accounts.GetByID(1)
		assert.Equal(t, "free", updated.Plan)
		assert.Equal(t, 125, updated.Pixels, "downgrade must not touch the pixel balance")
		assert.Empty(t, updated.StripeSubID)
	})

	t.Run("no-op while another active subscription exists", func(t *testing.T) {
		user := freshUser(1)
		user.Plan = "king"
		user.StripeCustomerID = "cust_1"
		user.StripeSubID = "sub_1"

		accounts := newFakeAccounts(user)
		provider := newFakeProvider()
		provider.subs["cust_1"] = []ProviderSubscription{{ID: "sub_2", PriceID: "price_king"}}
		adapter := newTestAdapter(accounts, provider)

		err := adapter.HandleSubscriptionDeleted("sub_1")
		assert.NoError(t, err)

		updated, _ := accounts.GetByID(1)
		assert.Equal(t, "king", updated.Plan, "deletion of a superseded subscription must not downgrade")
	})

	t.Run("unknown subscription acknowledged silently", func(t *testing.T) {
		accounts := newFakeAccounts(freshUser(1))
		adapter := newTestAdapter(accounts, newFakeProvider())

		assert.NoError(t, adapter.HandleSubscriptionDeleted("sub_unknown"))
	})
}

func TestCancelAndRenew(t *testing.T) {
	paidUser := func() *model.User {
		u := freshUser(1)
		u.Plan = "premium"
		u.Pixels = 60
		u.StripeCustomerID = "cust_1"
		u.StripeSubID = "sub_1"
		return u
	}

	t.Run("cancel marks period end without plan change", func(t *testing.T) {
		accounts := newFakeAccounts(paidUser())
		provider := newFakeProvider()
		provider.subs["cust_1"] = []ProviderSubscription{{ID: "sub_1", CurrentPeriodEnd: 1767225600}}
		adapter := newTestAdapter(accounts, provider)

		periodEnd, err := adapter.Cancel(1)
		assert.NoError(t, err)
		assert.Equal(t, int64(1767225600), periodEnd, "must report the provider's real period end")

		user, _ := accounts.GetByID(1)
		assert.Equal(t, "premium", user.Plan)
		assert.Equal(t, 60, user.Pixels)
		assert.True(t, user.CancelAtPeriodEnd)
		assert.True(t, provider.cancelFlags["sub_1"])
	})

	t.Run("cancel then renew restores paid tier with no credit change", func(t *testing.T) {
		accounts := newFakeAccounts(paidUser())
		provider := newFakeProvider()
		adapter := newTestAdapter(accounts, provider)

		_, err := adapter.Cancel(1)
		assert.NoError(t, err)
		assert.NoError(t, adapter.Renew(1))

		user, _ := accounts.GetByID(1)
		assert.Equal(t, "premium", user.Plan)
		assert.Equal(t, 60, user.Pixels)
		assert.False(t, user.CancelAtPeriodEnd)
		assert.False(t, provider.cancelFlags["sub_1"])
		assert.Empty(t, provider.priceUpdates, "renew must not touch the provider plan")
	})

	t.Run("renew without pending cancel rejected", func(t *testing.T) {
		accounts := newFakeAccounts(paidUser())
		adapter := newTestAdapter(accounts, newFakeProvider())

		assert.ErrorIs(t, adapter.Renew(1), ErrNotCancelPending)
	})

	t.Run("cancel without subscription rejected", func(t *testing.T) {
		accounts := newFakeAccounts(freshUser(1))
		adapter := newTestAdapter(accounts, newFakeProvider())

		_, err := adapter.Cancel(1)
		assert.ErrorIs(t, err, ErrNoActiveSubscription)
	})
}

func TestChangePlan(t *testing.T) {
	kingUser := func() *model.User {
		u := freshUser(1)
		u.Plan = "king"
		u.Pixels = 125
		u.StripeCustomerID = "cust_1"
		u.StripeSubID = "sub_1"
		return u
	}

	t.Run("king to premium updates price and grants premium amount", func(t *testing.T) {
		accounts := newFakeAccounts(kingUser())
		provider := newFakeProvider()
		provider.subs["cust_1"] = []ProviderSubscription{{ID: "sub_1", ItemID: "si_1", PriceID: "price_king"}}
		adapter := newTestAdapter(accounts, provider)

		err := adapter.ChangePlan(1, plan.Premium, "price_premium")
		assert.NoError(t, err)

		user, _ := accounts.GetByID(1)
		assert.Equal(t, "premium", user.Plan)
		assert.Equal(t, 125+60, user.Pixels)
		assert.Equal(t, "price_premium", provider.priceUpdates["sub_1"])
	})

	t.Run("provider failure leaves local state untouched", func(t *testing.T) {
		accounts := newFakeAccounts(kingUser())
		provider := newFakeProvider()
		provider.subs["cust_1"] = []ProviderSubscription{{ID: "sub_1", ItemID: "si_1", PriceID: "price_king"}}
		adapter := newTestAdapter(accounts, provider)
		provider.failNextCall = true

		err := adapter.ChangePlan(1, plan.Premium, "price_premium")
		assert.Error(t, err)

		user, _ := accounts.GetByID(1)
		assert.Equal(t, "king", user.Plan)
		assert.Equal(t, 125, user.Pixels)
	})

	t.Run("same plan rejected", func(t *testing.T) {
		accounts := newFakeAccounts(kingUser())
		adapter := newTestAdapter(accounts, newFakeProvider())

		assert.ErrorIs(t, adapter.ChangePlan(1, plan.King, "price_king"), ErrSamePlan)
	})

	t.Run("without subscription rejected", func(t *testing.T) {
		accounts := newFakeAccounts(freshUser(1))
		adapter := newTestAdapter(accounts, newFakeProvider())

		assert.ErrorIs(t, adapter.ChangePlan(1, plan.Premium, "price_premium"), ErrNoActiveSubscription)
	})
}
