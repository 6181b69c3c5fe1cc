package billing

import (
	"errors"
	"fmt"
	"log"

	"pixelwall_backend/internal/model"
	"pixelwall_backend/pkg/credits"
	"pixelwall_backend/pkg/plan"
)

var (
	ErrNoActiveSubscription = errors.New("no active subscription")
	ErrNotCancelPending     = errors.New("subscription is not pending cancellation")
	ErrSamePlan             = errors.New("already on requested plan")
	ErrUnknownTier          = errors.New("unknown plan tier")
)

// AccountStore adapter'ın ihtiyaç duyduğu hesap mutasyonları
type AccountStore interface {
	GetByID(id uint) (*model.User, error)
	GetBySubscriptionID(subID string) (*model.User, error)
	SetPlan(userID uint, tier plan.Type, customerRef string) error
	SetSubscription(userID uint, subID string, cancelPending bool) error
}

// Adapter Stripe abonelik yaşam döngüsünü yerel hesap durumuyla eşitler.
// Yerel plan alanı sağlayıcı gerçeğinin önbelleğidir; mutasyonlar ancak
// sağlayıcı çağrısı doğrulandıktan sonra uygulanır.
type Adapter struct {
	accounts AccountStore
	provider Provider
	ledger   *credits.Ledger
}

func NewAdapter(accounts AccountStore, provider Provider, ledger *credits.Ledger) *Adapter {
	return &Adapter{accounts: accounts, provider: provider, ledger: ledger}
}

// HandleCheckoutCompleted checkout.session.completed webhook'unu işler.
// Aynı abonelik ID'si ile tekrar gelen event no-op'tur; pixel iki kez yüklenmez.
func (a *Adapter) HandleCheckoutCompleted(userID uint, tier plan.Type, customerRef, subscriptionID string) error {
	if !plan.IsPaid(tier) {
		return ErrUnknownTier
	}

	user, err := a.accounts.GetByID(userID)
	if err != nil {
		return err
	}

	// Webhook en az bir kez teslim edilir; tekrar oynatma kontrolü
	if user.StripeSubID == subscriptionID {
		log.Printf("checkout replay for subscription %s ignored", subscriptionID)
		return nil
	}

	// Önceki abonelik dönem sonunda kapanacak şekilde işaretlenir,
	// hemen iptal edilmez ki çifte faturalama olmadan dönem dolsun
	if user.StripeSubID != "" {
		if err := a.provider.SetCancelAtPeriodEnd(user.StripeSubID, true); err != nil {
			return fmt.Errorf("could not flag previous subscription %s: %w", user.StripeSubID, err)
		}
	}

	if err := a.accounts.SetPlan(userID, tier, customerRef); err != nil {
		return err
	}
	if err := a.accounts.SetSubscription(userID, subscriptionID, false); err != nil {
		return err
	}

	granted, err := a.ledger.GrantTier(userID, tier)
	if err != nil {
		return err
	}

	log.Printf("user %d upgraded to %s, granted %d pixels", userID, tier, granted)
	return nil
}

// HandleSubscriptionDeleted customer.subscription.deleted webhook'unu işler.
// Müşterinin başka aktif aboneliği varsa event yeni abonelik tarafından
// geçersiz kılınmıştır ve yok sayılır.
func (a *Adapter) HandleSubscriptionDeleted(subscriptionID string) error {
	user, err := a.accounts.GetBySubscriptionID(subscriptionID)
	if err != nil {
		// Bilinmeyen abonelik; tekrar teslimlerde sorun çıkarmamak için kabul et
		log.Printf("subscription.deleted for unknown subscription %s ignored", subscriptionID)
		return nil
	}

	subs, err := a.provider.ListActiveSubscriptions(user.StripeCustomerID)
	if err != nil {
		return fmt.Errorf("could not verify remaining subscriptions: %w", err)
	}
	for _, sub := range subs {
		if sub.ID != subscriptionID {
			log.Printf("user %d still has active subscription %s, keeping plan %s", user.ID, sub.ID, user.Plan)
			return nil
		}
	}

	if err := a.accounts.SetPlan(user.ID, plan.Free, ""); err != nil {
		return err
	}
	if err := a.accounts.SetSubscription(user.ID, "", false); err != nil {
		return err
	}

	log.Printf("user %d downgraded to free after subscription %s ended", user.ID, subscriptionID)
	return nil
}

// Cancel aboneliği dönem sonunda bitecek şekilde işaretler ve dönem
// sonunu unix zaman damgası olarak döner. Plan dönem sonuna kadar aktif
// kalır, pixel bakiyesi değişmez.
func (a *Adapter) Cancel(userID uint) (int64, error) {
	user, err := a.accounts.GetByID(userID)
	if err != nil {
		return 0, err
	}
	if user.StripeSubID == "" {
		return 0, ErrNoActiveSubscription
	}

	subs, err := a.provider.ListActiveSubscriptions(user.StripeCustomerID)
	if err != nil {
		return 0, fmt.Errorf("could not look up subscription: %w", err)
	}
	var periodEnd int64
	for _, sub := range subs {
		if sub.ID == user.StripeSubID {
			periodEnd = sub.CurrentPeriodEnd
			break
		}
	}

	if err := a.provider.SetCancelAtPeriodEnd(user.StripeSubID, true); err != nil {
		return 0, fmt.Errorf("could not cancel subscription: %w", err)
	}

	if err := a.accounts.SetSubscription(userID, user.StripeSubID, true); err != nil {
		return 0, err
	}
	return periodEnd, nil
}

// Renew dönem sonu iptalini geri alır; sadece iptal beklerken geçerlidir
func (a *Adapter) Renew(userID uint) error {
	user, err := a.accounts.GetByID(userID)
	if err != nil {
		return err
	}
	if user.StripeSubID == "" {
		return ErrNoActiveSubscription
	}
	if !user.CancelAtPeriodEnd {
		return ErrNotCancelPending
	}

	if err := a.provider.SetCancelAtPeriodEnd(user.StripeSubID, false); err != nil {
		return fmt.Errorf("could not renew subscription: %w", err)
	}

	return a.accounts.SetSubscription(userID, user.StripeSubID, false)
}

// ChangePlan mevcut aboneliğin fiyatını oransal düzeltme ile değiştirir,
// sonra yerel planı günceller ve yeni kademenin pixel hakkını yükler
func (a *Adapter) ChangePlan(userID uint, newTier plan.Type, newPriceID string) error {
	if !plan.IsPaid(newTier) {
		return ErrUnknownTier
	}

	user, err := a.accounts.GetByID(userID)
	if err != nil {
		return err
	}
	if user.StripeSubID == "" {
		return ErrNoActiveSubscription
	}
	if user.Plan == string(newTier) {
		return ErrSamePlan
	}

	subs, err := a.provider.ListActiveSubscriptions(user.StripeCustomerID)
	if err != nil {
		return fmt.Errorf("could not list subscriptions: %w", err)
	}

	var current *ProviderSubscription
	for i := range subs {
		if subs[i].ID == user.StripeSubID {
			current = &subs[i]
			break
		}
	}
	if current == nil {
		return ErrNoActiveSubscription
	}

	if err := a.provider.UpdateSubscriptionPrice(current.ID, current.ItemID, newPriceID); err != nil {
		return fmt.Errorf("could not update subscription price: %w", err)
	}

	if err := a.accounts.SetPlan(userID, newTier, ""); err != nil {
		return err
	}

	granted, err := a.ledger.GrantTier(userID, newTier)
	if err != nil {
		return err
	}

	log.Printf("user %d changed plan %s -> %s, granted %d pixels", userID, user.Plan, newTier, granted)
	return nil
}
