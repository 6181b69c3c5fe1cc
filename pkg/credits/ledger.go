package credits

import (
	"errors"

	"pixelwall_backend/pkg/plan"
)

var (
	ErrUnknownTier   = errors.New("unknown plan tier")
	ErrInvalidAmount = errors.New("pixel amount must be positive")
)

// AccountStore pixel bakiyesini değiştirebilen depo
type AccountStore interface {
	AdjustPixels(userID uint, delta int) error
}

// Ledger plan kademesine veya özel miktara göre pixel yükler
type Ledger struct {
	accounts AccountStore
}

func NewLedger(accounts AccountStore) *Ledger {
	return &Ledger{accounts: accounts}
}

// GrantTier kademenin sabit tablosundaki miktarı yükler ve miktarı döner
func (l *Ledger) GrantTier(userID uint, tier plan.Type) (int, error) {
	amount, ok := plan.PixelGrants[tier]
	if !ok {
		return 0, ErrUnknownTier
	}
	if err := l.accounts.AdjustPixels(userID, amount); err != nil {
		return 0, err
	}
	return amount, nil
}

// GrantCustom admin veya promosyon kaynaklı serbest miktar yükler
func (l *Ledger) GrantCustom(userID uint, pixels int) error {
	if pixels <= 0 {
		return ErrInvalidAmount
	}
	return l.accounts.AdjustPixels(userID, pixels)
}
