package promo

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pixelwall_backend/internal/model"
	"pixelwall_backend/pkg/credits"
)

var (
	ErrInvalidAmount   = errors.New("pixel amount must be positive")
	ErrNotFound        = errors.New("promo code not found")
	ErrAlreadyRedeemed = errors.New("promo code already redeemed")
	ErrExpired         = errors.New("promo code expired")
)

// CodeStore promo kodlarının kalıcı deposu. Claim çağrısı atomiktir:
// aynı kod için aynı anda gelen isteklerden yalnızca biri başarılı olur.
type CodeStore interface {
	Create(code *model.PromoCode) error
	Delete(id uint) error
	List() ([]model.PromoCode, error)
	GetByCode(code string) (*model.PromoCode, error)
	Claim(code string, userID uint) error
}

// Issuer promo kodu üretir, listeler ve kullanımını pixel yüklemesine bağlar
type Issuer struct {
	codes  CodeStore
	ledger *credits.Ledger
}

func NewIssuer(codes CodeStore, ledger *credits.Ledger) *Issuer {
	return &Issuer{codes: codes, ledger: ledger}
}

// Generate verilen miktara bağlı benzersiz bir kod üretir
func (i *Issuer) Generate(pixels int, expirationDate *time.Time) (*model.PromoCode, error) {
	if pixels <= 0 {
		return nil, ErrInvalidAmount
	}

	token := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
	code := &model.PromoCode{
		Code:           fmt.Sprintf("PW-%s", token),
		Pixels:         pixels,
		ExpirationDate: expirationDate,
		IsActive:       true,
	}

	if err := i.codes.Create(code); err != nil {
		return nil, err
	}
	return code, nil
}

func (i *Issuer) Delete(id uint) error {
	return i.codes.Delete(id)
}

func (i *Issuer) List() ([]model.PromoCode, error) {
	return i.codes.List()
}

// Redeem kodu atomik olarak sahiplenir ve pixel miktarını hesaba yükler.
// Kod en fazla bir kez kullanılabilir; süre dolmuşsa is_active olsa bile reddedilir.
func (i *Issuer) Redeem(code string, userID uint) (int, error) {
	pc, err := i.codes.GetByCode(code)
	if err != nil {
		return 0, ErrNotFound
	}

	if !pc.IsActive {
		return 0, ErrAlreadyRedeemed
	}
	if pc.IsExpired(time.Now()) {
		return 0, ErrExpired
	}

	// Önce kodu sahiplen, sonra yükle; yarışta kaybeden istek burada düşer
	if err := i.codes.Claim(code, userID); err != nil {
		return 0, ErrAlreadyRedeemed
	}

	if err := i.ledger.GrantCustom(userID, pc.Pixels); err != nil {
		return 0, err
	}

	return pc.Pixels, nil
}
