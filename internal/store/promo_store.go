package store

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"pixelwall_backend/internal/model"
)

var ErrCodeClaimed = errors.New("promo code already claimed")

type PromoStore struct {
	db *gorm.DB
}

func NewPromoStore(db *gorm.DB) *PromoStore {
	return &PromoStore{db: db}
}

func (s *PromoStore) Create(code *model.PromoCode) error {
	return s.db.Create(code).Error
}

func (s *PromoStore) Delete(id uint) error {
	res := s.db.Unscoped().Delete(&model.PromoCode{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PromoStore) List() ([]model.PromoCode, error) {
	var codes []model.PromoCode
	if err := s.db.Find(&codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

func (s *PromoStore) GetByCode(code string) (*model.PromoCode, error) {
	var pc model.PromoCode
	if err := s.db.Where("code = ?", code).First(&pc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pc, nil
}

// Claim kodu tek bir koşullu UPDATE ile pasifleştirir.
// RowsAffected == 0 ise kod başka bir istek tarafından çoktan kullanılmıştır.
func (s *PromoStore) Claim(code string, userID uint) error {
	now := time.Now()
	res := s.db.Model(&model.PromoCode{}).
		Where("code = ? AND is_active = ?", code, true).
		Updates(map[string]interface{}{
			"is_active":      false,
			"redeemed_by_id": userID,
			"redeemed_at":    now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCodeClaimed
	}
	return nil
}
