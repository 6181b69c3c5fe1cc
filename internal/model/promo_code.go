package model

import (
	"time"

	"gorm.io/gorm"
)

// PromoCode tek kullanımlık pixel hediye kodu
type PromoCode struct {
	gorm.Model
	Code           string     `json:"code" gorm:"uniqueIndex;not null"`
	Pixels         int        `json:"pixels" gorm:"not null"`
	ExpirationDate *time.Time `json:"expiration_date"` // null = süresiz
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	RedeemedByID   *uint      `json:"redeemed_by_id"`
	RedeemedAt     *time.Time `json:"redeemed_at"`
}

// IsExpired son kullanma tarihi geçmiş mi kontrol eder
func (p *PromoCode) IsExpired(now time.Time) bool {
	return p.ExpirationDate != nil && now.After(*p.ExpirationDate)
}
