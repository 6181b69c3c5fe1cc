package model

import "gorm.io/gorm"

// Plan satın alınabilir abonelik kademelerinin kataloğu
type Plan struct {
	gorm.Model
	Tier          string  `json:"tier" gorm:"uniqueIndex;not null"`
	Name          string  `json:"name" gorm:"not null"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" gorm:"not null"`
	PixelGrant    int     `json:"pixel_grant" gorm:"not null"`
	StripePriceID string  `json:"stripe_price_id"`
}
