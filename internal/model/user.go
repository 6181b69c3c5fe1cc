package model

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email    string `json:"email" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`

	// Abonelik ve pixel bakiyesi
	Plan   string `json:"plan" gorm:"not null;default:'free'"`
	Pixels int    `json:"pixels" gorm:"not null;default:0"`

	// Stripe referansları; customer ID ilk ödeme etkileşiminde oluşturulur
	StripeCustomerID  string `json:"-" gorm:"index"`
	StripeSubID       string `json:"-" gorm:"index"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end" gorm:"default:false"`

	// Sistem bilgileri
	IsAdmin bool `json:"is_admin" gorm:"default:false"`

	// İlişkiler
	DownloadLimit *DownloadLimit `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) GetPublicProfile() map[string]interface{} {
	return map[string]interface{}{
		"id":       u.ID,
		"username": u.Username,
		"email":    u.Email,
		"plan":     u.Plan,
		"pixels":   u.Pixels,
	}
}
