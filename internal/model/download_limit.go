package model

import "gorm.io/gorm"

// DownloadLimit kullanıcı başına günlük ücretsiz indirme hakları.
// Sayaçlar her gece cron tarafından varsayılanlara sıfırlanır.
type DownloadLimit struct {
	gorm.Model
	UserID               uint `json:"user_id" gorm:"uniqueIndex;not null"`
	DownloadsAvailable4K int  `json:"downloads_available_4k" gorm:"column:downloads_available_4k;not null;default:2"`
	DownloadsAvailable8K int  `json:"downloads_available_8k" gorm:"column:downloads_available_8k;not null;default:0"`
}

const (
	DefaultDownloads4K = 2
	DefaultDownloads8K = 0
)
