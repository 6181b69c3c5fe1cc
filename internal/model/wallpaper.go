package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Wallpaper struct {
	gorm.Model
	Title        string `json:"title" gorm:"not null"`
	Slug         string `json:"slug" gorm:"uniqueIndex;not null"`
	Description  string `json:"description"`
	Category     string `json:"category" gorm:"index"`
	ContentType  string `json:"content_type"`
	StorageKey   string `json:"-" gorm:"not null"`
	ThumbnailKey string `json:"-"`
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`

	// Çözünürlük varyantları, ör: {"4k": "storage-key", "8k": "storage-key"}
	Resolutions datatypes.JSON `json:"resolutions"`

	DownloadCount int64 `json:"download_count" gorm:"default:0"`

	UploadedByID uint `json:"uploaded_by_id"`
	UploadedBy   User `json:"-" gorm:"foreignKey:UploadedByID"`
}
