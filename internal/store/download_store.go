package store

import (
	"errors"

	"gorm.io/gorm"

	"pixelwall_backend/internal/model"
	"pixelwall_backend/pkg/plan"
)

var ErrNoAllowance = errors.New("no free downloads left")

// Sorgularda kullanılan kolon adları; model tag'leriyle eşleşmek zorunda
const (
	column4K = "downloads_available_4k"
	column8K = "downloads_available_8k"
)

type DownloadStore struct {
	db *gorm.DB
}

func NewDownloadStore(db *gorm.DB) *DownloadStore {
	return &DownloadStore{db: db}
}

func (s *DownloadStore) GetByUserID(userID uint) (*model.DownloadLimit, error) {
	var limit model.DownloadLimit
	if err := s.db.Where("user_id = ?", userID).First(&limit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &limit, nil
}

// ConsumeAllowance günlük ücretsiz hakkı koşullu UPDATE ile düşer.
// Hak kalmadıysa ErrNoAllowance döner, sayaç hiçbir zaman negatife inmez.
func (s *DownloadStore) ConsumeAllowance(userID uint, res plan.Resolution) error {
	column := column4K
	if res == plan.Res8K {
		column = column8K
	}

	result := s.db.Model(&model.DownloadLimit{}).
		Where("user_id = ? AND "+column+" > 0", userID).
		Update(column, gorm.Expr(column+" - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNoAllowance
	}
	return nil
}

// ResetAll tüm hesapların günlük sayaçlarını varsayılanlara çeker
func (s *DownloadStore) ResetAll() (int64, error) {
	res := s.db.Model(&model.DownloadLimit{}).
		Where("1 = 1").
		Updates(map[string]interface{}{
			column4K: model.DefaultDownloads4K,
			column8K: model.DefaultDownloads8K,
		})
	return res.RowsAffected, res.Error
}
