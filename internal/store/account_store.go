package store

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pixelwall_backend/internal/model"
	"pixelwall_backend/pkg/plan"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateIdentity  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInsufficientPixels = errors.New("insufficient pixel balance")
	ErrNoChange           = errors.New("no change")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already taken")
)

type AccountStore struct {
	db *gorm.DB
}

func NewAccountStore(db *gorm.DB) *AccountStore {
	return &AccountStore{db: db}
}

// Create yeni hesap oluşturur; şifre bcrypt ile hashlenir, plan=free, pixels=0
func (s *AccountStore) Create(username, email, password string) (*model.User, error) {
	var count int64
	if err := s.db.Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateIdentity
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := model.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		Plan:     string(plan.Free),
		Pixels:   0,
	}

	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	// Günlük indirme hakları hesapla birlikte açılır
	limit := model.DownloadLimit{
		UserID:               user.ID,
		DownloadsAvailable4K: model.DefaultDownloads4K,
		DownloadsAvailable8K: model.DefaultDownloads8K,
	}
	if err := s.db.Create(&limit).Error; err != nil {
		return nil, err
	}

	return &user, nil
}

// Authenticate email + şifre doğrulaması yapar
func (s *AccountStore) Authenticate(email, password string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *AccountStore) GetByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AccountStore) GetByCustomerRef(ref string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("stripe_customer_id = ?", ref).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *AccountStore) GetBySubscriptionID(subID string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("stripe_sub_id = ?", subID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// SetPlan planı günceller. Customer referansı sadece boşsa yazılır,
// mevcut bir referansın üzerine asla yazılmaz.
func (s *AccountStore) SetPlan(userID uint, tier plan.Type, customerRef string) error {
	res := s.db.Model(&model.User{}).Where("id = ?", userID).Update("plan", string(tier))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}

	if customerRef != "" {
		if err := s.db.Model(&model.User{}).
			Where("id = ? AND (stripe_customer_id IS NULL OR stripe_customer_id = '')", userID).
			Update("stripe_customer_id", customerRef).Error; err != nil {
			return err
		}
	}

	return nil
}

// SetCustomerRef referansı sadece henüz atanmadıysa yazar
func (s *AccountStore) SetCustomerRef(userID uint, customerRef string) error {
	return s.db.Model(&model.User{}).
		Where("id = ? AND (stripe_customer_id IS NULL OR stripe_customer_id = '')", userID).
		Update("stripe_customer_id", customerRef).Error
}

// SetSubscription aktif abonelik kaydını ve iptal-bekliyor bayrağını günceller
func (s *AccountStore) SetSubscription(userID uint, subID string, cancelPending bool) error {
	res := s.db.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"stripe_sub_id":        subID,
		"cancel_at_period_end": cancelPending,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustPixels bakiyeyi tek bir koşullu UPDATE ile değiştirir.
// Bakiye hiçbir zaman negatife düşemez.
func (s *AccountStore) AdjustPixels(userID uint, delta int) error {
	res := s.db.Model(&model.User{}).
		Where("id = ? AND pixels + ? >= 0", userID, delta).
		Update("pixels", gorm.Expr("pixels + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Ya hesap yok ya da bakiye yetersiz
		if _, err := s.GetByID(userID); err != nil {
			return err
		}
		return ErrInsufficientPixels
	}
	return nil
}

// UpdateIdentity kullanıcı adı ve/veya email değiştirir
func (s *AccountStore) UpdateIdentity(userID uint, newUsername, newEmail string) (*model.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if newUsername == "" {
		newUsername = user.Username
	}
	if newEmail == "" {
		newEmail = user.Email
	}
	if newUsername == user.Username && newEmail == user.Email {
		return nil, ErrNoChange
	}

	if newUsername != user.Username {
		var count int64
		if err := s.db.Model(&model.User{}).
			Where("username = ? AND id <> ?", newUsername, userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrUsernameTaken
		}
	}

	if newEmail != user.Email {
		var count int64
		if err := s.db.Model(&model.User{}).
			Where("email = ? AND id <> ?", newEmail, userID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
	}

	if err := s.db.Model(user).Updates(map[string]interface{}{
		"username": newUsername,
		"email":    newEmail,
	}).Error; err != nil {
		return nil, err
	}

	user.Username = newUsername
	user.Email = newEmail
	return user, nil
}

// UpdatePassword eski şifreyi doğrulayıp yenisini hashleyerek yazar
func (s *AccountStore) UpdatePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return s.db.Model(user).Update("password", string(hashed)).Error
}
