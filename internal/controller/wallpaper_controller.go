package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"pixelwall_backend/internal/model"
	"pixelwall_backend/internal/store"
	"pixelwall_backend/pkg/database"
	"pixelwall_backend/pkg/plan"
	"pixelwall_backend/pkg/utils/image"
	"pixelwall_backend/pkg/utils/jwt"
	"pixelwall_backend/pkg/utils/storage"
)

var downloads *store.DownloadStore

func InitWallpaperController(downloadStore *store.DownloadStore) {
	downloads = downloadStore
}

type allowanceConsumer interface {
	ConsumeAllowance(userID uint, res plan.Resolution) error
}

type pixelCharger interface {
	AdjustPixels(userID uint, delta int) error
}

// chargeDownload önce günlük ücretsiz hakkı dener, hak yoksa pixel
// bakiyesinden çözünürlüğün maliyetini düşer. Dönen etiket yanıtta
// tahsilat şeklini bildirir.
func chargeDownload(allowances allowanceConsumer, balances pixelCharger, userID uint, res plan.Resolution) (string, error) {
	err := allowances.ConsumeAllowance(userID, res)
	if err == nil {
		return "free_daily", nil
	}
	if !errors.Is(err, store.ErrNoAllowance) {
		return "", err
	}

	cost := plan.PixelCosts[res]
	if err := balances.AdjustPixels(userID, -cost); err != nil {
		return "", err
	}
	return fmt.Sprintf("%d_pixels", cost), nil
}

// UploadWallpaper yeni duvar kağıdı yükler (admin)
func UploadWallpaper(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	title := c.FormValue("title")
	if title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}
	category := c.FormValue("category")

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	if file.Size > image.MaxImageSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File size too large",
		})
	}

	contentType := file.Header.Get("Content-Type")
	if !image.AllowedImageTypes[contentType] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Only JPEG, PNG and WebP files are allowed",
		})
	}

	processed, processedType, err := image.ProcessImage(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Could not process image",
		})
	}

	// Benzersiz storage key: slug + kısa uuid
	wallpaperSlug := slug.Make(title)
	uniqueID := uuid.New().String()[:8]
	storageKey := fmt.Sprintf("wallpapers/%s-%s/%d_original", wallpaperSlug, uniqueID, time.Now().Unix())

	fileURL, err := storage.UploadFile(processed, processedType, storageKey)
	if err != nil {
		log.Printf("Could not upload wallpaper: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not upload file",
		})
	}

	var thumbnailKey, thumbnailURL string
	if thumb, err := image.MakeThumbnail(file); err == nil {
		thumbnailKey = fmt.Sprintf("wallpapers/%s-%s/thumb.webp", wallpaperSlug, uniqueID)
		if url, err := storage.UploadFile(thumb, "image/webp", thumbnailKey); err == nil {
			thumbnailURL = url
		} else {
			log.Printf("Could not upload thumbnail: %v", err)
		}
	} else {
		log.Printf("Could not generate thumbnail: %v", err)
	}

	resolutions, _ := json.Marshal(map[string]string{
		string(plan.Res4K): storageKey,
		string(plan.Res8K): storageKey,
	})

	wallpaper := model.Wallpaper{
		Title:        title,
		Slug:         fmt.Sprintf("%s-%s", wallpaperSlug, uniqueID),
		Category:     category,
		ContentType:  processedType,
		StorageKey:   storageKey,
		ThumbnailKey: thumbnailKey,
		URL:          fileURL,
		ThumbnailURL: thumbnailURL,
		Resolutions:  resolutions,
		UploadedByID: claims.UserID,
	}

	if err := database.GetDB().Create(&wallpaper).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save wallpaper",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(wallpaper)
}

// ListWallpapers galeriyi listeler; kategoriye göre filtrelenebilir
func ListWallpapers(c *fiber.Ctx) error {
	query := database.GetDB().Model(&model.Wallpaper{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var wallpapers []model.Wallpaper
	if err := query.Order("created_at DESC").Find(&wallpapers).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch wallpapers",
		})
	}

	return c.JSON(wallpapers)
}

func GetWallpaperBySlug(c *fiber.Ctx) error {
	var wallpaper model.Wallpaper
	if err := database.GetDB().Where("slug = ?", c.Params("slug")).First(&wallpaper).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Wallpaper not found",
		})
	}

	return c.JSON(wallpaper)
}

// DeleteWallpaper duvar kağıdını ve dosyalarını siler (admin)
func DeleteWallpaper(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid wallpaper ID",
		})
	}

	var wallpaper model.Wallpaper
	if err := database.GetDB().First(&wallpaper, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Wallpaper not found",
		})
	}

	if err := storage.DeleteFile(wallpaper.StorageKey); err != nil {
		log.Printf("Could not delete wallpaper file %s: %v", wallpaper.StorageKey, err)
	}
	if wallpaper.ThumbnailKey != "" {
		if err := storage.DeleteFile(wallpaper.ThumbnailKey); err != nil {
			log.Printf("Could not delete thumbnail %s: %v", wallpaper.ThumbnailKey, err)
		}
	}

	if err := database.GetDB().Delete(&wallpaper).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete wallpaper",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Wallpaper deleted successfully",
	})
}

// DownloadWallpaper indirme ücretini tahsil edip dosya URL'sini döner.
// Önce günlük ücretsiz hak denenir, yoksa pixel bakiyesinden düşülür.
func DownloadWallpaper(c *fiber.Ctx) error {
	claims := c.Locals("user").(*jwt.Claims)

	resolution := plan.Resolution(c.Params("res"))
	if !plan.ValidResolution(resolution) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid resolution",
		})
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid wallpaper ID",
		})
	}

	var wallpaper model.Wallpaper
	if err := database.GetDB().First(&wallpaper, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Wallpaper not found",
		})
	}

	charged, err := chargeDownload(downloads, accounts, claims.UserID, resolution)
	if err != nil {
		if errors.Is(err, store.ErrInsufficientPixels) {
			return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
				"error": "Insufficient pixel balance",
				"cost":  plan.PixelCosts[resolution],
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not charge download",
		})
	}

	database.GetDB().Model(&wallpaper).
		Update("download_count", gorm.Expr("download_count + 1"))

	return c.JSON(fiber.Map{
		"url":        wallpaper.URL,
		"resolution": string(resolution),
		"charged":    charged,
	})
}
