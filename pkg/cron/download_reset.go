package cron

import (
	"log"

	"github.com/robfig/cron/v3"

	"pixelwall_backend/internal/store"
)

// InitDownloadResetCron günlük indirme haklarını her gece yarısı sıfırlar
func InitDownloadResetCron(downloads *store.DownloadStore) {
	c := cron.New()

	_, err := c.AddFunc("0 0 * * *", func() {
		resetDownloadLimits(downloads)
	})

	if err != nil {
		log.Printf("Could not initialize download reset cron: %v", err)
		return
	}

	c.Start()
}

func resetDownloadLimits(downloads *store.DownloadStore) {
	log.Println("Resetting daily download limits...")

	affected, err := downloads.ResetAll()
	if err != nil {
		log.Printf("Error resetting download limits: %v", err)
		return
	}

	log.Printf("Reset download limits for %d accounts", affected)
}
