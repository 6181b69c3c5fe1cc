package seed

import (
	"log"

	"gorm.io/gorm"

	"pixelwall_backend/internal/model"
	"pixelwall_backend/pkg/plan"
)

func SeedPlans(db *gorm.DB, premiumPriceID, kingPriceID string) {
	plans := []model.Plan{
		{
			Tier:        string(plan.Free),
			Name:        "Free",
			Description: "2 free 4K downloads per day",
			Price:       0,
			PixelGrant:  0,
		},
		{
			Tier:          string(plan.Premium),
			Name:          "Premium",
			Description:   "60 pixels per billing period",
			Price:         4.99,
			PixelGrant:    60,
			StripePriceID: premiumPriceID,
		},
		{
			Tier:          string(plan.King),
			Name:          "King",
			Description:   "125 pixels per billing period",
			Price:         9.99,
			PixelGrant:    125,
			StripePriceID: kingPriceID,
		},
	}

	for _, p := range plans {
		result := db.Where(model.Plan{Tier: p.Tier}).
			Assign(model.Plan{StripePriceID: p.StripePriceID, PixelGrant: p.PixelGrant, Price: p.Price}).
			FirstOrCreate(&p)
		if result.Error != nil {
			log.Printf("Error seeding plan %s: %v", p.Tier, result.Error)
		}
	}

	log.Println("Plan catalog seeded successfully!")
}
