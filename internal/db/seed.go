package db

import (
	"errors"
	"log"

	"github.com/suPer8Hu/wholesale-platform/internal/catalog"
	"github.com/suPer8Hu/wholesale-platform/internal/membership"
	"gorm.io/gorm"
)

// Seed inserts reference rows that are missing. Existing rows are left alone.
func Seed(gdb *gorm.DB) error {
	grades := []catalog.ConditionGrade{
		{Code: "A", Name: "Grade A", Description: "New or like new, original packaging"},
		{Code: "B", Name: "Grade B", Description: "Minor cosmetic wear, fully functional"},
		{Code: "C", Name: "Grade C", Description: "Visible wear or repackaged, tested working"},
	}
	for _, g := range grades {
		var existing catalog.ConditionGrade
		err := gdb.Where("code = ?", g.Code).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := gdb.Create(&g).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}

	tiers := []membership.Tier{
		{Name: "Bronze", Level: 1, Color: "#cd7f32", DiscountPercentage: 0, MinAnnualPurchase: 0},
		{Name: "Silver", Level: 2, Color: "#c0c0c0", DiscountPercentage: 3, MinAnnualPurchase: 1_000_000},
		{Name: "Gold", Level: 3, Color: "#ffd700", DiscountPercentage: 5, MinAnnualPurchase: 5_000_000},
		{Name: "Platinum", Level: 4, Color: "#e5e4e2", DiscountPercentage: 8, MinAnnualPurchase: 20_000_000},
	}
	for _, t := range tiers {
		var existing membership.Tier
		err := gdb.Where("level = ?", t.Level).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := gdb.Create(&t).Error; err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	log.Printf("[DB] seed complete grades=%d tiers=%d", len(grades), len(tiers))
	return nil
}
