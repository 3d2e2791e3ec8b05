package database

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/services"
	"github.com/yeremiapane/weekly-menu/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.MenuCategory{},
		&models.Dish{},
		&models.MenuOffering{},
		&models.Cart{},
		&models.CartLine{},
		&models.Order{},
		&models.OrderItem{},
	)
	if err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// SampleOfferings is the demo Monday menu inserted by SeedMenu.
func SampleOfferings(weekID string) []models.MenuOffering {
	monday := utils.DayLabels[0]
	return []models.MenuOffering{
		{
			Name:        "Phở chay",
			Description: "Nước dùng ngọt thanh từ hành củ, nấm hương, đậu hũ non, rau thơm",
			Category:    "Món chính",
			Day:         monday,
			WeekID:      weekID,
			IsFeatured:  true,
			IsAvailable: true,
			BasePrice:   decimal.NewFromInt(45000),
		},
		{
			Name:        "Gỏi cuốn chay",
			Description: "Bánh tráng cuốn rau củ tươi, nấm rơm, bún, kèm nước chấm đậu phộng",
			Category:    "Khai vị",
			Day:         monday,
			WeekID:      weekID,
			IsAvailable: true,
			BasePrice:   decimal.NewFromInt(35000),
		},
		{
			Name:        "Đậu hũ sốt cà chua",
			Description: "Đậu hũ chiên giòn, sốt cà chua chua ngọt, hành tây, ớt chuông",
			Category:    "Món chính",
			Day:         monday,
			WeekID:      weekID,
			IsAvailable: true,
			BasePrice:   decimal.NewFromInt(40000),
		},
	}
}

// SeedMenu inserts the sample offerings for weekID.
func SeedMenu(db *gorm.DB, weekID string) ([]models.MenuOffering, error) {
	items := SampleOfferings(weekID)
	if err := db.Create(&items).Error; err != nil {
		return nil, err
	}
	utils.InfoLogger.WithField("week_id", weekID).Printf("Seeded %d menu offerings", len(items))
	return items, nil
}

// translate maps driver errors onto the service sentinels.
func translate(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case IsDuplicate(err):
		return services.ErrDuplicateKey
	}
	return err
}

// IsDuplicate reports a unique constraint violation. Connections opened without
// TranslateError still report the driver message.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}
