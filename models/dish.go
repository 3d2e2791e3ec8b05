package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Dish is a library entry that staff place on weekly menus.
type Dish struct {
	ID          uint                            `gorm:"primaryKey" json:"id"`
	Name        string                          `gorm:"type:varchar(255);not null" json:"name"`
	Description string                          `gorm:"type:text" json:"description"`
	Category    string                          `gorm:"type:varchar(100);index" json:"category"`
	BasePrice   decimal.Decimal                 `gorm:"type:decimal(12,2);not null" json:"base_price"`
	ImageRef    string                          `gorm:"type:varchar(512)" json:"image_ref"`
	SizeOptions datatypes.JSONSlice[SizeOption] `json:"size_options"`
	CreatedAt   time.Time                       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                       `gorm:"not null" json:"updated_at"`
}

// ToOffering copies the dish onto day of week weekID. New offerings are available.
func (d *Dish) ToOffering(day, weekID string) MenuOffering {
	dishID := d.ID
	sizes := make(datatypes.JSONSlice[SizeOption], len(d.SizeOptions))
	copy(sizes, d.SizeOptions)

	return MenuOffering{
		DishID:      &dishID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		ImageRef:    d.ImageRef,
		Day:         day,
		WeekID:      weekID,
		IsAvailable: true,
		BasePrice:   d.BasePrice,
		SizeOptions: sizes,
	}
}
