package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// MenuOffering is a dish placed on one weekday of one week.
// WeekID is empty for rows created before menus were scoped by week.
type MenuOffering struct {
	ID          uint                            `gorm:"primaryKey" json:"id"`
	DishID      *uint                           `gorm:"index" json:"dish_id,omitempty"`
	Name        string                          `gorm:"type:varchar(255);not null" json:"name"`
	Description string                          `gorm:"type:text" json:"description"`
	Category    string                          `gorm:"type:varchar(100);index" json:"category"`
	ImageRef    string                          `gorm:"type:varchar(512)" json:"image_ref"`
	Day         string                          `gorm:"type:varchar(20);not null;index:idx_menu_week_day" json:"day"`
	WeekID      string                          `gorm:"type:varchar(10);index:idx_menu_week_day" json:"week_id"`
	IsFeatured  bool                            `gorm:"not null" json:"is_featured"`
	IsAvailable bool                            `gorm:"not null" json:"is_available"`
	BasePrice   decimal.Decimal                 `gorm:"type:decimal(12,2);not null" json:"base_price"`
	SizeOptions datatypes.JSONSlice[SizeOption] `json:"size_options"`
	CreatedAt   time.Time                       `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                       `gorm:"not null" json:"updated_at"`
}

// AvailableFor reports whether the offering can be delivered on day of week weekID.
// Legacy rows without a week id match every week.
func (m *MenuOffering) AvailableFor(day, weekID string) bool {
	if !m.IsAvailable || m.Day != day {
		return false
	}
	return m.WeekID == "" || m.WeekID == weekID
}

// Sizes returns the purchasable variants. Without size options the base price is
// sold as a single default variant.
func (m *MenuOffering) Sizes() []SizeOption {
	if len(m.SizeOptions) == 0 {
		return []SizeOption{{Name: DefaultSizeName, Servings: 1, Price: m.BasePrice}}
	}
	return []SizeOption(m.SizeOptions)
}

// SizeFor resolves a variant by name; an empty name selects the first variant.
func (m *MenuOffering) SizeFor(name string) (SizeOption, error) {
	sizes := m.Sizes()
	if name == "" {
		return sizes[0], nil
	}
	for _, s := range sizes {
		if s.Name == name {
			return s, nil
		}
	}
	return SizeOption{}, ErrUnknownSize
}
