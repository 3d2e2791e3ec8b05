package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultSizeName labels the implicit variant of a dish without size options.
const DefaultSizeName = "Phần tiêu chuẩn"

// SizeOption is a purchasable serving configuration of a dish.
type SizeOption struct {
	Name     string          `gorm:"type:varchar(100)" json:"name"`
	Servings int             `json:"servings"`
	Price    decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
}

func (s SizeOption) Validate() error {
	if s.Name == "" {
		return errors.New("size option name is required")
	}
	if s.Servings <= 0 {
		return errors.New("size option servings must be positive")
	}
	if s.Price.IsNegative() {
		return errors.New("size option price must not be negative")
	}
	return nil
}

// LinePrice is price * quantity.
func (s SizeOption) LinePrice(quantity int) decimal.Decimal {
	return s.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ValidateSizeOptions checks every option and rejects duplicate names, which would
// collapse distinct variants into one cart line.
func ValidateSizeOptions(options []SizeOption) error {
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		if err := o.Validate(); err != nil {
			return err
		}
		if seen[o.Name] {
			return errors.New("duplicate size option " + o.Name)
		}
		seen[o.Name] = true
	}
	return nil
}
