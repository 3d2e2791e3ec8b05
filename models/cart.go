package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Cart is a customer's in-progress selection. It is loaded and saved explicitly through a
// store; the aggregation methods below never touch storage.
type Cart struct {
	ID        string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Lines     []CartLine `gorm:"foreignKey:CartID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"lines"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

// CartLine is one (offering, size) pairing with an aggregated quantity.
type CartLine struct {
	ID           uint       `gorm:"primaryKey" json:"-"`
	CartID       string     `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_line" json:"-"`
	LineID       string     `gorm:"type:varchar(150);not null;uniqueIndex:idx_cart_line" json:"line_id"`
	Position     int        `gorm:"not null" json:"-"`
	OfferingID   uint       `gorm:"not null" json:"offering_id"`
	Name         string     `gorm:"type:varchar(255)" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	Category     string     `gorm:"type:varchar(100)" json:"category"`
	ImageRef     string     `gorm:"type:varchar(512)" json:"image_ref"`
	Quantity     int        `gorm:"not null" json:"quantity"`
	SelectedSize SizeOption `gorm:"embedded;embeddedPrefix:size_" json:"selected_size"`
}

// LineIDFor derives the identity that makes re-adding the same dish and size merge.
func LineIDFor(offeringID uint, sizeName string) string {
	return fmt.Sprintf("%d-%s", offeringID, sizeName)
}

// Subtotal is selectedSize.price * quantity.
func (l *CartLine) Subtotal() decimal.Decimal {
	return l.SelectedSize.LinePrice(l.Quantity)
}

// AddOrMerge adds quantity of offering in the named size. browsingDay is the day the
// customer is looking at; offerings of other days are refused with a WrongDayError.
func (c *Cart) AddOrMerge(offering MenuOffering, sizeName string, quantity int, browsingDay string) (*CartLine, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if offering.Day != browsingDay {
		return nil, &WrongDayError{Item: offering.Name, ItemDay: offering.Day, BrowsingDay: browsingDay}
	}
	if !offering.IsAvailable {
		return nil, &UnavailableItemError{Items: []string{offering.Name}}
	}

	size, err := offering.SizeFor(sizeName)
	if err != nil {
		return nil, err
	}

	lineID := LineIDFor(offering.ID, size.Name)
	if line := c.Line(lineID); line != nil {
		line.Quantity += quantity
		return line, nil
	}

	c.Lines = append(c.Lines, CartLine{
		CartID:       c.ID,
		LineID:       lineID,
		OfferingID:   offering.ID,
		Name:         offering.Name,
		Description:  offering.Description,
		Category:     offering.Category,
		ImageRef:     offering.ImageRef,
		Quantity:     quantity,
		SelectedSize: size,
	})
	return &c.Lines[len(c.Lines)-1], nil
}

// ChangeQuantity applies delta, clamping at zero. A line that reaches zero is removed and
// the returned quantity is 0.
func (c *Cart) ChangeQuantity(lineID string, delta int) (int, error) {
	line := c.Line(lineID)
	if line == nil {
		return 0, ErrLineNotFound
	}

	q := line.Quantity + delta
	if q <= 0 {
		c.removeLine(lineID)
		return 0, nil
	}
	line.Quantity = q
	return q, nil
}

func (c *Cart) Remove(lineID string) error {
	if c.Line(lineID) == nil {
		return ErrLineNotFound
	}
	c.removeLine(lineID)
	return nil
}

// Line finds a line by id. The pointer is only valid until the next mutation.
func (c *Cart) Line(lineID string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].LineID == lineID {
			return &c.Lines[i]
		}
	}
	return nil
}

func (c *Cart) removeLine(lineID string) {
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.LineID != lineID {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Lines {
		total = total.Add(c.Lines[i].Subtotal())
	}
	return total
}

// ItemCount sums quantities across lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c *Cart) Clear() {
	c.Lines = nil
}
