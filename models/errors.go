package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownSize     = errors.New("unknown size option")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("cart line not found")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidDay      = errors.New("invalid day label")
)

// Validation failure kinds, as reported to clients.
const (
	KindIncompleteFields     = "incomplete_fields"
	KindInvalidField         = "invalid_field"
	KindWrongDay             = "wrong_day"
	KindUnavailableItem      = "unavailable_item"
	KindInsufficientLeadTime = "insufficient_lead_time"
)

// ValidationFailure is implemented by every error the customer can fix by changing input.
type ValidationFailure interface {
	error
	Kind() string
}

// IncompleteFieldsError lists required draft fields that were empty. "items" means the cart was empty.
type IncompleteFieldsError struct {
	Fields []string
}

func (e *IncompleteFieldsError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *IncompleteFieldsError) Kind() string { return KindIncompleteFields }

// InvalidFieldError reports a present but unparseable field, such as a malformed time window.
type InvalidFieldError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *InvalidFieldError) Kind() string { return KindInvalidField }

// WrongDayError rejects adding an offering while browsing a different day.
type WrongDayError struct {
	Item        string
	ItemDay     string
	BrowsingDay string
}

func (e *WrongDayError) Error() string {
	return fmt.Sprintf("%s is served on %s, not on %s", e.Item, e.ItemDay, e.BrowsingDay)
}

func (e *WrongDayError) Kind() string { return KindWrongDay }

// UnavailableItemError names the dishes missing from the menu of the resolved delivery day/week.
type UnavailableItemError struct {
	Items        []string
	Day          string
	WeekID       string
	DeliveryDate string
}

func (e *UnavailableItemError) Error() string {
	if e.Day == "" {
		return "not available: " + strings.Join(e.Items, ", ")
	}
	return fmt.Sprintf("not on the %s menu (week %s, %s): %s",
		e.Day, e.WeekID, e.DeliveryDate, strings.Join(e.Items, ", "))
}

func (e *UnavailableItemError) Kind() string { return KindUnavailableItem }

// InsufficientLeadTimeError carries the hours left before the requested delivery start.
type InsufficientLeadTimeError struct {
	RemainingHours float64
	Required       time.Duration
}

func (e *InsufficientLeadTimeError) Error() string {
	return fmt.Sprintf("delivery must be at least %.0f hours from now (%.1f hours left)",
		e.Required.Hours(), e.RemainingHours)
}

func (e *InsufficientLeadTimeError) Kind() string { return KindInsufficientLeadTime }
