package services

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/utils"
)

// DefaultLeadTime is the minimum gap between now and the start of the delivery window.
const DefaultLeadTime = 2 * time.Hour

// OrderDraft is what the customer submits at checkout.
type OrderDraft struct {
	CustomerName string
	Phone        string
	Province     string
	District     string
	Ward         string
	Address      string
	DeliveryDate string // YYYY-MM-DD
	DeliveryTime string // "H:MM - H:MM"
	Notes        string
	Lines        []models.CartLine
	// ClientTotal is advisory; the accepted total is always recomputed from Lines.
	ClientTotal *decimal.Decimal
}

// Accepted is a draft that passed every check, with its resolved delivery slot.
type Accepted struct {
	Draft       OrderDraft
	DeliveryAt  time.Time
	DeliveryDay string
	WeekID      string
	Items       []models.OrderItem
	TotalAmount decimal.Decimal
	// ClientTotalMismatch is set when a client total was sent and differs from TotalAmount.
	ClientTotalMismatch bool
}

type OrderValidator struct {
	LeadTime time.Duration
	Location *time.Location
	Now      func() time.Time
}

func NewOrderValidator(leadTime time.Duration, loc *time.Location) *OrderValidator {
	if loc == nil {
		loc = time.Local
	}
	return &OrderValidator{LeadTime: leadTime, Location: loc, Now: time.Now}
}

// Validate runs completeness, day/week availability and lead time, in that order, and stops
// at the first failing category. offerings is the catalog as fetched for the delivery week.
func (v *OrderValidator) Validate(draft OrderDraft, offerings []models.MenuOffering) (*Accepted, error) {
	if err := v.CheckCompleteness(draft); err != nil {
		return nil, err
	}

	deliveryDate, day, weekID, err := v.ResolveDelivery(draft.DeliveryDate)
	if err != nil {
		return nil, err
	}

	if err := v.CheckAvailability(draft.Lines, offerings, day, weekID, draft.DeliveryDate); err != nil {
		return nil, err
	}

	deliveryAt, err := v.CheckLeadTime(deliveryDate, draft.DeliveryTime)
	if err != nil {
		return nil, err
	}

	items, total := snapshotLines(draft.Lines)
	accepted := &Accepted{
		Draft:       draft,
		DeliveryAt:  deliveryAt,
		DeliveryDay: day,
		WeekID:      weekID,
		Items:       items,
		TotalAmount: total,
	}
	if draft.ClientTotal != nil && !draft.ClientTotal.Equal(total) {
		accepted.ClientTotalMismatch = true
	}
	return accepted, nil
}

func (v *OrderValidator) CheckCompleteness(draft OrderDraft) error {
	var missing []string
	required := []struct {
		field string
		value string
	}{
		{"customer_name", draft.CustomerName},
		{"phone", draft.Phone},
		{"address", draft.Address},
		{"delivery_date", draft.DeliveryDate},
		{"delivery_time", draft.DeliveryTime},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.field)
		}
	}
	if len(draft.Lines) == 0 {
		missing = append(missing, "items")
	}
	if len(missing) > 0 {
		return &models.IncompleteFieldsError{Fields: missing}
	}
	return nil
}

// ResolveDelivery parses the delivery date and derives its day label and week identifier.
func (v *OrderValidator) ResolveDelivery(value string) (time.Time, string, string, error) {
	d, err := utils.ParseDate(strings.TrimSpace(value), v.location())
	if err != nil {
		return time.Time{}, "", "", &models.InvalidFieldError{
			Field:  "delivery_date",
			Value:  value,
			Reason: "expected YYYY-MM-DD",
		}
	}
	return d, utils.DayLabel(d), utils.WeekIdentifier(d), nil
}

// CheckAvailability requires every line's offering to be on the day/week menu. The cart
// does not follow the browsed week, so this is re-checked at submission.
func (v *OrderValidator) CheckAvailability(lines []models.CartLine, offerings []models.MenuOffering, day, weekID, deliveryDate string) error {
	available := make(map[uint]bool)
	for _, o := range AvailableOfferings(offerings, day, weekID) {
		available[o.ID] = true
	}

	var missing []string
	seen := make(map[string]bool)
	for _, l := range lines {
		if available[l.OfferingID] || seen[l.Name] {
			continue
		}
		seen[l.Name] = true
		missing = append(missing, l.Name)
	}
	if len(missing) > 0 {
		return &models.UnavailableItemError{
			Items:        missing,
			Day:          day,
			WeekID:       weekID,
			DeliveryDate: deliveryDate,
		}
	}
	return nil
}

// CheckLeadTime combines the date with the start of the time window and requires at
// least LeadTime between now and that instant.
func (v *OrderValidator) CheckLeadTime(deliveryDate time.Time, window string) (time.Time, error) {
	hour, minute, err := ParseWindowStart(window)
	if err != nil {
		return time.Time{}, err
	}

	at := time.Date(deliveryDate.Year(), deliveryDate.Month(), deliveryDate.Day(), hour, minute, 0, 0, v.location())
	remaining := at.Sub(v.now())
	if remaining < v.leadTime() {
		return time.Time{}, &models.InsufficientLeadTimeError{
			RemainingHours: remaining.Hours(),
			Required:       v.leadTime(),
		}
	}
	return at, nil
}

// ParseWindowStart reads the left side of a "H:MM - H:MM" delivery window.
func ParseWindowStart(window string) (int, int, error) {
	invalid := &models.InvalidFieldError{Field: "delivery_time", Value: window, Reason: `expected "H:MM - H:MM"`}

	start := strings.TrimSpace(strings.SplitN(window, "-", 2)[0])
	parts := strings.Split(start, ":")
	if len(parts) != 2 || len(parts[1]) != 2 {
		return 0, 0, invalid
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, invalid
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, invalid
	}
	return hour, minute, nil
}

func snapshotLines(lines []models.CartLine) ([]models.OrderItem, decimal.Decimal) {
	items := make([]models.OrderItem, 0, len(lines))
	total := decimal.Zero
	for i := range lines {
		l := lines[i]
		sub := l.Subtotal()
		total = total.Add(sub)
		items = append(items, models.OrderItem{
			OfferingID:   l.OfferingID,
			Name:         l.Name,
			SelectedSize: l.SelectedSize,
			Quantity:     l.Quantity,
			Subtotal:     sub,
		})
	}
	return items, total
}

func (v *OrderValidator) now() time.Time {
	if v.Now == nil {
		return time.Now()
	}
	return v.Now()
}

func (v *OrderValidator) location() *time.Location {
	if v.Location == nil {
		return time.Local
	}
	return v.Location
}

func (v *OrderValidator) leadTime() time.Duration {
	if v.LeadTime <= 0 {
		return DefaultLeadTime
	}
	return v.LeadTime
}
