package services

import (
	"github.com/yeremiapane/weekly-menu/models"
	"github.com/yeremiapane/weekly-menu/utils"
)

// AvailableOfferings keeps the offerings deliverable on day of week weekID.
func AvailableOfferings(offerings []models.MenuOffering, day, weekID string) []models.MenuOffering {
	out := make([]models.MenuOffering, 0, len(offerings))
	for i := range offerings {
		if offerings[i].AvailableFor(day, weekID) {
			out = append(out, offerings[i])
		}
	}
	return out
}

// PartitionByDay groups one week's offerings under each of the seven day labels, in
// Monday-first order. Rows of other weeks are dropped; legacy rows appear in every week.
func PartitionByDay(offerings []models.MenuOffering, weekID string) map[string][]models.MenuOffering {
	days := make(map[string][]models.MenuOffering, len(utils.DayLabels))
	for _, label := range utils.DayLabels {
		days[label] = []models.MenuOffering{}
	}
	for _, o := range offerings {
		if o.WeekID != "" && o.WeekID != weekID {
			continue
		}
		if _, ok := days[o.Day]; ok {
			days[o.Day] = append(days[o.Day], o)
		}
	}
	return days
}
