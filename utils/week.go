package utils

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the wire format of delivery dates.
const DateLayout = "2006-01-02"

// DayLabels are the weekday labels a menu offering is tagged with, Monday first.
var DayLabels = [7]string{
	"Thứ Hai",
	"Thứ Ba",
	"Thứ Tư",
	"Thứ Năm",
	"Thứ Sáu",
	"Thứ Bảy",
	"Chủ Nhật",
}

// WeekIdentifier maps a calendar date to its "<year>-<week>" token.
//
// Weeks are counted from the weekday Jan 1 falls on rather than ISO Monday weeks:
// week = ceil((dayOfYear0 + weekday(Jan 1) + 1) / 7), with Sunday as weekday 0.
// Stored menu rows carry tokens computed this way, so do not swap in ISOWeek.
func WeekIdentifier(date time.Time) string {
	year := date.Year()
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, date.Location())

	days := date.YearDay() - 1
	n := days + int(jan1.Weekday()) + 1
	week := (n + 6) / 7

	return fmt.Sprintf("%d-%02d", year, week)
}

var weekIDPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// IsWeekIdentifier reports whether id has the "<year>-<week>" shape WeekIdentifier produces.
func IsWeekIdentifier(id string) bool {
	return weekIDPattern.MatchString(id)
}

// DayLabel resolves the label of the date's weekday.
func DayLabel(date time.Time) string {
	return DayLabels[(int(date.Weekday())+6)%7]
}

// DayIndex returns the Monday-first index of label, or -1.
func DayIndex(label string) int {
	for i, l := range DayLabels {
		if l == label {
			return i
		}
	}
	return -1
}

func IsDayLabel(label string) bool {
	return DayIndex(label) >= 0
}

// MondayOf returns midnight of the Monday starting the date's Monday-first week.
func MondayOf(date time.Time) time.Time {
	offset := (int(date.Weekday()) + 6) % 7
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return d.AddDate(0, 0, -offset)
}

// WeekDates lists the seven dates starting at monday.
func WeekDates(monday time.Time) []time.Time {
	dates := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, monday.AddDate(0, 0, i))
	}
	return dates
}

// DateForDay returns the date of label in the week weekOffset weeks away from today's week.
func DateForDay(label string, weekOffset int, today time.Time) (time.Time, error) {
	idx := DayIndex(label)
	if idx < 0 {
		return time.Time{}, fmt.Errorf("unknown day label %q", label)
	}
	return MondayOf(today).AddDate(0, 0, idx+weekOffset*7), nil
}

// ParseDate parses a YYYY-MM-DD date as midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout, value, loc)
}
