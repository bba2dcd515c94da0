package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/puneetkushwaha/Mom-sKitchen-Backend/models"
)

var (
	clockPattern       = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(AM|PM)?`)
	strictClockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(AM|PM)?$`)
)

// ParseClockMinutes converts "H:MM", "HH:MM" or either with an AM/PM suffix
// into minutes since midnight. Strings that do not match yield 0.
func ParseClockMinutes(s string) int {
	m := clockPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])

	switch m[3] {
	case "PM":
		if hours != 12 {
			hours += 12
		}
	case "AM":
		if hours == 12 {
			hours = 0
		}
	}
	return hours*60 + minutes
}

// ValidClock reports whether s is a well-formed clock string with in-range
// hour and minute values. Used to validate admin input.
func ValidClock(s string) bool {
	m := strictClockPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if minutes > 59 {
		return false
	}
	if m[3] != "" {
		return hours >= 1 && hours <= 12
	}
	return hours <= 23
}

// IsStoreOpen decides whether the kitchen accepts orders at now, using the
// wall clock of now's location. A window whose close is earlier than its
// open spans midnight.
func IsStoreOpen(settings *models.BusinessSettings, now time.Time) bool {
	if settings == nil {
		return true
	}
	if settings.IsHoliday {
		return false
	}
	if strings.TrimSpace(settings.OpenTime) == "" || strings.TrimSpace(settings.CloseTime) == "" {
		return true
	}

	current := now.Hour()*60 + now.Minute()
	open := ParseClockMinutes(settings.OpenTime)
	closing := ParseClockMinutes(settings.CloseTime)

	if closing < open {
		return current >= open || current <= closing
	}
	return current >= open && current <= closing
}
