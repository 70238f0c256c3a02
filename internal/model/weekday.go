package model

import (
	"fmt"
	"strings"
)

// Weekday is a day-of-week label used as the meal-plan key.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Week lists the seven labels in display order.
var Week = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Valid reports whether d is one of the seven labels.
func (d Weekday) Valid() bool {
	for _, w := range Week {
		if d == w {
			return true
		}
	}
	return false
}

// ParseWeekday accepts a label in any letter case.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for _, w := range Week {
		if strings.EqualFold(s, string(w)) {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown day %q", s)
}
