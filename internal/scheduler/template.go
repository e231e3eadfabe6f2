package scheduler

import (
	"strconv"
	"strings"
)

// Period is the part of the working day a slot falls into.
type Period string

const (
	PeriodMorning   Period = "Morning"
	PeriodAfternoon Period = "Afternoon"
	PeriodEvening   Period = "Evening"
)

// The fixed slot template: every bookable time label, ordered, per period.
var slotTemplate = map[Period][]string{
	PeriodMorning:   {"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
	PeriodAfternoon: {"13:00", "13:30", "14:00", "14:30", "15:00", "15:30", "16:00", "16:30"},
	PeriodEvening:   {"17:00", "17:30", "18:00", "18:30", "19:00", "19:30"},
}

// Availability maps each period to its free slot labels, in template order.
type Availability struct {
	Morning   []string `json:"morning"`
	Afternoon []string `json:"afternoon"`
	Evening   []string `json:"evening"`
}

// PeriodOf buckets a "HH:MM" slot label by hour: [6,12) Morning, [12,17) Afternoon,
// everything else Evening. Malformed labels return ErrBadSlot.
func PeriodOf(slot string) (Period, error) {
	hhmm := strings.SplitN(slot, ":", 2)
	if len(hhmm) != 2 {
		return "", ErrBadSlot
	}
	hour, err := strconv.Atoi(hhmm[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", ErrBadSlot
	}
	switch {
	case hour >= 6 && hour < 12:
		return PeriodMorning, nil
	case hour >= 12 && hour < 17:
		return PeriodAfternoon, nil
	default:
		return PeriodEvening, nil
	}
}

// templateHasSlot reports whether the label is one of the bookable template slots.
func templateHasSlot(slot string) bool {
	for _, slots := range slotTemplate {
		for _, s := range slots {
			if s == slot {
				return true
			}
		}
	}
	return false
}
