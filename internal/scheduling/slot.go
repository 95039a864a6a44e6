package scheduling

import (
	"fmt"
	"strconv"
	"strings"
)

// ClockMinutes is a same-day wall-clock time expressed as minutes since
// midnight. Comparisons on ClockMinutes implement the half-open interval
// semantics used throughout the scheduler.
type ClockMinutes int

// ParseClock parses an "HH:MM" wall-clock string.
func ParseClock(s string) (ClockMinutes, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return ClockMinutes(h*60 + m), nil
}

// String renders the time back as zero-padded "HH:MM".
func (c ClockMinutes) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Slot is a half-open interval [Start, End) on a single day.
type Slot struct {
	Start ClockMinutes
	End   ClockMinutes
}

// Overlaps reports whether two half-open intervals intersect. Back-to-back
// slots (one ending exactly when the other starts) do not overlap.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start < other.End && other.Start < s.End
}

// slotOf extracts the appointment's interval. Appointments with times the
// store should never have accepted are reported as not ok and take no part
// in conflict detection.
func slotOf(a *Appointment) (Slot, bool) {
	start, err := ParseClock(a.StartTime)
	if err != nil {
		return Slot{}, false
	}
	end, err := ParseClock(a.EndTime)
	if err != nil {
		return Slot{}, false
	}
	return Slot{Start: start, End: end}, true
}

// IsSlotAvailable decides whether the interval [start, end) may be booked for
// the practitioner on the given date, considering the supplied appointment
// set. excludeID names the appointment being edited so it does not conflict
// with itself; pass "" when booking new.
//
// Cancelled and no-show appointments still occupy their slot: the front desk
// releases a slot by deleting the appointment, not by cancelling it.
func IsSlotAvailable(appointments []*Appointment, practitionerID, date string, start, end ClockMinutes, excludeID string) bool {
	requested := Slot{Start: start, End: end}
	for _, a := range appointments {
		if a.ID == excludeID && excludeID != "" {
			continue
		}
		if a.PractitionerID != practitionerID || a.Date != date {
			continue
		}
		existing, ok := slotOf(a)
		if !ok {
			continue
		}
		if requested.Overlaps(existing) {
			return false
		}
	}
	return true
}
