package models

import "time"

// ScheduleEntry is one expected-presence fact in the facility timetable.
// Recurring entries repeat weekly on DayOfWeek; one-off entries carry an
// EffectiveDate and override recurrence for that calendar date.
type ScheduleEntry struct {
	ID            string `json:"id" db:"id"`
	PersonID      string `json:"personId" db:"person_id"`
	LocationID    string `json:"locationId" db:"location_id"`
	DayOfWeek     int    `json:"dayOfWeek" db:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartMinute   int    `json:"startMinute" db:"start_minute"` // minutes from midnight
	EndMinute     int    `json:"endMinute" db:"end_minute"`     // same-day, start < end
	Activity      string `json:"activity" db:"activity"`
	IsRecurring   bool   `json:"isRecurring" db:"is_recurring"`
	EffectiveDate string `json:"effectiveDate,omitempty" db:"effective_date"` // YYYY-MM-DD, one-off only
}

// TimeWindow is a half-open [Start,End) interval in minutes from midnight
type TimeWindow struct {
	StartMinute int `json:"startMinute" form:"startMinute"`
	EndMinute   int `json:"endMinute" form:"endMinute"`
}

// Valid reports whether the window is same-day and non-empty
func (w TimeWindow) Valid() bool {
	return w.StartMinute >= 0 && w.EndMinute <= 24*60 && w.StartMinute < w.EndMinute
}

// Overlaps reports whether [Start,End) intersects the entry's interval
func (w TimeWindow) Overlaps(startMinute, endMinute int) bool {
	return w.StartMinute < endMinute && startMinute < w.EndMinute
}

// DateString formats a calendar date the way one-off entries store it
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// ScheduleFilter represents filter parameters for querying schedule entries
type ScheduleFilter struct {
	PersonID   string `form:"personId"`
	LocationID string `form:"locationId"`
	DayOfWeek  *int   `form:"dayOfWeek"`
}
