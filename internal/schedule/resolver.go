// Package schedule resolves expected presence from the facility timetable.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// Result maps location id to the set of person ids expected there,
// with any data-quality warnings attached.
type Result struct {
	Expected map[string][]string // location id -> sorted person ids
	Warnings []models.Warning
}

// Resolver computes expected presence over a set of schedule entries.
// It is a pure computation; loading entries is the caller's concern.
type Resolver struct{}

// NewResolver creates a resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// ExpectedAt returns, for each requested location, the persons expected
// there during the window on the given date.
//
// Matching rules:
//   - one-off entries whose effective date equals the target date take
//     precedence over recurring entries for the persons they cover
//   - recurring entries match when their day-of-week equals the date's
//   - an entry counts when its [start,end) interval overlaps the window
//
// A person double-booked at two locations by one-off entries is kept at
// both, with a schedule_overlap warning; cross-checking presence at more
// than one place is useful to a roll call, so neither entry is dropped.
func (r *Resolver) ExpectedAt(entries []models.ScheduleEntry, locationIDs []string, date time.Time, window models.TimeWindow) Result {
	wanted := make(map[string]bool, len(locationIDs))
	for _, id := range locationIDs {
		wanted[id] = true
	}
	dateStr := models.DateString(date)
	dow := int(date.Weekday())

	// A one-off entry covering the window overrides the person's
	// recurring entries for this date, wherever it places them.
	override := make(map[string]bool)
	for _, e := range entries {
		if !e.IsRecurring && e.EffectiveDate == dateStr && window.Overlaps(e.StartMinute, e.EndMinute) {
			override[e.PersonID] = true
		}
	}

	expected := make(map[string]map[string]bool)
	var warnings []models.Warning
	seenAt := make(map[string][]string) // person id -> matched location ids

	for _, e := range entries {
		if !wanted[e.LocationID] {
			continue
		}
		if !window.Overlaps(e.StartMinute, e.EndMinute) {
			continue
		}
		if e.IsRecurring {
			if e.DayOfWeek != dow || override[e.PersonID] {
				continue
			}
		} else if e.EffectiveDate != dateStr {
			continue
		}

		if expected[e.LocationID] == nil {
			expected[e.LocationID] = make(map[string]bool)
		}
		if !expected[e.LocationID][e.PersonID] {
			expected[e.LocationID][e.PersonID] = true
			seenAt[e.PersonID] = append(seenAt[e.PersonID], e.LocationID)
		}
	}

	for personID, locs := range seenAt {
		if len(locs) > 1 {
			sort.Strings(locs)
			warnings = append(warnings, models.Warning{
				Code:    models.WarnScheduleOverlap,
				Subject: personID,
				Message: fmt.Sprintf("person expected at %d locations in the same window", len(locs)),
			})
		}
	}

	out := make(map[string][]string, len(expected))
	for loc, persons := range expected {
		ids := make([]string, 0, len(persons))
		for id := range persons {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		out[loc] = ids
	}

	return Result{Expected: out, Warnings: warnings}
}
