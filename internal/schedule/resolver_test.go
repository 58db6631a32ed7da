package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rollcall-backend-go/internal/models"
)

// 2026-08-31 is a Monday
var monday = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

func entry(id, person, location string, dow, start, end int) models.ScheduleEntry {
	return models.ScheduleEntry{
		ID: id, PersonID: person, LocationID: location,
		DayOfWeek: dow, StartMinute: start, EndMinute: end,
		Activity: "unlock", IsRecurring: true,
	}
}

func oneOff(id, person, location string, date string, start, end int) models.ScheduleEntry {
	return models.ScheduleEntry{
		ID: id, PersonID: person, LocationID: location,
		StartMinute: start, EndMinute: end,
		Activity: "escort", IsRecurring: false, EffectiveDate: date,
	}
}

func TestExpectedAtWindowOverlap(t *testing.T) {
	r := NewResolver()
	entries := []models.ScheduleEntry{
		entry("e1", "p1", "cell-1", 1, 9*60, 9*60+30), // Monday 09:00-09:30
	}

	res := r.ExpectedAt(entries, []string{"cell-1"}, monday, models.TimeWindow{StartMinute: 9 * 60, EndMinute: 9*60 + 15})
	require.Contains(t, res.Expected, "cell-1")
	assert.Equal(t, []string{"p1"}, res.Expected["cell-1"])

	// No overlap an hour later
	res = r.ExpectedAt(entries, []string{"cell-1"}, monday, models.TimeWindow{StartMinute: 10 * 60, EndMinute: 10*60 + 15})
	assert.Empty(t, res.Expected)

	// Half-open interval: window starting exactly at the entry's end does not match
	res = r.ExpectedAt(entries, []string{"cell-1"}, monday, models.TimeWindow{StartMinute: 9*60 + 30, EndMinute: 10 * 60})
	assert.Empty(t, res.Expected)
}

func TestExpectedAtDayOfWeek(t *testing.T) {
	r := NewResolver()
	entries := []models.ScheduleEntry{
		entry("e1", "p1", "cell-1", 2, 9*60, 10*60), // Tuesday
	}

	res := r.ExpectedAt(entries, []string{"cell-1"}, monday, models.TimeWindow{StartMinute: 9 * 60, EndMinute: 10 * 60})
	assert.Empty(t, res.Expected)

	tuesday := monday.AddDate(0, 0, 1)
	res = r.ExpectedAt(entries, []string{"cell-1"}, tuesday, models.TimeWindow{StartMinute: 9 * 60, EndMinute: 10 * 60})
	assert.Equal(t, []string{"p1"}, res.Expected["cell-1"])
}

func TestOneOffOverridesRecurrence(t *testing.T) {
	r := NewResolver()
	entries := []models.ScheduleEntry{
		entry("e1", "p1", "cell-1", 1, 9*60, 10*60),
		oneOff("e2", "p1", "medical", "2026-08-31", 9*60, 10*60),
	}

	res := r.ExpectedAt(entries, []string{"cell-1", "medical"}, monday, models.TimeWindow{StartMinute: 9 * 60, EndMinute: 10 * 60})
	assert.NotContains(t, res.Expected, "cell-1")
	assert.Equal(t, []string{"p1"}, res.Expected["medical"])

	// The override only binds on its effective date
	nextMonday := monday.AddDate(0, 0, 7)
	res = r.ExpectedAt(entries, []string{"cell-1", "medical"}, nextMonday, models.TimeWindow{StartMinute: 9 * 60, EndMinute: 10 * 60})
	assert.Equal(t, []string{"p1"}, res.Expected["cell-1"])
	assert.NotContains(t, res.Expected, "medical")
}

func TestDoubleBookingKeepsBothAndWarns(t *testing.T) {
	r := NewResolver()
	entries := []models.ScheduleEntry{
		oneOff("e1", "p1", "workshop", "2026-08-31", 9*60, 10*60),
		oneOff("e2", "p1", "kitchen", "2026-08-31", 9*60, 10*60),
	}

	res := r.ExpectedAt(entries, []string{"workshop", "kitchen"}, monday, models.TimeWindow{StartMinute: 9 * 60, EndMinute: 10 * 60})
	assert.Equal(t, []string{"p1"}, res.Expected["workshop"])
	assert.Equal(t, []string{"p1"}, res.Expected["kitchen"])

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, models.WarnScheduleOverlap, res.Warnings[0].Code)
	assert.Equal(t, "p1", res.Warnings[0].Subject)
}

func TestEmptyResultIsValid(t *testing.T) {
	r := NewResolver()
	res := r.ExpectedAt(nil, []string{"cell-1"}, monday, models.TimeWindow{StartMinute: 0, EndMinute: 60})
	assert.Empty(t, res.Expected)
	assert.Empty(t, res.Warnings)
}
