package models

// WarningCode identifies a data-quality anomaly surfaced alongside a result.
// Warnings never fail the operation that produced them.
type WarningCode string

const (
	WarnScheduleOverlap WarningCode = "schedule_overlap" // person double-booked in the window
	WarnUnreachableLeaf WarningCode = "unreachable_leaf" // no path in the adjacency graph
	WarnNoCoordinates   WarningCode = "no_coordinates"   // fallback distance unavailable
)

// Warning is one data-quality anomaly attached to an operation's result
type Warning struct {
	Code    WarningCode `json:"code"`
	Subject string      `json:"subject,omitempty"` // id of the entity the warning concerns
	Message string      `json:"message"`
}
