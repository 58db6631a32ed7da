package models

// Person is a resident subject to roll calls. Created and updated by the
// personnel-management collaborator; this core reads it by id only.
type Person struct {
	ID             string `json:"id" db:"id"`
	Number         string `json:"number" db:"number"` // booking/registration number
	FirstName      string `json:"firstName" db:"first_name"`
	LastName       string `json:"lastName" db:"last_name"`
	HomeLocationID string `json:"homeLocationId,omitempty" db:"home_location_id"` // assigned cell, may be empty
	Enrolled       bool   `json:"enrolled" db:"enrolled"`                         // has at least one valid reference template
}

// PersonFilter represents filter parameters for querying persons
type PersonFilter struct {
	HomeLocationID string `form:"homeLocationId"`
	Enrolled       *bool  `form:"enrolled"`
}
