package models

// NodeKind is the closed set of location node types
type NodeKind string

const (
	NodeKindWing     NodeKind = "wing"     // top-level area
	NodeKindUnit     NodeKind = "unit"     // sub-area within a wing
	NodeKindLanding  NodeKind = "landing"
	NodeKindCell     NodeKind = "cell"
	NodeKindYard     NodeKind = "yard"
	NodeKindWorkshop NodeKind = "workshop"
	NodeKindMedical  NodeKind = "medical"
	NodeKindKitchen  NodeKind = "kitchen"
)

// VisitableKinds are node kinds that can appear as route stops
var VisitableKinds = map[NodeKind]bool{
	NodeKindCell:     true,
	NodeKindYard:     true,
	NodeKindWorkshop: true,
	NodeKindMedical:  true,
	NodeKindKitchen:  true,
}

// EdgeKind tags the physical nature of a walkable connection
type EdgeKind string

const (
	EdgeKindCorridor  EdgeKind = "corridor"
	EdgeKindStairwell EdgeKind = "stairwell"
	EdgeKindGated     EdgeKind = "gated"
)

// LocationNode is one node in the facility containment hierarchy.
// Containment (ParentID) and adjacency (LocationEdge) are separate relations.
type LocationNode struct {
	ID       string   `json:"id" db:"id"`
	Name     string   `json:"name" db:"name"`
	Kind     NodeKind `json:"kind" db:"kind"`
	ParentID string   `json:"parentId,omitempty" db:"parent_id"` // empty for roots
	HasCoord bool     `json:"hasCoord" db:"has_coord"`           // planar coordinates are optional
	X        float64  `json:"x,omitempty" db:"x"`
	Y        float64  `json:"y,omitempty" db:"y"`
}

// LocationEdge is a walkable connection between two leaf-reachable nodes
type LocationEdge struct {
	ID            string   `json:"id" db:"id"`
	FromID        string   `json:"fromId" db:"from_id"`
	ToID          string   `json:"toId" db:"to_id"`
	Distance      float64  `json:"distance" db:"distance"`             // meters
	TravelSeconds float64  `json:"travelSeconds" db:"travel_seconds"`  // walking time
	Kind          EdgeKind `json:"kind" db:"kind"`
	Bidirectional bool     `json:"bidirectional" db:"bidirectional"`
	EscortOnly    bool     `json:"escortOnly" db:"escort_only"`
}

// LocationFilter represents filter parameters for querying location nodes
type LocationFilter struct {
	Kind     string `form:"kind"`
	ParentID string `form:"parentId"`
}
