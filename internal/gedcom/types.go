package gedcom

import "strings"

// Event is a birth or death record. Dates and places are kept as the
// free-form text found in the source; GEDCOM date grammars vary too much
// across authoring tools to parse reliably.
type Event struct {
	Date  string `json:"date,omitempty"`
	Place string `json:"place,omitempty"`
}

// Individual is a person record. SpouseIn and ChildIn are derived from
// family records by the store and are never persisted or accepted as
// input, so they cannot drift from the families that define them.
type Individual struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Birth *Event `json:"birth,omitempty"`
	Death *Event `json:"death,omitempty"`

	SpouseIn []string `json:"spouse_in,omitempty"`
	ChildIn  []string `json:"child_in,omitempty"`
}

// Family links at most two parent individuals and an ordered list of
// children. Child order is birth-order-as-listed in the source.
type Family struct {
	ID        string   `json:"id"`
	HusbandID string   `json:"husband_id,omitempty"`
	WifeID    string   `json:"wife_id,omitempty"`
	Children  []string `json:"children"`
}

// Data is a full record collection in source order. It is both the
// parser's output and the snapshot serialization shape.
type Data struct {
	Individuals []Individual `json:"individuals"`
	Families    []Family     `json:"families"`
}

// ValidID reports whether id is usable as a record identifier.
func ValidID(id string) bool {
	return strings.TrimSpace(id) != ""
}

// HasName reports whether the individual carries a usable name.
// Whitespace-only names are treated as missing.
func (i Individual) HasName() bool {
	return strings.TrimSpace(i.Name) != ""
}
