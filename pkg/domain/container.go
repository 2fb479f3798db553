package domain

// Region is one parallel region of a concurrent container: an ordered
// sequence of nested entries with an optional display name.
type Region struct {
	Name    string  `json:"name,omitempty"`
	Entries []Entry `json:"entries"`
}

// Container is an Element that owns nested structure. Exactly one of
// Entries (composite) or Regions (concurrent) is populated; the builder
// freezes the sequences at scope exit and they must not be mutated after.
//
// A Container is itself a valid relationship endpoint via its own derived
// identity (promoted from the embedded Element).
type Container struct {
	Element

	// Entries is the ordered nested sequence of a composite container.
	Entries []Entry `json:"entries,omitempty"`

	// Regions is the ordered region list of a concurrent container.
	Regions []Region `json:"regions,omitempty"`
}

// Concurrent reports whether the container holds parallel regions rather
// than a flat nested sequence.
func (c *Container) Concurrent() bool {
	return c.Regions != nil
}
