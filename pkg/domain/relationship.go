package domain

// Direction is a layout hint for a relationship arrow.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Letter returns the single-letter arrow infix for the direction, or ""
// when no hint is set.
func (d Direction) Letter() string {
	if d == "" {
		return ""
	}
	return string(d[0])
}

// Relationship is a directed edge between two identities. Source and Target
// hold canonical identity strings, already resolved and validated by the
// builder; the serializer never re-resolves them.
type Relationship struct {
	Source string `json:"source"`
	Target string `json:"target"`

	// Label is the free-form edge text. When empty, a label is assembled
	// from Trigger, Guard and Effect.
	Label   string `json:"label,omitempty"`
	Trigger string `json:"trigger,omitempty"`
	Guard   string `json:"guard,omitempty"`
	Effect  string `json:"effect,omitempty"`

	// Style is a raw arrow style clause, e.g. "#red,dashed".
	Style string `json:"style,omitempty"`

	// Direction hints the layout engine which way the arrow should point.
	Direction Direction `json:"direction,omitempty"`

	// Note attaches free text to the edge itself.
	Note string `json:"note,omitempty"`
}

func (r *Relationship) isEntry() {}
