package domain

// Entry is one item in a diagram or container sequence.
// The concrete kinds are Element, PseudoElement, Container, Relationship
// and Note; the set is closed, the serializer exhausts it.
type Entry interface {
	isEntry()
}

// Referable is implemented by every entry that can be the endpoint of a
// Relationship or the anchor of a Note.
type Referable interface {
	// Identity returns the canonical string other entries use to reference
	// this one: the alias if present, otherwise the sanitized name.
	Identity() string
}

// Element represents a labeled state node.
type Element struct {
	Name string `json:"name"`

	// Alias overrides the derived identity. Required when two sibling names
	// sanitize to the same identity.
	Alias string `json:"alias,omitempty"`

	// Description is rendered as an attached description line ("Id : text").
	Description string `json:"description,omitempty"`

	// Style is a raw style clause for the target notation, e.g. "#lightblue".
	Style string `json:"style,omitempty"`
}

func (e *Element) isEntry() {}

// Identity returns the alias if set, else the sanitized name.
func (e *Element) Identity() string {
	if e.Alias != "" {
		return e.Alias
	}
	return Sanitize(e.Name)
}

// PseudoKind enumerates the control-marker kinds of a state diagram.
type PseudoKind string

const (
	PseudoStart           PseudoKind = "start"
	PseudoEnd             PseudoKind = "end"
	PseudoChoice          PseudoKind = "choice"
	PseudoFork            PseudoKind = "fork"
	PseudoJoin            PseudoKind = "join"
	PseudoHistory         PseudoKind = "history"
	PseudoDeepHistory     PseudoKind = "deepHistory"
	PseudoEntryPoint      PseudoKind = "entryPoint"
	PseudoExitPoint       PseudoKind = "exitPoint"
	PseudoInputPin        PseudoKind = "inputPin"
	PseudoOutputPin       PseudoKind = "outputPin"
	PseudoReceive         PseudoKind = "receive"
	PseudoExpansionInput  PseudoKind = "expansionInput"
	PseudoExpansionOutput PseudoKind = "expansionOutput"
)

// PseudoElement is a control marker. Name is required for every kind except
// the implicit singletons (start, end) and the two history markers, whose
// identities are fixed literal tokens.
type PseudoElement struct {
	Kind PseudoKind `json:"kind"`
	Name string     `json:"name,omitempty"`
}

func (p *PseudoElement) isEntry() {}

// Identity returns the fixed literal token for the implicit kinds and the
// sanitized name for everything else.
func (p *PseudoElement) Identity() string {
	switch p.Kind {
	case PseudoStart, PseudoEnd:
		return StartIdentity
	case PseudoHistory:
		return HistoryIdentity
	case PseudoDeepHistory:
		return DeepHistoryIdentity
	}
	return Sanitize(p.Name)
}
