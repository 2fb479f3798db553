package domain

// NotePosition is the placement hint of a note relative to its anchor.
type NotePosition string

const (
	NoteLeft   NotePosition = "left"
	NoteRight  NotePosition = "right"
	NoteTop    NotePosition = "top"
	NoteBottom NotePosition = "bottom"
)

// Note is free text attached to an identity, or floating when Target is
// empty.
type Note struct {
	Text string `json:"text"`

	// Target is the canonical identity the note is anchored to; empty for
	// a floating note.
	Target string `json:"target,omitempty"`

	// Position defaults to NoteRight for anchored notes.
	Position NotePosition `json:"position,omitempty"`
}

func (n *Note) isEntry() {}
