package domain

// Diagram is the root aggregate: the ordered top-level entry sequence plus
// diagram-wide metadata. A Diagram is produced exactly once, by the
// builder's Build call, and is read-only from then on.
type Diagram struct {
	Title   string `json:"title,omitempty"`
	Caption string `json:"caption,omitempty"`

	// Scale is a raw scale clause, e.g. "1.5" or "200 width".
	Scale string `json:"scale,omitempty"`

	// Theme names a renderer theme.
	Theme string `json:"theme,omitempty"`

	// LayoutHints are raw directive lines emitted verbatim before the entry
	// sequence, e.g. "hide empty description".
	LayoutHints []string `json:"layout_hints,omitempty"`

	Entries []Entry `json:"entries"`
}
