// Package plantuml renders a finished diagram tree to PlantUML state
// notation. Rendering is a pure function of the tree: no mutation, no I/O,
// byte-identical output for the same input.
package plantuml

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

const indentStep = "  "

// stereotypes maps declarable marker kinds to their notation stereotype.
// The implicit kinds (start, end, history, deep history) are absent on
// purpose: they are referenced through fixed literal tokens, never declared.
var stereotypes = map[domain.PseudoKind]string{
	domain.PseudoChoice:          "choice",
	domain.PseudoFork:            "fork",
	domain.PseudoJoin:            "join",
	domain.PseudoEntryPoint:      "entryPoint",
	domain.PseudoExitPoint:       "exitPoint",
	domain.PseudoInputPin:        "inputPin",
	domain.PseudoOutputPin:       "outputPin",
	domain.PseudoReceive:         "sdlreceive",
	domain.PseudoExpansionInput:  "expansionInput",
	domain.PseudoExpansionOutput: "expansionOutput",
}

// Render serializes a finished Diagram. The input is assumed to have passed
// registry validation; an unrecognized entry or marker kind here is an
// internal consistency fault and panics.
func Render(d *domain.Diagram) string {
	w := &writer{}
	w.sb.WriteString("@startuml\n")

	if d.Theme != "" {
		fmt.Fprintf(&w.sb, "!theme %s\n", d.Theme)
	}
	if d.Title != "" {
		fmt.Fprintf(&w.sb, "title %s\n", d.Title)
	}
	if d.Caption != "" {
		fmt.Fprintf(&w.sb, "caption %s\n", d.Caption)
	}
	if d.Scale != "" {
		fmt.Fprintf(&w.sb, "scale %s\n", d.Scale)
	}
	for _, hint := range d.LayoutHints {
		w.sb.WriteString(hint)
		w.sb.WriteByte('\n')
	}

	w.writeEntries(d.Entries, 0)
	w.sb.WriteString("@enduml\n")
	return w.sb.String()
}

type writer struct {
	sb    strings.Builder
	notes int // floating note counter, for generated aliases
}

func (w *writer) writeEntries(entries []domain.Entry, depth int) {
	for _, e := range entries {
		switch v := e.(type) {
		case *domain.Element:
			w.writeElement(v, depth)
		case *domain.PseudoElement:
			w.writePseudo(v, depth)
		case *domain.Container:
			w.writeContainer(v, depth)
		case *domain.Relationship:
			w.writeRelationship(v, depth)
		case *domain.Note:
			w.writeNote(v, depth)
		default:
			panic(fmt.Sprintf("plantuml: unknown entry kind %T", e))
		}
	}
}

// declaration emits the "state ..." head shared by elements, markers and
// containers: a bare identifier when the name is clean, otherwise a quoted
// literal with an explicit alias clause.
func (w *writer) declaration(name, identity, style string, depth int) {
	w.sb.WriteString(strings.Repeat(indentStep, depth))
	if domain.NeedsQuoting(name) || identity != domain.Sanitize(name) {
		fmt.Fprintf(&w.sb, "state \"%s\" as %s", escape(name), identity)
	} else {
		w.sb.WriteString("state " + name)
	}
	if style != "" {
		w.sb.WriteString(" " + style)
	}
}

func (w *writer) writeElement(e *domain.Element, depth int) {
	w.declaration(e.Name, e.Identity(), e.Style, depth)
	w.sb.WriteByte('\n')
	if e.Description != "" {
		fmt.Fprintf(&w.sb, "%s%s : %s\n", strings.Repeat(indentStep, depth), e.Identity(), e.Description)
	}
}

func (w *writer) writePseudo(p *domain.PseudoElement, depth int) {
	stereo, ok := stereotypes[p.Kind]
	if !ok {
		panic(fmt.Sprintf("plantuml: pseudo kind %q is not declarable", p.Kind))
	}
	w.declaration(p.Name, p.Identity(), "", depth)
	fmt.Fprintf(&w.sb, " <<%s>>\n", stereo)
}

func (w *writer) writeContainer(c *domain.Container, depth int) {
	w.declaration(c.Name, c.Identity(), c.Style, depth)
	w.sb.WriteString(" {\n")
	if c.Concurrent() {
		for i, region := range c.Regions {
			if i > 0 {
				// Separator goes between regions, never around them.
				w.sb.WriteString(strings.Repeat(indentStep, depth+1) + "--\n")
			}
			w.writeEntries(region.Entries, depth+1)
		}
	} else {
		w.writeEntries(c.Entries, depth+1)
	}
	w.sb.WriteString(strings.Repeat(indentStep, depth) + "}\n")
	if c.Description != "" {
		fmt.Fprintf(&w.sb, "%s%s : %s\n", strings.Repeat(indentStep, depth), c.Identity(), c.Description)
	}
}

// writeRelationship assembles the arrow in fixed token order: direction
// letter, bracketed style, arrow body, label. The target grammar is
// order-sensitive, so the order must never be permuted.
func (w *writer) writeRelationship(r *domain.Relationship, depth int) {
	arrow := "-->"
	if r.Direction != "" || r.Style != "" {
		var seg strings.Builder
		seg.WriteByte('-')
		seg.WriteString(r.Direction.Letter())
		if r.Style != "" {
			seg.WriteString("[" + r.Style + "]")
		}
		seg.WriteString("->")
		arrow = seg.String()
	}

	indent := strings.Repeat(indentStep, depth)
	fmt.Fprintf(&w.sb, "%s%s %s %s", indent, r.Source, arrow, r.Target)
	if label := relationshipLabel(r); label != "" {
		w.sb.WriteString(" : " + label)
	}
	w.sb.WriteByte('\n')

	if r.Note != "" {
		w.sb.WriteString(indent + "note on link\n")
		w.sb.WriteString(indent + indentStep + r.Note + "\n")
		w.sb.WriteString(indent + "end note\n")
	}
}

// relationshipLabel prefers the free-form label; otherwise it assembles
// "trigger [guard] / effect" from whichever annotations are present.
func relationshipLabel(r *domain.Relationship) string {
	if r.Label != "" {
		return r.Label
	}
	var parts []string
	if r.Trigger != "" {
		parts = append(parts, r.Trigger)
	}
	if r.Guard != "" {
		parts = append(parts, "["+r.Guard+"]")
	}
	if r.Effect != "" {
		parts = append(parts, "/ "+r.Effect)
	}
	return strings.Join(parts, " ")
}

func (w *writer) writeNote(n *domain.Note, depth int) {
	indent := strings.Repeat(indentStep, depth)
	if n.Target == "" {
		w.notes++
		fmt.Fprintf(&w.sb, "%snote \"%s\" as N%d\n", indent, escape(n.Text), w.notes)
		return
	}
	pos := n.Position
	if pos == "" {
		pos = domain.NoteRight
	}
	fmt.Fprintf(&w.sb, "%snote %s of %s : %s\n", indent, pos, n.Target, n.Text)
}

// escape replaces embedded quote characters with the &quot; entity, which a
// compliant consumer re-parses back to the literal character. Backslash
// escapes are not part of the target grammar.
func escape(s string) string {
	return strings.ReplaceAll(s, `"`, "&quot;")
}
