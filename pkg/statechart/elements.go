package statechart

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/pkg/domain"
)

// ElementOption tunes a state declaration.
type ElementOption func(*domain.Element)

// Alias overrides the derived identity. Required when two sibling names
// sanitize to the same identity.
func Alias(alias string) ElementOption {
	return func(e *domain.Element) { e.Alias = alias }
}

// Style sets a raw style clause, e.g. "#lightblue".
func Style(style string) ElementOption {
	return func(e *domain.Element) { e.Style = style }
}

// Description attaches a description line to the state.
func Description(text string) ElementOption {
	return func(e *domain.Element) { e.Description = text }
}

// State is the handle returned for a declared element. It is a valid
// relationship endpoint.
type State struct {
	elem *domain.Element
}

// Identity returns the canonical identity of the declared state.
func (st *State) Identity() string { return st.elem.Identity() }

func (st *State) resolve(*Scope, string) (string, error) {
	return st.elem.Identity(), nil
}

// State declares a labeled state in this scope.
func (s *Scope) State(name string, opts ...ElementOption) (*State, error) {
	if err := s.ready("State", kindDeclare); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, &domain.EmptyNameError{Op: "State"}
	}
	elem := &domain.Element{Name: name}
	for _, opt := range opts {
		opt(elem)
	}
	id := elem.Identity()
	if id == "" {
		return nil, &domain.EmptyNameError{Op: "State", Name: name}
	}
	if err := s.reg.Register(id, name); err != nil {
		return nil, err
	}
	s.entries = append(s.entries, elem)
	s.b.logger.Debug("state declared", "id", id)
	return &State{elem: elem}, nil
}

// Pseudo is the handle returned for a declared control marker. It is a
// valid relationship endpoint.
type Pseudo struct {
	elem *domain.PseudoElement
}

// Identity returns the canonical identity of the marker.
func (p *Pseudo) Identity() string { return p.elem.Identity() }

func (p *Pseudo) resolve(*Scope, string) (string, error) {
	return p.elem.Identity(), nil
}

func (s *Scope) pseudo(op string, kind domain.PseudoKind, name string) (*Pseudo, error) {
	if err := s.ready(op, kindDeclare); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, &domain.EmptyNameError{Op: op}
	}
	elem := &domain.PseudoElement{Kind: kind, Name: name}
	id := elem.Identity()
	if id == "" {
		return nil, &domain.EmptyNameError{Op: op, Name: name}
	}
	if err := s.reg.Register(id, name); err != nil {
		return nil, err
	}
	s.entries = append(s.entries, elem)
	s.b.logger.Debug("pseudo declared", "kind", string(kind), "id", id)
	return &Pseudo{elem: elem}, nil
}

// Choice declares a choice marker.
func (s *Scope) Choice(name string) (*Pseudo, error) {
	return s.pseudo("Choice", domain.PseudoChoice, name)
}

// Fork declares an explicit fork marker. Parallel scopes synthesize their
// own; this is for hand-wired fork/join structure.
func (s *Scope) Fork(name string) (*Pseudo, error) {
	return s.pseudo("Fork", domain.PseudoFork, name)
}

// Join declares an explicit join marker.
func (s *Scope) Join(name string) (*Pseudo, error) {
	return s.pseudo("Join", domain.PseudoJoin, name)
}

// EntryPoint declares an entry-point marker.
func (s *Scope) EntryPoint(name string) (*Pseudo, error) {
	return s.pseudo("EntryPoint", domain.PseudoEntryPoint, name)
}

// ExitPoint declares an exit-point marker.
func (s *Scope) ExitPoint(name string) (*Pseudo, error) {
	return s.pseudo("ExitPoint", domain.PseudoExitPoint, name)
}

// InputPin declares an input-pin marker.
func (s *Scope) InputPin(name string) (*Pseudo, error) {
	return s.pseudo("InputPin", domain.PseudoInputPin, name)
}

// OutputPin declares an output-pin marker.
func (s *Scope) OutputPin(name string) (*Pseudo, error) {
	return s.pseudo("OutputPin", domain.PseudoOutputPin, name)
}

// Receive declares a receive marker.
func (s *Scope) Receive(name string) (*Pseudo, error) {
	return s.pseudo("Receive", domain.PseudoReceive, name)
}

// ExpansionInput declares an expansion-input marker.
func (s *Scope) ExpansionInput(name string) (*Pseudo, error) {
	return s.pseudo("ExpansionInput", domain.PseudoExpansionInput, name)
}

// ExpansionOutput declares an expansion-output marker.
func (s *Scope) ExpansionOutput(name string) (*Pseudo, error) {
	return s.pseudo("ExpansionOutput", domain.PseudoExpansionOutput, name)
}

// accessorRef guards the implicit-identity accessors: the identity is fixed
// and globally valid, but the accessor must still be invoked on the scope
// that is on top of the stack. Misuse surfaces when the ref is resolved at
// the next builder call boundary.
func (s *Scope) accessorRef(op, identity string) Ref {
	if s.closed || s.b.top() != s {
		top := s.b.top()
		return errRef{err: &domain.StructuralMisuseError{
			Op:    op,
			Scope: string(top.tag),
			Hint:  fmt.Sprintf("use the %s accessor of the open %s scope's own handle", op, top.tag),
		}}
	}
	return literalRef(identity)
}

// Start returns the initial pseudo-state reference.
func (s *Scope) Start() Ref { return s.accessorRef("Start", domain.StartIdentity) }

// End returns the final pseudo-state reference.
func (s *Scope) End() Ref { return s.accessorRef("End", domain.StartIdentity) }

// History returns the shallow history marker reference.
func (s *Scope) History() Ref { return s.accessorRef("History", domain.HistoryIdentity) }

// DeepHistory returns the deep history marker reference.
func (s *Scope) DeepHistory() Ref { return s.accessorRef("DeepHistory", domain.DeepHistoryIdentity) }

// NoteOption tunes a note declaration.
type NoteOption func(*noteSpec)

type noteSpec struct {
	anchor   Ref
	position domain.NotePosition
}

// On anchors the note to a declared identity.
func On(ref Ref) NoteOption {
	return func(n *noteSpec) { n.anchor = ref }
}

// At sets the placement hint.
func At(pos domain.NotePosition) NoteOption {
	return func(n *noteSpec) { n.position = pos }
}

// Note declares a note, floating unless anchored with On.
func (s *Scope) Note(text string, opts ...NoteOption) error {
	if err := s.ready("Note", kindDeclare); err != nil {
		return err
	}
	if strings.TrimSpace(text) == "" {
		return &domain.EmptyContentError{Op: "Note", What: "non-empty text"}
	}
	spec := noteSpec{}
	for _, opt := range opts {
		opt(&spec)
	}
	note := &domain.Note{Text: text, Position: spec.position}
	if spec.anchor != nil {
		target, err := spec.anchor.resolve(s, "note anchor")
		if err != nil {
			return err
		}
		note.Target = target
		if note.Position == "" {
			note.Position = domain.NoteRight
		}
	}
	s.entries = append(s.entries, note)
	return nil
}
