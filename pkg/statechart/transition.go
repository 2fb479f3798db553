package statechart

import (
	"github.com/aretw0/espalier/pkg/domain"
)

// Ref is one relationship or note endpoint: either a raw identity string
// (wrapped by ID, validated against the registry at the call boundary) or an
// already-built handle (State, Pseudo, a container Scope, or an implicit
// accessor), whose identity is read off the handle without a lookup.
//
// The interface is sealed; every resolution happens exactly once, at the
// builder call that consumes the Ref.
type Ref interface {
	resolve(s *Scope, role string) (string, error)
}

// ID wraps a raw identity string for use as an endpoint. The identity must
// resolve in the scope chain at the point of use.
func ID(identity string) Ref { return rawRef(identity) }

type rawRef string

func (r rawRef) resolve(s *Scope, role string) (string, error) {
	id := string(r)
	if err := s.reg.Validate(id, role); err != nil {
		return "", err
	}
	return id, nil
}

// literalRef carries a fixed global pseudo-identity; always valid.
type literalRef string

func (r literalRef) resolve(*Scope, string) (string, error) {
	return string(r), nil
}

// errRef defers an accessor misuse to the consuming call boundary.
type errRef struct{ err error }

func (r errRef) resolve(*Scope, string) (string, error) {
	return "", r.err
}

// Container scopes are endpoints via their own derived identity.
func (s *Scope) resolve(_ *Scope, role string) (string, error) {
	switch s.tag {
	case tagComposite, tagConcurrent:
		return s.elem.Identity(), nil
	}
	return "", &domain.StructuralMisuseError{
		Op:    "Transition",
		Scope: string(s.tag),
		Hint:  "only composite and concurrent scopes carry an identity usable as a " + role,
	}
}

// Transition is the handle for one chain of declared relationships. Its
// modifier methods apply to every relationship produced by the chain and
// must be used before the enclosing scope closes.
type Transition struct {
	rels []*domain.Relationship
}

// Transition declares directed edges over two or more endpoints, one
// relationship per consecutive pair, in declaration order.
func (s *Scope) Transition(endpoints ...Ref) (*Transition, error) {
	if err := s.ready("Transition", kindDeclare); err != nil {
		return nil, err
	}
	if len(endpoints) < 2 {
		return nil, &domain.EmptyContentError{Op: "Transition", What: "at least two endpoints"}
	}

	ids := make([]string, len(endpoints))
	for i, ref := range endpoints {
		role := "target"
		if i == 0 {
			role = "source"
		}
		id, err := ref.resolve(s, role)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}

	t := &Transition{rels: make([]*domain.Relationship, 0, len(ids)-1)}
	for i := 0; i+1 < len(ids); i++ {
		rel := &domain.Relationship{Source: ids[i], Target: ids[i+1]}
		s.entries = append(s.entries, rel)
		t.rels = append(t.rels, rel)
		s.b.logger.Debug("transition declared", "source", rel.Source, "target", rel.Target)
	}
	return t, nil
}

// Label sets the free-form edge text.
func (t *Transition) Label(label string) *Transition {
	for _, r := range t.rels {
		r.Label = label
	}
	return t
}

// Trigger sets the event that fires the transition.
func (t *Transition) Trigger(trigger string) *Transition {
	for _, r := range t.rels {
		r.Trigger = trigger
	}
	return t
}

// Guard sets the guard condition.
func (t *Transition) Guard(guard string) *Transition {
	for _, r := range t.rels {
		r.Guard = guard
	}
	return t
}

// Effect sets the transition effect.
func (t *Transition) Effect(effect string) *Transition {
	for _, r := range t.rels {
		r.Effect = effect
	}
	return t
}

// Style sets a raw arrow style clause, e.g. "#red,dashed".
func (t *Transition) Style(style string) *Transition {
	for _, r := range t.rels {
		r.Style = style
	}
	return t
}

// Direction hints the layout direction of the arrow.
func (t *Transition) Direction(d domain.Direction) *Transition {
	for _, r := range t.rels {
		r.Direction = d
	}
	return t
}

// Note attaches free text to the edge itself.
func (t *Transition) Note(text string) *Transition {
	for _, r := range t.rels {
		r.Note = text
	}
	return t
}
