package statechart

import (
	"fmt"
	"strings"

	"github.com/aretw0/espalier/internal/refs"
	"github.com/aretw0/espalier/pkg/domain"
)

type scopeTag string

const (
	tagDiagram    scopeTag = "diagram"
	tagComposite  scopeTag = "composite"
	tagConcurrent scopeTag = "concurrent"
	tagRegion     scopeTag = "region"
	tagParallel   scopeTag = "parallel"
	tagBranch     scopeTag = "branch"
)

// opKind partitions the builder operations for the legality table.
type opKind int

const (
	kindDeclare opKind = iota // states, pseudo markers, transitions, notes
	kindOpen                  // composite / concurrent / parallel
	kindRegion
	kindBranch
)

// legalOps is the capability table: which operation kinds are valid while a
// scope with the given tag is on top of the stack. Concurrent scopes hold
// only regions, parallel scopes hold only branches; everything else accepts
// ordinary declarations and nested containers.
var legalOps = map[scopeTag]map[opKind]bool{
	tagDiagram:    {kindDeclare: true, kindOpen: true},
	tagComposite:  {kindDeclare: true, kindOpen: true},
	tagRegion:     {kindDeclare: true, kindOpen: true},
	tagBranch:     {kindDeclare: true, kindOpen: true},
	tagConcurrent: {kindRegion: true},
	tagParallel:   {kindBranch: true},
}

// Scope is one nested construction block with its own accumulating sequence
// and registry visibility. The Builder's diagram scope and every handle
// returned by the Open* methods are Scopes, so the full declaration surface
// is available at any nesting depth.
type Scope struct {
	b      *Builder
	tag    scopeTag
	parent *Scope
	reg    *refs.Registry
	closed bool

	entries []domain.Entry

	// container scopes (composite, concurrent)
	elem domain.Element

	// concurrent scopes: regions collected as child region scopes close
	regions []domain.Region
	// region scopes
	regionName string

	// parallel scopes: branch sequences collected as branch scopes close
	parallelName string
	branches     [][]domain.Entry
}

// ready guards every operation: the handle must be open, must be the scope
// on top of the stack, and the operation kind must be legal for its tag.
func (s *Scope) ready(op string, kind opKind) error {
	if s.closed {
		return &domain.StructuralMisuseError{
			Op:    op,
			Scope: string(s.tag),
			Hint:  "this scope is already closed; declare on an open scope handle",
		}
	}
	if top := s.b.top(); top != s {
		return &domain.StructuralMisuseError{
			Op:    op,
			Scope: string(top.tag),
			Hint:  fmt.Sprintf("a nested %s scope is open; use its own handle, or Close it before declaring here", top.tag),
		}
	}
	if !legalOps[s.tag][kind] {
		return &domain.StructuralMisuseError{
			Op:    op,
			Scope: string(s.tag),
			Hint:  misuseHint(s.tag, kind),
		}
	}
	return nil
}

func misuseHint(tag scopeTag, kind opKind) string {
	switch {
	case tag == tagConcurrent:
		return "a concurrent scope holds regions only; open a Region and declare there"
	case tag == tagParallel:
		return "a parallel scope holds branches only; open a Branch and declare there"
	case kind == kindRegion:
		return "regions exist only inside a concurrent scope; call OpenConcurrent first"
	case kind == kindBranch:
		return "branches exist only inside a parallel scope; call OpenParallel first"
	}
	return "operation is not valid for this scope"
}

// OpenComposite opens a nested composite state. The container's identity is
// registered immediately so siblings can reference it; its body freezes when
// the returned scope closes.
func (s *Scope) OpenComposite(name string, opts ...ElementOption) (*Scope, error) {
	return s.openContainer("OpenComposite", tagComposite, name, opts)
}

// OpenConcurrent opens a nested concurrent state, whose body is an ordered
// list of parallel regions. Open regions with OpenRegion on the returned
// scope.
func (s *Scope) OpenConcurrent(name string, opts ...ElementOption) (*Scope, error) {
	sc, err := s.openContainer("OpenConcurrent", tagConcurrent, name, opts)
	if err != nil {
		return nil, err
	}
	sc.regions = make([]domain.Region, 0)
	return sc, nil
}

func (s *Scope) openContainer(op string, tag scopeTag, name string, opts []ElementOption) (*Scope, error) {
	if err := s.ready(op, kindOpen); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, &domain.EmptyNameError{Op: op}
	}
	elem := domain.Element{Name: name}
	for _, opt := range opts {
		opt(&elem)
	}
	id := elem.Identity()
	if id == "" {
		return nil, &domain.EmptyNameError{Op: op, Name: name}
	}
	if err := s.reg.Register(id, name); err != nil {
		return nil, err
	}

	child := &Scope{
		b:      s.b,
		tag:    tag,
		parent: s,
		reg:    refs.New(s.reg),
		elem:   elem,
	}
	s.b.push(child)
	s.b.logger.Debug("scope opened", "tag", string(tag), "id", id)
	return child, nil
}

// OpenRegion opens one parallel region of a concurrent scope. The name is
// kept for introspection; the target notation does not render it.
func (s *Scope) OpenRegion(name string) (*Scope, error) {
	if err := s.ready("OpenRegion", kindRegion); err != nil {
		return nil, err
	}
	child := &Scope{
		b:          s.b,
		tag:        tagRegion,
		parent:     s,
		reg:        refs.New(s.reg),
		regionName: name,
	}
	s.b.push(child)
	return child, nil
}

// OpenParallel opens a fork/join block. The optional name seeds the fork and
// join identities ("name_fork"/"name_join"); anonymous blocks draw a
// session-unique token instead. Open branches with OpenBranch on the
// returned scope.
func (s *Scope) OpenParallel(name ...string) (*Scope, error) {
	if err := s.ready("OpenParallel", kindOpen); err != nil {
		return nil, err
	}
	child := &Scope{
		b:      s.b,
		tag:    tagParallel,
		parent: s,
		reg:    refs.New(s.reg),
	}
	if len(name) > 0 {
		child.parallelName = name[0]
	}
	s.b.push(child)
	return child, nil
}

// OpenBranch opens one parallel path of a parallel scope.
func (s *Scope) OpenBranch() (*Scope, error) {
	if err := s.ready("OpenBranch", kindBranch); err != nil {
		return nil, err
	}
	child := &Scope{
		b:      s.b,
		tag:    tagBranch,
		parent: s,
		reg:    refs.New(s.reg),
	}
	s.b.push(child)
	return child, nil
}

// Close freezes this scope's accumulated state into the parent sequence and
// makes its registered identities visible to the parent. Parallel scopes
// expand through the branch analyzer into fork/join structure on the way
// out.
func (s *Scope) Close() error {
	if s.closed {
		return &domain.StructuralMisuseError{
			Op:    "Close",
			Scope: string(s.tag),
			Hint:  "scope is already closed",
		}
	}
	if s.tag == tagDiagram {
		return &domain.StructuralMisuseError{
			Op:    "Close",
			Scope: string(tagDiagram),
			Hint:  "the diagram scope is finished with Build, not Close",
		}
	}
	if top := s.b.top(); top != s {
		return &domain.StructuralMisuseError{
			Op:    "Close",
			Scope: string(top.tag),
			Hint:  fmt.Sprintf("close the nested %s scope first", top.tag),
		}
	}

	switch s.tag {
	case tagComposite:
		s.parent.entries = append(s.parent.entries, &domain.Container{
			Element: s.elem,
			Entries: s.entries,
		})
	case tagConcurrent:
		s.parent.entries = append(s.parent.entries, &domain.Container{
			Element: s.elem,
			Regions: s.regions,
		})
	case tagRegion:
		s.parent.regions = append(s.parent.regions, domain.Region{
			Name:    s.regionName,
			Entries: s.entries,
		})
	case tagBranch:
		s.parent.branches = append(s.parent.branches, s.entries)
	case tagParallel:
		expanded, err := s.expandParallel()
		if err != nil {
			return err
		}
		s.parent.entries = append(s.parent.entries, expanded...)
	}

	s.parent.reg.Merge(s.reg)
	s.closed = true
	s.b.pop()
	s.b.logger.Debug("scope closed", "tag", string(s.tag))
	return nil
}

// discard pops this scope (and anything still open inside it) without
// committing to the parent. Used by the block helpers when the caller's
// function fails, so the stack is unwound exactly once. Container
// identities registered at open are rolled back, so the parent registry
// holds no trace of the discarded block and the fixed call sequence can be
// re-issued on the same builder.
func (s *Scope) discard() {
	for {
		top := s.b.top()
		if top.tag == tagDiagram {
			return
		}
		top.closed = true
		s.b.pop()
		switch top.tag {
		case tagComposite, tagConcurrent:
			top.parent.reg.Unregister(top.elem.Identity())
		}
		if top == s {
			return
		}
	}
}

func (s *Scope) block(open func() (*Scope, error), fn func(*Scope) error) error {
	child, err := open()
	if err != nil {
		return err
	}
	if err := fn(child); err != nil {
		child.discard()
		return err
	}
	return child.Close()
}

// Composite declares a composite state and runs fn inside its scope. The
// scope is closed when fn returns nil, and discarded (stack unwound, nothing
// committed) when fn fails.
func (s *Scope) Composite(name string, fn func(*Scope) error, opts ...ElementOption) error {
	return s.block(func() (*Scope, error) { return s.OpenComposite(name, opts...) }, fn)
}

// Concurrent declares a concurrent state and runs fn inside its scope.
func (s *Scope) Concurrent(name string, fn func(*Scope) error, opts ...ElementOption) error {
	return s.block(func() (*Scope, error) { return s.OpenConcurrent(name, opts...) }, fn)
}

// Region opens one region of a concurrent scope and runs fn inside it.
func (s *Scope) Region(name string, fn func(*Scope) error) error {
	return s.block(func() (*Scope, error) { return s.OpenRegion(name) }, fn)
}

// Parallel opens a fork/join block and runs fn inside it.
func (s *Scope) Parallel(name string, fn func(*Scope) error) error {
	return s.block(func() (*Scope, error) {
		if name == "" {
			return s.OpenParallel()
		}
		return s.OpenParallel(name)
	}, fn)
}

// Branch opens one parallel path and runs fn inside it.
func (s *Scope) Branch(fn func(*Scope) error) error {
	return s.block(s.OpenBranch, fn)
}
