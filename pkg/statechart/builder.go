package statechart

import (
	"log/slog"

	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/presentation/plantuml"
	"github.com/aretw0/espalier/internal/refs"
	"github.com/aretw0/espalier/pkg/domain"
)

// Builder is one diagram construction session. The embedded Scope is the
// diagram scope, so declarations can be issued on the Builder directly.
type Builder struct {
	*Scope

	stack   []*Scope
	meta    domain.Diagram
	logger  *slog.Logger
	tokens  TokenSource
	diagram *domain.Diagram // set once Build succeeds
}

// Option configures a Builder session.
type Option func(*Builder)

// WithTitle sets the diagram title.
func WithTitle(title string) Option {
	return func(b *Builder) { b.meta.Title = title }
}

// WithCaption sets the diagram caption.
func WithCaption(caption string) Option {
	return func(b *Builder) { b.meta.Caption = caption }
}

// WithScale sets a raw scale clause, e.g. "1.5" or "200 width".
func WithScale(scale string) Option {
	return func(b *Builder) { b.meta.Scale = scale }
}

// WithTheme names a renderer theme.
func WithTheme(theme string) Option {
	return func(b *Builder) { b.meta.Theme = theme }
}

// WithLayoutHint appends a raw directive line emitted before the entry
// sequence, e.g. "hide empty description". May be given multiple times.
func WithLayoutHint(hint string) Option {
	return func(b *Builder) { b.meta.LayoutHints = append(b.meta.LayoutHints, hint) }
}

// WithLogger sets a custom structured logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTokenSource injects the generator used for anonymous fork/join
// identities. Inject a SequenceTokens to make output deterministic in tests.
func WithTokenSource(ts TokenSource) Option {
	return func(b *Builder) {
		if ts != nil {
			b.tokens = ts
		}
	}
}

// New creates a construction session.
func New(opts ...Option) *Builder {
	b := &Builder{
		logger: logging.NewNop(),
		tokens: uuidTokens{},
	}
	root := &Scope{
		b:   b,
		tag: tagDiagram,
		reg: refs.New(nil),
	}
	b.Scope = root
	b.stack = []*Scope{root}

	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build freezes the session into an immutable Diagram. Every nested scope
// must be closed first. Build is idempotent: repeated calls return the same
// Diagram, and no declaration can be issued afterwards.
func (b *Builder) Build() (*domain.Diagram, error) {
	if b.diagram != nil {
		return b.diagram, nil
	}
	if top := b.top(); top.tag != tagDiagram {
		return nil, &domain.StructuralMisuseError{
			Op:    "Build",
			Scope: string(top.tag),
			Hint:  "close every open scope before building",
		}
	}

	d := b.meta
	d.Entries = b.Scope.entries
	b.Scope.closed = true
	b.diagram = &d

	b.logger.Debug("diagram built", "entries", len(d.Entries))
	return b.diagram, nil
}

// Render builds the diagram and serializes it.
func (b *Builder) Render() (string, error) {
	d, err := b.Build()
	if err != nil {
		return "", err
	}
	return plantuml.Render(d), nil
}

func (b *Builder) top() *Scope {
	return b.stack[len(b.stack)-1]
}

func (b *Builder) push(s *Scope) {
	b.stack = append(b.stack, s)
}

func (b *Builder) pop() {
	b.stack = b.stack[:len(b.stack)-1]
}
