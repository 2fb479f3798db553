package espalier

import (
	"github.com/aretw0/espalier/pkg/statechart"
)

// Version is the library version reported by the CLI.
const Version = "0.2.1"

// Re-exported option constructors, so simple callers only import this
// package.
var (
	WithTitle       = statechart.WithTitle
	WithCaption     = statechart.WithCaption
	WithScale       = statechart.WithScale
	WithTheme       = statechart.WithTheme
	WithLayoutHint  = statechart.WithLayoutHint
	WithLogger      = statechart.WithLogger
	WithTokenSource = statechart.WithTokenSource
)

// New starts a state-diagram construction session.
func New(opts ...statechart.Option) *statechart.Builder {
	return statechart.New(opts...)
}
