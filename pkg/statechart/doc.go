/*
Package statechart provides the fluent construction API for state-machine
diagrams.

A Builder is one construction session: callers declare states, control
markers and transitions in order, optionally opening nested scopes
(composite, concurrent, parallel), then call Build to freeze the sequence
into an immutable domain.Diagram, or Render to serialize it directly.

	b := statechart.New(statechart.WithTitle("Payment"))
	idle, _ := b.State("Idle")
	active, _ := b.State("Active")
	b.Transition(b.Start(), idle)
	t, _ := b.Transition(idle, active)
	t.Label("go")
	out, err := b.Render()

Every declaration is validated synchronously at the call site; a rejected
call never enters the accumulating sequence. Nothing commits to a parent
scope until the child scope closes, so there is no partial diagram state to
clean up after an error.

A session must be driven by a single goroutine from New to Build.
Independent sessions share no state.
*/
package statechart
