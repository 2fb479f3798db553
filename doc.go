/*
Package espalier assembles state-machine diagrams through a fluent builder
and serializes them to PlantUML state notation for an external renderer.

The core is a document model with validation, automatic fork/join wiring for
parallel blocks, and a pure serializer. Espalier only checks structural
well-formedness and reference resolvability; it never interprets the
behavioral semantics of the machine it describes.

# Usage

	package main

	import (
		"fmt"
		"log"

		"github.com/aretw0/espalier"
	)

	func main() {
		b := espalier.New(espalier.WithTitle("Session"))

		idle, err := b.State("Idle")
		if err != nil {
			log.Fatal(err)
		}
		active, err := b.State("Active")
		if err != nil {
			log.Fatal(err)
		}

		if _, err := b.Transition(b.Start(), idle); err != nil {
			log.Fatal(err)
		}
		t, err := b.Transition(idle, active)
		if err != nil {
			log.Fatal(err)
		}
		t.Label("go")

		out, err := b.Render()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Print(out)
	}

Nested structure uses scopes. Each scope helper closes itself exactly once,
even when the inner function fails:

	b.Composite("Working", func(s *statechart.Scope) error {
		fetch, err := s.State("Fetching")
		if err != nil {
			return err
		}
		_, err = s.Transition(s.Start(), fetch)
		return err
	})

Parallel blocks infer each branch's entry and exit and wire the surrounding
fork and join automatically; see the statechart package for the full API.
*/
package espalier
