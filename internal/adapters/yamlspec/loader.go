// Package yamlspec drives a statechart construction session from a
// declarative YAML definition. It is a thin adapter: every structural rule
// is still enforced by the builder, so a bad definition fails with the same
// errors a direct caller would see.
package yamlspec

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/statechart"
)

// Definition is the root of a YAML diagram description.
type Definition struct {
	Title   string   `mapstructure:"title"`
	Caption string   `mapstructure:"caption"`
	Scale   string   `mapstructure:"scale"`
	Theme   string   `mapstructure:"theme"`
	Layout  []string `mapstructure:"layout"`

	Body `mapstructure:",squash"`
}

// Body is one scope's worth of declarations. Groups apply in a fixed order:
// states (with their nested structure), then parallel blocks, then
// transitions, then notes, so transitions can reference anything declared
// in the same body, including identities merged up from nested scopes.
type Body struct {
	States      []StateDef      `mapstructure:"states"`
	Parallel    []ParallelDef   `mapstructure:"parallel"`
	Transitions []TransitionDef `mapstructure:"transitions"`
	Notes       []NoteDef       `mapstructure:"notes"`
}

// StateDef declares one element, control marker or container.
type StateDef struct {
	Name        string `mapstructure:"name"`
	Alias       string `mapstructure:"alias"`
	Style       string `mapstructure:"style"`
	Description string `mapstructure:"description"`

	// Kind selects a control marker (choice, fork, join, entry-point, ...)
	// instead of a plain state.
	Kind string `mapstructure:"kind"`

	// Composite nests a body inside this state.
	Composite *Body `mapstructure:"composite"`

	// Regions turns this state into a concurrent container.
	Regions []RegionDef `mapstructure:"regions"`
}

// RegionDef is one parallel region of a concurrent state.
type RegionDef struct {
	Name string `mapstructure:"name"`
	Body `mapstructure:",squash"`
}

// ParallelDef is a fork/join block.
type ParallelDef struct {
	Name     string `mapstructure:"name"`
	Branches []Body `mapstructure:"branches"`
}

// TransitionDef declares one directed edge between identities.
type TransitionDef struct {
	From      string `mapstructure:"from"`
	To        string `mapstructure:"to"`
	Label     string `mapstructure:"label"`
	Trigger   string `mapstructure:"trigger"`
	Guard     string `mapstructure:"guard"`
	Effect    string `mapstructure:"effect"`
	Style     string `mapstructure:"style"`
	Direction string `mapstructure:"direction"`
	Note      string `mapstructure:"note"`
}

// NoteDef declares a note, floating unless "of" anchors it.
type NoteDef struct {
	Text     string `mapstructure:"text"`
	Of       string `mapstructure:"of"`
	Position string `mapstructure:"position"`
}

// Load parses a YAML definition and replays it into a fresh construction
// session. Extra options (e.g. a deterministic token source) append after
// the definition's own metadata.
func Load(data []byte, opts ...statechart.Option) (*statechart.Builder, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse diagram definition: %w", err)
	}

	var def Definition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &def})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid diagram definition: %w", err)
	}

	options := make([]statechart.Option, 0, len(opts)+5)
	if def.Title != "" {
		options = append(options, statechart.WithTitle(def.Title))
	}
	if def.Caption != "" {
		options = append(options, statechart.WithCaption(def.Caption))
	}
	if def.Scale != "" {
		options = append(options, statechart.WithScale(def.Scale))
	}
	if def.Theme != "" {
		options = append(options, statechart.WithTheme(def.Theme))
	}
	for _, hint := range def.Layout {
		options = append(options, statechart.WithLayoutHint(hint))
	}
	options = append(options, opts...)

	b := statechart.New(options...)
	if err := applyBody(b.Scope, def.Body); err != nil {
		return nil, err
	}
	return b, nil
}

// LoadFile reads path and loads its definition.
func LoadFile(path string, opts ...statechart.Option) (*statechart.Builder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read diagram definition: %w", err)
	}
	return Load(data, opts...)
}

func applyBody(s *statechart.Scope, body Body) error {
	for _, st := range body.States {
		if err := applyState(s, st); err != nil {
			return err
		}
	}
	for _, p := range body.Parallel {
		if err := s.Parallel(p.Name, func(ps *statechart.Scope) error {
			for _, branch := range p.Branches {
				branch := branch
				if err := ps.Branch(func(bs *statechart.Scope) error {
					return applyBody(bs, branch)
				}); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	for _, t := range body.Transitions {
		handle, err := s.Transition(endpointRef(t.From), endpointRef(t.To))
		if err != nil {
			return err
		}
		if t.Label != "" {
			handle.Label(t.Label)
		}
		if t.Trigger != "" {
			handle.Trigger(t.Trigger)
		}
		if t.Guard != "" {
			handle.Guard(t.Guard)
		}
		if t.Effect != "" {
			handle.Effect(t.Effect)
		}
		if t.Style != "" {
			handle.Style(t.Style)
		}
		if t.Direction != "" {
			handle.Direction(domain.Direction(t.Direction))
		}
		if t.Note != "" {
			handle.Note(t.Note)
		}
	}
	for _, n := range body.Notes {
		var noteOpts []statechart.NoteOption
		if n.Of != "" {
			noteOpts = append(noteOpts, statechart.On(statechart.ID(n.Of)))
		}
		if n.Position != "" {
			noteOpts = append(noteOpts, statechart.At(domain.NotePosition(n.Position)))
		}
		if err := s.Note(n.Text, noteOpts...); err != nil {
			return err
		}
	}
	return nil
}

func applyState(s *statechart.Scope, st StateDef) error {
	switch {
	case st.Kind != "":
		return applyPseudo(s, st)
	case len(st.Regions) > 0:
		return s.Concurrent(st.Name, func(cs *statechart.Scope) error {
			for _, region := range st.Regions {
				region := region
				if err := cs.Region(region.Name, func(rs *statechart.Scope) error {
					return applyBody(rs, region.Body)
				}); err != nil {
					return err
				}
			}
			return nil
		}, elementOpts(st)...)
	case st.Composite != nil:
		return s.Composite(st.Name, func(ns *statechart.Scope) error {
			return applyBody(ns, *st.Composite)
		}, elementOpts(st)...)
	default:
		_, err := s.State(st.Name, elementOpts(st)...)
		return err
	}
}

func applyPseudo(s *statechart.Scope, st StateDef) error {
	var err error
	switch st.Kind {
	case "choice":
		_, err = s.Choice(st.Name)
	case "fork":
		_, err = s.Fork(st.Name)
	case "join":
		_, err = s.Join(st.Name)
	case "entry-point":
		_, err = s.EntryPoint(st.Name)
	case "exit-point":
		_, err = s.ExitPoint(st.Name)
	case "input-pin":
		_, err = s.InputPin(st.Name)
	case "output-pin":
		_, err = s.OutputPin(st.Name)
	case "receive":
		_, err = s.Receive(st.Name)
	case "expansion-input":
		_, err = s.ExpansionInput(st.Name)
	case "expansion-output":
		_, err = s.ExpansionOutput(st.Name)
	default:
		return fmt.Errorf("unknown state kind %q for %q", st.Kind, st.Name)
	}
	return err
}

func elementOpts(st StateDef) []statechart.ElementOption {
	var opts []statechart.ElementOption
	if st.Alias != "" {
		opts = append(opts, statechart.Alias(st.Alias))
	}
	if st.Style != "" {
		opts = append(opts, statechart.Style(st.Style))
	}
	if st.Description != "" {
		opts = append(opts, statechart.Description(st.Description))
	}
	return opts
}

// endpointRef maps the definition's spelling of the implicit markers to
// their fixed identities; everything else is a raw identity reference.
func endpointRef(v string) statechart.Ref {
	switch v {
	case "start", "end":
		return statechart.ID(domain.StartIdentity)
	case "history":
		return statechart.ID(domain.HistoryIdentity)
	case "deep-history":
		return statechart.ID(domain.DeepHistoryIdentity)
	}
	return statechart.ID(v)
}
