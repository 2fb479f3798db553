package statechart_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/statechart"
)

func TestScope_DiagramOpsBlockedWhileNested(t *testing.T) {
	b := statechart.New()
	work, err := b.OpenComposite("Working")
	require.NoError(t, err)

	// Declaring on the root while the composite is open is a misuse; the
	// error points at the open scope's own handle.
	_, err = b.State("Oops")
	var misuse *domain.StructuralMisuseError
	require.ErrorAs(t, err, &misuse)
	assert.Equal(t, "State", misuse.Op)
	assert.Equal(t, "composite", misuse.Scope)
	assert.Contains(t, misuse.Hint, "handle")

	// The nested handle works.
	_, err = work.State("Fetching")
	require.NoError(t, err)
	require.NoError(t, work.Close())

	// Root is usable again after the close.
	_, err = b.State("Done")
	assert.NoError(t, err)
}

func TestScope_StartAccessorMisuse(t *testing.T) {
	b := statechart.New()
	work, err := b.OpenComposite("Working")
	require.NoError(t, err)

	fetch, err := work.State("Fetching")
	require.NoError(t, err)

	// The root's Start accessor is diagram-scoped; the misuse surfaces at
	// the call boundary that consumes the ref.
	_, err = work.Transition(b.Start(), fetch)
	var misuse *domain.StructuralMisuseError
	require.ErrorAs(t, err, &misuse)
	assert.Equal(t, "Start", misuse.Op)

	// The open scope's own accessor is the corrected form.
	_, err = work.Transition(work.Start(), fetch)
	assert.NoError(t, err)
	require.NoError(t, work.Close())
}

func TestScope_CompositeFreezeAndMerge(t *testing.T) {
	b := statechart.New()

	err := b.Composite("Working", func(s *statechart.Scope) error {
		fetch, err := s.State("Fetching")
		if err != nil {
			return err
		}
		_, err = s.Transition(s.Start(), fetch)
		return err
	})
	require.NoError(t, err)

	// Identities declared inside the composite merged upward, so an outer
	// relationship can reference them.
	_, err = b.Transition(statechart.ID("Fetching"), b.End())
	require.NoError(t, err)

	// The container itself is an endpoint via its derived identity.
	_, err = b.Transition(b.Start(), statechart.ID("Working"))
	require.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "state Working {\n")
	assert.Contains(t, out, "  state Fetching\n")
	assert.Contains(t, out, "  [*] --> Fetching\n")
	assert.Contains(t, out, "}\n")
}

func TestScope_ContainerHandleAsEndpoint(t *testing.T) {
	b := statechart.New()
	work, err := b.OpenComposite("Working")
	require.NoError(t, err)
	_, err = work.State("Fetching")
	require.NoError(t, err)
	require.NoError(t, work.Close())

	_, err = b.Transition(b.Start(), work)
	require.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "[*] --> Working\n")
}

func TestScope_ConcurrentRegions(t *testing.T) {
	b := statechart.New()

	err := b.Concurrent("Player", func(c *statechart.Scope) error {
		if err := c.Region("playback", func(r *statechart.Scope) error {
			_, err := r.State("Playing")
			return err
		}); err != nil {
			return err
		}
		return c.Region("volume", func(r *statechart.Scope) error {
			_, err := r.State("Muted")
			return err
		})
	})
	require.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "state Player {\n  state Playing\n  --\n  state Muted\n}\n")
}

func TestScope_ConcurrentHoldsRegionsOnly(t *testing.T) {
	b := statechart.New()
	player, err := b.OpenConcurrent("Player")
	require.NoError(t, err)

	_, err = player.State("Playing")
	var misuse *domain.StructuralMisuseError
	require.ErrorAs(t, err, &misuse)
	assert.Contains(t, misuse.Hint, "Region")

	region, err := player.OpenRegion("playback")
	require.NoError(t, err)
	_, err = region.State("Playing")
	require.NoError(t, err)
	require.NoError(t, region.Close())
	require.NoError(t, player.Close())
}

func TestScope_RegionOutsideConcurrent(t *testing.T) {
	b := statechart.New()
	_, err := b.OpenRegion("stray")
	var misuse *domain.StructuralMisuseError
	require.ErrorAs(t, err, &misuse)
	assert.Contains(t, misuse.Hint, "OpenConcurrent")
}

func TestScope_BlockHelperDiscardsOnError(t *testing.T) {
	b := statechart.New()
	boom := errors.New("boom")

	err := b.Composite("Doomed", func(s *statechart.Scope) error {
		if _, err := s.State("Partial"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Nothing from the discarded scope committed or merged.
	_, err = b.Transition(statechart.ID("Partial"), b.End())
	var unresolved *domain.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)

	// The stack unwound: the root accepts declarations again.
	_, err = b.State("Recovered")
	assert.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)
	assert.NotContains(t, out, "Partial")
}

func TestScope_DiscardRollsBackRegistration(t *testing.T) {
	b := statechart.New()
	boom := errors.New("boom")

	err := b.Composite("Doomed", func(s *statechart.Scope) error {
		return boom
	})
	require.ErrorIs(t, err, boom)

	// The discarded container's identity is not referable: no dangling edge
	// to a state that was never declared.
	_, err = b.Transition(statechart.ID("Doomed"), b.End())
	var unresolved *domain.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)

	// Re-issuing the fixed block on the same builder succeeds.
	err = b.Composite("Doomed", func(s *statechart.Scope) error {
		_, err := s.State("Init")
		return err
	})
	require.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "state Doomed {\n")
}

func TestScope_DiscardUnwindsNestedRegistrations(t *testing.T) {
	b := statechart.New()
	boom := errors.New("boom")

	err := b.Composite("Outer", func(s *statechart.Scope) error {
		// Left open on purpose; the failing block must unwind it too.
		if _, err := s.OpenComposite("Inner"); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	// Nothing from the unwound scopes remains registered or referable.
	_, err = b.Transition(statechart.ID("Inner"), b.End())
	var unresolved *domain.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)

	_, err = b.State("Outer")
	assert.NoError(t, err)
}

func TestScope_CloseOrderEnforced(t *testing.T) {
	b := statechart.New()
	outer, err := b.OpenComposite("Outer")
	require.NoError(t, err)
	inner, err := outer.OpenComposite("Inner")
	require.NoError(t, err)

	err = outer.Close()
	var misuse *domain.StructuralMisuseError
	require.ErrorAs(t, err, &misuse)

	require.NoError(t, inner.Close())
	require.NoError(t, outer.Close())

	err = outer.Close()
	require.ErrorAs(t, err, &misuse)
}

func TestScope_BuildWithOpenScope(t *testing.T) {
	b := statechart.New()
	_, err := b.OpenComposite("Working")
	require.NoError(t, err)

	_, err = b.Build()
	var misuse *domain.StructuralMisuseError
	require.ErrorAs(t, err, &misuse)
	assert.Equal(t, "Build", misuse.Op)
}

func TestScope_SiblingScopesMayReuseIdentities(t *testing.T) {
	b := statechart.New()

	err := b.Composite("First", func(s *statechart.Scope) error {
		_, err := s.State("Init")
		return err
	})
	require.NoError(t, err)

	// Collision checks are per scope: a second composite may declare its
	// own "Init" even though the first one's merged upward. Only same-scope
	// siblings collide.
	err = b.Composite("Second", func(s *statechart.Scope) error {
		_, err := s.State("Init")
		return err
	})
	assert.NoError(t, err)
}
