package statechart_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/statechart"
)

func deterministic() statechart.Option {
	return statechart.WithTokenSource(statechart.NewSequenceTokens())
}

func TestParallel_EntryExitInference(t *testing.T) {
	b := statechart.New(deterministic())

	p, err := b.OpenParallel()
	require.NoError(t, err)

	// Branch 1: a single state is both entry and exit.
	br, err := p.OpenBranch()
	require.NoError(t, err)
	_, err = br.State("FraudCheck")
	require.NoError(t, err)
	require.NoError(t, br.Close())

	// Branch 2: BalanceCheck flows into Hold, so Hold is the unique exit.
	br, err = p.OpenBranch()
	require.NoError(t, err)
	bc, err := br.State("BalanceCheck")
	require.NoError(t, err)
	hold, err := br.State("Hold")
	require.NoError(t, err)
	_, err = br.Transition(bc, hold)
	require.NoError(t, err)
	require.NoError(t, br.Close())

	require.NoError(t, p.Close())

	out, err := b.Render()
	require.NoError(t, err)

	assert.Contains(t, out, "fork_1 --> FraudCheck\n")
	assert.Contains(t, out, "FraudCheck --> join_2\n")
	assert.Contains(t, out, "fork_1 --> BalanceCheck\n")
	assert.Contains(t, out, "Hold --> join_2\n")
}

func TestParallel_OutputOrder(t *testing.T) {
	b := statechart.New(deterministic())

	err := b.Parallel("", func(p *statechart.Scope) error {
		for _, name := range []string{"Alpha", "Beta", "Gamma"} {
			name := name
			if err := p.Branch(func(br *statechart.Scope) error {
				_, err := br.State(name)
				return err
			}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(out, "<<fork>>"))
	assert.Equal(t, 1, strings.Count(out, "<<join>>"))
	assert.Equal(t, 3, strings.Count(out, "fork_1 --> "))
	assert.Equal(t, 3, strings.Count(out, " --> join_2\n"))

	// Fixed relative order: fork, branch blocks, join.
	fork := strings.Index(out, "state fork_1 <<fork>>")
	alpha := strings.Index(out, "fork_1 --> Alpha")
	gamma := strings.Index(out, "Gamma --> join_2")
	join := strings.Index(out, "state join_2 <<join>>")
	require.True(t, fork >= 0 && alpha >= 0 && gamma >= 0 && join >= 0)
	assert.Less(t, fork, alpha)
	assert.Less(t, alpha, gamma)
	assert.Less(t, gamma, join)
}

func TestParallel_NamedBlock(t *testing.T) {
	b := statechart.New()

	err := b.Parallel("checks", func(p *statechart.Scope) error {
		return p.Branch(func(br *statechart.Scope) error {
			_, err := br.State("FraudCheck")
			return err
		})
	})
	require.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "state checks_fork <<fork>>\n")
	assert.Contains(t, out, "state checks_join <<join>>\n")
}

func TestParallel_AnonymousBlocksDoNotCollide(t *testing.T) {
	b := statechart.New(deterministic())

	for _, name := range []string{"One", "Two"} {
		name := name
		err := b.Parallel("", func(p *statechart.Scope) error {
			return p.Branch(func(br *statechart.Scope) error {
				_, err := br.State(name)
				return err
			})
		})
		require.NoError(t, err)
	}

	out, err := b.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "state fork_1 <<fork>>\n")
	assert.Contains(t, out, "state fork_3 <<fork>>\n")
}

func TestParallel_AmbiguousExit(t *testing.T) {
	b := statechart.New(deterministic())

	p, err := b.OpenParallel()
	require.NoError(t, err)
	br, err := p.OpenBranch()
	require.NoError(t, err)
	_, err = br.State("A")
	require.NoError(t, err)
	_, err = br.State("B")
	require.NoError(t, err)
	require.NoError(t, br.Close())

	err = p.Close()
	var ambiguous *domain.AmbiguousExitError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, 0, ambiguous.Branch)
	assert.Equal(t, []string{"A", "B"}, ambiguous.Candidates)
}

func TestParallel_EmptyBranch(t *testing.T) {
	b := statechart.New(deterministic())

	p, err := b.OpenParallel()
	require.NoError(t, err)
	br, err := p.OpenBranch()
	require.NoError(t, err)
	require.NoError(t, br.Close())

	err = p.Close()
	var empty *domain.EmptyBranchError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, 0, empty.Branch)
}

func TestParallel_NoBranches(t *testing.T) {
	b := statechart.New(deterministic())

	p, err := b.OpenParallel()
	require.NoError(t, err)

	err = p.Close()
	var empty *domain.EmptyBranchError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, -1, empty.Branch)
}

func TestParallel_CycleFallsBackToLastDeclared(t *testing.T) {
	b := statechart.New(deterministic())

	p, err := b.OpenParallel()
	require.NoError(t, err)
	br, err := p.OpenBranch()
	require.NoError(t, err)
	a, err := br.State("A")
	require.NoError(t, err)
	bb, err := br.State("B")
	require.NoError(t, err)
	_, err = br.Transition(a, bb)
	require.NoError(t, err)
	_, err = br.Transition(bb, a)
	require.NoError(t, err)
	require.NoError(t, br.Close())
	require.NoError(t, p.Close())

	out, err := b.Render()
	require.NoError(t, err)
	// Every state is a source, so the last declared one is the exit.
	assert.Contains(t, out, "B --> join_2\n")
}

func TestParallel_HoldsBranchesOnly(t *testing.T) {
	b := statechart.New(deterministic())
	p, err := b.OpenParallel()
	require.NoError(t, err)

	_, err = p.State("Stray")
	var misuse *domain.StructuralMisuseError
	require.ErrorAs(t, err, &misuse)
	assert.Contains(t, misuse.Hint, "Branch")
}

func TestParallel_ContainerInBranch(t *testing.T) {
	b := statechart.New(deterministic())

	err := b.Parallel("", func(p *statechart.Scope) error {
		return p.Branch(func(br *statechart.Scope) error {
			// A composite counts as a state-like entry for inference.
			return br.Composite("Nested", func(s *statechart.Scope) error {
				_, err := s.State("Inner")
				return err
			})
		})
	})
	require.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "fork_1 --> Nested\n")
	assert.Contains(t, out, "Nested --> join_2\n")
}
