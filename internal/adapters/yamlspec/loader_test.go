package yamlspec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/espalier/internal/adapters/yamlspec"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/statechart"
)

func TestLoad_SimpleFlow(t *testing.T) {
	def := []byte(`
title: Session
states:
  - name: Idle
  - name: Active
    description: doing work
transitions:
  - from: start
    to: Idle
  - from: Idle
    to: Active
    label: go
`)

	b, err := yamlspec.Load(def)
	require.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "title Session\n")
	assert.Contains(t, out, "[*] --> Idle\n")
	assert.Contains(t, out, "Idle --> Active : go\n")
	assert.Contains(t, out, "Active : doing work\n")
}

func TestLoad_NestedStructure(t *testing.T) {
	def := []byte(`
states:
  - name: Working
    composite:
      states:
        - name: Fetching
      transitions:
        - from: start
          to: Fetching
  - name: Player
    regions:
      - name: playback
        states:
          - name: Playing
      - name: volume
        states:
          - name: Muted
transitions:
  - from: Working
    to: Player
`)

	b, err := yamlspec.Load(def)
	require.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "state Working {\n  state Fetching\n  [*] --> Fetching\n}\n")
	assert.Contains(t, out, "state Player {\n  state Playing\n  --\n  state Muted\n}\n")
	assert.Contains(t, out, "Working --> Player\n")
}

func TestLoad_Parallel(t *testing.T) {
	def := []byte(`
parallel:
  - name: checks
    branches:
      - states:
          - name: FraudCheck
      - states:
          - name: BalanceCheck
          - name: Hold
        transitions:
          - from: BalanceCheck
            to: Hold
`)

	b, err := yamlspec.Load(def)
	require.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "state checks_fork <<fork>>\n")
	assert.Contains(t, out, "checks_fork --> FraudCheck\n")
	assert.Contains(t, out, "Hold --> checks_join\n")
}

func TestLoad_MarkersAndNotes(t *testing.T) {
	def := []byte(`
states:
  - name: retry
    kind: choice
  - name: Idle
notes:
  - text: waits here
    of: Idle
    position: left
`)

	b, err := yamlspec.Load(def)
	require.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "state retry <<choice>>\n")
	assert.Contains(t, out, "note left of Idle : waits here\n")
}

func TestLoad_BuilderErrorsSurface(t *testing.T) {
	def := []byte(`
states:
  - name: Idle
transitions:
  - from: Idle
    to: Missing
`)

	_, err := yamlspec.Load(def)
	var unresolved *domain.UnresolvedReferenceError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "Missing", unresolved.Identity)
}

func TestLoad_UnknownKind(t *testing.T) {
	def := []byte(`
states:
  - name: x
    kind: teleport
`)
	_, err := yamlspec.Load(def)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleport")
}

func TestLoad_ExtraOptionsApply(t *testing.T) {
	def := []byte(`
parallel:
  - branches:
      - states:
          - name: Only
`)

	b, err := yamlspec.Load(def, statechart.WithTokenSource(statechart.NewSequenceTokens()))
	require.NoError(t, err)

	out, err := b.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "state fork_1 <<fork>>\n")
}
