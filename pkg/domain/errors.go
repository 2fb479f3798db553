package domain

import (
	"fmt"
	"strings"
)

// All construction failures are synchronous, caller-facing and
// non-retryable: the offending call is rejected before anything is appended
// to the accumulating sequence, so no partial diagram state ever exists.
// Messages carry the remediation (the corrected call form, or the list of
// currently valid identities).

// EmptyNameError reports a declaration with a blank required name.
type EmptyNameError struct {
	Op string // the declaration that was attempted, e.g. "State"

	// Name is the rejected input; set when the name was non-blank but
	// sanitized to an empty identity.
	Name string
}

func (e *EmptyNameError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: name %q yields an empty identity after sanitization; provide an alias", e.Op, e.Name)
	}
	return fmt.Sprintf("%s requires a non-empty name", e.Op)
}

// EmptyContentError reports blank required text, e.g. an empty note body.
type EmptyContentError struct {
	Op   string
	What string
}

func (e *EmptyContentError) Error() string {
	return fmt.Sprintf("%s requires %s", e.Op, e.What)
}

// CollisionError reports a duplicate identity in one scope.
type CollisionError struct {
	Identity string
	Existing string // display name of the earlier registration
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("identity %q already declared in this scope (by %q); set a distinct alias to disambiguate", e.Identity, e.Existing)
}

// UnresolvedReferenceError reports a relationship or note endpoint that does
// not resolve in the enclosing scope chain.
type UnresolvedReferenceError struct {
	Identity string
	Role     string // "source", "target", "note anchor", ...
	Known    []string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved %s reference %q; known identities: %s", e.Role, e.Identity, strings.Join(e.Known, ", "))
}

// StructuralMisuseError reports an operation that is illegal for the current
// nesting, e.g. a diagram-scoped declaration issued while a nested scope is
// open.
type StructuralMisuseError struct {
	Op    string
	Scope string // the scope tag that made the operation illegal
	Hint  string // the corrected call form
}

func (e *StructuralMisuseError) Error() string {
	return fmt.Sprintf("%s is not valid inside a %s scope: %s", e.Op, e.Scope, e.Hint)
}

// EmptyBranchError reports a parallel branch with no state-like entry, or a
// parallel block with no branch at all.
type EmptyBranchError struct {
	// Branch is the zero-based declaration index; -1 when the parallel
	// block itself declared no branches.
	Branch int
}

func (e *EmptyBranchError) Error() string {
	if e.Branch < 0 {
		return "parallel block declares no branches; open at least one Branch scope"
	}
	return fmt.Sprintf("parallel branch %d declares no state; each branch needs at least one state-like element", e.Branch)
}

// AmbiguousExitError reports a parallel branch where more than one state is
// never the source of a relationship, so no unique exit can be inferred.
type AmbiguousExitError struct {
	Branch     int
	Candidates []string
}

func (e *AmbiguousExitError) Error() string {
	return fmt.Sprintf("parallel branch %d has no unique exit, candidates: %s; connect them or leave exactly one without outgoing relationships",
		e.Branch, strings.Join(e.Candidates, ", "))
}
