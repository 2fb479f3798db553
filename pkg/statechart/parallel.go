package statechart

import (
	"github.com/aretw0/espalier/pkg/domain"
)

// expandParallel converts a closing parallel scope into its fork/join
// structure: one fork marker, then per branch a fork→entry edge, the
// branch's own sequence and an exit→join edge, then one join marker. The
// order is fixed and the serializer preserves it verbatim.
func (s *Scope) expandParallel() ([]domain.Entry, error) {
	if len(s.branches) == 0 {
		return nil, &domain.EmptyBranchError{Branch: -1}
	}

	forkID, joinID := s.forkJoinIdentities()
	if err := s.parent.reg.Register(forkID, forkID); err != nil {
		return nil, err
	}
	if err := s.parent.reg.Register(joinID, joinID); err != nil {
		return nil, err
	}

	out := make([]domain.Entry, 0, len(s.branches)*2+2)
	out = append(out, &domain.PseudoElement{Kind: domain.PseudoFork, Name: forkID})

	for i, branch := range s.branches {
		entry, exit, err := analyzeBranch(i, branch)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.Relationship{Source: forkID, Target: entry})
		out = append(out, branch...)
		out = append(out, &domain.Relationship{Source: exit, Target: joinID})
	}

	out = append(out, &domain.PseudoElement{Kind: domain.PseudoJoin, Name: joinID})
	return out, nil
}

// forkJoinIdentities derives the marker identities from the caller-supplied
// block name, or draws session-unique tokens for anonymous blocks so
// independent parallel structures never collide.
func (s *Scope) forkJoinIdentities() (string, string) {
	if s.parallelName != "" {
		base := domain.Sanitize(s.parallelName)
		return base + "_fork", base + "_join"
	}
	return s.b.tokens.Token("fork"), s.b.tokens.Token("join")
}

// analyzeBranch infers the entry and exit identity of one branch.
//
// Entry is the first state-like entry in declaration order. Exit is the
// unique state-like entry that is never the source of a relationship
// declared in the branch; when the branch cycles (every state is a source)
// the last declared entry is taken, and more than one candidate is an
// error, never a silent pick.
func analyzeBranch(idx int, entries []domain.Entry) (entry, exit string, err error) {
	var states []string
	sources := make(map[string]struct{})

	for _, e := range entries {
		switch v := e.(type) {
		case *domain.Container:
			states = append(states, v.Identity())
		case *domain.Element:
			states = append(states, v.Identity())
		case *domain.Relationship:
			sources[v.Source] = struct{}{}
		}
	}

	if len(states) == 0 {
		return "", "", &domain.EmptyBranchError{Branch: idx}
	}
	entry = states[0]

	var candidates []string
	for _, id := range states {
		if _, ok := sources[id]; !ok {
			candidates = append(candidates, id)
		}
	}

	switch len(candidates) {
	case 0:
		// Cycle: fall back to the last declared state.
		exit = states[len(states)-1]
	case 1:
		exit = candidates[0]
	default:
		return "", "", &domain.AmbiguousExitError{Branch: idx, Candidates: candidates}
	}
	return entry, exit, nil
}
