package statechart

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TokenSource generates identities for anonymous fork/join markers. It is
// injected per session (WithTokenSource), so tests can swap the random
// default for a deterministic sequence.
type TokenSource interface {
	Token(prefix string) string
}

// uuidTokens is the default source. UUID-backed tokens stay unique across
// independent sessions, matching the no-collision guarantee for anonymous
// parallel blocks.
type uuidTokens struct{}

func (uuidTokens) Token(prefix string) string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "_" + raw[:12]
}

// SequenceTokens is a deterministic counter-backed source for tests and
// reproducible output.
type SequenceTokens struct {
	n int
}

// NewSequenceTokens creates a source yielding prefix_1, prefix_2, ...
func NewSequenceTokens() *SequenceTokens {
	return &SequenceTokens{}
}

// Token returns the next token in the sequence.
func (t *SequenceTokens) Token(prefix string) string {
	t.n++
	return fmt.Sprintf("%s_%d", prefix, t.n)
}
