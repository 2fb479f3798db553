package domain

import "strings"

// Fixed global pseudo-identities. They are always valid relationship
// endpoints and never need registration.
const (
	// StartIdentity doubles as the end identity; the target notation uses
	// the same literal for both and disambiguates by position.
	StartIdentity       = "[*]"
	HistoryIdentity     = "[H]"
	DeepHistoryIdentity = "[H*]"
)

// GlobalIdentity reports whether id is one of the fixed pseudo-identities.
func GlobalIdentity(id string) bool {
	switch id {
	case StartIdentity, HistoryIdentity, DeepHistoryIdentity:
		return true
	}
	return false
}

// sanitizeDropped are runes that would break the target grammar when embedded
// in an identifier. They are stripped during sanitization.
const sanitizeDropped = "\"{}[]:;"

// Sanitize derives a reference identity from a display name: spaces become
// underscores, grammar-breaking runes are dropped. The result may be empty
// for degenerate names; callers treat that as a missing name.
func Sanitize(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r == '\n' || r == '\t' || r == '\r':
			// skip
		case strings.ContainsRune(sanitizeDropped, r):
			// skip
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NeedsQuoting reports whether a display name must be emitted as a quoted
// literal (with an explicit alias clause) instead of a bare identifier.
func NeedsQuoting(name string) bool {
	for _, r := range name {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			continue
		}
		return true
	}
	return false
}
