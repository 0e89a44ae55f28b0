// Package persona defines the externally stored system-prompt profiles and
// the lookup interface the gateway depends on. Backends live in
// modules/persona.
package persona

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound indicates no persona matches the lookup.
var ErrNotFound = errors.New("persona not found")

// Persona is a named system-prompt profile. (Name, Version) is unique.
type Persona struct {
	ID      int64
	Name    string
	Version string

	// Content is the system-prompt body.
	Content string

	// Experiences is an accumulated free-text log, ";"-separated,
	// rendered under an "Esperienze:" heading in the final prompt.
	Experiences string

	// Restricted hides the persona from non-master listings.
	Restricted bool

	// English marks English-language personas.
	English bool
}

// Store is the persona lookup and mutation interface.
// Implementations must be safe for concurrent use.
type Store interface {
	// GetByID returns the persona with the given ID.
	GetByID(ctx context.Context, id int64) (*Persona, error)

	// GetByName returns the persona with the given name and version.
	GetByName(ctx context.Context, name, version string) (*Persona, error)

	// List returns personas sorted by name. Restricted personas are
	// excluded unless includeRestricted is set.
	List(ctx context.Context, includeRestricted bool) ([]Persona, error)

	// AppendExperience appends a text fragment to the persona's
	// experience log using MergeExperience semantics.
	AppendExperience(ctx context.Context, name, version, text string) error
}

// MergeExperience appends text to an existing experience log: trailing
// whitespace is trimmed, a ";" separator is ensured, and the fragment is
// appended as " <text>;\n".
func MergeExperience(existing, text string) string {
	merged := strings.TrimRight(existing, " \t\r\n")
	if merged != "" && !strings.HasSuffix(merged, ";") {
		merged += ";"
	}
	merged += " " + text + ";\n"
	return strings.TrimLeft(merged, " \t\r\n")
}
