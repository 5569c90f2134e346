// Package gmodel defines the core data types of the graph store: typed
// identifiers, vertices, edges, accounts, and the metadata value shape.
//
// These types mirror the data model of a directed, typed, attributed graph:
// vertices are owned, typed nodes; edges are directed, typed, weighted
// links between two vertices. Both carry free-form JSON metadata addressed
// separately from their core fields.
package gmodel

import (
	"bytes"
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

// UUID is a 128-bit identifier for vertices and accounts.
//
// Two constructors exist: NewParentUUID produces a fully random identifier,
// while NewChildUUID derives an identifier from a parent such that child
// UUIDs of the same parent sort near each other in UUID order. This makes
// per-owner range scans over the vertex index cheap without a secondary
// owner index.
type UUID [16]byte

// NilUUID is the all-zero UUID, used as the id of the default account.
var NilUUID = UUID{}

// NewParentUUID returns a new randomly generated UUID, suitable for account
// ids and for the owning vertex of a fresh id chain.
func NewParentUUID() UUID {
	return UUID(uuid.New())
}

// childPrefixLen is the number of leading bytes a child UUID shares with its
// parent. Since UUID ordering is byte-lexicographic, sharing a prefix makes
// children of the same parent cluster together in the vertices index.
const childPrefixLen = 6

// NewChildUUID derives a new UUID from parent such that it sorts close to
// other UUIDs derived from the same parent. The leading childPrefixLen bytes
// are copied from parent; the remainder is filled with cryptographically
// random bytes so that children of the same parent remain distinct and
// unpredictable.
func NewChildUUID(parent UUID) UUID {
	var child UUID
	copy(child[:childPrefixLen], parent[:childPrefixLen])

	suffix := make([]byte, len(child)-childPrefixLen)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand.Read on the standard Reader only fails if the OS
		// entropy source is unavailable, which is not a condition this
		// package can recover from.
		panic(fmt.Sprintf("gmodel: failed to read random bytes: %v", err))
	}
	copy(child[childPrefixLen:], suffix)

	return child
}

// ParseUUID parses the hyphenated lowercase string form used on the wire
// (spec §6: "Fields that hold UUIDs are hyphenated lowercase strings").
func ParseUUID(s string) (UUID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("gmodel: parse uuid %q: %w", s, err)
	}
	return UUID(parsed), nil
}

// String renders the UUID in hyphenated lowercase form.
func (u UUID) String() string {
	return uuid.UUID(u).String()
}

// Compare returns -1, 0, or 1 as u is less than, equal to, or greater than
// other, comparing raw bytes lexicographically.
func (u UUID) Compare(other UUID) int {
	return bytes.Compare(u[:], other[:])
}

// Less reports whether u sorts strictly before other.
func (u UUID) Less(other UUID) bool {
	return u.Compare(other) < 0
}

// IsNil reports whether u is the all-zero UUID.
func (u UUID) IsNil() bool {
	return u == NilUUID
}

// MarshalText implements encoding.TextMarshaler so UUID round-trips through
// JSON as the hyphenated string form.
func (u UUID) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UUID) UnmarshalText(text []byte) error {
	parsed, err := ParseUUID(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

const secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// secretLength is the fixed length of a generated account secret.
const secretLength = 32

// GenerateRandomSecret returns a fixed-length, cryptographically random,
// printable string suitable for use as an account secret. It is the Go
// analogue of the `generate_random_secret` external collaborator named in
// spec §6.
func GenerateRandomSecret() string {
	out := make([]byte, secretLength)
	buf := make([]byte, secretLength)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("gmodel: failed to read random bytes: %v", err))
	}
	for i, b := range buf {
		out[i] = secretAlphabet[int(b)%len(secretAlphabet)]
	}
	return string(out)
}
