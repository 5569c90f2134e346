package graphstore

import "errors"

// Error taxonomy (spec §7). Sentinels are checked with errors.Is; call
// sites that need to add context wrap them with fmt.Errorf's %w, the same
// convention the teacher corpus uses throughout pkg/storage.
var (
	// ErrAccountNotFound is returned by an account operation on an absent id.
	ErrAccountNotFound = errors.New("graphstore: account not found")
	// ErrVertexNotFound is returned when an edge operation references a
	// missing endpoint vertex.
	ErrVertexNotFound = errors.New("graphstore: vertex not found")
	// ErrMetadataNotFound is returned by get/delete on an absent metadata key.
	ErrMetadataNotFound = errors.New("graphstore: metadata not found")
	// ErrUnauthorized is returned when a caller attempts to mutate an
	// edge or vertex it does not own.
	ErrUnauthorized = errors.New("graphstore: unauthorized")
	// ErrOutOfRange is the taxonomy's out_of_range sentinel. It is never
	// returned by this package directly: gmodel's own constructors
	// (NewType, NewWeight) reject empty Types and Weights outside [-1,1]
	// before a value ever reaches a Transaction method, and pkg/graphwire
	// maps those gmodel sentinels to the same "out_of_range" wire code.
	// Kept here so the taxonomy is nameable from pkg/graphstore too.
	ErrOutOfRange = errors.New("graphstore: value out of range")
	// ErrNotImplemented is returned by Rollback, which the in-memory core
	// does not support.
	ErrNotImplemented = errors.New("graphstore: not implemented")
)
