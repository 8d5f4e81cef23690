package world

import "errors"

var (
	// ErrOutOfBounds is returned for local chunk coordinates outside the grid.
	ErrOutOfBounds = errors.New("world: local coordinates out of chunk bounds")

	// ErrUnaligned is returned when a chunk offset is not a multiple of the
	// chunk's horizontal size.
	ErrUnaligned = errors.New("world: chunk offset not aligned to chunk grid")

	// ErrPoolExhausted means reconciliation needed more slots than it freed.
	// The pool was left untouched; callers must treat it as fatal.
	ErrPoolExhausted = errors.New("world: no free slot for required chunk")

	// ErrPoolInvariant means the ring partition no longer covers the pool
	// exactly once. World state can no longer be trusted.
	ErrPoolInvariant = errors.New("world: chunk pool invariant violated")

	// ErrInvalidConfig is returned by constructors given unusable parameters.
	ErrInvalidConfig = errors.New("world: invalid configuration")
)
