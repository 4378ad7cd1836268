package arena

import "errors"

var (
	// ErrOutOfMemory indicates that the platform refused to reserve or commit
	// the requested range.
	ErrOutOfMemory = errors.New("arena: out of memory")

	// ErrInvalidAlignment indicates a requested alignment that is zero or not
	// a power of two.
	ErrInvalidAlignment = errors.New("arena: alignment must be a non-zero power of two")

	// ErrCapacityExceeded indicates a request that cannot be satisfied within
	// the arena's capacity, either because chaining is disabled or because
	// the request size itself is unrepresentable.
	ErrCapacityExceeded = errors.New("arena: capacity exceeded")

	// ErrNotInitialized indicates an operation on an arena that never
	// completed New or has been closed.
	ErrNotInitialized = errors.New("arena: not initialized")

	// ErrInternal indicates a state that should be unreachable while the
	// chain invariants hold. Seeing it is a bug.
	ErrInternal = errors.New("arena: internal failure")
)
