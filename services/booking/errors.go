package booking

import (
	"errors"
	"fmt"
)

// InsufficientCapacityError reports a capacity shortfall with the concrete
// numbers, so callers can offer an actionable retry.
type InsufficientCapacityError struct {
	Requested int
	Available int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("insufficient capacity: requested %d, available %d", e.Requested, e.Available)
}

// NewInsufficientCapacityError builds the error from the observed counts.
func NewInsufficientCapacityError(requested, available int) error {
	return &InsufficientCapacityError{Requested: requested, Available: available}
}

// AsInsufficientCapacity unwraps err into an InsufficientCapacityError.
func AsInsufficientCapacity(err error) (*InsufficientCapacityError, bool) {
	var ice *InsufficientCapacityError
	ok := errors.As(err, &ice)
	return ice, ok
}

var (
	// ErrMixedResourceSelection: a consecutive selection spans resources in a
	// shape the allocator cannot serve.
	ErrMixedResourceSelection = errors.New("selected slots belong to different resources")
	// ErrNoSlotSelected: consecutive strategy without a caller selection.
	ErrNoSlotSelected = errors.New("no slot selected")
	// ErrLockExpired: the lock token is unknown or past its TTL. Callers
	// should treat this as insufficient capacity and retry from allocation.
	ErrLockExpired = errors.New("capacity lock expired")
	// ErrVerificationRequired: a guest caller attempted commit without a
	// verified phone session.
	ErrVerificationRequired = errors.New("phone verification required")
	// ErrCommitFailed: internal partial-commit failure; the group was fully
	// rolled back and never became visible.
	ErrCommitFailed = errors.New("booking commit failed")
)
