package slotRepo

import (
	"context"
	"errors"

	"slotify/models"
)

// ErrInsufficientCapacity is returned when a guarded reserve finds less free
// capacity than requested at the moment of the atomic check.
var ErrInsufficientCapacity = errors.New("insufficient slot capacity")

// SlotRepository provides tenant-scoped slot reads plus the guarded atomic
// capacity operations of the lock protocol. Slot.available_capacity and
// held_count are mutated only through these methods and the commit
// transaction in the booking repository; no other code path touches them.
type SlotRepository interface {
	GetOpenSlots(ctx context.Context, tenantID string, shiftIDs []string, fromDate, toDate string) ([]models.Slot, error)
	GetSlotsAtWindow(ctx context.Context, tenantID, serviceID, date, startTime, endTime string) ([]models.Slot, error)
	GetSlotsByIDs(ctx context.Context, tenantID string, slotIDs []string) ([]models.Slot, error)
	GetSlotByID(ctx context.Context, tenantID, slotID string) (*models.Slot, error)

	// ReserveCapacity atomically checks available_capacity-held_count >= units
	// and increments held_count, in one guarded update. Returns
	// ErrInsufficientCapacity when the check fails.
	ReserveCapacity(ctx context.Context, tenantID, slotID string, units int) error
	// ReleaseHold returns previously reserved units to the free pool.
	// Idempotence is the caller's concern; held_count never goes negative.
	ReleaseHold(ctx context.Context, tenantID, slotID string, units int) error
	// RestoreCapacity undoes committed units (cancellation path).
	RestoreCapacity(ctx context.Context, tenantID, slotID string, units int) error
}
