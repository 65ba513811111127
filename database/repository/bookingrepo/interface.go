package bookingRepo

import (
	"context"
	"errors"

	"slotify/models"
)

// Typed commit failures. The commit transaction aborts as a whole on either;
// callers see a fully rolled-back state.
var (
	// ErrSlotExhausted: the durable capacity decrement found no capacity left.
	// With a prior lock this indicates the lock expired and was released.
	ErrSlotExhausted = errors.New("slot capacity exhausted at commit")
	// ErrEntitlementSpent: a concurrent consumer dropped the package usage to
	// zero between pricing and commit.
	ErrEntitlementSpent = errors.New("package entitlement spent at commit")
)

// BookingRepository persists booking rows and runs the multi-document commit
// and void transactions that are the only writers of available_capacity,
// booked_count and remaining_quantity besides the lock's hold counters.
type BookingRepository interface {
	// CommitGroupTransactionally inserts every unit row and, per unit,
	// atomically decrements the slot's durable capacity (and the covering
	// package usage, when set), releasing one held unit each. Any failing
	// unit aborts the whole transaction.
	CommitGroupTransactionally(ctx context.Context, units []models.Booking) error
	// VoidGroupTransactionally marks a committed group voided and restores
	// slot capacity and package entitlement for every confirmed unit.
	VoidGroupTransactionally(ctx context.Context, tenantID, groupID string) ([]models.Booking, error)

	GetGroup(ctx context.Context, tenantID, groupID string) ([]models.Booking, error)
	ListByCustomer(ctx context.Context, tenantID, customerID string) ([]models.Booking, error)
	UpdateGroupPayment(ctx context.Context, tenantID, groupID, status, paymentRef string) (int64, error)
}
