package booking

import (
	"context"
	"time"

	catalogRepo "slotify/database/repository/catalog"
	bookingRepo "slotify/database/repository/bookingrepo"
	customerRepo "slotify/database/repository/customer"
	entitlementRepo "slotify/database/repository/entitlement"
	slotRepo "slotify/database/repository/slot"
	"slotify/models"
)

// BookingService is the operation surface this core exposes to collaborators.
type BookingService interface {
	ResolveAvailability(ctx context.Context, tenantID, serviceID string, from, to time.Time, days int) (AvailabilityResult, error)
	ResolveEntitlement(ctx context.Context, tenantID, customerID, serviceID string) (Entitlement, error)
	AllocateAndLock(ctx context.Context, req LockRequest) (*models.CapacityLock, error)
	Commit(ctx context.Context, req CommitRequest) (models.BookingGroup, error)
	Release(ctx context.Context, tenantID, token string) error
	CancelGroup(ctx context.Context, tenantID, groupID string) (models.BookingGroup, error)
	RecordPayment(ctx context.Context, tenantID, groupID, status, paymentRef string) error
	GetGroup(ctx context.Context, tenantID, groupID string) (models.BookingGroup, error)
	ListGroups(ctx context.Context, tenantID, customerID string) ([]models.BookingGroup, error)
}

// GuestVerifier gates guest commits on the phone-verification state machine.
type GuestVerifier interface {
	IsVerified(ctx context.Context, phone string) (bool, error)
}

// NotificationEnqueuer hands a committed or cancelled group to the
// notification collaborator. Failures are fire-and-forget: they never roll
// back the underlying operation.
type NotificationEnqueuer interface {
	BookingCommitted(group models.BookingGroup) error
	BookingCancelled(group models.BookingGroup) error
}

// ReleaseScheduler schedules the capacity release of a lock at its TTL.
type ReleaseScheduler interface {
	ScheduleRelease(lock models.CapacityLock) error
}

// DefaultBookingService is the production wiring of the booking engine.
type DefaultBookingService struct {
	Catalog      catalogRepo.CatalogRepository
	Slots        slotRepo.SlotRepository
	Entitlements entitlementRepo.EntitlementRepository
	Bookings     bookingRepo.BookingRepository
	Customers    customerRepo.CustomerRepository
	Locks        LockStore
	Verifier     GuestVerifier
	Notifier     NotificationEnqueuer
	Scheduler    ReleaseScheduler
	LockTTL      time.Duration

	// Optional browse cache; nil disables caching.
	AvailCache AvailabilityCache
	AvailTTL   time.Duration
}
