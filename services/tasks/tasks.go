package tasks

import (
	"encoding/json"
	"time"

	"slotify/models"

	"github.com/hibiken/asynq"
)

// Task type names.
const (
	TypeLockRelease      = "lock:release"
	TypeBookingCommitted = "booking:committed"
	TypeBookingCancelled = "booking:cancelled"
)

// LockReleasePayload identifies the lock whose reservation should be
// returned at TTL expiry.
type LockReleasePayload struct {
	Token    string `json:"token"`
	TenantID string `json:"tenantId"`
}

// NewLockReleaseTask schedules a capacity release at the lock's expiry.
func NewLockReleaseTask(lock models.CapacityLock) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(LockReleasePayload{Token: lock.Token, TenantID: lock.TenantID})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.ProcessAt(lock.ExpiresAt),
		asynq.MaxRetry(3),
	}
	return asynq.NewTask(TypeLockRelease, b), opts, nil
}

// NewBookingCommittedTask enqueues a fire-and-forget notification for a
// committed booking group.
func NewBookingCommittedTask(group models.BookingGroup) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(group)
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	return asynq.NewTask(TypeBookingCommitted, b), opts, nil
}

// NewBookingCancelledTask enqueues the cancellation notification.
func NewBookingCancelledTask(group models.BookingGroup) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(group)
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}
	return asynq.NewTask(TypeBookingCancelled, b), opts, nil
}
