package tasks

import (
	"fmt"
	"sync"

	"slotify/config"
	"slotify/models"
	"slotify/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

var (
	client     *asynq.Client
	clientOnce sync.Once
)

// GetClient returns the process-wide asynq client bound to the queue Redis DB.
func GetClient() *asynq.Client {
	clientOnce.Do(func() {
		client = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		})
	})
	return client
}

// CloseClient releases the queue connection during shutdown.
func CloseClient() {
	if client != nil {
		if err := client.Close(); err != nil {
			utils.GetLogger().Error("failed to close task queue client", zap.Error(err))
		}
	}
}

// Enqueuer implements the booking engine's scheduling hooks on top of asynq.
type Enqueuer struct{}

// ScheduleRelease enqueues a lock-release task to fire at the lock's expiry.
// The handler claims the token first, so a lock already committed or released
// makes the task a no-op.
func (Enqueuer) ScheduleRelease(lock models.CapacityLock) error {
	task, opts, err := NewLockReleaseTask(lock)
	if err != nil {
		return fmt.Errorf("failed to build lock release task: %w", err)
	}
	info, err := GetClient().Enqueue(task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue lock release: %w", err)
	}
	utils.GetLogger().Debug("scheduled lock release",
		zap.String("token", lock.Token),
		zap.String("taskId", info.ID),
		zap.Time("processAt", lock.ExpiresAt))
	return nil
}

// BookingCommitted enqueues the post-commit notification dispatch.
func (Enqueuer) BookingCommitted(group models.BookingGroup) error {
	task, opts, err := NewBookingCommittedTask(group)
	if err != nil {
		return fmt.Errorf("failed to build notification task: %w", err)
	}
	if _, err := GetClient().Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue booking notification: %w", err)
	}
	return nil
}

// BookingCancelled enqueues the cancellation notification dispatch.
func (Enqueuer) BookingCancelled(group models.BookingGroup) error {
	task, opts, err := NewBookingCancelledTask(group)
	if err != nil {
		return fmt.Errorf("failed to build cancellation task: %w", err)
	}
	if _, err := GetClient().Enqueue(task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue cancellation notification: %w", err)
	}
	return nil
}
