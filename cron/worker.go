package cron

import (
	"context"
	"encoding/json"
	"fmt"

	"slotify/config"
	"slotify/models"
	"slotify/services/booking"
	"slotify/services/notification"
	"slotify/services/tasks"
	"slotify/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Worker processes background tasks: scheduled lock releases and booking
// notifications.
type Worker struct {
	server   *asynq.Server
	bookings booking.BookingService
	notifier notification.Notifier
}

func NewWorker(bookings booking.BookingService, notifier notification.Notifier) *Worker {
	server := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisQueueDB,
		},
		asynq.Config{
			Concurrency: 10,
		},
	)
	return &Worker{server: server, bookings: bookings, notifier: notifier}
}

// Start runs the task server in its own goroutine. Call Shutdown to stop.
func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeLockRelease, w.handleLockRelease)
	mux.HandleFunc(tasks.TypeBookingCommitted, w.handleBookingCommitted)
	mux.HandleFunc(tasks.TypeBookingCancelled, w.handleBookingCancelled)

	go func() {
		if err := w.server.Run(mux); err != nil {
			utils.GetLogger().Error("task worker stopped", zap.Error(err))
		}
	}()
	utils.GetLogger().Info("task worker started")
	return nil
}

func (w *Worker) Shutdown() {
	w.server.Shutdown()
}

// handleLockRelease returns held capacity for a lock that reached its TTL.
// Release claims the token atomically, so a lock that was committed or
// released in the meantime makes this a no-op.
func (w *Worker) handleLockRelease(ctx context.Context, t *asynq.Task) error {
	var payload tasks.LockReleasePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to parse lock release payload: %w", err)
	}
	if err := w.bookings.Release(ctx, payload.TenantID, payload.Token); err != nil {
		return fmt.Errorf("failed to release expired lock %s: %w", payload.Token, err)
	}
	utils.GetLogger().Debug("processed lock release", zap.String("token", payload.Token))
	return nil
}

func (w *Worker) handleBookingCommitted(ctx context.Context, t *asynq.Task) error {
	var group models.BookingGroup
	if err := json.Unmarshal(t.Payload(), &group); err != nil {
		return fmt.Errorf("failed to parse booking notification payload: %w", err)
	}
	if err := w.notifier.BookingCommitted(group); err != nil {
		return fmt.Errorf("failed to notify booking %s: %w", group.ID, err)
	}
	return nil
}

func (w *Worker) handleBookingCancelled(ctx context.Context, t *asynq.Task) error {
	var group models.BookingGroup
	if err := json.Unmarshal(t.Payload(), &group); err != nil {
		return fmt.Errorf("failed to parse cancellation payload: %w", err)
	}
	if err := w.notifier.BookingCancelled(group); err != nil {
		return fmt.Errorf("failed to notify cancellation %s: %w", group.ID, err)
	}
	return nil
}
