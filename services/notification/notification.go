package notification

import (
	"slotify/models"
	"slotify/utils"

	"go.uber.org/zap"
)

// Notifier delivers booking lifecycle messages to the customer. Delivery
// channels (SMS, email) live behind this interface; the worker resolves the
// concrete implementation.
type Notifier interface {
	BookingCommitted(group models.BookingGroup) error
	BookingCancelled(group models.BookingGroup) error
}

// LogNotifier is the development notifier.
type LogNotifier struct{}

func (LogNotifier) BookingCommitted(group models.BookingGroup) error {
	utils.GetLogger().Info("booking confirmed",
		zap.String("groupId", group.ID),
		zap.String("customer", group.Customer.Name),
		zap.String("phone", group.Customer.Phone),
		zap.Int("units", len(group.Units)),
		zap.Float64("total", group.TotalPrice))
	return nil
}

func (LogNotifier) BookingCancelled(group models.BookingGroup) error {
	utils.GetLogger().Info("booking cancelled",
		zap.String("groupId", group.ID),
		zap.String("customer", group.Customer.Name),
		zap.Int("units", len(group.Units)))
	return nil
}
