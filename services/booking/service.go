package booking

import (
	"context"
	"fmt"

	"slotify/models"
	"slotify/utils"

	"go.uber.org/zap"
)

// CancelGroup voids a committed booking group, restoring slot capacity and
// package entitlement for every confirmed unit through the same transactional
// path that committed them.
func (s *DefaultBookingService) CancelGroup(ctx context.Context, tenantID, groupID string) (models.BookingGroup, error) {
	units, err := s.Bookings.VoidGroupTransactionally(ctx, tenantID, groupID)
	if err != nil {
		return models.BookingGroup{}, fmt.Errorf("failed to cancel booking group %s: %w", groupID, err)
	}
	group := models.GroupFromUnits(units)
	if s.Notifier != nil {
		if err := s.Notifier.BookingCancelled(group); err != nil {
			utils.GetLogger().Warn("failed to enqueue cancellation notification",
				zap.String("groupID", group.ID), zap.Error(err))
		}
	}
	return group, nil
}

var validPaymentStatuses = map[string]bool{
	models.PaymentUnpaid:   true,
	models.PaymentPaid:     true,
	models.PaymentManual:   true,
	models.PaymentAwaiting: true,
}

// RecordPayment attaches an externally supplied payment status to a group.
// This core records the flag, it does not validate payment.
func (s *DefaultBookingService) RecordPayment(ctx context.Context, tenantID, groupID, status, paymentRef string) error {
	if !validPaymentStatuses[status] {
		return fmt.Errorf("unknown payment status %q", status)
	}
	modified, err := s.Bookings.UpdateGroupPayment(ctx, tenantID, groupID, status, paymentRef)
	if err != nil {
		return err
	}
	if modified == 0 {
		return fmt.Errorf("booking group %s not found", groupID)
	}
	return nil
}

func (s *DefaultBookingService) GetGroup(ctx context.Context, tenantID, groupID string) (models.BookingGroup, error) {
	units, err := s.Bookings.GetGroup(ctx, tenantID, groupID)
	if err != nil {
		return models.BookingGroup{}, err
	}
	if len(units) == 0 {
		return models.BookingGroup{}, fmt.Errorf("booking group %s not found", groupID)
	}
	return models.GroupFromUnits(units), nil
}

// ListGroups folds a customer's unit rows into booking groups, newest first.
func (s *DefaultBookingService) ListGroups(ctx context.Context, tenantID, customerID string) ([]models.BookingGroup, error) {
	units, err := s.Bookings.ListByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}
	order := make([]string, 0)
	byGroup := make(map[string][]models.Booking)
	for _, u := range units {
		if _, seen := byGroup[u.BookingGroupID]; !seen {
			order = append(order, u.BookingGroupID)
		}
		byGroup[u.BookingGroupID] = append(byGroup[u.BookingGroupID], u)
	}
	groups := make([]models.BookingGroup, 0, len(order))
	for _, id := range order {
		groups = append(groups, models.GroupFromUnits(byGroup[id]))
	}
	return groups, nil
}
