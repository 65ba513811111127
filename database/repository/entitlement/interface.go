package entitlementRepo

import (
	"context"

	"slotify/models"
)

// EntitlementRepository provides tenant-scoped reads of package subscriptions
// and their per-service usage rows. Usage counters are mutated only inside
// the booking commit/void transactions, never through this interface.
type EntitlementRepository interface {
	GetActiveSubscriptions(ctx context.Context, tenantID, customerID string) ([]models.PackageSubscription, error)
	GetUsageForService(ctx context.Context, tenantID string, subscriptionIDs []string, serviceID string) ([]models.PackageUsage, error)
}
