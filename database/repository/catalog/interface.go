package catalogRepo

import (
	"context"

	"slotify/models"
)

// CatalogRepository provides tenant-scoped reads of the booking catalog:
// services, offers, shifts, and employees. The catalog is maintained by admin
// screens outside this core; the booking engine only reads it.
type CatalogRepository interface {
	GetServiceByID(ctx context.Context, tenantID, serviceID string) (*models.Service, error)
	GetActiveOffer(ctx context.Context, tenantID, serviceID string) (*models.Offer, error)
	GetActiveShifts(ctx context.Context, tenantID, serviceID string) ([]models.Shift, error)
	GetEmployeeByID(ctx context.Context, tenantID, employeeID string) (*models.Employee, error)
}
