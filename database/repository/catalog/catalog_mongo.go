package catalogRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotify/database"
	"slotify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	serviceColl  *mongo.Collection
	offerColl    *mongo.Collection
	shiftColl    *mongo.Collection
	employeeColl *mongo.Collection
}

// NewMongoCatalogRepo constructs a new instance of MongoCatalogRepo.
func NewMongoCatalogRepo() CatalogRepository {
	return &MongoCatalogRepo{
		serviceColl:  database.Collection("services"),
		offerColl:    database.Collection("offers"),
		shiftColl:    database.Collection("shifts"),
		employeeColl: database.Collection("employees"),
	}
}

func (repo *MongoCatalogRepo) GetServiceByID(ctx context.Context, tenantID, serviceID string) (*models.Service, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var svc models.Service
	filter := bson.M{"id": serviceID, "tenant_id": tenantID}
	if err := repo.serviceColl.FindOne(ctx, filter).Decode(&svc); err != nil {
		return nil, fmt.Errorf("error fetching service with id %s: %w", serviceID, err)
	}
	return &svc, nil
}

// GetActiveOffer returns the current offer for a service, or nil when no
// offer is running.
func (repo *MongoCatalogRepo) GetActiveOffer(ctx context.Context, tenantID, serviceID string) (*models.Offer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"tenant_id":  tenantID,
		"service_id": serviceID,
		"active":     true,
		"starts_at":  bson.M{"$lte": now},
		"ends_at":    bson.M{"$gte": now},
	}
	var offer models.Offer
	err := repo.offerColl.FindOne(ctx, filter).Decode(&offer)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching active offer for service %s: %w", serviceID, err)
	}
	return &offer, nil
}

func (repo *MongoCatalogRepo) GetActiveShifts(ctx context.Context, tenantID, serviceID string) ([]models.Shift, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID, "service_id": serviceID, "is_active": true}
	cursor, err := repo.shiftColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching shifts for service %s: %w", serviceID, err)
	}
	defer cursor.Close(ctx)

	var shifts []models.Shift
	if err := cursor.All(ctx, &shifts); err != nil {
		return nil, fmt.Errorf("error decoding shifts: %w", err)
	}
	return shifts, nil
}

func (repo *MongoCatalogRepo) GetEmployeeByID(ctx context.Context, tenantID, employeeID string) (*models.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var emp models.Employee
	filter := bson.M{"id": employeeID, "tenant_id": tenantID}
	if err := repo.employeeColl.FindOne(ctx, filter).Decode(&emp); err != nil {
		return nil, fmt.Errorf("error fetching employee with id %s: %w", employeeID, err)
	}
	return &emp, nil
}
