package entitlementRepo

import (
	"context"
	"fmt"
	"time"

	"slotify/database"
	"slotify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoEntitlementRepo implements EntitlementRepository using MongoDB.
type MongoEntitlementRepo struct {
	subscriptionColl *mongo.Collection
	usageColl        *mongo.Collection
}

// NewMongoEntitlementRepo constructs a new instance of MongoEntitlementRepo.
func NewMongoEntitlementRepo() EntitlementRepository {
	return &MongoEntitlementRepo{
		subscriptionColl: database.Collection("package_subscriptions"),
		usageColl:        database.Collection("package_usages"),
	}
}

func (repo *MongoEntitlementRepo) GetActiveSubscriptions(ctx context.Context, tenantID, customerID string) ([]models.PackageSubscription, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"tenant_id":   tenantID,
		"customer_id": customerID,
		"status":      models.SubscriptionActive,
	}
	cursor, err := repo.subscriptionColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching subscriptions for customer %s: %w", customerID, err)
	}
	defer cursor.Close(ctx)

	var subs []models.PackageSubscription
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("error decoding subscriptions: %w", err)
	}
	return subs, nil
}

func (repo *MongoEntitlementRepo) GetUsageForService(ctx context.Context, tenantID string, subscriptionIDs []string, serviceID string) ([]models.PackageUsage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"tenant_id":       tenantID,
		"subscription_id": bson.M{"$in": subscriptionIDs},
		"service_id":      serviceID,
	}
	cursor, err := repo.usageColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching package usage for service %s: %w", serviceID, err)
	}
	defer cursor.Close(ctx)

	var usages []models.PackageUsage
	if err := cursor.All(ctx, &usages); err != nil {
		return nil, fmt.Errorf("error decoding package usage: %w", err)
	}
	return usages, nil
}
