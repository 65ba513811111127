package slotRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates indexes for the slot queries on the booking hot path.
func (repo *MongoSlotRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		// Availability resolver: shift + date range scan.
		{Keys: bson.D{
			{Key: "tenant_id", Value: 1},
			{Key: "shift_id", Value: 1},
			{Key: "date", Value: 1},
		}},
		// Allocator: all resource slots at one window.
		{Keys: bson.D{
			{Key: "tenant_id", Value: 1},
			{Key: "service_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "start_time", Value: 1},
		}},
	}
	if _, err := repo.slotColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create slot indexes: %w", err)
	}
	return nil
}
