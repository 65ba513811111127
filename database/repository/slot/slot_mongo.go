package slotRepo

import (
	"context"
	"fmt"
	"time"

	"slotify/database"
	"slotify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSlotRepo implements SlotRepository using MongoDB.
type MongoSlotRepo struct {
	slotColl *mongo.Collection
}

// NewMongoSlotRepo constructs a new instance of MongoSlotRepo.
func NewMongoSlotRepo() SlotRepository {
	return &MongoSlotRepo{
		slotColl: database.Collection("slots"),
	}
}

func (repo *MongoSlotRepo) GetOpenSlots(ctx context.Context, tenantID string, shiftIDs []string, fromDate, toDate string) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"tenant_id":          tenantID,
		"shift_id":           bson.M{"$in": shiftIDs},
		"date":               bson.M{"$gte": fromDate, "$lte": toDate},
		"is_available":       true,
		"available_capacity": bson.M{"$gt": 0},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start_time", Value: 1}})
	cursor, err := repo.slotColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching open slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}

func (repo *MongoSlotRepo) GetSlotsAtWindow(ctx context.Context, tenantID, serviceID, date, startTime, endTime string) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"tenant_id":    tenantID,
		"service_id":   serviceID,
		"date":         date,
		"start_time":   startTime,
		"end_time":     endTime,
		"is_available": true,
	}
	cursor, err := repo.slotColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching slots at window %s %s-%s: %w", date, startTime, endTime, err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}

func (repo *MongoSlotRepo) GetSlotsByIDs(ctx context.Context, tenantID string, slotIDs []string) ([]models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID, "id": bson.M{"$in": slotIDs}}
	cursor, err := repo.slotColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching slots by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.Slot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}

func (repo *MongoSlotRepo) GetSlotByID(ctx context.Context, tenantID, slotID string) (*models.Slot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var slot models.Slot
	filter := bson.M{"id": slotID, "tenant_id": tenantID}
	if err := repo.slotColl.FindOne(ctx, filter).Decode(&slot); err != nil {
		return nil, fmt.Errorf("error fetching slot with id %s: %w", slotID, err)
	}
	return &slot, nil
}

// ReserveCapacity performs the single atomic check-and-increment of the lock
// phase. The free-capacity condition lives in the update filter, so two
// racing callers can never both match the last unit.
func (repo *MongoSlotRepo) ReserveCapacity(ctx context.Context, tenantID, slotID string, units int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":           slotID,
		"tenant_id":    tenantID,
		"is_available": true,
		"$expr": bson.M{"$gte": bson.A{
			bson.M{"$subtract": bson.A{"$available_capacity", "$held_count"}},
			units,
		}},
	}
	update := bson.M{"$inc": bson.M{"held_count": units}}

	res, err := repo.slotColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("error reserving capacity on slot %s: %w", slotID, err)
	}
	if res.MatchedCount == 0 {
		return ErrInsufficientCapacity
	}
	return nil
}

func (repo *MongoSlotRepo) ReleaseHold(ctx context.Context, tenantID, slotID string, units int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Guard keeps held_count from going negative if a release races a commit.
	filter := bson.M{
		"id":         slotID,
		"tenant_id":  tenantID,
		"held_count": bson.M{"$gte": units},
	}
	update := bson.M{"$inc": bson.M{"held_count": -units}}
	if _, err := repo.slotColl.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error releasing hold on slot %s: %w", slotID, err)
	}
	return nil
}

func (repo *MongoSlotRepo) RestoreCapacity(ctx context.Context, tenantID, slotID string, units int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":           slotID,
		"tenant_id":    tenantID,
		"booked_count": bson.M{"$gte": units},
	}
	update := bson.M{"$inc": bson.M{"available_capacity": units, "booked_count": -units}}
	if _, err := repo.slotColl.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("error restoring capacity on slot %s: %w", slotID, err)
	}
	return nil
}
