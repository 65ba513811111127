package bookingRepo

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

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	slotColl    *mongo.Collection
	usageColl   *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	return &MongoBookingRepo{
		bookingColl: database.Collection("bookings"),
		slotColl:    database.Collection("slots"),
		usageColl:   database.Collection("package_usages"),
	}
}

// commitUnit applies the durable side of one unit inside the transaction:
// slot capacity moves from held to booked, and a covered unit consumes its
// package usage. Both updates carry their guard in the filter.
func (repo *MongoBookingRepo) commitUnit(sc mongo.SessionContext, unit models.Booking) error {
	slotFilter := bson.M{
		"id":                 unit.SlotID,
		"tenant_id":          unit.TenantID,
		"available_capacity": bson.M{"$gte": 1},
	}
	slotUpdate := bson.M{"$inc": bson.M{
		"available_capacity": -1,
		"booked_count":       1,
		"held_count":         -1,
	}}
	res, err := repo.slotColl.UpdateOne(sc, slotFilter, slotUpdate)
	if err != nil {
		return fmt.Errorf("slot decrement failed: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrSlotExhausted
	}

	if unit.SubscriptionID != "" {
		usageFilter := bson.M{
			"tenant_id":          unit.TenantID,
			"subscription_id":    unit.SubscriptionID,
			"service_id":         unit.ServiceID,
			"remaining_quantity": bson.M{"$gte": 1},
		}
		usageUpdate := bson.M{"$inc": bson.M{"remaining_quantity": -1}}
		res, err := repo.usageColl.UpdateOne(sc, usageFilter, usageUpdate)
		if err != nil {
			return fmt.Errorf("entitlement decrement failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrEntitlementSpent
		}
	}
	return nil
}

func (repo *MongoBookingRepo) CommitGroupTransactionally(ctx context.Context, units []models.Booking) error {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		docs := make([]interface{}, 0, len(units))
		for _, u := range units {
			docs = append(docs, u)
		}
		if _, err := repo.bookingColl.InsertMany(sc, docs); err != nil {
			return fmt.Errorf("insert booking group failed: %w", err)
		}
		for _, u := range units {
			if err := repo.commitUnit(sc, u); err != nil {
				return err
			}
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}

func (repo *MongoBookingRepo) VoidGroupTransactionally(ctx context.Context, tenantID, groupID string) ([]models.Booking, error) {
	units, err := repo.GetGroup(ctx, tenantID, groupID)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		return nil, mongo.ErrNoDocuments
	}

	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		filter := bson.M{
			"tenant_id":        tenantID,
			"booking_group_id": groupID,
			"status":           models.BookingConfirmed,
		}
		update := bson.M{"$set": bson.M{"status": models.BookingVoided}}
		if _, err := repo.bookingColl.UpdateMany(sc, filter, update); err != nil {
			return fmt.Errorf("void booking group failed: %w", err)
		}

		for _, u := range units {
			if u.Status != models.BookingConfirmed {
				continue
			}
			slotFilter := bson.M{
				"id":           u.SlotID,
				"tenant_id":    tenantID,
				"booked_count": bson.M{"$gte": 1},
			}
			slotUpdate := bson.M{"$inc": bson.M{"available_capacity": 1, "booked_count": -1}}
			if _, err := repo.slotColl.UpdateOne(sc, slotFilter, slotUpdate); err != nil {
				return fmt.Errorf("restore slot capacity failed: %w", err)
			}
			if u.SubscriptionID != "" {
				usageFilter := bson.M{
					"tenant_id":       tenantID,
					"subscription_id": u.SubscriptionID,
					"service_id":      u.ServiceID,
					"$expr":           bson.M{"$lt": bson.A{"$remaining_quantity", "$original_quantity"}},
				}
				usageUpdate := bson.M{"$inc": bson.M{"remaining_quantity": 1}}
				if _, err := repo.usageColl.UpdateOne(sc, usageFilter, usageUpdate); err != nil {
					return fmt.Errorf("restore entitlement failed: %w", err)
				}
			}
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return nil, fmt.Errorf("void transaction failed: %w", err)
	}

	for i := range units {
		units[i].Status = models.BookingVoided
	}
	return units, nil
}

func (repo *MongoBookingRepo) GetGroup(ctx context.Context, tenantID, groupID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID, "booking_group_id": groupID}
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := repo.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching booking group %s: %w", groupID, err)
	}
	defer cursor.Close(ctx)

	var units []models.Booking
	if err := cursor.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("error decoding booking group: %w", err)
	}
	return units, nil
}

func (repo *MongoBookingRepo) ListByCustomer(ctx context.Context, tenantID, customerID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"tenant_id": tenantID, "customer.customer_id": customerID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings for customer %s: %w", customerID, err)
	}
	defer cursor.Close(ctx)

	var units []models.Booking
	if err := cursor.All(ctx, &units); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return units, nil
}

func (repo *MongoBookingRepo) UpdateGroupPayment(ctx context.Context, tenantID, groupID, status, paymentRef string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"payment_status": status}
	if paymentRef != "" {
		set["payment_ref"] = paymentRef
	}
	filter := bson.M{"tenant_id": tenantID, "booking_group_id": groupID}
	res, err := repo.bookingColl.UpdateMany(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("error updating payment status for group %s: %w", groupID, err)
	}
	return res.ModifiedCount, nil
}
