package customerRepo

import (
	"context"
	"fmt"
	"time"

	"slotify/database"
	"slotify/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// CustomerRepository resolves customer records for identity snapshots. The
// account system itself (signup, credentials) is an external collaborator.
type CustomerRepository interface {
	GetByID(ctx context.Context, tenantID, customerID string) (*models.Customer, error)
}

// MongoCustomerRepo implements CustomerRepository using MongoDB.
type MongoCustomerRepo struct {
	customerColl *mongo.Collection
}

// NewMongoCustomerRepo constructs a new instance of MongoCustomerRepo.
func NewMongoCustomerRepo() CustomerRepository {
	return &MongoCustomerRepo{
		customerColl: database.Collection("customers"),
	}
}

func (repo *MongoCustomerRepo) GetByID(ctx context.Context, tenantID, customerID string) (*models.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var customer models.Customer
	filter := bson.M{"id": customerID, "tenant_id": tenantID}
	if err := repo.customerColl.FindOne(ctx, filter).Decode(&customer); err != nil {
		return nil, fmt.Errorf("error fetching customer with id %s: %w", customerID, err)
	}
	return &customer, nil
}
