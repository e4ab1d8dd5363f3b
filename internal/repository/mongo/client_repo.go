package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/Shamsmedhat/her-power-gym-backend/internal/domain"
	"github.com/Shamsmedhat/her-power-gym-backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const clientCollectionName = "clients"

// mongoClientRepository implements the repository.ClientRepository interface using MongoDB.
type mongoClientRepository struct {
	collection *mongo.Collection
}

// NewMongoClientRepository creates a new instance of mongoClientRepository.
func NewMongoClientRepository(db *mongo.Database) repository.ClientRepository {
	return &mongoClientRepository{
		collection: db.Collection(clientCollectionName),
	}
}

// Create inserts a new client into the database.
func (r *mongoClientRepository) Create(ctx context.Context, client *domain.Client) (primitive.ObjectID, error) {
	if client.Phone == "" || client.NationalID == "" || client.ClientID == "" {
		return primitive.NilObjectID, errors.New("client phone, national ID, and client ID are required")
	}

	client.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	client.CreatedAt = now
	client.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, client)
	if err != nil {
		return primitive.NilObjectID, translateDuplicate(err)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a client by their MongoDB ObjectID.
func (r *mongoClientRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// GetByPhoneAndClientID matches the client login pair.
func (r *mongoClientRepository) GetByPhoneAndClientID(ctx context.Context, phone, clientID string) (*domain.Client, error) {
	var client domain.Client
	err := r.collection.FindOne(ctx, bson.M{"phone": phone, "clientId": clientID}).Decode(&client)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &client, nil
}

// GetAll retrieves every client.
func (r *mongoClientRepository) GetAll(ctx context.Context) ([]domain.Client, error) {
	return r.find(ctx, bson.M{})
}

// GetByCoachID retrieves clients whose private plan is assigned to the coach.
func (r *mongoClientRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Client, error) {
	return r.find(ctx, bson.M{"privatePlan.coach": coachID})
}

func (r *mongoClientRepository) find(ctx context.Context, filter bson.M) ([]domain.Client, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	clients := []domain.Client{}
	if err := cursor.All(ctx, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// Update replaces the mutable fields of the client document. ClientID is
// deliberately absent: it is immutable after creation.
func (r *mongoClientRepository) Update(ctx context.Context, client *domain.Client) error {
	client.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"name":         client.Name,
		"phone":        client.Phone,
		"nationalId":   client.NationalID,
		"subscription": client.Subscription,
		"updatedAt":    client.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if client.PrivatePlan != nil {
		set["privatePlan"] = client.PrivatePlan
	} else {
		update["$unset"] = bson.M{"privatePlan": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": client.ID}, update)
	if err != nil {
		return translateDuplicate(err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a client document.
func (r *mongoClientRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ClientIDExists probes whether a generated clientId is already taken.
func (r *mongoClientRepository) ClientIDExists(ctx context.Context, clientID string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"clientId": clientID}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountByPlanID counts clients referencing the plan through either the main
// subscription or the private plan. Used as the plan-deletion guard.
func (r *mongoClientRepository) CountByPlanID(ctx context.Context, planID primitive.ObjectID) (int64, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"subscription.plan": planID},
		bson.M{"privatePlan.plan": planID},
	}}
	return r.collection.CountDocuments(ctx, filter)
}

// Count returns the total number of clients.
func (r *mongoClientRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// SumSubscriptionIncome sums the frozen purchase prices server-side, for the
// quick stats.
func (r *mongoClientRepository) SumSubscriptionIncome(ctx context.Context) (repository.IncomeTotals, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":           nil,
			"mainIncome":    bson.M{"$sum": "$subscription.priceAtPurchase"},
			"privateIncome": bson.M{"$sum": "$privatePlan.priceAtPurchase"},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return repository.IncomeTotals{}, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		MainIncome    float64 `bson:"mainIncome"`
		PrivateIncome float64 `bson:"privateIncome"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return repository.IncomeTotals{}, err
	}
	if len(results) == 0 {
		return repository.IncomeTotals{}, nil
	}
	return repository.IncomeTotals{
		MainIncome:    results[0].MainIncome,
		PrivateIncome: results[0].PrivateIncome,
	}, nil
}

// EnsureClientIndexes creates necessary indexes for the clients collection.
func EnsureClientIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "nationalId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Backstop for the identity generator's probe-then-create loop.
			Keys:    bson.D{{Key: "clientId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "privatePlan.coach", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "subscription.plan", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
