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

const sessionCollectionName = "sessions"

// mongoSessionRepository implements the repository.SessionRepository interface using MongoDB.
type mongoSessionRepository struct {
	collection *mongo.Collection
}

// NewMongoSessionRepository creates a new instance of mongoSessionRepository.
func NewMongoSessionRepository(db *mongo.Database) repository.SessionRepository {
	return &mongoSessionRepository{
		collection: db.Collection(sessionCollectionName),
	}
}

// Create inserts a new training session.
func (r *mongoSessionRepository) Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error) {
	if session.ClientID.IsZero() || session.CoachID.IsZero() || session.Date.IsZero() {
		return primitive.NilObjectID, errors.New("session client, coach, and date are required")
	}
	if session.Status == "" {
		session.Status = domain.SessionPending
	}

	session.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a session by its MongoDB ObjectID.
func (r *mongoSessionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error) {
	var session domain.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// GetAll retrieves every session.
func (r *mongoSessionRepository) GetAll(ctx context.Context) ([]domain.Session, error) {
	return r.find(ctx, bson.M{})
}

// GetByCoachID retrieves a coach's sessions.
func (r *mongoSessionRepository) GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Session, error) {
	return r.find(ctx, bson.M{"coach": coachID})
}

// GetByClientID retrieves a client's sessions.
func (r *mongoSessionRepository) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Session, error) {
	return r.find(ctx, bson.M{"client": clientID})
}

func (r *mongoSessionRepository) find(ctx context.Context, filter bson.M) ([]domain.Session, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	sessions := []domain.Session{}
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Update replaces the session's mutable fields including the status history.
// Callers only ever append to StatusChangeHistory; this layer writes the
// slice as given.
func (r *mongoSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	session.UpdatedAt = time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"client":              session.ClientID,
		"coach":               session.CoachID,
		"date":                session.Date,
		"status":              session.Status,
		"notes":               session.Notes,
		"statusChangeHistory": session.StatusChangeHistory,
		"updatedAt":           session.UpdatedAt,
	}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": session.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a session document.
func (r *mongoSessionRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetStatus updates the status field and pushes the history entry in one
// atomic document update, returning the updated session.
func (r *mongoSessionRepository) SetStatus(ctx context.Context, id primitive.ObjectID, change domain.StatusChange) (*domain.Session, error) {
	update := bson.M{
		"$set": bson.M{
			"status":    change.Status,
			"updatedAt": time.Now().UTC(),
		},
		"$push": bson.M{"statusChangeHistory": change},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var session domain.Session
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

// CountCompletedByClient counts a client's completed sessions, the input to
// the remaining-sessions computation.
func (r *mongoSessionRepository) CountCompletedByClient(ctx context.Context, clientID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"client": clientID,
		"status": domain.SessionCompleted,
	})
}

// EnsureSessionIndexes creates necessary indexes for the sessions collection.
func EnsureSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "coach", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "client", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index(),
		},
	}

	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
