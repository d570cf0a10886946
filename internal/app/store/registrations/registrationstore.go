package registrationstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink-io/campuslink/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

// ErrAlreadyRegistered is returned when the unique (user, event) index
// rejects a second registration.
var ErrAlreadyRegistered = errors.New("user is already registered for this event")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("event_registrations")}
}

// Create inserts the authoritative registration row. Concurrent
// duplicates surface as ErrAlreadyRegistered via the unique index.
func (s *Store) Create(ctx context.Context, userID, eventID primitive.ObjectID) (models.EventRegistration, error) {
	reg := models.EventRegistration{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		EventID:   eventID,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, reg); err != nil {
		if wafflemongo.IsDup(err) {
			return models.EventRegistration{}, ErrAlreadyRegistered
		}
		return models.EventRegistration{}, err
	}
	return reg, nil
}

// Delete removes a user's registration for an event. Returns the number
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, userID, eventID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "event_id": eventID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByEvent returns an event's registrations in registration order.
func (s *Store) ListByEvent(ctx context.Context, eventID primitive.ObjectID) ([]models.EventRegistration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"event_id": eventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.EventRegistration
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByEvent returns the number of registrations for an event.
func (s *Store) CountByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"event_id": eventID})
}

// DeleteByEvent removes all registrations for an event (cascade on
// event delete). Returns the number deleted.
func (s *Store) DeleteByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUser removes a user's registrations (cascade on user delete).
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
