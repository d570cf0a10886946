package eventstore

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink-io/campuslink/internal/app/system/normalize"
	"github.com/campuslink-io/campuslink/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

// GetByID loads an event regardless of archive state. Direct links to
// archived events keep working; only the listings filter them out.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	e.Title = normalize.Name(e.Title)
	e.IsArchived = false
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Update changes an event's editable fields. Empty title keeps the
// current one; a zero date keeps the current date.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, desc, image, eventType, location string, date time.Time) error {
	set := bson.M{
		"description": desc,
		"image":       image,
		"location":    location,
		"updated_at":  time.Now().UTC(),
	}
	if strings.TrimSpace(title) != "" {
		set["title"] = normalize.Name(title)
	}
	if eventType != "" {
		set["type"] = eventType
	}
	if !date.IsZero() {
		set["date"] = date
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetArchived flips the archive flag. Archived events disappear from
// listings but stay readable by ID.
func (s *Store) SetArchived(ctx context.Context, id primitive.ObjectID, archived bool) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"is_archived": archived,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an event by ID. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByAssociation removes all events owned by an association
// (cascade on association delete). Returns the number deleted.
func (s *Store) DeleteByAssociation(ctx context.Context, associationID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"association_id": associationID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByAssociation returns an association's events by date, archived
// ones excluded.
func (s *Store) ListByAssociation(ctx context.Context, associationID primitive.ObjectID) ([]models.Event, error) {
	return s.find(ctx, bson.M{
		"association_id": associationID,
		"is_archived":    false,
	})
}

// ListAllByAssociation returns every event of an association, archived
// ones included. Used by cascade deletes.
func (s *Store) ListAllByAssociation(ctx context.Context, associationID primitive.ObjectID) ([]models.Event, error) {
	return s.find(ctx, bson.M{"association_id": associationID})
}

// ListUpcoming returns non-archived events dated now or later, soonest
// first.
func (s *Store) ListUpcoming(ctx context.Context, now time.Time) ([]models.Event, error) {
	return s.find(ctx, bson.M{
		"is_archived": false,
		"date":        bson.M{"$gte": now},
	})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Event, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Event
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddRegisteredUser records a user on the event's denormalized
// attendee list.
func (s *Store) AddRegisteredUser(ctx context.Context, eventID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, eventID, bson.M{
		"$addToSet": bson.M{"registered_user_ids": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// PullRegisteredUser removes a user from the denormalized attendee list.
func (s *Store) PullRegisteredUser(ctx context.Context, eventID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, eventID, bson.M{
		"$pull": bson.M{"registered_user_ids": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}
