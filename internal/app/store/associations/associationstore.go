package associationstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
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

var ErrDuplicateName = errors.New("an association with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("associations")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Association, error) {
	var a models.Association
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Association{}, err
	}
	return a, nil
}

// GetByManager returns the association a user manages. Returns
// mongo.ErrNoDocuments if the user manages none.
func (s *Store) GetByManager(ctx context.Context, managerID primitive.ObjectID) (models.Association, error) {
	var a models.Association
	if err := s.c.FindOne(ctx, bson.M{"manager_id": managerID}).Decode(&a); err != nil {
		return models.Association{}, err
	}
	return a, nil
}

func (s *Store) Create(ctx context.Context, a models.Association) (models.Association, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.Name = normalize.Name(a.Name)
	a.NameCI = text.Fold(a.Name)
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Association{}, ErrDuplicateName
		}
		return models.Association{}, err
	}
	return a, nil
}

// UpdateInfo changes name, description, and logo. Empty name keeps the
// current one. The manager is changed separately so the role flip can
// run in a transaction.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc, logo string) error {
	set := bson.M{
		"description": desc,
		"logo":        logo,
		"updated_at":  time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = normalize.Name(name)
		set["name_ci"] = text.Fold(name)
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateName
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetManager reassigns the association to a new manager.
func (s *Store) SetManager(ctx context.Context, id, managerID primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"manager_id": managerID,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes an association by ID. Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns all associations sorted by folded name.
func (s *Store) List(ctx context.Context) ([]models.Association, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Association
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
