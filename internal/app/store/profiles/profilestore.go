package profilestore

import (
	"context"
	"time"

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

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// GetByUserID loads the profile for a user. Returns mongo.ErrNoDocuments
// if the user has not created one yet.
func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert creates or replaces the editable fields of a user's profile.
// The unique user_id index guarantees at most one document per user.
func (s *Store) Upsert(ctx context.Context, p models.Profile) (*models.Profile, error) {
	now := time.Now().UTC()
	p.FullName = normalize.Name(p.FullName)
	p.FullNameCI = text.Fold(p.FullName)
	p.Skills = normalize.StringList(p.Skills)

	set := bson.M{
		"full_name":       p.FullName,
		"full_name_ci":    p.FullNameCI,
		"field_of_study":  p.FieldOfStudy,
		"bio":             p.Bio,
		"skills":          p.Skills,
		"work_experience": p.WorkExperience,
		"social_links":    p.SocialLinks,
		"updated_at":      now,
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var out models.Profile
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"user_id": p.UserID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"user_id": p.UserID, "created_at": now},
		},
		opts,
	).Decode(&out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SetAvatar records the URL of a freshly uploaded avatar, creating the
// profile document if the user has never filled one in.
func (s *Store) SetAvatar(ctx context.Context, userID primitive.ObjectID, url string) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$set":         bson.M{"avatar": url, "updated_at": now},
			"$setOnInsert": bson.M{"user_id": userID, "created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// AddTeam records team membership on the profile's denormalized list.
func (s *Store) AddTeam(ctx context.Context, userID, teamID primitive.ObjectID) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$addToSet":    bson.M{"team_ids": teamID},
			"$set":         bson.M{"updated_at": now},
			"$setOnInsert": bson.M{"user_id": userID, "created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// RemoveTeam drops a team from the profile's denormalized list.
func (s *Store) RemoveTeam(ctx context.Context, userID, teamID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{
			"$pull": bson.M{"team_ids": teamID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}

// RemoveTeamFromAll drops a deleted team from every profile that
// referenced it.
func (s *Store) RemoveTeamFromAll(ctx context.Context, teamID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"team_ids": teamID},
		bson.M{
			"$pull": bson.M{"team_ids": teamID},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}

// DeleteByUser removes a user's profile. Returns the number deleted (0 or 1).
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
