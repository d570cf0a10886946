package teamstore

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

	"github.com/campuslink-io/campuslink/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateTeamName = errors.New("a team with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("teams")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Team, error) {
	var t models.Team
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// Create inserts a new team. The caller seeds LeaderID and Members;
// the store only fills in identity and timestamps.
func (s *Store) Create(ctx context.Context, t models.Team) (models.Team, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.NameCI = text.Fold(t.Name)
	t.CreatedAt = now
	t.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Team{}, ErrDuplicateTeamName
		}
		return models.Team{}, err
	}
	return t, nil
}

// UpdateInfo changes a team's name, description, and avatar. Empty name
// keeps the current one; description and avatar can be cleared.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc, avatar string) error {
	set := bson.M{
		"updated_at":  time.Now().UTC(),
		"description": desc,
		"avatar":      avatar,
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateTeamName
		}
		return err
	}
	return nil
}

// Delete removes a team by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns all teams, newest first.
func (s *Store) List(ctx context.Context) ([]models.Team, error) {
	return s.find(ctx, bson.M{})
}

// ListByLeader returns the teams a user leads.
func (s *Store) ListByLeader(ctx context.Context, leaderID primitive.ObjectID) ([]models.Team, error) {
	return s.find(ctx, bson.M{"leader_id": leaderID})
}

// ListByMember returns the teams a user belongs to (leading included,
// since leaders appear in their own members list).
func (s *Store) ListByMember(ctx context.Context, userID primitive.ObjectID) ([]models.Team, error) {
	return s.find(ctx, bson.M{"members.user_id": userID})
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Team
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddMember appends a member entry if the user is not already on the
// team. Returns mongo.ErrNoDocuments when the team does not exist.
func (s *Store) AddMember(ctx context.Context, teamID, userID primitive.ObjectID, roleInTeam string) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": teamID, "members.user_id": bson.M{"$ne": userID}},
		bson.M{
			"$push": bson.M{"members": models.TeamMember{UserID: userID, RoleInTeam: roleInTeam}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the team is gone or the user is already a member;
		// distinguish so callers can report the right thing.
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": teamID})
		if err != nil {
			return err
		}
		if n == 0 {
			return mongo.ErrNoDocuments
		}
	}
	return nil
}

// RemoveMember pulls a user from the members list.
func (s *Store) RemoveMember(ctx context.Context, teamID, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, teamID, bson.M{
		"$pull": bson.M{"members": bson.M{"user_id": userID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// Rate records one user's score for a team, last write wins. The
// previous score from the same rater is removed first so each user
// counts once.
func (s *Store) Rate(ctx context.Context, teamID, raterID primitive.ObjectID, score int) (models.Team, error) {
	if _, err := s.c.UpdateByID(ctx, teamID, bson.M{
		"$pull": bson.M{"ratings": bson.M{"user_id": raterID}},
	}); err != nil {
		return models.Team{}, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Team
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": teamID},
		bson.M{
			"$push": bson.M{"ratings": models.TeamRating{UserID: raterID, Score: score}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
		opts,
	).Decode(&t)
	if err != nil {
		return models.Team{}, err
	}
	return t, nil
}

// AddProject records an owned project on the team's denormalized list.
func (s *Store) AddProject(ctx context.Context, teamID, projectID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, teamID, bson.M{
		"$addToSet": bson.M{"project_ids": projectID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveProject drops a project from the team's denormalized list.
func (s *Store) RemoveProject(ctx context.Context, teamID, projectID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, teamID, bson.M{
		"$pull": bson.M{"project_ids": projectID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// RemoveUserFromAll pulls a deleted user out of every members list.
func (s *Store) RemoveUserFromAll(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"members.user_id": userID},
		bson.M{
			"$pull": bson.M{"members": bson.M{"user_id": userID}},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	return err
}
