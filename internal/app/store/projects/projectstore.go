package projectstore

import (
	"context"
	"strings"
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
	return &Store{c: db.Collection("projects")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error) {
	var p models.Project
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Create inserts a new project after normalizing fields.
func (s *Store) Create(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Title = normalize.Name(p.Title)
	p.TitleCI = text.Fold(p.Title)
	p.Tags = normalize.StringList(p.Tags)
	if p.Status == "" {
		p.Status = models.ProjectInProgress
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

// Update changes a project's editable fields. Empty title keeps the
// current one; description, image, link, and tags are overwritten.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, desc, image, link, status string, tags []string) error {
	set := bson.M{
		"description": desc,
		"image":       image,
		"link":        link,
		"tags":        normalize.StringList(tags),
		"updated_at":  time.Now().UTC(),
	}
	if strings.TrimSpace(title) != "" {
		set["title"] = normalize.Name(title)
		set["title_ci"] = text.Fold(title)
	}
	if status != "" {
		set["status"] = status
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

// Delete removes a project by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByTeam removes all of a team's projects (cascade on team delete).
func (s *Store) DeleteByTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListPage returns one page of the catalog, newest first, along with
// the total count for pagination.
func (s *Store) ListPage(ctx context.Context, page, perPage int64) ([]models.Project, int64, error) {
	if page < 1 {
		page = 1
	}
	total, err := s.c.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip((page - 1) * perPage).
		SetLimit(perPage)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ListByTeam returns a team's projects, newest first.
func (s *Store) ListByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.Project, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"team_id": teamID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Project
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ToggleLike adds the user to the likes set, or removes them if they
// had already liked the project. Returns the updated project and
// whether the project is now liked by the user.
func (s *Store) ToggleLike(ctx context.Context, projectID, userID primitive.ObjectID) (models.Project, bool, error) {
	p, err := s.GetByID(ctx, projectID)
	if err != nil {
		return models.Project{}, false, err
	}

	liked := false
	for _, id := range p.Likes {
		if id == userID {
			liked = true
			break
		}
	}

	var update bson.M
	if liked {
		update = bson.M{"$pull": bson.M{"likes": userID}}
	} else {
		update = bson.M{"$addToSet": bson.M{"likes": userID}}
	}
	update["$set"] = bson.M{"updated_at": time.Now().UTC()}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.Project
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": projectID}, update, opts).Decode(&out); err != nil {
		return models.Project{}, false, err
	}
	return out, !liked, nil
}

// RemoveUserLikes pulls a deleted user out of every likes set.
func (s *Store) RemoveUserLikes(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.UpdateMany(ctx,
		bson.M{"likes": userID},
		bson.M{"$pull": bson.M{"likes": userID}},
	)
	return err
}
