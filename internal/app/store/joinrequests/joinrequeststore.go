package joinrequeststore

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

var (
	// ErrDuplicateRequest is returned when the user already has a live
	// (pending or accepted) request for the team.
	ErrDuplicateRequest = errors.New("an active request for this team already exists")

	// ErrNotPending is returned when responding to a request that has
	// already been resolved.
	ErrNotPending = errors.New("request is not pending")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("join_requests")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, error) {
	var jr models.JoinRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&jr); err != nil {
		return models.JoinRequest{}, err
	}
	return jr, nil
}

// Create inserts a pending request. The partial unique index on
// (user_id, team_id) turns a second live request into ErrDuplicateRequest.
func (s *Store) Create(ctx context.Context, userID, teamID primitive.ObjectID) (models.JoinRequest, error) {
	jr := models.JoinRequest{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		TeamID:    teamID,
		Status:    models.JoinRequestPending,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, jr); err != nil {
		if wafflemongo.IsDup(err) {
			return models.JoinRequest{}, ErrDuplicateRequest
		}
		return models.JoinRequest{}, err
	}
	return jr, nil
}

// Respond moves a pending request to accepted or rejected. Returns
// ErrNotPending if the request was already resolved, and
// mongo.ErrNoDocuments if it does not exist at all.
func (s *Store) Respond(ctx context.Context, id primitive.ObjectID, status string) (models.JoinRequest, error) {
	now := time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var jr models.JoinRequest
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.JoinRequestPending},
		bson.M{"$set": bson.M{"status": status, "responded_at": now}},
		opts,
	).Decode(&jr)
	if err == nil {
		return jr, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		n, cerr := s.c.CountDocuments(ctx, bson.M{"_id": id})
		if cerr != nil {
			return models.JoinRequest{}, cerr
		}
		if n > 0 {
			return models.JoinRequest{}, ErrNotPending
		}
	}
	return models.JoinRequest{}, err
}

// CancelPending lets a user withdraw their own pending request for a
// team. Returns the number of requests cancelled (0 or 1).
func (s *Store) CancelPending(ctx context.Context, userID, teamID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "team_id": teamID, "status": models.JoinRequestPending},
		bson.M{"$set": bson.M{"status": models.JoinRequestRejected, "responded_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// CloseAccepted retires the accepted request when a member leaves or is
// removed, so the user can apply again later.
func (s *Store) CloseAccepted(ctx context.Context, userID, teamID primitive.ObjectID) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"user_id": userID, "team_id": teamID, "status": models.JoinRequestAccepted},
		bson.M{"$set": bson.M{"status": models.JoinRequestRejected, "responded_at": time.Now().UTC()}},
	)
	return err
}

// ListPendingByTeam returns a team's inbox, oldest request first.
func (s *Store) ListPendingByTeam(ctx context.Context, teamID primitive.ObjectID) ([]models.JoinRequest, error) {
	return s.find(ctx,
		bson.M{"team_id": teamID, "status": models.JoinRequestPending},
		bson.D{{Key: "created_at", Value: 1}})
}

// ListPendingByUser returns a user's open requests, newest first.
func (s *Store) ListPendingByUser(ctx context.Context, userID primitive.ObjectID) ([]models.JoinRequest, error) {
	return s.find(ctx,
		bson.M{"user_id": userID, "status": models.JoinRequestPending},
		bson.D{{Key: "created_at", Value: -1}})
}

// ListByUser returns a user's full request history, newest first.
func (s *Store) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.JoinRequest, error) {
	return s.find(ctx,
		bson.M{"user_id": userID},
		bson.D{{Key: "created_at", Value: -1}})
}

func (s *Store) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.JoinRequest, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.JoinRequest
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByTeam removes all requests for a team (cascade on team delete).
// Returns the number of documents deleted.
func (s *Store) DeleteByTeam(ctx context.Context, teamID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"team_id": teamID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUser removes all requests made by a user (cascade on user delete).
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
