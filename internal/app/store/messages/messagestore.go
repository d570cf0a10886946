package messagestore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/campuslink-io/campuslink/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("messages")}
}

// Conversation is one row of the derived conversation list: the latest
// message between a pair of users, with both participants resolved.
type Conversation struct {
	LastMessage models.Message    `bson:",inline" json:"last_message"`
	Sender      models.PublicUser `bson:"sender" json:"sender"`
	Receiver    models.PublicUser `bson:"receiver" json:"receiver"`
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Message, error) {
	var m models.Message
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

func (s *Store) Create(ctx context.Context, senderID, receiverID primitive.ObjectID, content string) (models.Message, error) {
	m := models.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		IsRead:     false,
		CreatedAt:  time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Message{}, err
	}
	return m, nil
}

// ListBetween returns the full history between two users in either
// direction, oldest first.
func (s *Store) ListBetween(ctx context.Context, a, b primitive.ObjectID) ([]models.Message, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"sender_id": a, "receiver_id": b},
		bson.M{"sender_id": b, "receiver_id": a},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Message
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Conversations derives the conversation list for a user: group every
// message the user participated in by the unordered pair of
// participants, keep the newest message per pair, and resolve both
// users. Newest conversations come first.
func (s *Store) Conversations(ctx context.Context, userID primitive.ObjectID) ([]Conversation, error) {
	pairKey := bson.M{"$cond": bson.A{
		bson.M{"$gt": bson.A{"$sender_id", "$receiver_id"}},
		bson.M{"a": "$sender_id", "b": "$receiver_id"},
		bson.M{"a": "$receiver_id", "b": "$sender_id"},
	}}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"$or": bson.A{
			bson.M{"sender_id": userID},
			bson.M{"receiver_id": userID},
		}}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":  pairKey,
			"last": bson.M{"$first": "$$ROOT"},
		}}},
		{{Key: "$replaceRoot", Value: bson.M{"newRoot": "$last"}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "sender_id",
			"foreignField": "_id",
			"as":           "sender",
		}}},
		{{Key: "$unwind", Value: "$sender"}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "users",
			"localField":   "receiver_id",
			"foreignField": "_id",
			"as":           "receiver",
		}}},
		{{Key: "$unwind", Value: "$receiver"}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Conversation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flags a message as read. Only the receiver may do this;
// the filter enforces it. Returns the number updated (0 or 1).
func (s *Store) MarkRead(ctx context.Context, id, receiverID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "receiver_id": receiverID},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// MarkConversationRead flags every unread message a user received from
// another user. Returns the number updated.
func (s *Store) MarkConversationRead(ctx context.Context, receiverID, senderID primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"receiver_id": receiverID, "sender_id": senderID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes one message if the caller participated in it.
// Returns the number deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id, participantID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{
		"_id": id,
		"$or": bson.A{
			bson.M{"sender_id": participantID},
			bson.M{"receiver_id": participantID},
		},
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteConversation removes the entire history between two users in
// both directions. Returns the number deleted.
func (s *Store) DeleteConversation(ctx context.Context, a, b primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"sender_id": a, "receiver_id": b},
		bson.M{"sender_id": b, "receiver_id": a},
	}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUser removes every message a user sent or received (cascade
// on user delete).
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"sender_id": userID},
		bson.M{"receiver_id": userID},
	}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountUnread returns how many unread messages a user has.
func (s *Store) CountUnread(ctx context.Context, receiverID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"receiver_id": receiverID, "is_read": false})
}
