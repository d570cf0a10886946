package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campuslink-io/campuslink/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given username, email, and role.
// The password hash is a placeholder; login tests create users through
// the register endpoint instead.
func (f *Fixtures) CreateUser(ctx context.Context, username, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Username:     username,
		UsernameCI:   text.Fold(username),
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateTeam inserts a team led by leaderID, with the leader as its
// only member.
func (f *Fixtures) CreateTeam(ctx context.Context, name string, leaderID primitive.ObjectID) models.Team {
	f.t.Helper()

	now := time.Now().UTC()
	team := models.Team{
		ID:       primitive.NewObjectID(),
		Name:     name,
		NameCI:   text.Fold(name),
		LeaderID: leaderID,
		Members: []models.TeamMember{
			{UserID: leaderID, RoleInTeam: models.TeamRoleLeader},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("teams").InsertOne(ctx, team); err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}
	return team
}

// AddTeamMember appends a plain member to an existing team fixture.
func (f *Fixtures) AddTeamMember(ctx context.Context, teamID, userID primitive.ObjectID) {
	f.t.Helper()

	_, err := f.db.Collection("teams").UpdateByID(ctx, teamID, map[string]any{
		"$push": map[string]any{
			"members": models.TeamMember{UserID: userID, RoleInTeam: models.TeamRoleMember},
		},
	})
	if err != nil {
		f.t.Fatalf("failed to add test team member: %v", err)
	}
}

// CreateProject inserts an in-progress project owned by teamID.
func (f *Fixtures) CreateProject(ctx context.Context, title string, teamID primitive.ObjectID) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:          primitive.NewObjectID(),
		Title:       title,
		TitleCI:     text.Fold(title),
		Description: "a test project",
		TeamID:      teamID,
		Status:      models.ProjectInProgress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("projects").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("failed to create test project: %v", err)
	}
	return p
}

// CreateAssociation inserts an association managed by managerID.
func (f *Fixtures) CreateAssociation(ctx context.Context, name string, managerID primitive.ObjectID) models.Association {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Association{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		ManagerID: managerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("associations").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test association: %v", err)
	}
	return a
}

// CreateEvent inserts a workshop event for associationID at the given
// date.
func (f *Fixtures) CreateEvent(ctx context.Context, title string, associationID primitive.ObjectID, date time.Time) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Event{
		ID:            primitive.NewObjectID(),
		Title:         title,
		Description:   "a test event",
		Type:          models.EventWorkshop,
		Date:          date,
		AssociationID: associationID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := f.db.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return e
}

// CreateJoinRequest inserts a join request with the given status.
func (f *Fixtures) CreateJoinRequest(ctx context.Context, userID, teamID primitive.ObjectID, status string) models.JoinRequest {
	f.t.Helper()

	jr := models.JoinRequest{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		TeamID:    teamID,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("join_requests").InsertOne(ctx, jr); err != nil {
		f.t.Fatalf("failed to create test join request: %v", err)
	}
	return jr
}

// CreateMessage inserts a direct message sent at the given time.
func (f *Fixtures) CreateMessage(ctx context.Context, senderID, receiverID primitive.ObjectID, content string, at time.Time) models.Message {
	f.t.Helper()

	m := models.Message{
		ID:         primitive.NewObjectID(),
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  at,
	}
	if _, err := f.db.Collection("messages").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test message: %v", err)
	}
	return m
}

// CreateComment inserts a comment on the given target.
func (f *Fixtures) CreateComment(ctx context.Context, authorID, targetID primitive.ObjectID, targetModel, textBody string) models.Comment {
	f.t.Helper()

	now := time.Now().UTC()
	cm := models.Comment{
		ID:          primitive.NewObjectID(),
		Text:        textBody,
		AuthorID:    authorID,
		TargetID:    targetID,
		TargetModel: targetModel,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("comments").InsertOne(ctx, cm); err != nil {
		f.t.Fatalf("failed to create test comment: %v", err)
	}
	return cm
}
