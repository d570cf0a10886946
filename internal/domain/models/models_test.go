package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAverageRating(t *testing.T) {
	team := Team{}
	if got := team.AverageRating(); got != 0 {
		t.Errorf("unrated team: got %v, want 0", got)
	}

	team.Ratings = []TeamRating{
		{UserID: primitive.NewObjectID(), Score: 5},
		{UserID: primitive.NewObjectID(), Score: 4},
		{UserID: primitive.NewObjectID(), Score: 4},
	}
	want := 13.0 / 3.0
	if got := team.AverageRating(); got != want {
		t.Errorf("rated team: got %v, want %v", got, want)
	}
}

func TestHasMember(t *testing.T) {
	member := primitive.NewObjectID()
	team := Team{Members: []TeamMember{
		{UserID: member, RoleInTeam: TeamRoleMember},
	}}

	if !team.HasMember(member) {
		t.Error("HasMember(member) = false, want true")
	}
	if team.HasMember(primitive.NewObjectID()) {
		t.Error("HasMember(stranger) = true, want false")
	}
}

func TestPairKey(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()

	if PairKey(a, b) != PairKey(b, a) {
		t.Error("PairKey is not symmetric")
	}
	c := primitive.NewObjectID()
	if PairKey(a, b) == PairKey(a, c) {
		t.Error("distinct pairs share a key")
	}
}

func TestIsValidRole(t *testing.T) {
	for _, role := range []string{RoleUser, RoleTeamLead, RoleAssociationManager, RoleAdmin} {
		if !IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "superadmin", "Admin", "USER"} {
		if IsValidRole(role) {
			t.Errorf("IsValidRole(%q) = true, want false", role)
		}
	}
}

func TestIsValidEventType(t *testing.T) {
	for _, typ := range []string{EventWorkshop, EventSeminar, EventCompetition, EventAnnouncement} {
		if !IsValidEventType(typ) {
			t.Errorf("IsValidEventType(%q) = false, want true", typ)
		}
	}
	if IsValidEventType("workshop") {
		t.Error("event types are case sensitive, lowercase should fail")
	}
}

func TestIsValidCommentTarget(t *testing.T) {
	if !IsValidCommentTarget(CommentTargetProject) || !IsValidCommentTarget(CommentTargetEvent) {
		t.Error("known targets rejected")
	}
	for _, m := range []string{"Team", "project", "User", ""} {
		if IsValidCommentTarget(m) {
			t.Errorf("IsValidCommentTarget(%q) = true, want false", m)
		}
	}
}
