package users_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/features/users"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/domain/models"
	"github.com/campuslink-io/campuslink/internal/testutil"
)

func newTestHandler(t *testing.T) (*users.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return users.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestRoleChange(t *testing.T) {
	h, f := newTestHandler(t)
	router := users.Routes(h)
	ctx := testutil.TestContext(t)

	admin := f.CreateUser(ctx, "root", "root@example.com", models.RoleAdmin)
	plain := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleUser)
	target := f.CreateUser(ctx, "bob", "bob@example.com", models.RoleUser)

	t.Run("plain user is forbidden", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "PATCH", "/"+target.ID.Hex()+"/role", map[string]string{"role": models.RoleAdmin})
		req = testutil.WithUser(req, plain.ID, plain.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 403)
	})

	t.Run("unknown role", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "PATCH", "/"+target.ID.Hex()+"/role", map[string]string{"role": "superuser"})
		req = testutil.WithUser(req, admin.ID, admin.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 400)
	})

	t.Run("missing user", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "PATCH", "/ffffffffffffffffffffffff/role", map[string]string{"role": models.RoleTeamLead})
		req = testutil.WithUser(req, admin.ID, admin.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 404)
	})

	t.Run("admin promotes", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "PATCH", "/"+target.ID.Hex()+"/role", map[string]string{"role": models.RoleTeamLead})
		req = testutil.WithUser(req, admin.ID, admin.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)

		u, err := userstore.New(f.DB()).GetByID(ctx, target.ID)
		if err != nil {
			t.Fatalf("reload user: %v", err)
		}
		if u.Role != models.RoleTeamLead {
			t.Errorf("role: got %q, want team_lead", u.Role)
		}
	})
}

func TestDeleteUserCascades(t *testing.T) {
	h, f := newTestHandler(t)
	router := users.Routes(h)
	ctx := testutil.TestContext(t)

	admin := f.CreateUser(ctx, "root", "root@example.com", models.RoleAdmin)
	leader := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleTeamLead)
	victim := f.CreateUser(ctx, "bob", "bob@example.com", models.RoleUser)

	team := f.CreateTeam(ctx, "Rocket Team", leader.ID)
	f.AddTeamMember(ctx, team.ID, victim.ID)
	project := f.CreateProject(ctx, "Mars Lander", team.ID)
	f.CreateComment(ctx, victim.ID, project.ID, models.CommentTargetProject, "bye")
	f.CreateMessage(ctx, victim.ID, leader.ID, "hello", time.Now().UTC())
	f.CreateJoinRequest(ctx, victim.ID, team.ID, models.JoinRequestPending)

	t.Run("non-admin is forbidden", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "DELETE", "/"+victim.ID.Hex(), nil)
		req = testutil.WithUser(req, leader.ID, leader.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 403)
	})

	req := testutil.NewJSONRequest(t, "DELETE", "/"+victim.ID.Hex(), nil)
	req = testutil.WithUser(req, admin.ID, admin.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	checks := map[string]bson.M{
		"users":         {"_id": victim.ID},
		"comments":      {"author_id": victim.ID},
		"messages":      {"sender_id": victim.ID},
		"join_requests": {"user_id": victim.ID},
		"teams":         {"members.user_id": victim.ID},
	}
	for coll, filter := range checks {
		n, err := f.DB().Collection(coll).CountDocuments(ctx, filter)
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("%s still references deleted user", coll)
		}
	}

	t.Run("second delete is not found", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "DELETE", "/"+victim.ID.Hex(), nil)
		req = testutil.WithUser(req, admin.ID, admin.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 404)
	})
}

func TestSearch(t *testing.T) {
	h, f := newTestHandler(t)
	router := users.Routes(h)
	ctx := testutil.TestContext(t)

	caller := f.CreateUser(ctx, "root", "root@example.com", models.RoleUser)
	f.CreateUser(ctx, "alice", "alice@example.com", models.RoleUser)
	f.CreateUser(ctx, "albert", "albert@example.com", models.RoleUser)
	f.CreateUser(ctx, "bob", "bob@example.com", models.RoleUser)

	req := httptest.NewRequest("GET", "/search?q=al", nil)
	req = testutil.WithUser(req, caller.ID, caller.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	var us []models.PublicUser
	testutil.DecodeJSON(t, rec, &us)
	if len(us) != 2 {
		t.Fatalf("got %d results, want 2", len(us))
	}
	for _, u := range us {
		if u.Username != "alice" && u.Username != "albert" {
			t.Errorf("unexpected search hit %q", u.Username)
		}
	}
}

func TestDashboardStats(t *testing.T) {
	h, f := newTestHandler(t)
	router := users.Routes(h)
	ctx := testutil.TestContext(t)

	leader := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleTeamLead)
	applicant := f.CreateUser(ctx, "bob", "bob@example.com", models.RoleUser)
	manager := f.CreateUser(ctx, "mgr", "mgr@example.com", models.RoleAssociationManager)

	team := f.CreateTeam(ctx, "Rocket Team", leader.ID)
	f.CreateProject(ctx, "Mars Lander", team.ID)
	f.CreateJoinRequest(ctx, applicant.ID, team.ID, models.JoinRequestPending)

	assoc := f.CreateAssociation(ctx, "Robotics Society", manager.ID)
	event := f.CreateEvent(ctx, "Workshop", assoc.ID, time.Now().UTC().Add(24*time.Hour))
	if _, err := f.DB().Collection("events").UpdateByID(ctx, event.ID, bson.M{
		"$push": bson.M{"registered_user_ids": leader.ID},
	}); err != nil {
		t.Fatalf("seed registration: %v", err)
	}

	req := httptest.NewRequest("GET", "/dashboard/stats", nil)
	req = testutil.WithUser(req, leader.ID, leader.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	var stats struct {
		TeamCount           int   `json:"team_count"`
		ActiveProjectCount  int64 `json:"active_project_count"`
		UpcomingEventCount  int64 `json:"upcoming_event_count"`
		PendingJoinRequests int64 `json:"pending_join_requests"`
	}
	testutil.DecodeJSON(t, rec, &stats)
	if stats.TeamCount != 1 {
		t.Errorf("team_count: got %d, want 1", stats.TeamCount)
	}
	if stats.ActiveProjectCount != 1 {
		t.Errorf("active_project_count: got %d, want 1", stats.ActiveProjectCount)
	}
	if stats.UpcomingEventCount != 1 {
		t.Errorf("upcoming_event_count: got %d, want 1", stats.UpcomingEventCount)
	}
	if stats.PendingJoinRequests != 1 {
		t.Errorf("pending_join_requests: got %d, want 1", stats.PendingJoinRequests)
	}
}
