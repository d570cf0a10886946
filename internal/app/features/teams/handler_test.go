package teams_test

import (
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/features/teams"
	joinrequeststore "github.com/campuslink-io/campuslink/internal/app/store/joinrequests"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/domain/models"
	"github.com/campuslink-io/campuslink/internal/testutil"
)

func newTestHandler(t *testing.T) (*teams.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return teams.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestCreateTeamPromotesCreator(t *testing.T) {
	h, f := newTestHandler(t)
	router := teams.Routes(h)
	ctx := testutil.TestContext(t)

	creator := f.CreateUser(ctx, "carol", "carol@example.com", models.RoleUser)

	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{"name": "Rocket Team", "description": "builds rockets"})
	req = testutil.WithUser(req, creator.ID, creator.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 201)

	u, err := userstore.New(f.DB()).GetByID(ctx, creator.ID)
	if err != nil {
		t.Fatalf("reload creator: %v", err)
	}
	if u.Role != models.RoleTeamLead {
		t.Errorf("creator role: got %q, want %q", u.Role, models.RoleTeamLead)
	}
}

func TestCreateTeamDuplicateName(t *testing.T) {
	h, f := newTestHandler(t)
	router := teams.Routes(h)
	ctx := testutil.TestContext(t)

	lead := f.CreateUser(ctx, "lead", "lead@example.com", models.RoleUser)
	f.CreateTeam(ctx, "Rocket Team", lead.ID)

	other := f.CreateUser(ctx, "other", "other@example.com", models.RoleUser)
	req := testutil.NewJSONRequest(t, "POST", "/", map[string]string{"name": "rocket team"})
	req = testutil.WithUser(req, other.ID, other.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 409)
}

func TestEditTeamForbiddenForNonLeader(t *testing.T) {
	h, f := newTestHandler(t)
	router := teams.Routes(h)
	ctx := testutil.TestContext(t)

	lead := f.CreateUser(ctx, "lead", "lead@example.com", models.RoleTeamLead)
	team := f.CreateTeam(ctx, "Rocket Team", lead.ID)
	stranger := f.CreateUser(ctx, "mallory", "mallory@example.com", models.RoleUser)

	req := testutil.NewJSONRequest(t, "PUT", "/"+team.ID.Hex(), map[string]string{"name": "Hijacked"})
	req = testutil.WithUser(req, stranger.ID, stranger.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 403)

	// The rejected edit must not have touched the document.
	var after models.Team
	if err := f.DB().Collection("teams").FindOne(ctx, bson.M{"_id": team.ID}).Decode(&after); err != nil {
		t.Fatalf("reload team: %v", err)
	}
	if after.Name != "Rocket Team" {
		t.Errorf("team name changed by forbidden request: %q", after.Name)
	}
}

func TestRequestJoin(t *testing.T) {
	h, f := newTestHandler(t)
	router := teams.Routes(h)
	ctx := testutil.TestContext(t)

	lead := f.CreateUser(ctx, "lead", "lead@example.com", models.RoleTeamLead)
	team := f.CreateTeam(ctx, "Rocket Team", lead.ID)
	joiner := f.CreateUser(ctx, "dave", "dave@example.com", models.RoleUser)

	req := testutil.NewJSONRequest(t, "POST", "/"+team.ID.Hex()+"/request-join", nil)
	req = testutil.WithUser(req, joiner.ID, joiner.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 201)

	t.Run("second pending request is rejected", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/"+team.ID.Hex()+"/request-join", nil)
		req = testutil.WithUser(req, joiner.ID, joiner.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 400)
	})

	t.Run("member cannot request again", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/"+team.ID.Hex()+"/request-join", nil)
		req = testutil.WithUser(req, lead.ID, lead.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 400)
	})
}

func TestAcceptRequestAddsMember(t *testing.T) {
	h, f := newTestHandler(t)
	router := teams.Routes(h)
	ctx := testutil.TestContext(t)

	lead := f.CreateUser(ctx, "lead", "lead@example.com", models.RoleTeamLead)
	team := f.CreateTeam(ctx, "Rocket Team", lead.ID)
	joiner := f.CreateUser(ctx, "dave", "dave@example.com", models.RoleUser)
	f.CreateJoinRequest(ctx, joiner.ID, team.ID, models.JoinRequestPending)

	req := testutil.NewJSONRequest(t, "POST", "/"+team.ID.Hex()+"/accept-request/"+joiner.ID.Hex(), nil)
	req = testutil.WithUser(req, lead.ID, lead.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	var after models.Team
	if err := f.DB().Collection("teams").FindOne(ctx, bson.M{"_id": team.ID}).Decode(&after); err != nil {
		t.Fatalf("reload team: %v", err)
	}
	if !after.HasMember(joiner.ID) {
		t.Error("accepted user is not a member")
	}

	jrs, err := joinrequeststore.New(f.DB()).ListByUser(ctx, joiner.ID)
	if err != nil {
		t.Fatalf("list join requests: %v", err)
	}
	if len(jrs) != 1 || jrs[0].Status != models.JoinRequestAccepted {
		t.Errorf("join request not marked accepted: %+v", jrs)
	}
}

func TestRemoveMember(t *testing.T) {
	h, f := newTestHandler(t)
	router := teams.Routes(h)
	ctx := testutil.TestContext(t)

	lead := f.CreateUser(ctx, "lead", "lead@example.com", models.RoleTeamLead)
	team := f.CreateTeam(ctx, "Rocket Team", lead.ID)
	member := f.CreateUser(ctx, "dave", "dave@example.com", models.RoleUser)
	f.AddTeamMember(ctx, team.ID, member.ID)

	t.Run("leader cannot be removed", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "DELETE", "/"+team.ID.Hex()+"/remove-member/"+lead.ID.Hex(), nil)
		req = testutil.WithUser(req, lead.ID, lead.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 400)
	})

	t.Run("plain member is removed", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "DELETE", "/"+team.ID.Hex()+"/remove-member/"+member.ID.Hex(), nil)
		req = testutil.WithUser(req, lead.ID, lead.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)

		var after models.Team
		if err := f.DB().Collection("teams").FindOne(ctx, bson.M{"_id": team.ID}).Decode(&after); err != nil {
			t.Fatalf("reload team: %v", err)
		}
		if after.HasMember(member.ID) {
			t.Error("member still present after removal")
		}
	})
}

func TestRateTeam(t *testing.T) {
	h, f := newTestHandler(t)
	router := teams.Routes(h)
	ctx := testutil.TestContext(t)

	lead := f.CreateUser(ctx, "lead", "lead@example.com", models.RoleTeamLead)
	team := f.CreateTeam(ctx, "Rocket Team", lead.ID)
	rater := f.CreateUser(ctx, "eve", "eve@example.com", models.RoleUser)

	t.Run("leader may rate their own team", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/"+team.ID.Hex()+"/rate", map[string]int{"score": 5})
		req = testutil.WithUser(req, lead.ID, lead.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)

		var resp struct {
			RatingCount int `json:"rating_count"`
		}
		testutil.DecodeJSON(t, rec, &resp)
		if resp.RatingCount != 1 {
			t.Errorf("rating count: got %d, want 1", resp.RatingCount)
		}
	})

	t.Run("score out of range", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/"+team.ID.Hex()+"/rate", map[string]int{"score": 6})
		req = testutil.WithUser(req, rater.ID, rater.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 400)
	})

	t.Run("re-rating replaces the old score", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/"+team.ID.Hex()+"/rate", map[string]int{"score": 2})
		req = testutil.WithUser(req, rater.ID, rater.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)

		req = testutil.NewJSONRequest(t, "POST", "/"+team.ID.Hex()+"/rate", map[string]int{"score": 4})
		req = testutil.WithUser(req, rater.ID, rater.Role)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)

		var resp struct {
			AverageRating float64 `json:"average_rating"`
			RatingCount   int     `json:"rating_count"`
		}
		testutil.DecodeJSON(t, rec, &resp)
		if resp.RatingCount != 2 {
			t.Errorf("rating count: got %d, want 2", resp.RatingCount)
		}
		if resp.AverageRating != 4.5 {
			t.Errorf("average: got %v, want 4.5", resp.AverageRating)
		}
	})
}

func TestListTeamsIsPublic(t *testing.T) {
	h, f := newTestHandler(t)
	router := teams.Routes(h)
	ctx := testutil.TestContext(t)

	lead := f.CreateUser(ctx, "lead", "lead@example.com", models.RoleTeamLead)
	older := f.CreateTeam(ctx, "Alpha Team", lead.ID)
	newer := f.CreateTeam(ctx, "Zulu Team", lead.ID)

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	var ts []models.Team
	testutil.DecodeJSON(t, rec, &ts)
	if len(ts) != 2 {
		t.Fatalf("got %d teams, want 2", len(ts))
	}
	if ts[0].ID != newer.ID || ts[1].ID != older.ID {
		t.Errorf("teams not newest first: got %q then %q", ts[0].Name, ts[1].Name)
	}
}
