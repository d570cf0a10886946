package projects_test

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/features/projects"
	teamstore "github.com/campuslink-io/campuslink/internal/app/store/teams"
	"github.com/campuslink-io/campuslink/internal/domain/models"
	"github.com/campuslink-io/campuslink/internal/testutil"
)

func newTestHandler(t *testing.T) (*projects.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return projects.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestListPagination(t *testing.T) {
	h, f := newTestHandler(t)
	router := projects.Routes(h)
	ctx := testutil.TestContext(t)

	leader := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleTeamLead)
	team := f.CreateTeam(ctx, "Rocket Team", leader.ID)
	for i := 0; i < 12; i++ {
		f.CreateProject(ctx, fmt.Sprintf("Project %02d", i), team.ID)
	}

	type listResponse struct {
		Data        []map[string]any `json:"data"`
		TotalPages  int64            `json:"total_pages"`
		CurrentPage int64            `json:"current_page"`
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	var page1 listResponse
	testutil.DecodeJSON(t, rec, &page1)
	if len(page1.Data) != 10 {
		t.Errorf("page 1 size: got %d, want 10", len(page1.Data))
	}
	if page1.TotalPages != 2 {
		t.Errorf("total_pages: got %d, want 2", page1.TotalPages)
	}
	if page1.CurrentPage != 1 {
		t.Errorf("current_page: got %d, want 1", page1.CurrentPage)
	}

	req = httptest.NewRequest("GET", "/?page=2", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	var page2 listResponse
	testutil.DecodeJSON(t, rec, &page2)
	if len(page2.Data) != 2 {
		t.Errorf("page 2 size: got %d, want 2", len(page2.Data))
	}
}

func TestCreateRequiresTeamLeader(t *testing.T) {
	h, f := newTestHandler(t)
	router := projects.Routes(h)
	ctx := testutil.TestContext(t)

	leader := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleTeamLead)
	member := f.CreateUser(ctx, "bob", "bob@example.com", models.RoleUser)
	team := f.CreateTeam(ctx, "Rocket Team", leader.ID)
	f.AddTeamMember(ctx, team.ID, member.ID)

	body := map[string]any{
		"title":       "Mars Lander",
		"description": "A lander prototype.",
		"team_id":     team.ID.Hex(),
	}

	t.Run("member is forbidden", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/", body)
		req = testutil.WithUser(req, member.ID, member.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 403)
	})

	t.Run("unknown team is not found", func(t *testing.T) {
		bad := map[string]any{
			"title":       "Mars Lander",
			"description": "A lander prototype.",
			"team_id":     "ffffffffffffffffffffffff",
		}
		req := testutil.NewJSONRequest(t, "POST", "/", bad)
		req = testutil.WithUser(req, leader.ID, leader.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 404)
	})

	t.Run("leader creates and team is linked", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/", body)
		req = testutil.WithUser(req, leader.ID, leader.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 201)

		var created struct {
			models.Project
			Team *struct {
				Name string `json:"name"`
			} `json:"team"`
		}
		testutil.DecodeJSON(t, rec, &created)
		if created.Status != models.ProjectInProgress {
			t.Errorf("default status: got %q, want %q", created.Status, models.ProjectInProgress)
		}
		if created.Team == nil || created.Team.Name != "Rocket Team" {
			t.Errorf("team not populated: %+v", created.Team)
		}

		reloaded, err := teamstore.New(f.DB()).GetByID(ctx, team.ID)
		if err != nil {
			t.Fatalf("reload team: %v", err)
		}
		found := false
		for _, pid := range reloaded.ProjectIDs {
			if pid == created.ID {
				found = true
			}
		}
		if !found {
			t.Error("project id missing from team project_ids")
		}
	})
}

func TestLikeToggles(t *testing.T) {
	h, f := newTestHandler(t)
	router := projects.Routes(h)
	ctx := testutil.TestContext(t)

	leader := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleTeamLead)
	fan := f.CreateUser(ctx, "bob", "bob@example.com", models.RoleUser)
	team := f.CreateTeam(ctx, "Rocket Team", leader.ID)
	project := f.CreateProject(ctx, "Mars Lander", team.ID)

	like := func() (bool, int) {
		req := testutil.NewJSONRequest(t, "POST", "/"+project.ID.Hex()+"/like", nil)
		req = testutil.WithUser(req, fan.ID, fan.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)
		var resp struct {
			Liked     bool `json:"liked"`
			LikeCount int  `json:"like_count"`
		}
		testutil.DecodeJSON(t, rec, &resp)
		return resp.Liked, resp.LikeCount
	}

	if liked, n := like(); !liked || n != 1 {
		t.Errorf("first toggle: got liked=%v count=%d, want true 1", liked, n)
	}
	if liked, n := like(); liked || n != 0 {
		t.Errorf("second toggle: got liked=%v count=%d, want false 0", liked, n)
	}
}

func TestEditForbiddenForNonLeader(t *testing.T) {
	h, f := newTestHandler(t)
	router := projects.Routes(h)
	ctx := testutil.TestContext(t)

	leader := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleTeamLead)
	outsider := f.CreateUser(ctx, "eve", "eve@example.com", models.RoleUser)
	team := f.CreateTeam(ctx, "Rocket Team", leader.ID)
	project := f.CreateProject(ctx, "Mars Lander", team.ID)

	body := map[string]any{"title": "Hijacked", "description": "nope"}
	req := testutil.NewJSONRequest(t, "PUT", "/"+project.ID.Hex(), body)
	req = testutil.WithUser(req, outsider.ID, outsider.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 403)

	var stored models.Project
	err := f.DB().Collection("projects").FindOne(ctx, bson.M{"_id": project.ID}).Decode(&stored)
	if err != nil {
		t.Fatalf("reload project: %v", err)
	}
	if stored.Title != "Mars Lander" {
		t.Errorf("project mutated by forbidden edit: %q", stored.Title)
	}
}

func TestDeleteCascades(t *testing.T) {
	h, f := newTestHandler(t)
	router := projects.Routes(h)
	ctx := testutil.TestContext(t)

	leader := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleTeamLead)
	commenter := f.CreateUser(ctx, "bob", "bob@example.com", models.RoleUser)
	team := f.CreateTeam(ctx, "Rocket Team", leader.ID)

	// Create through the handler so the team's project_ids entry exists.
	body := map[string]any{
		"title":       "Mars Lander",
		"description": "A lander prototype.",
		"team_id":     team.ID.Hex(),
	}
	req := testutil.NewJSONRequest(t, "POST", "/", body)
	req = testutil.WithUser(req, leader.ID, leader.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 201)
	var created models.Project
	testutil.DecodeJSON(t, rec, &created)

	f.CreateComment(ctx, commenter.ID, created.ID, models.CommentTargetProject, "looks great")

	req = testutil.NewJSONRequest(t, "DELETE", "/"+created.ID.Hex(), nil)
	req = testutil.WithUser(req, leader.ID, leader.Role)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	if n, _ := f.DB().Collection("projects").CountDocuments(ctx, bson.M{}); n != 0 {
		t.Errorf("project not deleted, %d remain", n)
	}
	if n, _ := f.DB().Collection("comments").CountDocuments(ctx, bson.M{}); n != 0 {
		t.Errorf("comments not cascaded, %d remain", n)
	}

	reloaded, err := teamstore.New(f.DB()).GetByID(ctx, team.ID)
	if err != nil {
		t.Fatalf("reload team: %v", err)
	}
	if len(reloaded.ProjectIDs) != 0 {
		t.Errorf("team project_ids not pulled: %v", reloaded.ProjectIDs)
	}
}
