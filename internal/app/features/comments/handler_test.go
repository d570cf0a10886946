package comments_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/features/comments"
	"github.com/campuslink-io/campuslink/internal/domain/models"
	"github.com/campuslink-io/campuslink/internal/testutil"
)

func newTestHandler(t *testing.T) (*comments.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return comments.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestCreateComment(t *testing.T) {
	h, f := newTestHandler(t)
	router := comments.Routes(h)
	ctx := testutil.TestContext(t)

	leader := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleTeamLead)
	team := f.CreateTeam(ctx, "Rocket Team", leader.ID)
	project := f.CreateProject(ctx, "Mars Lander", team.ID)

	t.Run("unknown target model", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/Team/"+team.ID.Hex(), map[string]string{"text": "hi"})
		req = testutil.WithUser(req, leader.ID, leader.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 400)
	})

	t.Run("missing target", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/Project/ffffffffffffffffffffffff", map[string]string{"text": "hi"})
		req = testutil.WithUser(req, leader.ID, leader.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 404)
	})

	t.Run("empty after sanitizing", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/Project/"+project.ID.Hex(), map[string]string{"text": "<script>alert(1)</script>"})
		req = testutil.WithUser(req, leader.ID, leader.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 400)
	})

	t.Run("valid comment", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/Project/"+project.ID.Hex(), map[string]string{"text": "Great work<script>x</script>!"})
		req = testutil.WithUser(req, leader.ID, leader.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 201)

		var v struct {
			models.Comment
			Author *models.PublicUser `json:"author"`
		}
		testutil.DecodeJSON(t, rec, &v)
		if v.Text != "Great work!" {
			t.Errorf("text not sanitized: %q", v.Text)
		}
		if v.Author == nil || v.Author.Username != "alice" {
			t.Errorf("author not populated: %+v", v.Author)
		}
	})
}

func TestListNewestFirst(t *testing.T) {
	h, f := newTestHandler(t)
	router := comments.Routes(h)
	ctx := testutil.TestContext(t)

	leader := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleTeamLead)
	team := f.CreateTeam(ctx, "Rocket Team", leader.ID)
	project := f.CreateProject(ctx, "Mars Lander", team.ID)

	first := f.CreateComment(ctx, leader.ID, project.ID, models.CommentTargetProject, "first")
	time.Sleep(5 * time.Millisecond)
	second := f.CreateComment(ctx, leader.ID, project.ID, models.CommentTargetProject, "second")

	req := httptest.NewRequest("GET", "/Project/"+project.ID.Hex(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	var vs []models.Comment
	testutil.DecodeJSON(t, rec, &vs)
	if len(vs) != 2 {
		t.Fatalf("got %d comments, want 2", len(vs))
	}
	if vs[0].ID != second.ID || vs[1].ID != first.ID {
		t.Errorf("comments not newest first: %v then %v", vs[0].Text, vs[1].Text)
	}
}

func TestDeleteAuthorOnly(t *testing.T) {
	h, f := newTestHandler(t)
	router := comments.Routes(h)
	ctx := testutil.TestContext(t)

	author := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleUser)
	other := f.CreateUser(ctx, "bob", "bob@example.com", models.RoleUser)
	leader := f.CreateUser(ctx, "carol", "carol@example.com", models.RoleTeamLead)
	team := f.CreateTeam(ctx, "Rocket Team", leader.ID)
	project := f.CreateProject(ctx, "Mars Lander", team.ID)
	cm := f.CreateComment(ctx, author.ID, project.ID, models.CommentTargetProject, "mine")

	t.Run("other user is forbidden", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "DELETE", "/"+cm.ID.Hex(), nil)
		req = testutil.WithUser(req, other.ID, other.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 403)
	})

	t.Run("author deletes", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "DELETE", "/"+cm.ID.Hex(), nil)
		req = testutil.WithUser(req, author.ID, author.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)
	})

	t.Run("missing comment", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "DELETE", "/"+cm.ID.Hex(), nil)
		req = testutil.WithUser(req, author.ID, author.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 404)
	})
}
