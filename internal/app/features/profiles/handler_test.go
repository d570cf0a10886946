package profiles_test

import (
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/features/profiles"
	"github.com/campuslink-io/campuslink/internal/domain/models"
	"github.com/campuslink-io/campuslink/internal/testutil"
)

func newTestHandler(t *testing.T) (*profiles.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return profiles.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestMeNotFoundBeforeUpsert(t *testing.T) {
	h, f := newTestHandler(t)
	router := profiles.Routes(h)
	ctx := testutil.TestContext(t)

	u := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleUser)

	req := httptest.NewRequest("GET", "/me", nil)
	req = testutil.WithUser(req, u.ID, u.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 404)
}

func TestUpsertMe(t *testing.T) {
	h, f := newTestHandler(t)
	router := profiles.Routes(h)
	ctx := testutil.TestContext(t)

	u := f.CreateUser(ctx, "alice", "alice@example.com", models.RoleUser)

	body := map[string]any{
		"full_name":      "Alice Waters",
		"field_of_study": "Mechanical Engineering",
		"bio":            "I build <script>x</script>rovers.",
		"skills":         []string{"CAD", "welding"},
	}
	req := testutil.NewJSONRequest(t, "PUT", "/me", body)
	req = testutil.WithUser(req, u.ID, u.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	var p models.Profile
	testutil.DecodeJSON(t, rec, &p)
	if p.FullName != "Alice Waters" {
		t.Errorf("full_name: got %q", p.FullName)
	}
	if p.Bio != "I build rovers." {
		t.Errorf("bio not sanitized: %q", p.Bio)
	}
	if len(p.Skills) != 2 {
		t.Errorf("skills: got %v", p.Skills)
	}

	t.Run("second upsert updates in place", func(t *testing.T) {
		body := map[string]any{
			"full_name": "Alice W.",
			"skills":    "CAD, welding, soldering",
		}
		req := testutil.NewJSONRequest(t, "PUT", "/me", body)
		req = testutil.WithUser(req, u.ID, u.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)

		var updated models.Profile
		testutil.DecodeJSON(t, rec, &updated)
		if updated.FullName != "Alice W." {
			t.Errorf("full_name: got %q", updated.FullName)
		}
		if len(updated.Skills) != 3 {
			t.Errorf("comma-separated skills: got %v", updated.Skills)
		}

		n, err := f.DB().Collection("profiles").CountDocuments(ctx, map[string]any{"user_id": u.ID})
		if err != nil {
			t.Fatalf("count profiles: %v", err)
		}
		if n != 1 {
			t.Errorf("upsert created %d documents, want 1", n)
		}
	})

	t.Run("visible to other users", func(t *testing.T) {
		other := f.CreateUser(ctx, "bob", "bob@example.com", models.RoleUser)
		req := httptest.NewRequest("GET", "/user/"+u.ID.Hex(), nil)
		req = testutil.WithUser(req, other.ID, other.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)

		var p models.Profile
		testutil.DecodeJSON(t, rec, &p)
		if p.UserID != u.ID {
			t.Errorf("profile user: got %s, want %s", p.UserID.Hex(), u.ID.Hex())
		}
	})
}
