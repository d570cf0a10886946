package associations_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/features/associations"
	userstore "github.com/campuslink-io/campuslink/internal/app/store/users"
	"github.com/campuslink-io/campuslink/internal/domain/models"
	"github.com/campuslink-io/campuslink/internal/testutil"
)

func newTestHandler(t *testing.T) (*associations.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return associations.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestCreatePromotesManager(t *testing.T) {
	h, f := newTestHandler(t)
	router := associations.Routes(h)
	ctx := testutil.TestContext(t)

	admin := f.CreateUser(ctx, "root", "root@example.com", models.RoleAdmin)
	manager := f.CreateUser(ctx, "mgr", "mgr@example.com", models.RoleUser)

	body := map[string]string{"name": "Robotics Society", "manager_id": manager.ID.Hex()}
	req := testutil.NewJSONRequest(t, "POST", "/", body)
	req = testutil.WithUser(req, admin.ID, admin.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 201)

	u, err := userstore.New(f.DB()).GetByID(ctx, manager.ID)
	if err != nil {
		t.Fatalf("reload manager: %v", err)
	}
	if u.Role != models.RoleAssociationManager {
		t.Errorf("manager role: got %q, want %q", u.Role, models.RoleAssociationManager)
	}

	t.Run("duplicate name conflicts", func(t *testing.T) {
		body := map[string]string{"name": "robotics society", "manager_id": manager.ID.Hex()}
		req := testutil.NewJSONRequest(t, "POST", "/", body)
		req = testutil.WithUser(req, admin.ID, admin.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 409)
	})
}

func TestManagerChangeSwapsRoles(t *testing.T) {
	h, f := newTestHandler(t)
	router := associations.Routes(h)
	ctx := testutil.TestContext(t)

	admin := f.CreateUser(ctx, "root", "root@example.com", models.RoleAdmin)
	oldMgr := f.CreateUser(ctx, "mgr1", "mgr1@example.com", models.RoleAssociationManager)
	newMgr := f.CreateUser(ctx, "mgr2", "mgr2@example.com", models.RoleUser)
	assoc := f.CreateAssociation(ctx, "Robotics Society", oldMgr.ID)

	body := map[string]string{"manager_id": newMgr.ID.Hex()}
	req := testutil.NewJSONRequest(t, "PUT", "/"+assoc.ID.Hex(), body)
	req = testutil.WithUser(req, admin.ID, admin.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	us := userstore.New(f.DB())
	demoted, err := us.GetByID(ctx, oldMgr.ID)
	if err != nil {
		t.Fatalf("reload old manager: %v", err)
	}
	if demoted.Role != models.RoleUser {
		t.Errorf("old manager role: got %q, want user", demoted.Role)
	}
	promoted, err := us.GetByID(ctx, newMgr.ID)
	if err != nil {
		t.Fatalf("reload new manager: %v", err)
	}
	if promoted.Role != models.RoleAssociationManager {
		t.Errorf("new manager role: got %q, want association_manager", promoted.Role)
	}
}

func TestManagerChangeSparesAdmin(t *testing.T) {
	h, f := newTestHandler(t)
	router := associations.Routes(h)
	ctx := testutil.TestContext(t)

	admin := f.CreateUser(ctx, "root", "root@example.com", models.RoleAdmin)
	newMgr := f.CreateUser(ctx, "mgr", "mgr@example.com", models.RoleUser)
	assoc := f.CreateAssociation(ctx, "Robotics Society", admin.ID)

	body := map[string]string{"manager_id": newMgr.ID.Hex()}
	req := testutil.NewJSONRequest(t, "PUT", "/"+assoc.ID.Hex(), body)
	req = testutil.WithUser(req, admin.ID, admin.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	u, err := userstore.New(f.DB()).GetByID(ctx, admin.ID)
	if err != nil {
		t.Fatalf("reload admin: %v", err)
	}
	if u.Role != models.RoleAdmin {
		t.Errorf("admin demoted on manager change: got %q", u.Role)
	}
}

func TestDeleteCascades(t *testing.T) {
	h, f := newTestHandler(t)
	router := associations.Routes(h)
	ctx := testutil.TestContext(t)

	admin := f.CreateUser(ctx, "root", "root@example.com", models.RoleAdmin)
	manager := f.CreateUser(ctx, "mgr", "mgr@example.com", models.RoleAssociationManager)
	assoc := f.CreateAssociation(ctx, "Robotics Society", manager.ID)
	event := f.CreateEvent(ctx, "Workshop", assoc.ID, time.Now().UTC().Add(24*time.Hour))
	attendee := f.CreateUser(ctx, "dave", "dave@example.com", models.RoleUser)
	if _, err := f.DB().Collection("event_registrations").InsertOne(ctx, models.EventRegistration{
		UserID: attendee.ID, EventID: event.ID, CreatedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("seed registration: %v", err)
	}
	f.CreateComment(ctx, attendee.ID, event.ID, models.CommentTargetEvent, "see you there")

	req := testutil.NewJSONRequest(t, "DELETE", "/"+assoc.ID.Hex(), nil)
	req = testutil.WithUser(req, admin.ID, admin.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	for _, coll := range []string{"associations", "events", "event_registrations", "comments"} {
		n, err := f.DB().Collection(coll).CountDocuments(ctx, bson.M{})
		if err != nil {
			t.Fatalf("count %s: %v", coll, err)
		}
		if n != 0 {
			t.Errorf("%s not cascaded, %d documents remain", coll, n)
		}
	}

	u, err := userstore.New(f.DB()).GetByID(ctx, manager.ID)
	if err != nil {
		t.Fatalf("reload manager: %v", err)
	}
	if u.Role != models.RoleUser {
		t.Errorf("manager role after delete: got %q, want user", u.Role)
	}
}

func TestDeleteIsAdminOnly(t *testing.T) {
	h, f := newTestHandler(t)
	router := associations.Routes(h)
	ctx := testutil.TestContext(t)

	manager := f.CreateUser(ctx, "mgr", "mgr@example.com", models.RoleAssociationManager)
	assoc := f.CreateAssociation(ctx, "Robotics Society", manager.ID)

	req := testutil.NewJSONRequest(t, "DELETE", "/"+assoc.ID.Hex(), nil)
	req = testutil.WithUser(req, manager.ID, manager.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 403)
}

func TestMyAssociation(t *testing.T) {
	h, f := newTestHandler(t)
	router := associations.Routes(h)
	ctx := testutil.TestContext(t)

	manager := f.CreateUser(ctx, "mgr", "mgr@example.com", models.RoleAssociationManager)
	nobody := f.CreateUser(ctx, "dave", "dave@example.com", models.RoleUser)
	f.CreateAssociation(ctx, "Robotics Society", manager.ID)

	t.Run("manager sees their association", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/my-association", nil)
		req = testutil.WithUser(req, manager.ID, manager.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)
		if strings.TrimSpace(rec.Body.String()) == "null" {
			t.Error("manager got null, want their association")
		}
	})

	t.Run("non-manager gets null", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/my-association", nil)
		req = testutil.WithUser(req, nobody.ID, nobody.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)
		if strings.TrimSpace(rec.Body.String()) != "null" {
			t.Errorf("got %s, want null", rec.Body.String())
		}
	})
}
