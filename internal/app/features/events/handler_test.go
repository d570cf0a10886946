package events_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/campuslink-io/campuslink/internal/app/features/events"
	"github.com/campuslink-io/campuslink/internal/domain/models"
	"github.com/campuslink-io/campuslink/internal/testutil"
)

func newTestHandler(t *testing.T) (*events.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return events.NewHandler(db, zap.NewNop()), testutil.NewFixtures(t, db)
}

func TestUpcomingHidesPastAndArchived(t *testing.T) {
	h, f := newTestHandler(t)
	router := events.Routes(h)
	ctx := testutil.TestContext(t)

	manager := f.CreateUser(ctx, "mgr", "mgr@example.com", models.RoleAssociationManager)
	assoc := f.CreateAssociation(ctx, "Robotics Society", manager.ID)

	future := f.CreateEvent(ctx, "Future Workshop", assoc.ID, time.Now().UTC().Add(48*time.Hour))
	f.CreateEvent(ctx, "Past Seminar", assoc.ID, time.Now().UTC().Add(-48*time.Hour))
	archived := f.CreateEvent(ctx, "Archived Workshop", assoc.ID, time.Now().UTC().Add(72*time.Hour))
	if _, err := f.DB().Collection("events").UpdateByID(ctx, archived.ID, bson.M{"$set": bson.M{"is_archived": true}}); err != nil {
		t.Fatalf("archive fixture: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	var got []models.Event
	testutil.DecodeJSON(t, rec, &got)
	if len(got) != 1 || got[0].ID != future.ID {
		t.Errorf("upcoming listing: got %d events, want only the future one", len(got))
	}

	t.Run("archived stays reachable by id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/"+archived.ID.Hex(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)
	})
}

func TestCreateEventRequiresManager(t *testing.T) {
	h, f := newTestHandler(t)
	router := events.Routes(h)
	ctx := testutil.TestContext(t)

	manager := f.CreateUser(ctx, "mgr", "mgr@example.com", models.RoleAssociationManager)
	assoc := f.CreateAssociation(ctx, "Robotics Society", manager.ID)
	outsider := f.CreateUser(ctx, "pleb", "pleb@example.com", models.RoleUser)
	otherManager := f.CreateUser(ctx, "mgr2", "mgr2@example.com", models.RoleAssociationManager)

	body := map[string]any{
		"title":          "Intro Workshop",
		"description":    "learn things",
		"type":           models.EventWorkshop,
		"date":           time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		"association_id": assoc.ID.Hex(),
	}

	t.Run("plain user forbidden", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/", body)
		req = testutil.WithUser(req, outsider.ID, outsider.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 403)
	})

	t.Run("manager of another association forbidden", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/", body)
		req = testutil.WithUser(req, otherManager.ID, otherManager.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 403)
	})

	t.Run("owning manager allowed", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/", body)
		req = testutil.WithUser(req, manager.ID, manager.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 201)
	})

	t.Run("unknown event type rejected", func(t *testing.T) {
		bad := map[string]any{}
		for k, v := range body {
			bad[k] = v
		}
		bad["type"] = "Party"
		req := testutil.NewJSONRequest(t, "POST", "/", bad)
		req = testutil.WithUser(req, manager.ID, manager.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 400)
	})
}

func TestRegistration(t *testing.T) {
	h, f := newTestHandler(t)
	router := events.Routes(h)
	ctx := testutil.TestContext(t)

	manager := f.CreateUser(ctx, "mgr", "mgr@example.com", models.RoleAssociationManager)
	assoc := f.CreateAssociation(ctx, "Robotics Society", manager.ID)
	event := f.CreateEvent(ctx, "Workshop", assoc.ID, time.Now().UTC().Add(24*time.Hour))
	attendee := f.CreateUser(ctx, "dave", "dave@example.com", models.RoleUser)

	req := testutil.NewJSONRequest(t, "POST", "/"+event.ID.Hex()+"/register", nil)
	req = testutil.WithUser(req, attendee.ID, attendee.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 201)

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/"+event.ID.Hex()+"/register", nil)
		req = testutil.WithUser(req, attendee.ID, attendee.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 409)
	})

	t.Run("denormalized mirror updated", func(t *testing.T) {
		var e models.Event
		if err := f.DB().Collection("events").FindOne(ctx, bson.M{"_id": event.ID}).Decode(&e); err != nil {
			t.Fatalf("reload event: %v", err)
		}
		if len(e.RegisteredUserIDs) != 1 || e.RegisteredUserIDs[0] != attendee.ID {
			t.Errorf("registered_user_ids: got %v", e.RegisteredUserIDs)
		}
	})

	t.Run("registrations list is manager only", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/"+event.ID.Hex()+"/registrations", nil)
		req = testutil.WithUser(req, attendee.ID, attendee.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 403)

		req = httptest.NewRequest("GET", "/"+event.ID.Hex()+"/registrations", nil)
		req = testutil.WithUser(req, manager.ID, manager.Role)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)
	})

	t.Run("unregister", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, "POST", "/"+event.ID.Hex()+"/unregister", nil)
		req = testutil.WithUser(req, attendee.ID, attendee.Role)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 200)

		var e models.Event
		if err := f.DB().Collection("events").FindOne(ctx, bson.M{"_id": event.ID}).Decode(&e); err != nil {
			t.Fatalf("reload event: %v", err)
		}
		if len(e.RegisteredUserIDs) != 0 {
			t.Errorf("registered_user_ids after unregister: got %v", e.RegisteredUserIDs)
		}

		// Not registered anymore, a second unregister is a client error.
		req = testutil.NewJSONRequest(t, "POST", "/"+event.ID.Hex()+"/unregister", nil)
		req = testutil.WithUser(req, attendee.ID, attendee.Role)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		testutil.AssertStatus(t, rec, 400)
	})
}

func TestArchiveToggle(t *testing.T) {
	h, f := newTestHandler(t)
	router := events.Routes(h)
	ctx := testutil.TestContext(t)

	manager := f.CreateUser(ctx, "mgr", "mgr@example.com", models.RoleAssociationManager)
	assoc := f.CreateAssociation(ctx, "Robotics Society", manager.ID)
	event := f.CreateEvent(ctx, "Workshop", assoc.ID, time.Now().UTC().Add(24*time.Hour))

	req := testutil.NewJSONRequest(t, "PATCH", "/"+event.ID.Hex()+"/archive", map[string]bool{"archived": true})
	req = testutil.WithUser(req, manager.ID, manager.Role)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	var got models.Event
	testutil.DecodeJSON(t, rec, &got)
	if !got.IsArchived {
		t.Error("event not archived")
	}

	req = testutil.NewJSONRequest(t, "PATCH", "/"+event.ID.Hex()+"/archive", map[string]bool{"archived": false})
	req = testutil.WithUser(req, manager.ID, manager.Role)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	testutil.AssertStatus(t, rec, 200)

	testutil.DecodeJSON(t, rec, &got)
	if got.IsArchived {
		t.Error("event still archived after restore")
	}
}
