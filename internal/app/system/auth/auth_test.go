package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	uid := primitive.NewObjectID()

	token, err := m.Issue(uid, "team_lead")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	p, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if p.UserID != uid {
		t.Errorf("UserID: got %s, want %s", p.UserID.Hex(), uid.Hex())
	}
	if p.Role != "team_lead" {
		t.Errorf("Role: got %q, want %q", p.Role, "team_lead")
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)

	token, err := issuer.Issue(primitive.NewObjectID(), "user")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error: got %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Issue(primitive.NewObjectID(), "user")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := m.Verify(token); err != ErrExpiredToken {
		t.Errorf("Verify() error: got %v, want ErrExpiredToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	if _, err := m.Verify("not-a-token"); err != ErrInvalidToken {
		t.Errorf("Verify() error: got %v, want ErrInvalidToken", err)
	}
}

func TestLoadBearerUser(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	uid := primitive.NewObjectID()
	token, err := m.Issue(uid, "admin")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	var got Principal
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = CurrentUser(r)
	})

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{name: "valid bearer token", header: "Bearer " + token, want: true},
		{name: "no header", header: "", want: false},
		{name: "wrong scheme", header: "Basic abc123", want: false},
		{name: "mangled token", header: "Bearer abc.def.ghi", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok = Principal{}, false
			req := httptest.NewRequest("GET", "/api/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			m.LoadBearerUser(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("middleware wrote status %d, should pass through", rec.Code)
			}
			if ok != tt.want {
				t.Fatalf("CurrentUser ok: got %v, want %v", ok, tt.want)
			}
			if ok && got.UserID != uid {
				t.Errorf("UserID: got %s, want %s", got.UserID.Hex(), uid.Hex())
			}
		})
	}
}

func TestRequireSignedIn(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest("GET", "/api/teams/my-teams", nil)
	rec := httptest.NewRecorder()
	RequireSignedIn(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}

	req = WithTestUser(httptest.NewRequest("GET", "/api/teams/my-teams", nil), Principal{UserID: primitive.NewObjectID(), Role: "user"})
	rec = httptest.NewRecorder()
	RequireSignedIn(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("signed in: got %d, want 204", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mw := RequireRole("admin", "association_manager")(next)

	tests := []struct {
		name string
		role string
		want int
	}{
		{name: "admin allowed", role: "admin", want: http.StatusNoContent},
		{name: "manager allowed", role: "association_manager", want: http.StatusNoContent},
		{name: "plain user forbidden", role: "user", want: http.StatusForbidden},
		{name: "team lead forbidden", role: "team_lead", want: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := WithTestUser(httptest.NewRequest("PATCH", "/api/users/x/role", nil), Principal{UserID: primitive.NewObjectID(), Role: tt.role})
			rec := httptest.NewRecorder()
			mw.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("got %d, want %d", rec.Code, tt.want)
			}
		})
	}

	req := httptest.NewRequest("PATCH", "/api/users/x/role", nil)
	rec := httptest.NewRecorder()
	mw.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}
}
