package httpjson

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, 404, "Team not found.")

	if rec.Code != 404 {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type: got %q", ct)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"message":"Team not found."}` {
		t.Errorf("body: got %s", body)
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"}`))
		var p payload
		if err := Decode(r, &p, 1024); err != nil {
			t.Fatalf("Decode() error: %v", err)
		}
		if p.Name != "x" {
			t.Errorf("Name: got %q", p.Name)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
		var p payload
		if err := Decode(r, &p, 1024); err == nil {
			t.Error("Decode() accepted malformed JSON")
		}
	})

	t.Run("trailing data", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"}{"name":"y"}`))
		var p payload
		if err := Decode(r, &p, 1024); err == nil {
			t.Error("Decode() accepted trailing JSON value")
		}
	})

	t.Run("oversize body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"`+strings.Repeat("a", 100)+`"}`))
		var p payload
		if err := Decode(r, &p, 16); err != ErrTooLarge {
			t.Errorf("Decode() error: got %v, want ErrTooLarge", err)
		}
	})
}
