package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("request %d blocked, want allowed", i+1)
		}
	}
	if l.Allow("key") {
		t.Error("request over limit allowed")
	}
	if !l.Allow("other") {
		t.Error("separate key blocked")
	}
}

func TestLimiterReset(t *testing.T) {
	l := New(1, time.Minute)

	if !l.Allow("key") {
		t.Fatal("first request blocked")
	}
	if l.Allow("key") {
		t.Fatal("second request allowed")
	}
	l.Reset("key")
	if !l.Allow("key") {
		t.Error("request after reset blocked")
	}
}

func TestLimiterWindowExpiry(t *testing.T) {
	l := New(1, 20*time.Millisecond)

	if !l.Allow("key") {
		t.Fatal("first request blocked")
	}
	if l.Allow("key") {
		t.Fatal("second request allowed inside window")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("key") {
		t.Error("request after window expiry blocked")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "192.0.2.10:54321"
	if got := ClientIP(r); got != "192.0.2.10" {
		t.Errorf("RemoteAddr: got %q", got)
	}

	r.Header.Set("X-Real-IP", "198.51.100.7")
	if got := ClientIP(r); got != "198.51.100.7" {
		t.Errorf("X-Real-IP: got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.4, 198.51.100.7")
	if got := ClientIP(r); got != "203.0.113.4" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestLoginLimiterByEmail(t *testing.T) {
	ll := NewLoginLimiter()
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	r.RemoteAddr = "192.0.2.20:1000"

	for i := 0; i < 5; i++ {
		ok, _ := ll.Check(r, "target@example.com")
		if !ok {
			t.Fatalf("attempt %d blocked, want allowed", i+1)
		}
	}
	if ok, reason := ll.Check(r, "target@example.com"); ok || reason == "" {
		t.Errorf("sixth attempt: ok=%v reason=%q, want blocked with reason", ok, reason)
	}

	// A successful login clears the email counter.
	ll.ResetEmail("target@example.com")
	if ok, _ := ll.Check(r, "target@example.com"); !ok {
		t.Error("attempt after ResetEmail blocked")
	}
}
