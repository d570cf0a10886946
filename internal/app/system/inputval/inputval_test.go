package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	valid := []string{
		"alice@example.com",
		"a.b-c_d@sub.example.org",
		"dev@localhost",
	}
	for _, s := range valid {
		if !IsValidEmail(s) {
			t.Errorf("IsValidEmail(%q) = false, want true", s)
		}
	}

	invalid := []string{
		"",
		"no-at-sign",
		"@example.com",
		"alice@",
		".alice@example.com",
		"alice.@example.com",
		"al..ice@example.com",
		"alice@.example.com",
		"Alice <alice@example.com>",
	}
	for _, s := range invalid {
		if IsValidEmail(s) {
			t.Errorf("IsValidEmail(%q) = true, want false", s)
		}
	}
}

func TestIsValidUsername(t *testing.T) {
	valid := []string{"abc", "alice_w", "Team-Lead42", "x2345678901234567890123456789012"}
	for _, s := range valid {
		if !IsValidUsername(s) {
			t.Errorf("IsValidUsername(%q) = false, want true", s)
		}
	}

	invalid := []string{"", "ab", "has space", "dot.name", "x23456789012345678901234567890123"}
	for _, s := range invalid {
		if IsValidUsername(s) {
			t.Errorf("IsValidUsername(%q) = true, want false", s)
		}
	}
}

func TestIsValidPassword(t *testing.T) {
	if IsValidPassword("short7!") {
		t.Error("7 characters accepted")
	}
	if !IsValidPassword("8chars!!") {
		t.Error("8 characters rejected")
	}
}

func TestIsValidScore(t *testing.T) {
	for n := 1; n <= 5; n++ {
		if !IsValidScore(n) {
			t.Errorf("IsValidScore(%d) = false, want true", n)
		}
	}
	for _, n := range []int{0, -1, 6, 100} {
		if IsValidScore(n) {
			t.Errorf("IsValidScore(%d) = true, want false", n)
		}
	}
}
