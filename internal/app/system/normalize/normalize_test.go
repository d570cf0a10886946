package normalize

import (
	"reflect"
	"testing"
)

func TestEmail(t *testing.T) {
	if got := Email("  Alice@Example.COM "); got != "alice@example.com" {
		t.Errorf("Email: got %q", got)
	}
}

func TestUsername(t *testing.T) {
	if got := Username("  Alice_W  "); got != "alice_w" {
		t.Errorf("Username: got %q", got)
	}
}

func TestName(t *testing.T) {
	if got := Name("  Robotics Club "); got != "Robotics Club" {
		t.Errorf("Name: got %q", got)
	}
}

func TestStringList(t *testing.T) {
	got := StringList([]string{" go ", "", "go", "mongodb", "  "})
	want := []string{"go", "mongodb"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StringList: got %v, want %v", got, want)
	}
}
