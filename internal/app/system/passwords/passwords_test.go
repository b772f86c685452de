package passwords

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndMatches(t *testing.T) {
	Cost = bcrypt.MinCost
	defer func() { Cost = 12 }()

	hash, err := Hash("password123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !IsHash(hash) {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if !Matches(hash, "password123") {
		t.Error("expected exact password to match")
	}
	if Matches(hash, "Password123") {
		t.Error("password comparison must be case-sensitive")
	}
	if Matches(hash, "password123 ") {
		t.Error("password comparison must be exact")
	}
}

func TestMatches_PlainText(t *testing.T) {
	tests := []struct {
		stored, plain string
		want          bool
	}{
		{"admin123", "admin123", true},
		{"admin123", "admin1234", false},
		{"admin123", "ADMIN123", false},
		{"", "", false},
		{"", "anything", false},
	}
	for _, tt := range tests {
		t.Run(tt.stored+"/"+tt.plain, func(t *testing.T) {
			if got := Matches(tt.stored, tt.plain); got != tt.want {
				t.Errorf("Matches(%q, %q) = %v, want %v", tt.stored, tt.plain, got, tt.want)
			}
		})
	}
}
