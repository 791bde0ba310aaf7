package crypto

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordUsesFixedCost(t *testing.T) {
	hash, err := HashPassword("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cost, err := bcrypt.Cost(hash)
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	if cost != bcryptCost {
		t.Fatalf("expected cost %d, got %d", bcryptCost, cost)
	}
}

func TestComparePassword(t *testing.T) {
	hash, err := HashPassword("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := ComparePassword(hash, "password1"); err != nil {
		t.Fatalf("expected match: %v", err)
	}
	if err := ComparePassword(hash, "password2"); err == nil {
		t.Fatal("expected mismatch")
	}
}
