package service

import "testing"

func TestPasswordHashAndVerify(t *testing.T) {
	hasher := NewPasswordHasher()

	digest, err := hasher.Hash("secret123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if digest == "secret123" {
		t.Error("Expected digest to differ from plaintext")
	}

	if !hasher.Verify("secret123", digest) {
		t.Error("Expected matching password to verify")
	}
	if hasher.Verify("wrong-password", digest) {
		t.Error("Expected mismatched password to fail verification")
	}
}

func TestPasswordHashUniqueSalts(t *testing.T) {
	hasher := NewPasswordHasher()

	first, err := hasher.Hash("secret123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	second, err := hasher.Hash("secret123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	if first == second {
		t.Error("Expected distinct digests for the same password")
	}
}
