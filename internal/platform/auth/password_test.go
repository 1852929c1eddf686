package auth

import "testing"

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("pw123", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "pw123" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword("pw123", hash) {
		t.Error("correct password rejected")
	}
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("same-password", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword("same-password", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical; salt is not randomized")
	}
}

func TestHashPassword_AlgorithmIdentifierEmbedded(t *testing.T) {
	hash, err := HashPassword("pw123", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if len(hash) < 4 || hash[0] != '$' {
		t.Errorf("hash %q does not carry an algorithm identifier prefix", hash)
	}
}

func TestCheckPassword_Mutations(t *testing.T) {
	hash, err := HashPassword("pw123", 4)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	tests := []struct {
		name     string
		password string
		hash     string
	}{
		{"wrong password", "pw124", hash},
		{"empty password", "", hash},
		{"truncated hash", "pw123", hash[:len(hash)-1]},
		{"mutated hash", "pw123", "x" + hash[1:]},
		{"empty hash", "pw123", ""},
		{"garbage hash", "pw123", "not-a-bcrypt-hash"},
	}

	for _, tt := range tests {
		if CheckPassword(tt.password, tt.hash) {
			t.Errorf("%s: CheckPassword returned true", tt.name)
		}
	}
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	hash, err := HashPassword("pw123", 99)
	if err != nil {
		t.Fatalf("HashPassword with invalid cost: %v", err)
	}
	if !CheckPassword("pw123", hash) {
		t.Error("hash produced with fallback cost does not verify")
	}
}
