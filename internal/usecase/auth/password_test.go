package auth

import "testing"

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "s3cret-pass" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword("s3cret-pass", hash) {
		t.Error("CheckPassword() = false for correct password")
	}
	if CheckPassword("wrong-pass", hash) {
		t.Error("CheckPassword() = true for wrong password")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	first, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	second, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical")
	}
}

func TestCheckPasswordMalformedHash(t *testing.T) {
	if CheckPassword("anything", "not-a-bcrypt-hash") {
		t.Error("CheckPassword() = true for malformed hash")
	}
	if CheckPassword("anything", "") {
		t.Error("CheckPassword() = true for empty hash")
	}
}
