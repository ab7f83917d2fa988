package persist

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestValidatePasswordAcceptsMatchingHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}
	r := &AccountRepo{}
	if !r.ValidatePassword(string(hash), "hunter2") {
		t.Fatalf("ValidatePassword should accept the password that produced the hash")
	}
}

func TestValidatePasswordRejectsWrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("GenerateFromPassword: %v", err)
	}
	r := &AccountRepo{}
	if r.ValidatePassword(string(hash), "wrong-password") {
		t.Fatalf("ValidatePassword should reject a non-matching password")
	}
}
