package auth

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"valid password", "validpassword123", nil},
		{"password too short", "short", ErrPasswordTooShort},
		{"password at minimum length", "123456789012", nil},
		{"password too long", strings.Repeat("a", 73), ErrPasswordTooLong},
		{"password at maximum length", strings.Repeat("a", 72), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password, bcrypt.MinCost)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("HashPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && hash == tt.password {
				t.Error("HashPassword() returned the plaintext")
			}
		})
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("correctpassword", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if err := CheckPassword("correctpassword", hash); err != nil {
		t.Errorf("CheckPassword() with correct password error = %v", err)
	}
	if err := CheckPassword("wrongpassword1", hash); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("CheckPassword() with wrong password error = %v, want ErrInvalidPassword", err)
	}
	if err := CheckPassword("whatever12345", "not-a-hash"); err == nil {
		t.Error("CheckPassword() with malformed hash should fail")
	}
}

func TestGenerateAPIToken(t *testing.T) {
	plaintext, hash, err := GenerateAPIToken()
	if err != nil {
		t.Fatalf("GenerateAPIToken() error = %v", err)
	}
	if len(plaintext) != 64 {
		t.Errorf("token length = %d, want 64", len(plaintext))
	}
	if hash != HashToken(plaintext) {
		t.Error("hash does not match HashToken(plaintext)")
	}

	other, _, _ := GenerateAPIToken()
	if other == plaintext {
		t.Error("two generated tokens are identical")
	}
}

func TestSessionSecret(t *testing.T) {
	configured := strings.Repeat("ab", 32)
	key, err := SessionSecret(configured)
	if err != nil {
		t.Fatalf("SessionSecret() error = %v", err)
	}
	if hex.EncodeToString(key) != configured {
		t.Error("configured secret was not used")
	}

	for _, value := range []string{"", "not-hex"} {
		key, err := SessionSecret(value)
		if err != nil {
			t.Fatalf("SessionSecret(%q) error = %v", value, err)
		}
		if len(key) != 32 {
			t.Errorf("SessionSecret(%q) length = %d, want 32", value, len(key))
		}
	}
}
