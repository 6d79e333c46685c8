package util

import (
	"net/http"
	"testing"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("user-123", "test-secret")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	userID, err := ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("user id = %q, want user-123", userID)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("user-123", "test-secret")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	if _, err := ParseJWT(token, "other-secret"); err == nil {
		t.Error("ParseJWT with wrong secret succeeded")
	}
}

func TestParseJWTGarbage(t *testing.T) {
	if _, err := ParseJWT("not-a-token", "test-secret"); err == nil {
		t.Error("ParseJWT with garbage input succeeded")
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer token", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"missing header", "", ""},
		{"wrong scheme", "Basic abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if got := ExtractToken(r); got != tt.want {
				t.Errorf("ExtractToken = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2good")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "hunter2good" {
		t.Fatal("hash equals plaintext")
	}

	if !CheckPassword("hunter2good", hash) {
		t.Error("CheckPassword rejected correct password")
	}
	if CheckPassword("wrong", hash) {
		t.Error("CheckPassword accepted wrong password")
	}
}
