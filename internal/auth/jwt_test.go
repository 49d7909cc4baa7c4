package auth

import (
	"testing"
	"time"
)

func TestSignAndParseJWT(t *testing.T) {
	tok, err := SignJWT(42, "admin", "secret", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	uid, role, err := ParseJWT(tok, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != 42 || role != "admin" {
		t.Fatalf("unexpected claims uid=%d role=%q", uid, role)
	}
}

func TestParseJWTRejectsWrongSecretAndExpired(t *testing.T) {
	tok, _ := SignJWT(1, "buyer", "secret", time.Hour)
	if _, _, err := ParseJWT(tok, "other"); err == nil {
		t.Fatalf("expected signature error")
	}
	expired, _ := SignJWT(1, "buyer", "secret", -time.Minute)
	if _, _, err := ParseJWT(expired, "secret"); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(h, "hunter22") || CheckPassword(h, "nope") {
		t.Fatalf("bcrypt check mismatch")
	}
}
