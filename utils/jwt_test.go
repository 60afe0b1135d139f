package utils

import (
	"os"
	"testing"
	"time"
)

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	// closed port so blacklist falls back to the in-memory map
	os.Setenv("REDIS_HOST", "127.0.0.1")
	os.Setenv("REDIS_PORT", "6390")
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(42, "tester", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Username != "tester" {
		t.Errorf("Username = %q, want tester", claims.Username)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken(1, "ghost", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(token); err == nil {
		t.Error("expired token parsed without error")
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := GenerateToken(1, "honest", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(token + "x"); err == nil {
		t.Error("tampered token parsed without error")
	}
	if _, err := ParseToken("garbage"); err == nil {
		t.Error("garbage token parsed without error")
	}
}

func TestBlacklistExpiry(t *testing.T) {
	token, err := GenerateToken(7, "leaver", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	if IsTokenBlacklisted(token) {
		t.Fatal("token blacklisted before revocation")
	}

	BlacklistToken(token, time.Now().Add(time.Hour))
	if !IsTokenBlacklisted(token) {
		t.Error("revoked token not reported as blacklisted")
	}

	expired, err := GenerateToken(8, "slow", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	BlacklistToken(expired, time.Now().Add(-time.Minute))
	if IsTokenBlacklisted(expired) {
		t.Error("entry past its expiry still reported as blacklisted")
	}
}
