package jwt

import (
	"strings"
	"testing"
	"time"
)

func TestSignParseRoundtrip(t *testing.T) {
	token, err := Sign("admin-1", "sess-1", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	claims, err := Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.AdminID != "admin-1" {
		t.Fatalf("AdminID = %q, want admin-1", claims.AdminID)
	}
	if claims.SessionID != "sess-1" {
		t.Fatalf("SessionID = %q, want sess-1", claims.SessionID)
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := Sign("admin-1", "sess-1", -time.Minute)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := Parse(token); err == nil {
		t.Fatal("expired token must not parse")
	}
}

func TestParseRejectsTampered(t *testing.T) {
	token, err := Sign("admin-1", "sess-1", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
	if _, err := Parse(tampered); err == nil {
		t.Fatal("tampered signature must not parse")
	}
}

func TestTwoTokensAreDistinct(t *testing.T) {
	a, err := Sign("admin-1", "sess-a", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	b, err := Sign("admin-1", "sess-b", time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if a == b {
		t.Fatal("tokens for different sessions must differ")
	}
}
