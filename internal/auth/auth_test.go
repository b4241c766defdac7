package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("stu1", "student", "facegate", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	claims, err := Parse(pair.AccessToken, "secret", "facegate")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if claims.Subject != "stu1" {
		t.Errorf("expected subject stu1, got %q", claims.Subject)
	}
	if claims.Role != "student" {
		t.Errorf("expected role student, got %q", claims.Role)
	}
}

func TestParseWrongKey(t *testing.T) {
	pair, err := Issue("stu1", "student", "facegate", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := Parse(pair.AccessToken, "other-secret", "facegate"); err == nil {
		t.Error("token signed with a different key should fail")
	}
}

func TestParseIssuerMismatch(t *testing.T) {
	pair, err := Issue("stu1", "student", "someone-else", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := Parse(pair.AccessToken, "secret", "facegate"); err == nil {
		t.Error("issuer mismatch should fail")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !CheckPassword(hash, "correct horse battery staple") {
		t.Error("correct password should verify")
	}
	if CheckPassword(hash, "wrong password") {
		t.Error("wrong password should not verify")
	}
}
