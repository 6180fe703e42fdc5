package auth

import (
	"testing"
)

func TestProfileRoundTrip(t *testing.T) {
	token, err := MintProfile("s3cret", "profile-1", "npubkey")
	if err != nil {
		t.Fatalf("MintProfile: %v", err)
	}
	claims, err := Verify("s3cret", token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.ProfileID != "profile-1" || claims.Pubkey != "npubkey" || claims.Admin {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestAdminToken(t *testing.T) {
	token, err := MintAdmin("s3cret")
	if err != nil {
		t.Fatalf("MintAdmin: %v", err)
	}
	claims, err := Verify("s3cret", token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !claims.Admin {
		t.Error("expected admin claim")
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, _ := MintProfile("s3cret", "profile-1", "")
	if _, err := Verify("other", token); err == nil {
		t.Error("expected error with wrong secret")
	}
}
