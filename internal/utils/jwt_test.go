package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestParseBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lower case scheme", header: "bearer tok", want: "tok"},
		{name: "surrounding spaces", header: "  Bearer tok  ", want: "tok"},
		{name: "empty", header: "", wantErr: true},
		{name: "missing token", header: "Bearer", wantErr: true},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "too many parts", header: "Bearer a b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBearerToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got token %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseTokenInfo_Success(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	info, err := ParseTokenInfo(token)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if info.Subject != "alice" {
		t.Errorf("expected subject alice, got %q", info.Subject)
	}
	if !info.ExpiresAt.Equal(exp) {
		t.Errorf("expected expiry %v, got %v", exp, info.ExpiresAt)
	}
	if info.Expired(time.Now()) {
		t.Error("expected token to be valid")
	}
}

func TestParseTokenInfo_ExpiredTokenStillParses(t *testing.T) {
	exp := time.Now().Add(-time.Hour)
	token := signedToken(t, jwt.RegisteredClaims{
		Subject:   "bob",
		ExpiresAt: jwt.NewNumericDate(exp),
	})

	info, err := ParseTokenInfo(token)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !info.Expired(time.Now()) {
		t.Error("expected token to be reported expired")
	}
}

func TestParseTokenInfo_NoExpiry(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{Subject: "carol"})

	info, err := ParseTokenInfo(token)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !info.ExpiresAt.IsZero() {
		t.Errorf("expected zero expiry, got %v", info.ExpiresAt)
	}
	if info.Expired(time.Now().Add(100 * 365 * 24 * time.Hour)) {
		t.Error("token without exp must never expire")
	}
}

func TestParseTokenInfo_Malformed(t *testing.T) {
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := ParseTokenInfo(token); err == nil {
			t.Errorf("expected error for %q", token)
		}
	}
}
