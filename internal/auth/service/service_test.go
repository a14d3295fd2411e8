package service

import (
	"context"
	"testing"
	"time"

	"simulador_solar_backend/internal/auth/password"
	"simulador_solar_backend/platform/apperr"
	"simulador_solar_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
)

type testConfig struct {
	email string
	hash  string
}

func (c testConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (c testConfig) GetAdminEmail() string            { return c.email }
func (c testConfig) GetAdminPasswordHash() string     { return c.hash }
func (c testConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }
func (c testConfig) IsAdminAuthEnabled() bool         { return c.email != "" && c.hash != "" }

func newService(t *testing.T) *Service {
	t.Helper()
	hash, err := password.Hash("correct horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return New(testConfig{email: "Vendas@Example.com", hash: hash}, logger.Discard())
}

func TestSignInIssuesAdminAccessToken(t *testing.T) {
	svc := newService(t)

	token, err := svc.SignIn(context.Background(), " vendas@example.com ", "correct horse")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if !token.ExpiresAt.After(time.Now()) {
		t.Fatalf("token must expire in the future")
	}

	parsed, err := jwt.Parse(token.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("parse token: %v", err)
	}
	claims := parsed.Claims.(jwt.MapClaims)
	if claims["type"] != "access" || claims["sub"] != UserID("vendas@example.com").String() {
		t.Fatalf("unexpected claims %v", claims)
	}
	roles, _ := claims["roles"].([]interface{})
	if len(roles) != 1 || roles[0] != "admin" {
		t.Fatalf("expected admin role, got %v", claims["roles"])
	}
}

func TestSignInRejectsWrongCredentials(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, tc := range []struct{ email, pass string }{
		{"vendas@example.com", "wrong"},
		{"outro@example.com", "correct horse"},
	} {
		_, err := svc.SignIn(ctx, tc.email, tc.pass)
		if !apperr.HasCode(err, CodeInvalidCredentials) || apperr.GetKind(err) != apperr.KindUnauthorized {
			t.Fatalf("%s: expected INVALID_CREDENTIALS, got %v", tc.email, err)
		}
	}
}

func TestSignInDisabledWithoutAccount(t *testing.T) {
	svc := New(testConfig{}, logger.Discard())
	_, err := svc.SignIn(context.Background(), "vendas@example.com", "x")
	if !apperr.HasCode(err, CodeAuthDisabled) {
		t.Fatalf("expected AUTH_DISABLED, got %v", err)
	}
}
