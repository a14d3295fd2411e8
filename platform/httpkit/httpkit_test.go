package httpkit

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"simulador_solar_backend/platform/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type jwtSecret string

func (s jwtSecret) GetJWTAccessSecret() string { return string(s) }

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleErrorRendersCodeAndStatus(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	err := fmt.Errorf("wrap: %w", apperr.Coded(apperr.KindUnavailable, "NETWORK_ERROR", "Falha de rede"))
	if !HandleError(c, err) {
		t.Fatalf("expected error to be handled")
	}
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Code != "NETWORK_ERROR" || body.Error != "Falha de rede" {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Timestamp.IsZero() {
		t.Fatalf("expected timestamp in body")
	}
}

func TestHandleErrorUntypedIsUnknown(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleError(c, errors.New("boom"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Code != CodeUnknown {
		t.Fatalf("expected UNKNOWN_ERROR, got %q", body.Code)
	}
	if len(c.Errors) != 1 {
		t.Fatalf("expected cause attached to context")
	}
}

func signTestToken(t *testing.T, secret, tokenType string, roles []string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   uuid.NewString(),
		"type":  tokenType,
		"roles": roles,
		"email": "vendas@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthRequiredAndRequireRole(t *testing.T) {
	engine := gin.New()
	engine.GET("/admin", AuthRequired(jwtSecret("s3cret")), RequireRole("admin"), func(c *gin.Context) {
		c.String(http.StatusOK, GetIdentity(c).Email())
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signTestToken(t, "other", "access", []string{"admin"}), http.StatusUnauthorized},
		{"refresh token", "Bearer " + signTestToken(t, "s3cret", "refresh", []string{"admin"}), http.StatusUnauthorized},
		{"no role", "Bearer " + signTestToken(t, "s3cret", "access", []string{"viewer"}), http.StatusForbidden},
		{"admin", "Bearer " + signTestToken(t, "s3cret", "access", []string{"admin"}), http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
			if tc.want == http.StatusOK && w.Body.String() != "vendas@example.com" {
				t.Fatalf("expected identity e-mail, got %q", w.Body.String())
			}
		})
	}
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	limiter := NewIPRateLimiter(0, 1, nil)
	engine := gin.New()
	engine.GET("/x", limiter.RateLimit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	first := httptest.NewRecorder()
	engine.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/x", nil))
	second := httptest.NewRecorder()
	engine.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/x", nil))

	if first.Code != http.StatusNoContent || second.Code != http.StatusTooManyRequests {
		t.Fatalf("unexpected codes %d then %d", first.Code, second.Code)
	}
}
