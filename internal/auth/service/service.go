// Package service signs in the dashboard administrator and issues access tokens.
package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"simulador_solar_backend/internal/auth/password"
	"simulador_solar_backend/platform/apperr"
	"simulador_solar_backend/platform/config"
	"simulador_solar_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessTokenType = "access"
	adminRole       = "admin"

	CodeInvalidCredentials apperr.Code = "INVALID_CREDENTIALS"
	CodeAuthDisabled       apperr.Code = "AUTH_DISABLED"
)

// Token is an issued access token.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

type Service struct {
	cfg config.AdminAuthConfig
	log *logger.Logger
	now func() time.Time
}

func New(cfg config.AdminAuthConfig, log *logger.Logger) *Service {
	return &Service{cfg: cfg, log: log, now: time.Now}
}

// SignIn checks the credentials against the configured administrator account.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (Token, error) {
	if !s.cfg.IsAdminAuthEnabled() {
		return Token{}, apperr.Coded(apperr.KindForbidden, CodeAuthDisabled, "Acesso administrativo desativado.")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	configured := strings.ToLower(strings.TrimSpace(s.cfg.GetAdminEmail()))
	emailMatches := subtle.ConstantTimeCompare([]byte(email), []byte(configured)) == 1

	if err := password.Compare(s.cfg.GetAdminPasswordHash(), plainPassword); err != nil || !emailMatches {
		s.log.WithContext(ctx).AuthEvent("sign_in", email, false, "invalid credentials")
		return Token{}, apperr.Coded(apperr.KindUnauthorized, CodeInvalidCredentials, "E-mail ou senha inválidos.")
	}

	token, err := s.issueAccessToken(email)
	if err != nil {
		return Token{}, apperr.Wrap(apperr.KindInternal, "Não foi possível emitir o token.", err)
	}
	s.log.WithContext(ctx).AuthEvent("sign_in", email, true, "")
	return token, nil
}

// UserID is the stable identity of an administrator e-mail.
func UserID(email string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+strings.ToLower(strings.TrimSpace(email))))
}

func (s *Service) issueAccessToken(email string) (Token, error) {
	now := s.now()
	expiresAt := now.Add(s.cfg.GetAccessTokenTTL())
	claims := jwt.MapClaims{
		"sub":   UserID(email).String(),
		"email": email,
		"type":  accessTokenType,
		"roles": []string{adminRole},
		"exp":   expiresAt.Unix(),
		"iat":   now.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.GetJWTAccessSecret()))
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: signed, ExpiresAt: expiresAt}, nil
}
