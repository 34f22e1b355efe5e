package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tajoco/contacts/config"
	apperrors "github.com/tajoco/contacts/internal/errors"
)

// Scope restricts which operation a token may be used for.
type Scope string

const (
	ScopeAccess  Scope = "access_token"
	ScopeRefresh Scope = "refresh_token"
	ScopeEmail   Scope = "email_token"
)

type tokenClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// TokenService issues and decodes signed, expiring tokens carrying the
// subject email and a scope claim.
type TokenService struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	verifyTTL  time.Duration
}

func NewTokenService(cfg config.JWTConfig) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.SigningAlgorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", cfg.SigningAlgorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", cfg.SigningAlgorithm)
	}

	return &TokenService{
		secret:     []byte(cfg.Secret),
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		verifyTTL:  cfg.VerifyTTL,
	}, nil
}

// Issue creates a signed token for email with the given scope and ttl
func (s *TokenService) Issue(email string, scope Scope, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Scope: string(scope),
		RegisteredClaims: jwt.RegisteredClaims{
			// unique ID so tokens issued within the same second still differ
			ID:        uuid.NewString(),
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// IssueAccess creates a short-lived token authorizing API calls
func (s *TokenService) IssueAccess(email string) (string, error) {
	return s.Issue(email, ScopeAccess, s.accessTTL)
}

// IssueRefresh creates the longer-lived token used to mint new access tokens
func (s *TokenService) IssueRefresh(email string) (string, error) {
	return s.Issue(email, ScopeRefresh, s.refreshTTL)
}

// IssueVerification creates the email-confirmation token
func (s *TokenService) IssueVerification(email string) (string, error) {
	return s.Issue(email, ScopeEmail, s.verifyTTL)
}

// Decode validates signature and expiry, checks the scope claim against want
// and returns the subject email.
func (s *TokenService) Decode(tokenString string, want Scope) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&tokenClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{s.method.Alg()}),
	)
	if err != nil {
		return "", apperrors.WrapError(apperrors.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return "", apperrors.ErrInvalidToken
	}

	if claims.Scope != string(want) {
		return "", apperrors.ErrInvalidScope
	}

	if claims.Subject == "" {
		return "", apperrors.ErrInvalidToken
	}

	return claims.Subject, nil
}
