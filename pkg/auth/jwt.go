package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bazinga/storefront/config"
	"github.com/bazinga/storefront/pkg/apperror"
)

// minSecretBytes guards against accidentally signing with an empty key.
const minSecretBytes = 16

// Claims holds the token payload: the subject is the identity's email.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 bearer tokens. Tokens are
// stateless: there is no revocation list and no refresh, so a token stays
// valid until its expiry.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a TokenService signing with secret. Every token
// lives for exactly ttl from issuance.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < minSecretBytes {
		return nil, fmt.Errorf("auth: JWT secret must be at least %d bytes", minSecretBytes)
	}
	if ttl <= 0 {
		return nil, errors.New("auth: token ttl must be positive")
	}
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// NewTokenServiceFromConfig reads JWT_SECRET and JWT_TTL.
func NewTokenServiceFromConfig() (*TokenService, error) {
	return NewTokenService(config.JWTSecret(), config.JWTTTL())
}

// WithClock returns a copy of s reading time from now. Used by tests to
// move past expiry without sleeping.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	cp := *s
	cp.now = now
	return &cp
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for subject.
func (s *TokenService) Issue(subject string) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", errors.New("auth: empty token subject")
	}

	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify returns the subject of a valid token. Expired tokens fail with
// apperror.CodeTokenExpired, everything else with apperror.CodeInvalidToken;
// the HTTP layer reports both as 401.
func (s *TokenService) Verify(token string) (string, error) {
	claims, err := s.parse(token, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperror.TokenExpired("token expired", err)
		}
		return "", apperror.InvalidToken("invalid token", err)
	}

	// jwt checks exp > now with second precision; at/after exp must fail.
	if !s.now().Before(claims.ExpiresAt.Time) {
		return "", apperror.TokenExpired("token expired", jwt.ErrTokenExpired)
	}
	if claims.Subject == "" {
		return "", apperror.InvalidToken("invalid token", jwt.ErrTokenInvalidClaims)
	}
	return claims.Subject, nil
}

// ExtractExpiry returns the expiry encoded in a correctly signed token,
// whether or not it has already passed. Diagnostics only.
func (s *TokenService) ExtractExpiry(token string) (time.Time, error) {
	claims, err := s.parse(token, jwt.WithoutClaimsValidation())
	if err != nil {
		return time.Time{}, apperror.InvalidToken("invalid token", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, apperror.InvalidToken("invalid token", jwt.ErrTokenInvalidClaims)
	}
	return claims.ExpiresAt.Time, nil
}

func (s *TokenService) parse(token string, opts ...jwt.ParserOption) (*Claims, error) {
	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
