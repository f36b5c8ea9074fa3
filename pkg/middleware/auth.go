package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/bazinga/storefront/pkg/apperror"
	"github.com/bazinga/storefront/pkg/logger"
	"github.com/bazinga/storefront/pkg/metrics"
	"github.com/bazinga/storefront/pkg/response"
)

// Identity is the authenticated principal stored in the request context.
type Identity interface {
	Subject() string
	RoleName() string
}

// TokenVerifier returns the subject of a valid bearer token.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type identityKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by Auth, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// Auth requires "Authorization: Bearer <token>", verifies it and resolves
// the subject to an identity. Every token failure is a 401 "Unauthorized";
// the reason only shows up in metrics and debug logs.
func Auth[T Identity](tokens TokenVerifier, resolve func(ctx context.Context, subject string) (T, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.WithCtx(r.Context())

			token, ok := bearerToken(r)
			if !ok {
				reject(w, r, "missing", nil)
				return
			}

			subject, err := tokens.Verify(token)
			if err != nil {
				reason := "invalid"
				if apperror.IsCode(err, apperror.CodeTokenExpired) {
					reason = "expired"
				}
				reject(w, r, reason, err)
				return
			}

			id, err := resolve(r.Context(), subject)
			if err != nil {
				if apperror.IsCode(err, apperror.CodeInvalidToken) || apperror.IsCode(err, apperror.CodeNotFound) {
					reject(w, r, "unknown_subject", err)
					return
				}
				response.FromError(r.Context(), w, err)
				return
			}

			log.Debug("authenticated", "subject", subject)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func reject(w http.ResponseWriter, r *http.Request, reason string, err error) {
	metrics.RecordTokenRejection(reason)
	logger.WithCtx(r.Context()).Debug("bearer token rejected", "reason", reason, "error", err)
	response.Unauthorized(w)
}
