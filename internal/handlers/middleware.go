package handlers

import (
	"context"
	"net/http"
	"strings"

	"gitlab.com/judge-session.net/internal/core/ports/primary"
	"gitlab.com/judge-session.net/internal/handlers/response"
)

type ctxKey int

const identityKey ctxKey = iota

type MiddlewareProvider struct {
	verifier      primary.IdentityVerifier
	signingMethod string
	logger        primary.Logger
}

func New(verifier primary.IdentityVerifier, signingMethod string, logger primary.Logger) *MiddlewareProvider {
	return &MiddlewareProvider{
		verifier:      verifier,
		signingMethod: signingMethod,
		logger:        logger,
	}
}

// JWTMiddleware rejects requests without a valid bearer token. The raw token
// becomes the request identity and is forwarded to collaborators untouched.
func (m *MiddlewareProvider) JWTMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.WriteError(w, response.ErrorMessage{Message: "Authorization header missing", StatusCode: http.StatusUnauthorized})
			return
		}

		// Extract token from "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		ok, err := m.verifier.VerifyTokenHMAC(r.Context(), tokenString, m.signingMethod)
		if err != nil || !ok {
			m.logger.Debug("Rejected token", "path", r.URL.Path, "error", err)
			response.WriteError(w, response.ErrorMessage{Message: "Invalid token", StatusCode: http.StatusUnauthorized})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), tokenString)))
	})
}

func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// IdentityFromContext returns the identity stored by JWTMiddleware
func IdentityFromContext(ctx context.Context) (string, bool) {
	identity, ok := ctx.Value(identityKey).(string)
	return identity, ok && identity != ""
}
