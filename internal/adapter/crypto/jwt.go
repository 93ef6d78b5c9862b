package crypto

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gitlab.com/judge-session.net/internal/config"
	"gitlab.com/judge-session.net/internal/core/ports/primary"
)

var _ primary.IdentityVerifier = (*JWTServiceImpl)(nil)

var ErrInvalidToken = errors.New("invalid token")

// JWTServiceImpl checks HMAC signed bearer tokens
type JWTServiceImpl struct {
	HMACSecretKey string
}

func NewJWTService(jwtConfig *config.JwtConfig) *JWTServiceImpl {
	return &JWTServiceImpl{
		HMACSecretKey: jwtConfig.Secret,
	}
}

// GenerateTokenHMAC signs claims, adding a one hour expiry when none is set
func (j JWTServiceImpl) GenerateTokenHMAC(ctx context.Context, method string, claims map[string]interface{}) (string, error) {
	signingMethod := jwt.GetSigningMethod(method)
	if signingMethod == nil {
		return "", fmt.Errorf("unsupported signing method: %s", method)
	}

	if _, exists := claims["exp"]; !exists {
		claims["exp"] = time.Now().Add(time.Hour).Unix()
	}

	tok := jwt.NewWithClaims(signingMethod, jwt.MapClaims(claims))
	return tok.SignedString([]byte(j.HMACSecretKey))
}

func (j JWTServiceImpl) VerifyTokenHMAC(ctx context.Context, token string, method string) (bool, error) {
	signingMethod := jwt.GetSigningMethod(method)
	if signingMethod == nil {
		return false, fmt.Errorf("unsupported signing method: %s", method)
	}

	parsedToken, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(j.HMACSecretKey), nil
	}, jwt.WithValidMethods([]string{signingMethod.Alg()}))
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	return parsedToken.Valid, nil
}
