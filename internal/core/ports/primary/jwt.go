package primary

import (
	"context"
)

// IdentityVerifier checks the bearer token a caller presents. The token itself
// stays opaque to the judging session: it is forwarded to collaborators as is.
type IdentityVerifier interface {
	VerifyTokenHMAC(ctx context.Context, token string, method string) (bool, error)
}
