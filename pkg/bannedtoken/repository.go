// Package bannedtoken is the denylist of revoked session tokens.
package bannedtoken

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/tendant/simple-auth/pkg/domain"
)

// BannedTokenStore records revoked tokens until their natural expiry.
// A zero expiresAt keeps the entry forever.
type BannedTokenStore interface {
	// AddToken bans token. Banning an already banned token succeeds.
	AddToken(ctx context.Context, token domain.SessionToken, expiresAt time.Time) error

	ContainsToken(ctx context.Context, token domain.SessionToken) (bool, error)

	// RevokeToken bans token in one atomic step and reports whether this
	// call was the one that banned it.
	RevokeToken(ctx context.Context, token domain.SessionToken, expiresAt time.Time) (bool, error)
}

// tokenKey is the SHA-256 of the raw token; stores never keep the token itself.
func tokenKey(token domain.SessionToken) string {
	sum := sha256.Sum256([]byte(token.Expose()))
	return hex.EncodeToString(sum[:])
}
