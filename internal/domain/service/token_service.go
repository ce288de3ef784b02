package service

import (
	"time"

	"userhub/internal/domain/entity"
)

// TokenService mints and verifies signed, time-bounded session tokens.
// There is no server-side revocation: a token stays valid until it expires.
type TokenService interface {
	// Issue creates a token bound to accountID and reports when it expires.
	Issue(accountID entity.AccountID) (token string, expiresAt time.Time, err error)

	// Verify returns the account bound to a token. Expired, malformed and
	// badly signed tokens all yield domain errors.ErrInvalidToken.
	Verify(token string) (entity.AccountID, error)

	// TTL returns the lifetime of issued tokens.
	TTL() time.Duration
}
