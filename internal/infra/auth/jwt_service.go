package auth

import (
	"time"

	"userhub/config"
	"userhub/internal/domain/entity"
	domainerrors "userhub/internal/domain/errors"
	"userhub/internal/domain/service"
	"userhub/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	defaultIssuer     = "userhub"
	defaultAccessTTL  = time.Hour
	minimumSecretSize = 16
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret []byte        // Secret key for signing access tokens.
	accessTTL    time.Duration // Time-to-live for access tokens.
	issuer       string
	now          func() time.Time
}

// NewJWTService is the constructor for jwtService.
// It takes configuration values to create a new token service instance.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if len(cfg.SecretKey.Access) < minimumSecretSize {
		return nil, errors.Errorf("secretKey.access must be at least %d bytes", minimumSecretSize)
	}

	ttl := defaultAccessTTL
	if cfg.Auth != nil && cfg.Auth.AccessTokenTTL > 0 {
		ttl = cfg.Auth.AccessTokenTTL
	}

	issuer := cfg.Env.ServiceName
	if issuer == "" {
		issuer = defaultIssuer
	}

	return &jwtService{
		accessSecret: []byte(cfg.SecretKey.Access),
		accessTTL:    ttl,
		issuer:       issuer,
		now:          time.Now,
	}, nil
}

// Issue signs an HS256 access token whose subject is the account id.
func (s *jwtService) Issue(accountID entity.AccountID) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.accessTTL)

	claims := jwt.RegisteredClaims{
		Subject:   accountID.String(),
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.accessSecret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign access token")
	}

	return signed, expiresAt, nil
}

// Verify checks signature, algorithm and expiry and returns the subject account id.
// Every failure collapses to ErrInvalidToken.
func (s *jwtService) Verify(tokenString string) (entity.AccountID, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return s.accessSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return entity.NilAccountID, domainerrors.ErrInvalidToken
	}

	accountID, err := entity.ParseAccountID(claims.Subject)
	if err != nil {
		return entity.NilAccountID, domainerrors.ErrInvalidToken
	}

	return accountID, nil
}

// TTL returns the configured lifetime of access tokens.
func (s *jwtService) TTL() time.Duration {
	return s.accessTTL
}
