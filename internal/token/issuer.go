package token

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"oauth-relay/internal/config"
	"oauth-relay/internal/models"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

var (
	ErrInvalidToken         = errors.New("invalid session token")
	ErrTokenExpired         = errors.New("session token expired")
	ErrMissingProviderToken = errors.New("missing provider token")
)

const keyDerivationInfo = "oauth-relay session key:"

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Issuer mints and verifies HS256 session tokens. Each token is signed with a
// key derived from the server signing key and the provider token of the record
// it belongs to, so a token only verifies against its own record.
type Issuer struct {
	key      []byte
	issuer   string
	lifetime time.Duration
}

func NewIssuer(cfg config.SigningConfig) (*Issuer, error) {
	if len(cfg.Key) < 32 {
		return nil, fmt.Errorf("signing key must be at least 32 characters")
	}

	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = config.DefaultSigningConfig.Lifetime
	}

	issuer := cfg.Issuer
	if issuer == "" {
		issuer = config.DefaultSigningConfig.Issuer
	}

	return &Issuer{
		key:      []byte(cfg.Key),
		issuer:   issuer,
		lifetime: lifetime,
	}, nil
}

// Issue signs a session token carrying the profile's login, id and avatar_url.
func (i *Issuer) Issue(profile *models.Profile, providerToken string) (string, time.Time, error) {
	if profile == nil {
		return "", time.Time{}, fmt.Errorf("cannot issue session token without a profile")
	}

	key, err := i.deriveKey(providerToken)
	if err != nil {
		return "", time.Time{}, err
	}

	now := NowTimeFunc()
	expiresAt := now.Add(i.lifetime)

	claims := models.SessionClaims{
		Login:     profile.Login,
		ID:        profile.ID,
		AvatarURL: profile.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   profile.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, expiresAt, nil
}

// Verify checks the signature and expiry of a session token against the key
// derived for providerToken.
func (i *Issuer) Verify(sessionToken, providerToken string) (*models.SessionClaims, error) {
	key, err := i.deriveKey(providerToken)
	if err != nil {
		return nil, err
	}

	claims := &models.SessionClaims{}
	parsed, err := jwt.ParseWithClaims(sessionToken, claims,
		func(t *jwt.Token) (interface{}, error) {
			return key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(NowTimeFunc),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !parsed.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (i *Issuer) deriveKey(providerToken string) ([]byte, error) {
	if providerToken == "" {
		return nil, ErrMissingProviderToken
	}

	reader := hkdf.New(sha256.New, i.key, nil, []byte(keyDerivationInfo+providerToken))
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}

	return key, nil
}
