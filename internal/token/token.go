// Package token issues and verifies stateless session tokens.
//
// Tokens are HS256 JWTs carrying {userID, username, issuedAt, expiresAt}.
// Nothing is persisted server-side: verification needs only the signing
// secret, and mass invalidation happens downstream by comparing the token's
// IssuedAt against the user's password-change timestamp.
package token

import (
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/eklimov/taskdeck/internal/errs"
	"github.com/eklimov/taskdeck/internal/model"
)

// Config holds the signing material and token lifetime. It is passed
// explicitly at construction; there is no package-level state.
type Config struct {
	Secret []byte
	TTL    time.Duration
}

// Claims is the verified identity embedded in a session token.
type Claims struct {
	UserID   uuid.UUID
	Username string
	IssuedAt time.Time
}

type jwtClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens.
type Service struct {
	cfg Config
}

// NewService constructs a token service from explicit configuration.
func NewService(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token: empty signing secret")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token: non-positive ttl")
	}
	return &Service{cfg: cfg}, nil
}

// TTL reports the configured token lifetime (used for cookie expiry).
func (s *Service) TTL() time.Duration { return s.cfg.TTL }

// Issue creates a signed token for the user, valid for the configured TTL.
// The embedded IssuedAt, not any transport-layer expiry, is the authority
// for staleness checks.
func (s *Service) Issue(u *model.User) (string, error) {
	now := time.Now()
	claims := jwtClaims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TTL)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.cfg.Secret)
}

// Verify parses and validates a token. Malformed structure, bad signature,
// wrong signing method, and expiry all collapse to errs.ErrInvalidToken.
func (s *Service) Verify(raw string) (Claims, error) {
	var claims jwtClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.cfg.Secret, nil
	})
	if err != nil || !parsed.Valid {
		return Claims{}, errs.ErrInvalidToken
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return Claims{}, errs.ErrInvalidToken
	}
	id, err := uuid.FromString(claims.Subject)
	if err != nil {
		return Claims{}, errs.ErrInvalidToken
	}
	return Claims{
		UserID:   id,
		Username: claims.Username,
		IssuedAt: claims.IssuedAt.Time,
	}, nil
}
