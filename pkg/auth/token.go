package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/pmcoe-ai1/conference-app/pkg/identity"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the JWT claims issued to admins and attendees
type Claims struct {
	Role         identity.Role `json:"role"`
	ConferenceID uint          `json:"cid,omitempty"`
	Email        string        `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for id
func (t *TokenIssuer) Issue(id *identity.Identity) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		Role:         id.Role,
		ConferenceID: id.ConferenceID,
		Email:        id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.Subject(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, exp, nil
}

// Verify parses a token and returns the identity it carries
func (t *TokenIssuer) Verify(tokenString string) (*identity.Identity, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	role, id, err := identity.ParseSubject(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if role != claims.Role {
		return nil, fmt.Errorf("%w: role claim does not match subject", ErrInvalidToken)
	}
	if role == identity.RoleAttendee && claims.ConferenceID == 0 {
		return nil, fmt.Errorf("%w: attendee token without conference", ErrInvalidToken)
	}

	out := &identity.Identity{
		Role:         role,
		ID:           id,
		ConferenceID: claims.ConferenceID,
		Email:        claims.Email,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
