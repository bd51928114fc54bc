// FilePath: internal/auth/token.go
package auth

import (
	"fmt"
	"time"

	"github.com/airx/beds/server/hub/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jonboulle/clockwork"
)

const issuer = "beds-hub"

// DefaultTokenTTL is how long a login token stays valid.
const DefaultTokenTTL = 12 * time.Hour

// Claims are carried in every session token.
type Claims struct {
	UserID   string      `json:"uid"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	SiteIDs  []string    `json:"siteIds"`
	jwt.RegisteredClaims
}

// Principal returns the user view the claims describe.
func (c *Claims) Principal() *models.User {
	return &models.User{
		ID:       c.UserID,
		Username: c.Username,
		Role:     models.NormalizeRole(string(c.Role)),
		SiteIDs:  append([]string{}, c.SiteIDs...),
	}
}

// TokenIssuer signs and parses HS256 session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  clockwork.Clock
}

// NewTokenIssuer creates an issuer. A zero ttl means DefaultTokenTTL.
func NewTokenIssuer(secret string, ttl time.Duration, clock clockwork.Clock) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, clock: clock}
}

// Issue signs a token for user.
func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	now := t.clock.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		SiteIDs:  append([]string{}, user.SiteIDs...),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse validates signature, issuer and expiry and returns the claims.
func (t *TokenIssuer) Parse(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.clock.Now),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// TTL returns the token lifetime.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}
