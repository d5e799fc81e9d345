// Package identity verifies the bearer tokens issued by the identity provider.
package identity

import (
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/auth"
)

var (
	// errors
	errMissingToken = core.NewUnauthenticatedError("missing bearer token")
	errInvalidToken = core.NewUnauthenticatedError("invalid or expired token")
)

// Claims are the identity provider's access token claims.
type Claims struct {
	jwt.StandardClaims
	Email string `json:"email,omitempty"`
}

// JWTVerifier checks HS256 tokens signed with the provider's shared secret.
type JWTVerifier struct {
	secret []byte
	issuer string
}

func NewJWTVerifier(conf *core.Config) *JWTVerifier {
	return &JWTVerifier{secret: []byte(conf.Auth.JWTSecret), issuer: conf.Auth.Issuer}
}

// Verify returns the identity vouched for by token, or a core.UnauthenticatedError.
func (v *JWTVerifier) Verify(token string) (auth.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Identity{}, errMissingToken
	}

	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return auth.Identity{}, errInvalidToken
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return auth.Identity{}, errInvalidToken
	}
	if claims.Subject == "" {
		return auth.Identity{}, errInvalidToken
	}
	return auth.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// Sign issues a token for id, valid for ttl. The API never calls it; it serves tests and local tooling.
func (v *JWTVerifier) Sign(id auth.Identity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    v.issuer,
			Subject:   id.UserID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		Email: id.Email,
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	return ss, errors.Wrap(err, "signing token")
}
