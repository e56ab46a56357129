// Package auth holds the credential primitives of the server: the bcrypt
// password hasher, the signed-claims token codec, and the in-memory
// revocation list. None of these touch a store.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/todoserver/internal/common"
	"github.com/dmitrijs2005/todoserver/internal/server/id"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the claim set carried by access tokens. Subject holds the
// username; ExpiresAt the absolute expiry.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenCodec issues and decodes HS256-signed claim tokens. The signing key
// is set once at construction and read-only thereafter.
type TokenCodec struct {
	secretKey []byte
}

func NewTokenCodec(secretKey []byte) *TokenCodec {
	return &TokenCodec{secretKey: secretKey}
}

// Issue signs a token binding subject to an absolute expiry of now+ttl.
// Every token carries a unique jti: iat/exp have second precision, so two
// tokens minted within the same second would otherwise be byte-identical
// and revoking one would kill the other.
func (c *TokenCodec) Issue(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.New(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	tokenString, err := token.SignedString(c.secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Decode verifies the signature and expiry of tokenString and returns the
// subject and expiry on success. Expired tokens yield common.ErrTokenExpired;
// anything else that fails verification (bad signature, malformed input,
// wrong algorithm, empty subject) yields common.ErrInvalidToken.
func (c *TokenCodec) Decode(tokenString string) (string, time.Time, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return c.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", time.Time{}, common.ErrTokenExpired
		}
		return "", time.Time{}, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" || claims.ExpiresAt == nil {
		return "", time.Time{}, common.ErrInvalidToken
	}

	return claims.Subject, claims.ExpiresAt.Time, nil
}
