package user

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var NowFunc = time.Now // mockable

// Claims represents the authorization claims transmitted via a JWT.
// RegisteredClaims.ID identifies the server-side session, so a token stops working once
// its session is revoked even if it has not expired.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

func newClaims(usr User, issuer string, ttl time.Duration) *Claims {
	now := NowFunc()
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   usr.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: usr.Email,
	}
}

// signToken generates a signed JWT token string representing the Claims.
func signToken(claims *Claims, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// parseToken verifies the signature, issuer and expiry of token.
// Every failure is reported as ErrInvalidToken.
func parseToken(token string, secret []byte, issuer string) (*Claims, error) {
	claims := new(Claims)
	parsed, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(NowFunc),
	)
	if err != nil || !parsed.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
