package user

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignParseToken(t *testing.T) {
	secret := []byte("secret")
	issuer := "StudyBuddy"
	ttl := 24 * time.Hour
	usr := User{ID: "u1", Email: "t@test.test"}

	validToken, err := signToken(newClaims(usr, issuer, ttl), secret)
	if err != nil {
		t.Fatalf("signToken() failed: %v", err)
	}

	// generate an expired token
	NowFunc = func() time.Time { return time.Now().Add(-ttl - time.Hour) }
	expiredToken, _ := signToken(newClaims(usr, issuer, ttl), secret)
	NowFunc = time.Now // reset

	otherIssuer, _ := signToken(newClaims(usr, "other", ttl), secret)
	otherSecret, _ := signToken(newClaims(usr, issuer, ttl), []byte("other"))
	noSubject, _ := signToken(newClaims(User{}, issuer, ttl), secret)
	noneAlg, _ := jwt.NewWithClaims(jwt.SigningMethodNone, newClaims(usr, issuer, ttl)).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "no token", wantErr: ErrInvalidToken},
		{name: "garbage", token: "lmaooolol", wantErr: ErrInvalidToken},
		{name: "expired token", token: expiredToken, wantErr: ErrInvalidToken},
		{name: "other issuer", token: otherIssuer, wantErr: ErrInvalidToken},
		{name: "other secret", token: otherSecret, wantErr: ErrInvalidToken},
		{name: "no subject", token: noSubject, wantErr: ErrInvalidToken},
		{name: "unsigned", token: noneAlg, wantErr: ErrInvalidToken},
		{name: "valid token", token: validToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := parseToken(tt.token, secret, issuer)
			if err != tt.wantErr {
				t.Errorf("parseToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && (claims.Subject != usr.ID || claims.Email != usr.Email || claims.ID == "") {
				t.Errorf("parseToken() claims = %+v", claims)
			}
		})
	}
}
