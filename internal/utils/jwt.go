package utils // package utils provides helpers for the console's signed tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for signing client cookies and reading backend tokens
)

// ClientToken is the signed value of the console_client cookie.  Its
// subject is the random identifier of one browser client.
type ClientToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewClientToken signs an HS256 JWT naming clientID as subject.  The token
// carries only identity; session state stays on the server.
func NewClientToken(secret, clientID string, ttl time.Duration) (ClientToken, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   clientID,
		Issuer:    "adsaga-console",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return ClientToken{}, err
	}
	return ClientToken{Token: signed, Exp: exp}, nil
}

// ParseClientToken verifies raw and returns the client identifier.
func ParseClientToken(secret, raw string) (string, error) {
	var claims jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		// Reject anything that is not HMAC signed.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer("adsaga-console"))
	if err != nil || !tok.Valid {
		return "", errors.New("invalid client token")
	}
	if claims.Subject == "" {
		return "", errors.New("client token without subject")
	}
	return claims.Subject, nil
}

// TokenExpiry reads the exp claim of a backend bearer token without
// verifying it.  The console cannot verify backend tokens; the value is
// informational only.
func TokenExpiry(raw string) (time.Time, bool) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time.UTC(), true
}
