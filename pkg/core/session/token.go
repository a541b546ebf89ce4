package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errMissingSessionID = errors.New("token carries no session id")

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// TokenSigner signs session ids into the cookie value so a client cannot
// present an id it was never issued.
type TokenSigner struct {
	key    []byte
	method jwt.SigningMethod
	issuer string
	ttl    time.Duration
}

func NewTokenSigner(secret, method, issuer string, ttl time.Duration) (*TokenSigner, error) {
	if secret == "" {
		return nil, errors.New("session token secret is empty")
	}
	signingMethod, ok := jwt.GetSigningMethod(method).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported session token algorithm %q", method)
	}
	return &TokenSigner{
		key:    []byte(secret),
		method: signingMethod,
		issuer: issuer,
		ttl:    ttl,
	}, nil
}

func (s *TokenSigner) Sign(sessionID string, now time.Time) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   s.issuer,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.ttl))
	}
	return jwt.NewWithClaims(s.method, claims).SignedString(s.key)
}

// Parse verifies signature, algorithm, issuer and expiry and returns the session id.
func (s *TokenSigner) Parse(token string) (string, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.key, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil {
		return "", err
	}
	if claims.SessionID == "" {
		return "", errMissingSessionID
	}
	return claims.SessionID, nil
}
