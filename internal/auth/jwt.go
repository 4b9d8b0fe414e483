// Package auth issues and validates the signed bearer tokens that gate
// every protected endpoint, and wraps password hashing so the rest of
// the application never touches bcrypt directly.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens
)

// Typed outcomes of token validation. These are expected negative results,
// not failures: callers map them to HTTP statuses instead of logging them
// as errors.
var (
	// ErrEmptySubject is returned by Issue when the subject is empty. A
	// token without a subject would authenticate nobody.
	ErrEmptySubject = errors.New("token subject is empty")
	// ErrTokenExpired means the signature checked out but the validity
	// window has passed.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidSignature means the token did not verify against the
	// signing secret. None of its claims can be trusted.
	ErrInvalidSignature = errors.New("token signature invalid")
	// ErrTokenMalformed means the string is not a parseable token at all,
	// or carries no usable subject.
	ErrTokenMalformed = errors.New("token malformed")
)

// Issuer signs and verifies HS256 access tokens with a process-wide
// secret. The secret and TTL are fixed at construction; tokens are
// self-contained and never persisted, so a token stays valid until its
// expiry regardless of any later account changes.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an Issuer from the shared signing secret and the
// access token lifetime.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given subject (the username). The claims
// carry sub, iat and exp; the HS256 signature covers all of them, so
// tampering with either the subject or the expiry is detectable at
// validation time. The compact JWT encoding is a single header-safe line.
func (i *Issuer) Issue(subject string) (string, time.Time, error) {
	if subject == "" {
		return "", time.Time{}, ErrEmptySubject
	}
	now := time.Now().UTC()
	exp := now.Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate verifies the signature first and only then inspects the
// claims; no claim is trusted before the signature checks out. On
// success it returns the embedded subject. Expected negative outcomes
// come back as the typed errors above, never as a panic or an opaque
// library error.
func (i *Issuer) Validate(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with any other algorithm; accepting an
		// attacker-chosen method would bypass the secret entirely.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return "", ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		default:
			return "", ErrInvalidSignature
		}
	}
	if !tok.Valid {
		return "", ErrInvalidSignature
	}
	if claims.Subject == "" {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}

// TTL reports the configured token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }
