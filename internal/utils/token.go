package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256" // SHA-256 hashing for stored session tokens
	"encoding/hex"  // hex encoding of digests
	"errors"        // sentinel for invalid tokens
	"time"          // expiry handling

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// ErrInvalidToken is returned when a presented session token fails signature
// or claim validation.
var ErrInvalidToken = errors.New("invalid session token")

// SessionToken is the credential handed to a client at login.  The Raw field
// is a signed HS256 JWT returned in the response body; only its SHA-256 hash
// is stored on the user row, so a logout (clearing the stored hash) revokes
// the token even though the signature would still verify.
type SessionToken struct {
	Raw string    // the serialized JWT string
	Exp time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a user.  The JWT carries
// standard claims: subject (sub), expiration (exp) and issued at (iat).
func NewSessionToken(secret string, userID uint64, ttl time.Duration) (SessionToken, error) {
	exp := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Raw: signed, Exp: exp}, nil
}

// ParseSessionToken validates the signature and expiry of a presented token
// and returns the user ID from its subject claim.
func ParseSessionToken(secret, raw string) (uint64, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return 0, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, ErrInvalidToken
	}
	return uint64(sub), nil
}

// HashSessionToken returns the SHA-256 hash of a raw token as a hex string.
// Only the hash is persisted so stolen database rows cannot be replayed as
// live credentials.
func HashSessionToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
