package helpers

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/golang-jwt/jwt/v5"
)

// unknownActor labels activity when the session token carries no readable identity.
const unknownActor = "admin"

// ActorFromToken reads the identity claims of a backend token without verifying it.
// The signature belongs to the backend; the value is only used to label audit entries.
func ActorFromToken(token string) string {
	if token == "" {
		return unknownActor
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return unknownActor
	}

	for _, key := range []string{"email", "username", "sub", "id", "userId"} {
		if value, ok := claims[key].(string); ok && value != "" {
			return value
		}
	}
	return unknownActor
}

// TokenKey derives a stable cache key from a session token so the token itself is never stored.
func TokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
