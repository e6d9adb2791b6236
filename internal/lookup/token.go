package lookup

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenTTL is the lifetime of one signed request token.
const tokenTTL = 5 * time.Minute

// signToken builds a short-lived HS256 token from an "id:hexsecret" key.
// The id travels in the kid header.
func signToken(apiKey, audience string, now time.Time) (string, error) {
	keyParts := strings.Split(apiKey, ":")
	if len(keyParts) != 2 || keyParts[0] == "" {
		return "", fmt.Errorf("invalid api key format: expected id:secret")
	}

	secret, err := hex.DecodeString(keyParts[1])
	if err != nil {
		return "", fmt.Errorf("failed to decode secret hex: %w", err)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(tokenTTL).Unix(),
		"aud": audience,
	})
	token.Header["kid"] = keyParts[0]

	return token.SignedString(secret)
}
