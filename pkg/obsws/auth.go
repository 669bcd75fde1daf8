package obsws

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
)

// authChallenge is the payload of a GetAuthRequired response.
type authChallenge struct {
	AuthRequired bool   `json:"authRequired"`
	Challenge    string `json:"challenge"`
	Salt         string `json:"salt"`
}

// login performs the challenge/response handshake. It is a no-op when the
// server does not require authentication.
func (c *Client) login(ctx context.Context) error {
	var challenge authChallenge
	if err := c.Call(ctx, "GetAuthRequired", nil, &challenge); err != nil {
		return &AuthError{Message: "could not query auth requirement", Cause: err}
	}
	if !challenge.AuthRequired {
		return nil
	}
	if c.password == "" {
		return &AuthError{Message: "server requires a password"}
	}

	args := map[string]any{"auth": authToken(c.password, challenge.Salt, challenge.Challenge)}
	if err := c.Call(ctx, "Authenticate", args, nil); err != nil {
		return &AuthError{Message: "server rejected credentials", Cause: err}
	}
	return nil
}

// authToken derives the authentication response the server expects:
// base64(sha256(base64(sha256(password+salt)) + challenge)).
func authToken(password, salt, challenge string) string {
	secret := hashEncode(password + salt)
	return hashEncode(secret + challenge)
}

// hashEncode hashes the UTF-8 bytes of s and encodes the raw digest with
// standard base64 (padded).
func hashEncode(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.StdEncoding.EncodeToString(sum[:])
}
