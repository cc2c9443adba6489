package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// DefaultSecretBytes is the entropy used when a caller asks for a secret
// without naming a size.
const DefaultSecretBytes = 32

// RandomBytes returns n cryptographically-secure random bytes.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// URLSafe returns n random bytes encoded as unpadded URL-safe base64.
// The result is ceil(4n/3) characters drawn from [A-Za-z0-9_-].
func URLSafe(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("secret length must be positive, got %d", n)
	}
	b, err := RandomBytes(n)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Hex returns n random bytes hex encoded (2n characters).
func Hex(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("secret length must be positive, got %d", n)
	}
	b, err := RandomBytes(n)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}
