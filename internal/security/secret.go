package security

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	secretAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	secretLength   = 48
	derivedKeySize = 32
)

var errEmptySecret = errors.New("secret must not be empty")

// ResolveSecret returns the configured secret or a random one generated for
// this process. generated reports which of the two happened.
func ResolveSecret(configured string) (secret string, generated bool, err error) {
	trimmed := strings.TrimSpace(configured)
	if trimmed != "" {
		return trimmed, false, nil
	}
	random, err := RandomString(secretLength, secretAlphabet)
	if err != nil {
		return "", false, fmt.Errorf("generate secret: %w", err)
	}
	return random, true, nil
}

// DeriveKey expands secret into a purpose-bound signing key.
func DeriveKey(secret string, purpose string) ([]byte, error) {
	if secret == "" {
		return nil, errEmptySecret
	}
	reader := hkdf.New(sha256.New, []byte(secret), []byte("carewatch"), []byte(purpose))
	key := make([]byte, derivedKeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", purpose, err)
	}
	return key, nil
}
