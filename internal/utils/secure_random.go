package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// GenerateSecureRandomString generates a cryptographically secure random string of the specified byte length,
// then hex encodes it. For example, lengthInBytes=32 will result in a 64-character hex string.
func GenerateSecureRandomString(lengthInBytes int) (string, error) {
	if lengthInBytes <= 0 {
		return "", fmt.Errorf("lengthInBytes must be positive")
	}
	b := make([]byte, lengthInBytes)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateOrderReference returns a human readable order reference such as
// "FX-20260301-9F2C41A7", unique with overwhelming probability.
func GenerateOrderReference(at time.Time) (string, error) {
	suffix, err := GenerateSecureRandomString(4)
	if err != nil {
		return "", fmt.Errorf("failed to generate order reference: %w", err)
	}
	return fmt.Sprintf("FX-%s-%s", at.UTC().Format("20060102"), strings.ToUpper(suffix)), nil
}
