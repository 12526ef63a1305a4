package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
)

// NewRandomHex returns nBytes of crypto/rand entropy as a hex string.
// Used for opaque session identifiers.
func NewRandomHex(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = 32 // 256 bits by default
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewOTPCode returns a 6-digit code drawn uniformly over [000000, 999999],
// leading zeros included.
func NewOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// ShortID abbreviates an identifier for logs. IDs shorter than 8 characters
// come back whole; tokens minted elsewhere are not guaranteed any length.
func ShortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
