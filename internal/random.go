package internal

import (
	"crypto/rand"
	"encoding/base64"
)

const tokenIDSize = 16

// NewTokenID returns a fresh opaque token identifier: 128 bits of
// crypto/rand entropy, base64url without padding.
func NewTokenID() (string, error) {
	var raw [tokenIDSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}
