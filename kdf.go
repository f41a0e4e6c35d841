package siv

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveKey derives a 64-byte SIV key from a master secret using HKDF-SHA256.
// salt can be nil (uses a zero salt); info binds the derived key to a context,
// e.g. an application or tenant identifier, so the same secret yields
// independent keys for independent uses.
func DeriveKey(secret, salt, info []byte) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("siv: DeriveKey secret must not be empty")
	}

	hk := hkdf.New(sha256.New, secret, salt, info)
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(hk, key); err != nil {
		return nil, fmt.Errorf("siv: key derivation failed: %w", err)
	}
	return key, nil
}
