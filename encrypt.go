package siv

import (
	"bytes"
	"fmt"
)

// encrypt encrypts plaintext deterministically under the given key and wraps
// the result in the envelope format. The key ID is bound as associated data,
// so a ciphertext cannot be re-attributed to a different key.
func encrypt(plaintext []byte, key Key) ([]byte, error) {
	engine, err := New(key.Bytes)
	if err != nil {
		return nil, err
	}

	ciphertext, err := engine.EncryptDeterministically(plaintext, []byte(key.ID))
	if err != nil {
		return nil, fmt.Errorf("siv: encryption failed: %w", err)
	}

	h := &header{
		version:   formatVersion,
		algorithm: algAESSIV,
		keyID:     key.ID,
	}

	var buf bytes.Buffer
	buf.Grow(headerSize(key.ID) + len(ciphertext))
	if err := writeHeader(&buf, h); err != nil {
		return nil, fmt.Errorf("siv: failed to write header: %w", err)
	}
	buf.Write(ciphertext)

	return buf.Bytes(), nil
}
