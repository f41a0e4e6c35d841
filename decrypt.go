package siv

import "fmt"

// decrypt unwraps an envelope produced by encrypt. The key ID from the header
// is used to look up the key from the provider, and must match the associated
// data bound at encryption time for authentication to succeed.
func decrypt(data []byte, provider KeyProvider) ([]byte, error) {
	h, body, err := readHeader(data)
	if err != nil {
		return nil, err
	}

	key, err := provider.KeyByID(h.keyID)
	if err != nil {
		return nil, err
	}

	engine, err := New(key.Bytes)
	if err != nil {
		return nil, err
	}

	plaintext, err := engine.DecryptDeterministically(body, []byte(h.keyID))
	if err != nil {
		return nil, fmt.Errorf("siv: decryption failed: %w", err)
	}

	return plaintext, nil
}
