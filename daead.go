package siv

// DeterministicAEAD is the interface for deterministic authenticated
// encryption with associated data.
//
// Unlike randomized AEAD, implementations are not semantically secure:
// encrypting the same plaintext with the same associated data always yields
// the same ciphertext. Callers get nonce-misuse resistance and deterministic
// output in exchange; an observer can tell when the same message repeats,
// but nothing more.
type DeterministicAEAD interface {
	// EncryptDeterministically encrypts plaintext with associatedData as
	// additional authenticated data. The associated data is covered by the
	// authentication tag but is not encrypted.
	EncryptDeterministically(plaintext, associatedData []byte) ([]byte, error)

	// DecryptDeterministically decrypts ciphertext, verifying authenticity
	// and integrity of both the ciphertext and associatedData.
	DecryptDeterministically(ciphertext, associatedData []byte) ([]byte, error)
}
