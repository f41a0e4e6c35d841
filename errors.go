package siv

import "errors"

var (
	// ErrInvalidKeySize is returned when a key is not 64 bytes (two 256-bit subkeys).
	ErrInvalidKeySize = errors.New("siv: invalid key size, must be 64 bytes")

	// ErrCiphertextTooShort is returned when a ciphertext is shorter than the
	// authentication tag and cannot possibly be valid.
	ErrCiphertextTooShort = errors.New("siv: ciphertext shorter than authentication tag")

	// ErrAuthentication is returned when tag verification fails during decryption.
	// It covers both tampered ciphertexts and wrong-key use; the two cases are
	// deliberately not distinguished.
	ErrAuthentication = errors.New("siv: message authentication failed")

	// ErrKeyNotFound is returned when a key ID is not found in the provider.
	ErrKeyNotFound = errors.New("siv: key not found")

	// ErrInvalidKeyID is returned when a key ID is empty or invalid.
	ErrInvalidKeyID = errors.New("siv: invalid key ID")

	// ErrInvalidFormat is returned when an encrypted envelope has an invalid format.
	ErrInvalidFormat = errors.New("siv: invalid encrypted data format")
)

// IsInvalidKeySize returns true if the error is or wraps ErrInvalidKeySize.
func IsInvalidKeySize(err error) bool {
	return errors.Is(err, ErrInvalidKeySize)
}

// IsCiphertextTooShort returns true if the error is or wraps ErrCiphertextTooShort.
func IsCiphertextTooShort(err error) bool {
	return errors.Is(err, ErrCiphertextTooShort)
}

// IsAuthentication returns true if the error is or wraps ErrAuthentication.
func IsAuthentication(err error) bool {
	return errors.Is(err, ErrAuthentication)
}

// IsKeyNotFound returns true if the error is or wraps ErrKeyNotFound.
func IsKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// IsInvalidKeyID returns true if the error is or wraps ErrInvalidKeyID.
func IsInvalidKeyID(err error) bool {
	return errors.Is(err, ErrInvalidKeyID)
}

// IsInvalidFormat returns true if the error is or wraps ErrInvalidFormat.
func IsInvalidFormat(err error) bool {
	return errors.Is(err, ErrInvalidFormat)
}
