package siv

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
	"fmt"

	"github.com/awnumar/memguard"
)

const (
	// KeySize is the only supported key size in bytes: two concatenated
	// 256-bit subkeys (CMAC subkey first, CTR subkey second).
	KeySize = 64

	// TagSize is the size of the synthetic IV in bytes. The synthetic IV
	// doubles as the authentication tag and is prepended to the ciphertext.
	TagSize = blockSize
)

// IsValidKeySize reports whether n is a supported key length in bytes.
// The check is static and does not depend on key material.
func IsValidKeySize(n int) bool {
	return n == KeySize
}

// AESSIV is a deterministic AEAD engine. It holds no mutable state after
// construction and is safe for concurrent use.
type AESSIV struct {
	mac *cmac        // keyed with the first half of the key
	ctr cipher.Block // keyed with the second half of the key
}

// Compile-time interface check.
var _ DeterministicAEAD = (*AESSIV)(nil)

// New creates an AES-SIV engine from a 64-byte key. The first 32 bytes key
// the CMAC used by S2V, the last 32 bytes key AES-CTR. Any other key length
// fails with ErrInvalidKeySize.
//
// The key bytes are not retained; the caller may zero them after construction.
func New(key []byte) (*AESSIV, error) {
	if !IsValidKeySize(len(key)) {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(key))
	}

	mac, err := newCMAC(key[:KeySize/2])
	if err != nil {
		return nil, err
	}

	ctr, err := aes.NewCipher(key[KeySize/2:])
	if err != nil {
		return nil, err
	}

	return &AESSIV{mac: mac, ctr: ctr}, nil
}

// NewFromEnclave creates an AES-SIV engine from key material sealed in a
// memguard enclave. The unsealed buffer is destroyed before returning, so the
// raw key never outlives construction.
func NewFromEnclave(enclave *memguard.Enclave) (*AESSIV, error) {
	buf, err := enclave.Open()
	if err != nil {
		return nil, fmt.Errorf("siv: failed to open key enclave: %w", err)
	}
	defer buf.Destroy()

	return New(buf.Bytes())
}

// s2v computes the S2V chain from RFC 5297: CMAC each vector in order,
// doubling the accumulator in GF(2^128) between vectors, then fold the final
// string in. A final string shorter than one block takes the padded fallback
// path instead of the xorend path.
func (s *AESSIV) s2v(vectors [][]byte, final []byte) [blockSize]byte {
	var zero [blockSize]byte
	d := s.mac.sum(zero[:])

	for _, v := range vectors {
		d = dbl(d)
		m := s.mac.sum(v)
		xorBlock(&d, &m)
	}

	if len(final) >= blockSize {
		// T = final xorend D
		t := make([]byte, len(final))
		copy(t, final)
		subtle.XORBytes(t[len(t)-blockSize:], t[len(t)-blockSize:], d[:])
		return s.mac.sum(t)
	}

	// T = dbl(D) xor pad(final)
	d = dbl(d)
	var t [blockSize]byte
	copy(t[:], final)
	t[len(final)] = 0x80
	xorBlock(&t, &d)
	return s.mac.sum(t[:])
}

// newCTRStream builds the CTR keystream for a synthetic IV. The top bits of
// bytes 8 and 12 are cleared per RFC 5297 so counter increments never carry
// across the cleared positions, keeping implementations interoperable.
func (s *AESSIV) newCTRStream(iv [blockSize]byte) cipher.Stream {
	iv[8] &= 0x7f
	iv[12] &= 0x7f
	return cipher.NewCTR(s.ctr, iv[:])
}

// EncryptDeterministically encrypts plaintext with associatedData
// authenticated but not encrypted. The output is the 16-byte synthetic IV
// followed by the encrypted plaintext, so it is exactly TagSize bytes longer
// than the input.
//
// Encryption is deterministic: the same key, plaintext, and associated data
// always produce the same ciphertext. A nil plaintext or associated data is
// treated as empty.
func (s *AESSIV) EncryptDeterministically(plaintext, associatedData []byte) ([]byte, error) {
	iv := s.s2v([][]byte{associatedData}, plaintext)

	out := make([]byte, TagSize+len(plaintext))
	copy(out, iv[:])

	if len(plaintext) > 0 {
		s.newCTRStream(iv).XORKeyStream(out[TagSize:], plaintext)
	}

	return out, nil
}

// DecryptDeterministically decrypts a ciphertext produced by
// EncryptDeterministically, verifying the synthetic IV against associatedData
// in constant time. On any failure no plaintext is returned: candidate
// plaintext is wiped before the authentication error comes back.
func (s *AESSIV) DecryptDeterministically(ciphertext, associatedData []byte) ([]byte, error) {
	if len(ciphertext) < TagSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrCiphertextTooShort, len(ciphertext))
	}

	var iv [blockSize]byte
	copy(iv[:], ciphertext[:TagSize])
	body := ciphertext[TagSize:]

	plaintext := make([]byte, len(body))
	if len(body) > 0 {
		s.newCTRStream(iv).XORKeyStream(plaintext, body)
	}

	computed := s.s2v([][]byte{associatedData}, plaintext)
	if subtle.ConstantTimeCompare(iv[:], computed[:]) != 1 {
		clear(plaintext)
		return nil, ErrAuthentication
	}

	return plaintext, nil
}

// Overhead returns the difference between ciphertext and plaintext lengths.
func (s *AESSIV) Overhead() int {
	return TagSize
}
