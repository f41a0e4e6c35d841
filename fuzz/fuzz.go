// Package fuzz contains OSS-Fuzz harnesses for the siv package. The harnesses
// are written against the go-118-fuzz-build shim so they run both as native
// Go fuzz tests (after the build tool rewrites the import) and under libFuzzer.
package fuzz

import (
	"bytes"

	fuzz "github.com/AdamKorcz/go-118-fuzz-build/testing"

	siv "github.com/rbaliyan/siv-crypto"
)

// FuzzRoundTrip checks that decryption inverts encryption for arbitrary
// inputs, and that flipping a ciphertext byte breaks authentication.
func FuzzRoundTrip(f *fuzz.F) {
	f.Fuzz(func(t *fuzz.T, seed, plaintext, associatedData []byte) {
		if len(seed) == 0 {
			return
		}
		key, err := siv.DeriveKey(seed, nil, []byte("fuzz-round-trip"))
		if err != nil {
			t.Fatalf("DeriveKey: %v", err)
		}
		engine, err := siv.New(key)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		ciphertext, err := engine.EncryptDeterministically(plaintext, associatedData)
		if err != nil {
			t.Fatalf("EncryptDeterministically: %v", err)
		}

		decrypted, err := engine.DecryptDeterministically(ciphertext, associatedData)
		if err != nil {
			t.Fatalf("DecryptDeterministically: %v", err)
		}
		if !bytes.Equal(decrypted, plaintext) {
			t.Fatalf("round trip mismatch: got %x, want %x", decrypted, plaintext)
		}

		tampered := bytes.Clone(ciphertext)
		tampered[0] ^= 0x01
		if _, err := engine.DecryptDeterministically(tampered, associatedData); err == nil {
			t.Fatal("tampered ciphertext decrypted")
		}
	})
}

// FuzzDecrypt feeds arbitrary bytes to decryption. Garbage must fail cleanly,
// never panic, and never be accepted as authentic output of a fixed key.
func FuzzDecrypt(f *fuzz.F) {
	f.Fuzz(func(t *fuzz.T, ciphertext, associatedData []byte) {
		key := make([]byte, siv.KeySize)
		for i := range key {
			key[i] = byte(i)
		}
		engine, err := siv.New(key)
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		plaintext, err := engine.DecryptDeterministically(ciphertext, associatedData)
		if err != nil {
			return
		}

		// Anything accepted must re-encrypt to the same bytes.
		reencrypted, err := engine.EncryptDeterministically(plaintext, associatedData)
		if err != nil {
			t.Fatalf("EncryptDeterministically: %v", err)
		}
		if !bytes.Equal(reencrypted, ciphertext) {
			t.Fatalf("accepted ciphertext does not round trip: %x", ciphertext)
		}
	})
}
