/*
Package siv implements AES-SIV (Synthetic Initialization Vector) deterministic
authenticated encryption with associated data, as defined in RFC 5297.

Unlike randomized AEAD modes such as AES-GCM, AES-SIV derives the IV from the
key and the inputs themselves: encrypting the same (key, plaintext, associated
data) triple always yields the same ciphertext. This makes the mode
nonce-misuse resistant and suitable for use cases that need deterministic
output, such as encrypting lookup keys or config values that must be diffable.

Keys are 64 bytes: the first 32 bytes key the CMAC used by the S2V chain, the
second 32 bytes key AES-CTR. The ciphertext is the 16-byte synthetic IV
(doubling as the authentication tag) followed by the CTR-encrypted plaintext.

Basic usage:

	key := make([]byte, siv.KeySize)
	// Fill key with random bytes...

	engine, err := siv.New(key)
	if err != nil {
		panic(err)
	}

	ct, err := engine.EncryptDeterministically([]byte("secret"), []byte("context"))
	if err != nil {
		panic(err)
	}

	pt, err := engine.DecryptDeterministically(ct, []byte("context"))
	if err != nil {
		panic(err) // authentication failed
	}

The package also provides a KeyProvider abstraction with rotation support, a
memguard-backed provider that keeps key material in sealed enclaves, an
encrypting codec for github.com/rbaliyan/config, and an OpenTelemetry
instrumentation decorator.
*/
package siv
