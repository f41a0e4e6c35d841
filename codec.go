package siv

import (
	"context"
	"fmt"

	"github.com/rbaliyan/config/codec"
)

// Codec wraps an inner codec with deterministic encryption.
// On Encode, the inner codec serializes the value, then the result is
// encrypted with AES-SIV. On Decode, the data is decrypted, then the inner
// codec deserializes the plaintext.
//
// Because the encryption is deterministic, encoding an unchanged value yields
// byte-identical output, so encrypted config values stay diffable. An observer
// can tell that a value has not changed between two snapshots; that is the
// trade-off documented on DeterministicAEAD.
//
// Codec is safe for concurrent use if the underlying KeyProvider and inner
// codec are safe for concurrent use. StaticKeyProvider and GuardedKeyProvider
// both satisfy this requirement.
type Codec struct {
	inner    codec.Codec
	provider KeyProvider
	name     string
}

// Compile-time interface check.
var _ codec.Codec = (*Codec)(nil)

// NewCodec creates a deterministically encrypting codec that wraps the given
// inner codec. The codec name is "dsiv:<inner>", e.g. "dsiv:json".
// Returns an error if inner or provider is nil.
func NewCodec(inner codec.Codec, provider KeyProvider) (*Codec, error) {
	if inner == nil {
		return nil, fmt.Errorf("siv: NewCodec inner codec is nil")
	}
	if provider == nil {
		return nil, fmt.Errorf("siv: NewCodec provider is nil")
	}
	return &Codec{
		inner:    inner,
		provider: provider,
		name:     "dsiv:" + inner.Name(),
	}, nil
}

// Name returns the codec name, e.g. "dsiv:json".
func (c *Codec) Name() string {
	return c.name
}

// Encode serializes the value using the inner codec, then encrypts the result.
func (c *Codec) Encode(ctx context.Context, v any) ([]byte, error) {
	plaintext, err := c.inner.Encode(ctx, v)
	if err != nil {
		return nil, fmt.Errorf("siv: inner encode failed: %w", err)
	}

	key, err := c.provider.CurrentKey()
	if err != nil {
		return nil, fmt.Errorf("siv: failed to get current key: %w", err)
	}

	return encrypt(plaintext, key)
}

// Decode decrypts the data, then deserializes the plaintext using the inner codec.
func (c *Codec) Decode(ctx context.Context, data []byte, v any) error {
	plaintext, err := decrypt(data, c.provider)
	if err != nil {
		return fmt.Errorf("siv: decrypt failed: %w", err)
	}

	if err := c.inner.Decode(ctx, plaintext, v); err != nil {
		return fmt.Errorf("siv: inner decode failed: %w", err)
	}
	return nil
}
