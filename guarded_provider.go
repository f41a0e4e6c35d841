package siv

import (
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
)

// GuardedKeyProvider is a KeyProvider that keeps key material sealed in
// memguard enclaves. Keys live encrypted in locked, non-swappable memory and
// are only unsealed for the duration of a CurrentKey or KeyByID call.
//
// The returned Key carries a plain copy of the material for use with New;
// callers that want the key to never touch unprotected memory should hold the
// enclave themselves and use NewFromEnclave instead.
//
// GuardedKeyProvider is safe for concurrent use.
type GuardedKeyProvider struct {
	mu        sync.RWMutex
	currentID string
	keys      map[string]*memguard.Enclave
	err       error // deferred validation error from options
}

// GuardedOption configures a GuardedKeyProvider.
type GuardedOption func(*GuardedKeyProvider)

// WithGuardedOldKey seals a previous key for decryption during key rotation.
// The keyBytes must be 64 bytes and are wiped as part of sealing.
func WithGuardedOldKey(keyBytes []byte, id string) GuardedOption {
	return func(p *GuardedKeyProvider) {
		if p.err != nil {
			return
		}
		if !IsValidKeySize(len(keyBytes)) {
			p.err = fmt.Errorf("%w: old key %q has %d bytes", ErrInvalidKeySize, id, len(keyBytes))
			return
		}
		if id == "" {
			p.err = fmt.Errorf("%w: old key ID must not be empty", ErrInvalidKeyID)
			return
		}
		p.keys[id] = memguard.NewEnclave(keyBytes)
	}
}

// NewGuardedKeyProvider creates a KeyProvider whose keys are held in memguard
// enclaves. The keyBytes must be 64 bytes; they are wiped as part of sealing,
// so the caller's copy is unusable after construction. Old keys can be added
// with WithGuardedOldKey for rotation support.
func NewGuardedKeyProvider(keyBytes []byte, id string, opts ...GuardedOption) (*GuardedKeyProvider, error) {
	if !IsValidKeySize(len(keyBytes)) {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidKeySize, len(keyBytes))
	}
	if id == "" {
		return nil, fmt.Errorf("%w: key ID must not be empty", ErrInvalidKeyID)
	}

	p := &GuardedKeyProvider{
		currentID: id,
		keys:      map[string]*memguard.Enclave{id: memguard.NewEnclave(keyBytes)},
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.err != nil {
		return nil, p.err
	}

	return p, nil
}

// CurrentKey unseals and returns the current key for new encryptions.
func (p *GuardedKeyProvider) CurrentKey() (Key, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.unseal(p.currentID)
}

// KeyByID unseals and returns the key with the given ID.
func (p *GuardedKeyProvider) KeyByID(id string) (Key, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.unseal(id)
}

// CurrentEnclave returns the sealed current key for use with NewFromEnclave,
// avoiding any plain copy of the key material.
func (p *GuardedKeyProvider) CurrentEnclave() *memguard.Enclave {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.keys[p.currentID]
}

func (p *GuardedKeyProvider) unseal(id string) (Key, error) {
	enclave, ok := p.keys[id]
	if !ok {
		return Key{}, fmt.Errorf("%w: %s", ErrKeyNotFound, id)
	}

	buf, err := enclave.Open()
	if err != nil {
		return Key{}, fmt.Errorf("siv: failed to open key enclave %q: %w", id, err)
	}
	defer buf.Destroy()

	b := make([]byte, KeySize)
	copy(b, buf.Bytes())
	return Key{ID: id, Bytes: b}, nil
}

// Compile-time interface check.
var _ KeyProvider = (*GuardedKeyProvider)(nil)
