package vault

import (
	"context"
	"errors"
	"fmt"
	"testing"

	siv "github.com/rbaliyan/siv-crypto"
)

// mockClient implements Client for testing, keyed by "keyName:ciphertext".
type mockClient struct {
	keys map[string][]byte
}

func (m *mockClient) TransitDecrypt(_ context.Context, keyName string, ciphertext string) ([]byte, error) {
	k := keyName + ":" + ciphertext
	plaintext, ok := m.keys[k]
	if !ok {
		return nil, fmt.Errorf("transit decrypt failed: unknown ciphertext")
	}
	out := make([]byte, len(plaintext))
	copy(out, plaintext)
	return out, nil
}

func makeKey(size int) []byte {
	key := make([]byte, size)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNew(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"transit-key:vault:v1:abc": makeKey(siv.KeySize),
		},
	}

	provider, err := New(context.Background(), client,
		WithEncryptedKey("vault:v1:abc", "key-1", "transit-key"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	key, err := provider.CurrentKey()
	if err != nil {
		t.Fatalf("CurrentKey: %v", err)
	}
	if key.ID != "key-1" {
		t.Errorf("key ID = %q, want %q", key.ID, "key-1")
	}
	if len(key.Bytes) != siv.KeySize {
		t.Errorf("key size = %d, want %d", len(key.Bytes), siv.KeySize)
	}
}

func TestNewRotation(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"transit-key:vault:v1:new": makeKey(siv.KeySize),
			"transit-key:vault:v1:old": makeKey(siv.KeySize),
		},
	}

	provider, err := New(context.Background(), client,
		WithEncryptedKey("vault:v1:new", "key-2", "transit-key"),
		WithEncryptedKey("vault:v1:old", "key-1", "transit-key"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	current, err := provider.CurrentKey()
	if err != nil {
		t.Fatalf("CurrentKey: %v", err)
	}
	if current.ID != "key-2" {
		t.Errorf("current key ID = %q, want %q", current.ID, "key-2")
	}

	old, err := provider.KeyByID("key-1")
	if err != nil {
		t.Fatalf("KeyByID(key-1): %v", err)
	}
	if old.ID != "key-1" {
		t.Errorf("old key ID = %q, want %q", old.ID, "key-1")
	}
}

func TestNewNoKeys(t *testing.T) {
	client := &mockClient{keys: map[string][]byte{}}

	_, err := New(context.Background(), client)
	if err == nil {
		t.Fatal("expected error when no keys provided")
	}
}

func TestNewDecryptFailure(t *testing.T) {
	client := &mockClient{keys: map[string][]byte{}}

	_, err := New(context.Background(), client,
		WithEncryptedKey("vault:v1:missing", "key-1", "transit-key"),
	)
	if err == nil {
		t.Fatal("expected error when Transit decrypt fails")
	}
}

func TestNewInvalidKeySize(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"transit-key:vault:v1:short": makeKey(32),
		},
	}

	_, err := New(context.Background(), client,
		WithEncryptedKey("vault:v1:short", "key-1", "transit-key"),
	)
	if err == nil {
		t.Fatal("expected error for 32-byte key material")
	}
	if !siv.IsInvalidKeySize(err) {
		t.Errorf("expected invalid key size error, got %v", err)
	}
}

func TestReturnsKeyProvider(t *testing.T) {
	client := &mockClient{
		keys: map[string][]byte{
			"transit-key:vault:v1:abc": makeKey(siv.KeySize),
		},
	}

	provider, err := New(context.Background(), client,
		WithEncryptedKey("vault:v1:abc", "key-1", "transit-key"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var _ siv.KeyProvider = provider

	if _, err := provider.KeyByID("no-such-key"); !errors.Is(err, siv.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}
