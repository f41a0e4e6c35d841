package siv

import (
	"fmt"
	"io"
)

// Binary format constants.
const (
	// magic is the 2-byte envelope signature "SV".
	magic = "SV"

	// formatVersion is the current binary format version.
	formatVersion = 0x01

	// algAESSIV identifies AES-SIV with a 64-byte key as the algorithm.
	algAESSIV = 0x01

	// minHeaderSize is the minimum header size: magic(2) + version(1) + alg(1) + keyIDLen(1).
	minHeaderSize = 5
)

// header represents the parsed header of an encrypted envelope. The body that
// follows is the engine output, tag first; the construction is deterministic,
// so the header carries no nonces.
type header struct {
	version   byte
	algorithm byte
	keyID     string
}

// headerSize returns the total header size in bytes for the given key ID.
func headerSize(keyID string) int {
	return minHeaderSize + len(keyID)
}

// writeHeader writes the binary header to w.
func writeHeader(w io.Writer, h *header) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return err
	}

	keyIDBytes := []byte(h.keyID)
	if len(keyIDBytes) > 255 {
		return fmt.Errorf("%w: key ID too long", ErrInvalidFormat)
	}
	meta := []byte{h.version, h.algorithm, byte(len(keyIDBytes))}
	if _, err := w.Write(meta); err != nil {
		return err
	}

	if _, err := w.Write(keyIDBytes); err != nil {
		return err
	}

	return nil
}

// readHeader parses the binary header from data, returning the header and the
// remaining tag-plus-ciphertext body.
func readHeader(data []byte) (*header, []byte, error) {
	if len(data) < minHeaderSize {
		return nil, nil, fmt.Errorf("%w: data too short", ErrInvalidFormat)
	}

	if string(data[0:2]) != magic {
		return nil, nil, fmt.Errorf("%w: invalid magic bytes", ErrInvalidFormat)
	}

	h := &header{
		version:   data[2],
		algorithm: data[3],
	}

	if h.version != formatVersion {
		return nil, nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidFormat, h.version)
	}

	if h.algorithm != algAESSIV {
		return nil, nil, fmt.Errorf("%w: unsupported algorithm %d", ErrInvalidFormat, h.algorithm)
	}

	keyIDLen := int(data[4])
	offset := minHeaderSize

	// The body must hold the key ID plus at least the synthetic IV.
	if len(data) < offset+keyIDLen+TagSize {
		return nil, nil, fmt.Errorf("%w: data too short for header", ErrInvalidFormat)
	}

	h.keyID = string(data[offset : offset+keyIDLen])
	offset += keyIDLen

	return h, data[offset:], nil
}
