package siv

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/subtle"
)

const blockSize = aes.BlockSize

// cmac is the AES-CMAC pseudorandom function (RFC 4493 / NIST SP 800-38B)
// that drives the S2V chain. The underlying block cipher comes from
// crypto/aes; only the CMAC padding and subkey schedule live here.
type cmac struct {
	block  cipher.Block
	k1, k2 [blockSize]byte
}

func newCMAC(key []byte) (*cmac, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	m := &cmac{block: block}

	// Subkey schedule: K1 = dbl(E(K, 0^128)), K2 = dbl(K1).
	var l [blockSize]byte
	m.block.Encrypt(l[:], l[:])
	m.k1 = dbl(l)
	m.k2 = dbl(m.k1)

	return m, nil
}

// sum computes the CMAC of msg. It keeps no state between calls, so a single
// cmac instance is safe for concurrent use.
func (m *cmac) sum(msg []byte) [blockSize]byte {
	var tag [blockSize]byte

	if len(msg) == 0 {
		var padded [blockSize]byte
		padded[0] = 0x80
		xorBlock(&padded, &m.k2)
		m.block.Encrypt(tag[:], padded[:])
		return tag
	}

	numBlocks := (len(msg) + blockSize - 1) / blockSize

	var state [blockSize]byte
	for i := 0; i < numBlocks-1; i++ {
		subtle.XORBytes(state[:], state[:], msg[i*blockSize:(i+1)*blockSize])
		m.block.Encrypt(state[:], state[:])
	}

	rest := msg[(numBlocks-1)*blockSize:]

	var last [blockSize]byte
	if len(rest) == blockSize {
		copy(last[:], rest)
		xorBlock(&last, &m.k1)
	} else {
		copy(last[:], rest)
		last[len(rest)] = 0x80
		xorBlock(&last, &m.k2)
	}

	xorBlock(&last, &state)
	m.block.Encrypt(tag[:], last[:])
	return tag
}

// dbl doubles a value in GF(2^128): left shift by one bit with a conditional
// XOR of the field polynomial 0x87, computed without branching on key material.
func dbl(in [blockSize]byte) [blockSize]byte {
	var out [blockSize]byte

	carry := byte(0)
	for i := blockSize - 1; i >= 0; i-- {
		out[i] = in[i]<<1 | carry
		carry = in[i] >> 7
	}

	mask := byte(0 - carry) // 0xFF if the MSB was set
	out[blockSize-1] ^= 0x87 & mask

	return out
}

func xorBlock(dst, src *[blockSize]byte) {
	subtle.XORBytes(dst[:], dst[:], src[:])
}
