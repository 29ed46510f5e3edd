// Package crypto implements the envelope cipher protecting file content at
// rest: AES in CBC mode with PKCS#7 padding, a fresh random IV per call, and
// the envelope layout IV || ciphertext. The envelope is the only persisted
// representation of file content.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"vaultapi/internal/common"
)

// IVSize is the length of the initialization vector prefixed to every envelope.
const IVSize = aes.BlockSize

// Cipher turns plaintext into self-describing envelopes and back under a
// single symmetric key. The key is injected at construction; the zero value
// is not usable. Safe for concurrent use.
type Cipher struct {
	block cipher.Block
}

// New constructs a Cipher from key. The key must be 16, 24, or 32 bytes
// (AES-128, AES-192, AES-256).
func New(key []byte) (*Cipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("envelope cipher key: %w", err)
	}
	return &Cipher{block: block}, nil
}

// Protect encrypts plaintext into an envelope. A fresh random IV is generated
// on every call, so identical plaintexts produce different envelopes.
func (c *Cipher) Protect(plaintext []byte) ([]byte, error) {
	if len(plaintext) == 0 {
		return nil, fmt.Errorf("%w: plaintext is empty", common.ErrInvalidInput)
	}
	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("generate iv: %w", err)
	}
	return c.protectWithIV(iv, plaintext), nil
}

// protectWithIV is the deterministic core of Protect, split out so tests can
// assert exact ciphertext for a fixed IV.
func (c *Cipher) protectWithIV(iv, plaintext []byte) []byte {
	padded := pad(plaintext, aes.BlockSize)
	envelope := make([]byte, IVSize+len(padded))
	copy(envelope, iv)
	cipher.NewCBCEncrypter(c.block, iv).CryptBlocks(envelope[IVSize:], padded)
	return envelope
}

// Unprotect decrypts an envelope produced by Protect. It returns
// common.ErrInvalidInput if the envelope cannot contain an IV and
// common.ErrDecryptionFailure if the ciphertext is not block aligned or the
// padding is malformed; it never silently returns garbage for a rejected
// envelope.
func (c *Cipher) Unprotect(envelope []byte) ([]byte, error) {
	if len(envelope) < IVSize {
		return nil, fmt.Errorf("%w: envelope shorter than %d bytes", common.ErrInvalidInput, IVSize)
	}
	iv, ciphertext := envelope[:IVSize], envelope[IVSize:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, fmt.Errorf("%w: ciphertext length %d not block aligned", common.ErrDecryptionFailure, len(ciphertext))
	}
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, iv).CryptBlocks(padded, ciphertext)
	return unpad(padded, aes.BlockSize)
}

// pad appends PKCS#7 padding up to the next block boundary. Input that is
// already block aligned gets a full block of padding.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+n)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(n)
	}
	return padded
}

// unpad validates and strips PKCS#7 padding. Every padding byte is checked,
// so a corrupted final block is rejected rather than truncated arbitrarily.
func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty padded data", common.ErrDecryptionFailure)
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("%w: bad padding length", common.ErrDecryptionFailure)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: malformed padding", common.ErrDecryptionFailure)
		}
	}
	return data[:len(data)-n], nil
}
