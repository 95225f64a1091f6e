// Package cryptox seals small secrets (session tokens) at rest.
//
// Keys are derived from a passphrase with argon2id; values are sealed with
// AES-256-GCM and a fresh random nonce, which is stored in front of the
// ciphertext.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"

	"github.com/dmitrijs2005/credebt/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys returned by DeriveKey (AES-256).
const KeySize = 32

// ErrCiphertextTooShort is returned by Open when the input cannot even hold a nonce.
var ErrCiphertextTooShort = errors.New("ciphertext too short")

// DeriveKey derives a KeySize-byte key from passphrase and salt using
// argon2id (1 pass, 64 MiB, 4 lanes).
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-GCM under key and returns nonce||ciphertext.
//
// The key must be 16, 24 or 32 bytes long.
//
// Example:
//
//	key := cryptox.DeriveKey([]byte("passphrase"), salt)
//	sealed, err := cryptox.Seal([]byte(refreshToken), key)
//	if err != nil {
//	    return err
//	}
//	plain, err := cryptox.Open(sealed, key)
func Seal(plaintext, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := common.GenerateRandByteArray(aead.NonceSize())
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal. It fails if the key is wrong or the data was modified.
func Open(sealed, key []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	n := aead.NonceSize()
	if len(sealed) < n {
		return nil, ErrCiphertextTooShort
	}
	return aead.Open(nil, sealed[:n], sealed[n:], nil)
}
