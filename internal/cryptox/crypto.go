// Package cryptox seals small secrets with AES-256-GCM under a key derived
// from a passphrase.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/argon2"
)

// KeySize is the length of keys returned by DeriveKey.
const KeySize = 32

var ErrMalformed = errors.New("malformed sealed value")

// DeriveKey stretches passphrase with Argon2id into a KeySize-byte key.
// The same passphrase and salt always give the same key.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, KeySize)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with a fresh random nonce and returns
// nonce||ciphertext as unpadded URL-safe base64. additional is
// authenticated but not encrypted; Open must be given the same value.
func Seal(plaintext, additional, key []byte) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesgcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	out := aesgcm.Seal(nonce, nonce, plaintext, additional)
	return base64.RawURLEncoding.EncodeToString(out), nil
}

// Open reverses Seal. A wrong key, a different additional value, or any
// tampering makes it fail.
func Open(sealed string, additional, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return nil, ErrMalformed
	}
	if len(raw) < aesgcm.NonceSize() {
		return nil, ErrMalformed
	}

	nonce, ciphertext := raw[:aesgcm.NonceSize()], raw[aesgcm.NonceSize():]
	return aesgcm.Open(nil, nonce, ciphertext, additional)
}
