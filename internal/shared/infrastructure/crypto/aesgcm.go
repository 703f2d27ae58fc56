// Package crypto seals file contents at rest with AES-256-GCM.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

var (
	ErrEmptyKey           = errors.New("encryption key is empty")
	ErrKeySize            = errors.New("encryption key must be 32 bytes")
	ErrCiphertextTooShort = errors.New("ciphertext too short")
)

// Encrypter seals and opens data. The associated data binds a ciphertext to
// its context (for file stores, the storage key) and is authenticated, not stored.
type Encrypter interface {
	Encrypt(plaintext, associated []byte) ([]byte, error)
	Decrypt(ciphertext, associated []byte) ([]byte, error)
}

// AESEncrypter implements Encrypter with AES-GCM. Output is nonce || ciphertext.
type AESEncrypter struct {
	aead cipher.AEAD
}

// NewAESGCM creates an encrypter from a raw 32-byte key.
func NewAESGCM(key []byte) (*AESEncrypter, error) {
	if len(key) == 0 {
		return nil, ErrEmptyKey
	}
	if len(key) != 32 {
		return nil, ErrKeySize
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESEncrypter{aead: aead}, nil
}

// NewAESGCMFromBase64Key creates an encrypter from a base64-encoded 32-byte key.
func NewAESGCMFromBase64Key(encoded string) (*AESEncrypter, error) {
	if encoded == "" {
		return nil, ErrEmptyKey
	}
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode encryption key: %w", err)
	}
	return NewAESGCM(key)
}

func (e *AESEncrypter) Encrypt(plaintext, associated []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize(), e.aead.NonceSize()+len(plaintext)+e.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return e.aead.Seal(nonce, nonce, plaintext, associated), nil
}

func (e *AESEncrypter) Decrypt(ciphertext, associated []byte) ([]byte, error) {
	n := e.aead.NonceSize()
	if len(ciphertext) < n {
		return nil, ErrCiphertextTooShort
	}
	return e.aead.Open(nil, ciphertext[:n], ciphertext[n:], associated)
}
