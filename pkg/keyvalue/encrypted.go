package keyvalue

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// encryptionKeySize is the required length of both input keys (AES-256).
	encryptionKeySize = 32

	// derivationInfo provides domain separation for HKDF so the same key pair
	// derives different material here than anywhere else.
	derivationInfo = "sessionkit/keyvalue/v1"
)

// Encrypted wraps a Store with AES-256-GCM encryption at rest. The data key is
// derived once from an application key and a per-device key, so values written
// on one device cannot be decrypted with another device's material.
type Encrypted struct {
	inner Store
	aead  cipher.AEAD
}

// NewEncrypted builds an encrypting wrapper around inner. Both keys must be
// exactly 32 bytes; the compound data key is derived via HKDF-SHA256.
func NewEncrypted(inner Store, appKey, deviceKey []byte) (*Encrypted, error) {
	if inner == nil {
		panic("keyvalue: encrypted store requires an inner store")
	}
	if len(appKey) != encryptionKeySize || len(deviceKey) != encryptionKeySize {
		return nil, ErrInvalidKeyMaterial
	}

	kdf := hkdf.New(sha256.New, appKey, deviceKey, []byte(derivationInfo))
	dataKey := make([]byte, encryptionKeySize)
	if _, err := io.ReadFull(kdf, dataKey); err != nil {
		return nil, errors.Join(ErrInvalidKeyMaterial, err)
	}

	block, err := aes.NewCipher(dataKey)
	if err != nil {
		return nil, errors.Join(ErrInvalidKeyMaterial, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Join(ErrInvalidKeyMaterial, err)
	}

	return &Encrypted{inner: inner, aead: aead}, nil
}

// Get reads and decrypts the value for key. ErrNotFound passes through from
// the inner store untouched.
func (e *Encrypted) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := e.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	nonceSize := e.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, ErrInvalidCiphertext
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// Set encrypts value and stores nonce-prefixed ciphertext under key.
func (e *Encrypted) Set(ctx context.Context, key string, value []byte) error {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}

	// Prepend nonce to ciphertext for storage
	sealed := e.aead.Seal(nonce, nonce, value, nil)
	return e.inner.Set(ctx, key, sealed)
}

// Delete removes key from the inner store.
func (e *Encrypted) Delete(ctx context.Context, key string) error {
	return e.inner.Delete(ctx, key)
}

// GenerateKey creates a random 32-byte key suitable for NewEncrypted.
func GenerateKey() ([]byte, error) {
	key := make([]byte, encryptionKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
