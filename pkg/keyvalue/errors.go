package keyvalue

import "errors"

var (
	// ErrNotFound is returned by Get when the key has no value.
	ErrNotFound = errors.New("keyvalue: key not found")

	// ErrInvalidKey is returned when a key is empty or contains characters
	// a backend cannot represent safely.
	ErrInvalidKey = errors.New("keyvalue: invalid key")

	// ErrInvalidKeyMaterial is returned when an encryption key has the wrong length.
	ErrInvalidKeyMaterial = errors.New("keyvalue: encryption keys must be 32 bytes")

	// ErrDecryptionFailed is returned when a stored value cannot be decrypted,
	// typically because it was written with different key material or tampered with.
	ErrDecryptionFailed = errors.New("keyvalue: decryption failed")

	// ErrInvalidCiphertext is returned when a stored value is too short to
	// contain a nonce and authentication tag.
	ErrInvalidCiphertext = errors.New("keyvalue: invalid ciphertext")
)
