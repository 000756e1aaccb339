package security

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

var ErrSealedValue = errors.New("sealed value cannot be opened")

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

// Vault seals short strings (credentials, cached profiles) before they
// reach durable storage. A Vault with no passphrase passes values through.
type Vault struct {
	passphrase []byte
}

func NewVault(passphrase string) *Vault {
	return &Vault{passphrase: []byte(passphrase)}
}

// Enabled reports whether values are actually encrypted.
func (v *Vault) Enabled() bool {
	return v != nil && len(v.passphrase) > 0
}

func (v *Vault) deriveKey(salt []byte) (*[keySize]byte, error) {
	raw, err := scrypt.Key(v.passphrase, salt, 1<<15, 8, 1, keySize)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	var key [keySize]byte
	copy(key[:], raw)
	return &key, nil
}

// Seal encrypts plaintext and returns base64(salt || nonce || box).
func (v *Vault) Seal(plaintext string) (string, error) {
	if !v.Enabled() {
		return plaintext, nil
	}

	buf := make([]byte, saltSize+nonceSize)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	key, err := v.deriveKey(buf[:saltSize])
	if err != nil {
		return "", err
	}

	var nonce [nonceSize]byte
	copy(nonce[:], buf[saltSize:])
	out := secretbox.Seal(buf, []byte(plaintext), &nonce, key)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. A wrong passphrase or tampered value yields ErrSealedValue.
func (v *Vault) Open(sealed string) (string, error) {
	if !v.Enabled() {
		return sealed, nil
	}

	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < saltSize+nonceSize+secretbox.Overhead {
		return "", ErrSealedValue
	}
	key, err := v.deriveKey(raw[:saltSize])
	if err != nil {
		return "", err
	}

	var nonce [nonceSize]byte
	copy(nonce[:], raw[saltSize:saltSize+nonceSize])
	plain, ok := secretbox.Open(nil, raw[saltSize+nonceSize:], &nonce, key)
	if !ok {
		return "", ErrSealedValue
	}
	return string(plain), nil
}
