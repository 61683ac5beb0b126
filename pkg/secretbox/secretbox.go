package secretbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

const (
	KeySize      = 32
	nonceSize    = 12
	versionMagic = byte('G')
)

var ErrMalformed = errors.New("secretbox: sealed data is malformed")

// Cipher seals small secrets bound to an additional-data context.
type Cipher interface {
	Seal(aad, plainText []byte) ([]byte, error)
	Open(aad, sealed []byte) ([]byte, error)
}

// AESGCM is an AES-256-GCM Cipher. Sealed values are laid out as
// version byte, nonce, then ciphertext with the GCM tag appended.
type AESGCM struct {
	aead cipher.AEAD
}

var _ Cipher = (*AESGCM)(nil)

func New(key []byte) (*AESGCM, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("secretbox: key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCM{aead: aead}, nil
}

// NewFromBase64 builds a cipher from a base64 encoded key, as stored in DATA_KEY.
func NewFromBase64(encoded string) (*AESGCM, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("secretbox: invalid base64 key: %w", err)
	}
	return New(key)
}

func (s *AESGCM) Seal(aad, plainText []byte) ([]byte, error) {
	nonce, err := RandomBytes(nonceSize)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+nonceSize+len(plainText)+s.aead.Overhead())
	out = append(out, versionMagic)
	out = append(out, nonce...)
	return s.aead.Seal(out, nonce, plainText, aad), nil
}

func (s *AESGCM) Open(aad, sealed []byte) ([]byte, error) {
	if len(sealed) < 1+nonceSize+s.aead.Overhead() || sealed[0] != versionMagic {
		return nil, ErrMalformed
	}
	nonce := sealed[1 : 1+nonceSize]
	return s.aead.Open(nil, nonce, sealed[1+nonceSize:], aad)
}

// GenerateKey returns a new random key encoded as base64.
func GenerateKey() (string, error) {
	key, err := RandomBytes(KeySize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}
	return value, nil
}
