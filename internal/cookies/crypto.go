// Package cookies implements the encrypted personalization cookie layer:
// an AES-256-CBC codec producing "ivHex:cipherHex" tokens, and a manager
// that reads and writes HTTP cookies through it.
package cookies

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedToken is returned when a token cannot be decrypted:
// wrong part count, invalid hex, bad block length or bad padding.
var ErrMalformedToken = errors.New("malformed cookie token")

const ivLength = 16

// Codec encrypts and decrypts opaque string payloads under a fixed key.
// Ciphertext carries no authentication tag; tampering surfaces as a
// padding error at decrypt time, not as a verified failure.
type Codec struct {
	key []byte
}

// NewCodec creates a codec from a 32-byte AES-256 key
func NewCodec(key []byte) (*Codec, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("cookie key must be 32 bytes, got %d", len(key))
	}
	return &Codec{key: key}, nil
}

// Encrypt returns hex(iv) + ":" + hex(ciphertext) for the given plaintext.
// A fresh random IV is generated per call, so two encryptions of the same
// plaintext produce different tokens.
func (c *Codec) Encrypt(plaintext string) (string, error) {
	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate IV: %w", err)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. The token is split on the first colon only:
// everything after it is the ciphertext hex.
func (c *Codec) Decrypt(token string) (string, error) {
	ivHex, cipherHex, found := strings.Cut(token, ":")
	if !found {
		return "", fmt.Errorf("%w: missing delimiter", ErrMalformedToken)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != ivLength {
		return "", fmt.Errorf("%w: bad IV", ErrMalformedToken)
	}

	ciphertext, err := hex.DecodeString(cipherHex)
	if err != nil {
		return "", fmt.Errorf("%w: bad ciphertext hex", ErrMalformedToken)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext not block aligned", ErrMalformedToken)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	return string(plaintext), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, errors.New("invalid padding byte")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.New("inconsistent padding")
		}
	}
	return data[:len(data)-padding], nil
}
