package localstore

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// Argon2id parameters for deriving the file key from a passphrase.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	saltSize     = 16
)

var (
	sealMagic = []byte("DLS1")

	ErrWrongPassphrase = errors.New("session file: wrong passphrase or corrupted data")
	ErrSealed          = errors.New("session file is encrypted but no passphrase is set")
)

// sealer encrypts session documents with XChaCha20-Poly1305. The key is
// derived per write from the passphrase and a random salt.
//
// Layout: magic | salt | nonce | ciphertext.
type sealer struct {
	passphrase []byte
}

func newSealer(passphrase string) *sealer {
	if passphrase == "" {
		return nil
	}
	return &sealer{passphrase: []byte(passphrase)}
}

func (s *sealer) key(salt []byte) []byte {
	return argon2.IDKey(s.passphrase, salt, argonTime, argonMemory, argonThreads, chacha20poly1305.KeySize)
}

func (s *sealer) seal(plain []byte) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	aead, err := chacha20poly1305.NewX(s.key(salt))
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, len(sealMagic)+saltSize+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, sealMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	return aead.Seal(out, nonce, plain, sealMagic), nil
}

func (s *sealer) open(data []byte) ([]byte, error) {
	header := len(sealMagic) + saltSize + chacha20poly1305.NonceSizeX
	if len(data) < header {
		return nil, ErrWrongPassphrase
	}
	salt := data[len(sealMagic) : len(sealMagic)+saltSize]
	nonce := data[len(sealMagic)+saltSize : header]

	aead, err := chacha20poly1305.NewX(s.key(salt))
	if err != nil {
		return nil, err
	}
	plain, err := aead.Open(nil, nonce, data[header:], sealMagic)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plain, nil
}

func isSealed(data []byte) bool {
	return len(data) >= len(sealMagic) && string(data[:len(sealMagic)]) == string(sealMagic)
}
