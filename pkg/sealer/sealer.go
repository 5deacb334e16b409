// Package sealer issues the opaque cancel tokens handed to public guests.
// Guest bookings have no owner account, so the confirmation email carries an
// AES-GCM sealed (arena, booking) pair the guest presents to cancel.
package sealer

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrInvalidToken = errors.New("invalid cancel token")

type Sealer struct {
	aead cipher.AEAD
}

// New builds a Sealer from a base64-encoded 32-byte key (GUEST_TOKEN_KEY).
func New(base64Key string) (*Sealer, error) {
	key, err := base64.StdEncoding.DecodeString(base64Key)
	if err != nil {
		return nil, fmt.Errorf("decode token key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init token cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init token aead: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// SealCancelToken produces an opaque URL-safe token binding an arena and a
// booking.
func (s *Sealer) SealCancelToken(arenaID, bookingID string) (string, error) {
	plaintext := []byte(arenaID + ":" + bookingID)

	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	ct := s.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.RawURLEncoding.EncodeToString(ct), nil
}

// ParseCancelToken recovers the (arenaID, bookingID) pair from a token.
// Tampered or truncated tokens fail with ErrInvalidToken.
func (s *Sealer) ParseCancelToken(token string) (string, string, error) {
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	if len(data) < s.aead.NonceSize() {
		return "", "", ErrInvalidToken
	}

	nonce, ct := data[:s.aead.NonceSize()], data[s.aead.NonceSize():]
	plaintext, err := s.aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return "", "", ErrInvalidToken
	}

	parts := strings.SplitN(string(plaintext), ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrInvalidToken
	}

	return parts[0], parts[1], nil
}
