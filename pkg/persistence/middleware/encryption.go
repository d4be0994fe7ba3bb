package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ports"
)

// envelopePrefix marks a field value sealed by the encryption middleware.
const envelopePrefix = "enc:"

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey is the key used for encrypting new data.
	// Must be 32 bytes for AES-256.
	ActiveKey []byte

	// FallbackKeys is a list of old keys to try when decryption fails.
	// This enables zero-downtime key rotation.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next   ports.BookingStore
	config EncryptionConfig
}

// NewEncryptionMiddleware creates a middleware that seals patient details
// (name, email, phone) and the free-text reasons with AES-GCM before they
// reach the underlying store. Ids, dates, times and statuses stay in clear
// so the store can still index and order bookings.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	if len(config.ActiveKey) != 32 {
		panic("active key must be 32 bytes (AES-256)")
	}
	return func(next ports.BookingStore) ports.BookingStore {
		return &encryptionMiddleware{
			next:   next,
			config: config,
		}
	}
}

func (m *encryptionMiddleware) Save(ctx context.Context, b *domain.Booking) error {
	sealed := *b
	for _, f := range sensitiveFields(&sealed) {
		if *f == "" {
			continue
		}
		ciphertext, err := encrypt([]byte(*f), m.config.ActiveKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt booking %s: %w", b.ID, err)
		}
		*f = envelopePrefix + base64.StdEncoding.EncodeToString(ciphertext)
	}
	return m.next.Save(ctx, &sealed)
}

func (m *encryptionMiddleware) Get(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := m.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := m.open(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (m *encryptionMiddleware) ListByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	list, err := m.next.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if err := m.open(&list[i]); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (m *encryptionMiddleware) open(b *domain.Booking) error {
	for _, f := range sensitiveFields(b) {
		if *f == "" {
			continue
		}
		// Fail secure: a configured key means every stored value is sealed.
		encoded, ok := strings.CutPrefix(*f, envelopePrefix)
		if !ok {
			return fmt.Errorf("booking %s is missing encrypted data envelope", b.ID)
		}
		ciphertext, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("failed to decode ciphertext base64: %w", err)
		}
		plain, err := decryptWithRotation(ciphertext, m.config.ActiveKey, m.config.FallbackKeys)
		if err != nil {
			return fmt.Errorf("failed to decrypt booking %s: %w", b.ID, err)
		}
		*f = string(plain)
	}
	return nil
}

func sensitiveFields(b *domain.Booking) []*string {
	return []*string{&b.Patient.Name, &b.Patient.Email, &b.Patient.Phone, &b.Reason, &b.CancelReason}
}

// Helpers

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce := ciphertext[:gcm.NonceSize()]
	return gcm.Open(nil, nonce, ciphertext[gcm.NonceSize():], nil)
}
