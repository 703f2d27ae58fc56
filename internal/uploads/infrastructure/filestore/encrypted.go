package filestore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/felixgeelhaar/tenantry/internal/shared/infrastructure/crypto"
	"github.com/felixgeelhaar/tenantry/internal/uploads/domain"
)

var (
	errCorruptEnvelope = errors.New("encrypted file envelope is corrupt")
	errKeyTooLong      = errors.New("storage key does not fit the envelope header")
)

// EncryptedStore seals contents before handing them to the wrapped store.
// The stored envelope is len(key) || key || sealed, with key as associated
// data so the header cannot be altered without detection.
type EncryptedStore struct {
	next domain.FileStore
	enc  crypto.Encrypter
}

// NewEncryptedStore wraps next.
func NewEncryptedStore(next domain.FileStore, enc crypto.Encrypter) *EncryptedStore {
	return &EncryptedStore{next: next, enc: enc}
}

func (s *EncryptedStore) Save(ctx context.Context, key string, data []byte) (string, error) {
	if len(key) > math.MaxUint16 {
		return "", fmt.Errorf("%w: %d bytes", errKeyTooLong, len(key))
	}
	sealed, err := s.enc.Encrypt(data, []byte(key))
	if err != nil {
		return "", fmt.Errorf("encrypt %s: %w", key, err)
	}
	envelope := binary.BigEndian.AppendUint16(make([]byte, 0, 2+len(key)+len(sealed)), uint16(len(key)))
	envelope = append(envelope, key...)
	envelope = append(envelope, sealed...)
	return s.next.Save(ctx, key, envelope)
}

func (s *EncryptedStore) Load(ctx context.Context, locator string) ([]byte, error) {
	envelope, err := s.next.Load(ctx, locator)
	if err != nil {
		return nil, err
	}
	if len(envelope) < 2 {
		return nil, errCorruptEnvelope
	}
	n := int(binary.BigEndian.Uint16(envelope))
	if len(envelope) < 2+n {
		return nil, errCorruptEnvelope
	}
	key, sealed := envelope[2:2+n], envelope[2+n:]

	data, err := s.enc.Decrypt(sealed, key)
	if err != nil {
		return nil, fmt.Errorf("decrypt %s: %w", locator, err)
	}
	return data, nil
}

func (s *EncryptedStore) Ping(ctx context.Context) error {
	return Ping(ctx, s.next)
}
