package tokenstore

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/credebt/internal/common"
	"github.com/dmitrijs2005/credebt/internal/cryptox"
)

const saltKey = "salt"

var ErrDecrypt = errors.New("cannot decrypt stored token")

// EncryptedStore seals values with a key derived from a passphrase before
// handing them to the wrapped store. The salt is kept in the wrapped store
// under "salt", so one passphrase opens the store on every run.
type EncryptedStore struct {
	inner Store
	key   []byte
}

// NewEncrypted derives the key for inner, creating and storing a salt on
// first use.
func NewEncrypted(ctx context.Context, inner Store, passphrase string) (*EncryptedStore, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("empty passphrase: %w", common.ErrValidation)
	}

	salt, err := loadSalt(ctx, inner)
	if err != nil {
		return nil, err
	}

	return &EncryptedStore{inner: inner, key: cryptox.DeriveKey([]byte(passphrase), salt)}, nil
}

func loadSalt(ctx context.Context, inner Store) ([]byte, error) {
	enc, err := inner.Get(ctx, saltKey)
	if err == nil {
		salt, derr := base64.StdEncoding.DecodeString(enc)
		if derr != nil {
			return nil, fmt.Errorf("stored salt: %w", derr)
		}
		return salt, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	salt := common.GenerateRandByteArray(16)
	if err := inner.Set(ctx, saltKey, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, err
	}
	return salt, nil
}

func (s *EncryptedStore) Get(ctx context.Context, key string) (string, error) {
	enc, err := s.inner.Get(ctx, key)
	if err != nil {
		return "", err
	}

	sealed, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	plain, err := cryptox.Open(sealed, s.key)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	return string(plain), nil
}

func (s *EncryptedStore) Set(ctx context.Context, key, value string) error {
	sealed, err := cryptox.Seal([]byte(value), s.key)
	if err != nil {
		return err
	}
	return s.inner.Set(ctx, key, base64.StdEncoding.EncodeToString(sealed))
}

func (s *EncryptedStore) Clear(ctx context.Context, keys ...string) error {
	return s.inner.Clear(ctx, keys...)
}
