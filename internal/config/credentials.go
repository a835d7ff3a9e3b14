package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"
)

const tokenKeyPrefix = "token:"

type TokenStore struct {
	Ring keyring.Keyring
}

func OpenTokenStore(configPath string) (*TokenStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: appName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  filepath.Join(filepath.Dir(configPath), "credentials"),
		FilePasswordFunc:         keyring.FixedStringPrompt(appName + "-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &TokenStore{Ring: ring}, nil
}

func (s *TokenStore) Token(profile string) (string, error) {
	item, err := s.Ring.Get(tokenKeyPrefix + profile)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("getting token for profile %q: %w", profile, err)
	}
	return string(item.Data), nil
}

func (s *TokenStore) SetToken(profile, token string) error {
	err := s.Ring.Set(keyring.Item{
		Key:   tokenKeyPrefix + profile,
		Data:  []byte(token),
		Label: appName + " " + profile,
	})
	if err != nil {
		return fmt.Errorf("setting token for profile %q: %w", profile, err)
	}
	return nil
}

func (s *TokenStore) DeleteToken(profile string) error {
	err := s.Ring.Remove(tokenKeyPrefix + profile)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("deleting token for profile %q: %w", profile, err)
	}
	return nil
}
