package session

import (
	"fmt"

	"github.com/zalando/go-keyring"
)

const serviceName = "geoadmin"

// SecretStore holds session tokens in the OS keyring, keyed by server
// URL and account
type SecretStore struct{}

// NewSecretStore creates a new secret store
func NewSecretStore() *SecretStore {
	return &SecretStore{}
}

func secretKey(baseURL, username string) string {
	return fmt.Sprintf("%s|%s", baseURL, username)
}

// Save stores a session token
func (s *SecretStore) Save(baseURL, username, token string) error {
	if err := keyring.Set(serviceName, secretKey(baseURL, username), token); err != nil {
		return fmt.Errorf("failed to write to keyring: %w", err)
	}
	return nil
}

// Get retrieves a session token
func (s *SecretStore) Get(baseURL, username string) (string, error) {
	token, err := keyring.Get(serviceName, secretKey(baseURL, username))
	if err != nil {
		return "", fmt.Errorf("failed to read from keyring: %w", err)
	}
	return token, nil
}

// Delete removes a session token
func (s *SecretStore) Delete(baseURL, username string) error {
	if err := keyring.Delete(serviceName, secretKey(baseURL, username)); err != nil {
		return fmt.Errorf("failed to delete from keyring: %w", err)
	}
	return nil
}
