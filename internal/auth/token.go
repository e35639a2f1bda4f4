package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	defaultSecretService = "monthlens"
	defaultTokenUser     = "api_token"
	defaultDBKeyUser     = "db_key"
)

var (
	keyringGet    = keyring.Get
	keyringSet    = keyring.Set
	keyringDelete = keyring.Delete
)

// ErrNoToken is returned when no credential is stored.
var ErrNoToken = errors.New("monthlens API token is empty")

// LoadToken loads the bearer credential for the expense service.
//
// Order of precedence:
// 1) MONTHLENS_TOKEN environment variable.
// 2) OS keyring item referenced by service/account.
func LoadToken() (string, error) {
	if tok := strings.TrimSpace(os.Getenv("MONTHLENS_TOKEN")); tok != "" {
		return tok, nil
	}

	tok, err := loadFromKeyring(tokenAccount())
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", err
	}
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

// SaveToken stores the credential in the system credential store.
func SaveToken(tok string) error {
	trimmed := strings.TrimSpace(tok)
	if trimmed == "" {
		return errors.New("monthlens API token cannot be empty")
	}
	return saveToKeyring(tokenAccount(), trimmed)
}

// RemoveToken deletes the stored credential. Removing a missing item is not
// an error.
func RemoveToken() error {
	service := secretService()
	account := tokenAccount()
	if err := keyringDelete(service, account); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf(
			"failed to delete keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

// LoadDBKey loads the local database encryption key.
func LoadDBKey() (string, error) {
	return loadFromKeyring(defaultDBKeyUser)
}

func SaveDBKey(key string) error {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return errors.New("database key cannot be empty")
	}
	return saveToKeyring(defaultDBKeyUser, trimmed)
}

// Keyring is a token source backed by LoadToken; it is re-read on every
// request so `monthlens auth set` takes effect without a restart.
type Keyring struct{}

func (Keyring) Token() (string, error) { return LoadToken() }

func loadFromKeyring(account string) (string, error) {
	service := secretService()

	secret, err := keyringGet(service, account)
	if err != nil {
		return "", fmt.Errorf(
			"failed to read keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}

	return strings.TrimSpace(secret), nil
}

func saveToKeyring(account, secret string) error {
	service := secretService()
	if err := keyringSet(service, account, secret); err != nil {
		return fmt.Errorf(
			"failed to store keyring item service=%q account=%q: %w",
			service,
			account,
			err,
		)
	}
	return nil
}

func secretService() string {
	return envOrDefault("MONTHLENS_KEYCHAIN_SERVICE", defaultSecretService)
}

func tokenAccount() string {
	return envOrDefault("MONTHLENS_KEYCHAIN_ACCOUNT", defaultTokenUser)
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
