package auth

import (
	"errors"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestLoadTokenUsesEnvVarFirst(t *testing.T) {
	t.Setenv("MONTHLENS_TOKEN", "  env-token  ")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringCalled := false
	keyringGet = func(service, user string) (string, error) {
		keyringCalled = true
		return "keyring-token", nil
	}

	got, err := LoadToken()
	if err != nil {
		t.Fatalf("LoadToken() unexpected error: %v", err)
	}
	if got != "env-token" {
		t.Fatalf("LoadToken() = %q, want %q", got, "env-token")
	}
	if keyringCalled {
		t.Fatal("LoadToken() called keyringGet even though MONTHLENS_TOKEN was set")
	}
}

func TestLoadTokenFallsBackToKeyring(t *testing.T) {
	t.Setenv("MONTHLENS_TOKEN", "")
	t.Setenv("MONTHLENS_KEYCHAIN_SERVICE", "svc")
	t.Setenv("MONTHLENS_KEYCHAIN_ACCOUNT", "acct")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	var gotService, gotUser string
	keyringGet = func(service, user string) (string, error) {
		gotService = service
		gotUser = user
		return "  keyring-token  ", nil
	}

	got, err := Keyring{}.Token()
	if err != nil {
		t.Fatalf("Token() unexpected error: %v", err)
	}
	if got != "keyring-token" {
		t.Fatalf("Token() = %q, want %q", got, "keyring-token")
	}
	if gotService != "svc" || gotUser != "acct" {
		t.Fatalf("keyringGet called with (%q, %q), want (%q, %q)", gotService, gotUser, "svc", "acct")
	}
}

func TestLoadTokenMissingItem(t *testing.T) {
	t.Setenv("MONTHLENS_TOKEN", "")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringGet = func(service, user string) (string, error) {
		return "", keyring.ErrNotFound
	}

	_, err := LoadToken()
	if !errors.Is(err, ErrNoToken) {
		t.Fatalf("LoadToken() error = %v, want ErrNoToken", err)
	}
}

func TestLoadTokenReturnsErrorWhenKeyringFails(t *testing.T) {
	t.Setenv("MONTHLENS_TOKEN", "")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringGet = func(service, user string) (string, error) {
		return "", errors.New("boom")
	}

	_, err := LoadToken()
	if err == nil {
		t.Fatal("LoadToken() error = nil, want non-nil")
	}
	if !strings.Contains(err.Error(), "failed to read keyring item") {
		t.Fatalf("LoadToken() error = %q, expected keyring read context", err.Error())
	}
}

func TestLoadTokenReturnsErrorWhenTokenEmpty(t *testing.T) {
	t.Setenv("MONTHLENS_TOKEN", "")

	origGet := keyringGet
	defer func() { keyringGet = origGet }()

	keyringGet = func(service, user string) (string, error) {
		return "   ", nil
	}

	if _, err := LoadToken(); !errors.Is(err, ErrNoToken) {
		t.Fatalf("LoadToken() error = %v, want ErrNoToken", err)
	}
}

func TestSaveTokenSavesTrimmedToken(t *testing.T) {
	t.Setenv("MONTHLENS_KEYCHAIN_SERVICE", "svc")
	t.Setenv("MONTHLENS_KEYCHAIN_ACCOUNT", "acct")

	origSet := keyringSet
	defer func() { keyringSet = origSet }()

	var gotService, gotUser, gotSecret string
	keyringSet = func(service, user, secret string) error {
		gotService = service
		gotUser = user
		gotSecret = secret
		return nil
	}

	if err := SaveToken("  my-token  "); err != nil {
		t.Fatalf("SaveToken() unexpected error: %v", err)
	}
	if gotService != "svc" || gotUser != "acct" || gotSecret != "my-token" {
		t.Fatalf(
			"SaveToken() called keyringSet with (%q, %q, %q), want (%q, %q, %q)",
			gotService, gotUser, gotSecret, "svc", "acct", "my-token",
		)
	}
}

func TestSaveTokenRejectsEmptyToken(t *testing.T) {
	origSet := keyringSet
	defer func() { keyringSet = origSet }()

	called := false
	keyringSet = func(service, user, secret string) error {
		called = true
		return nil
	}

	if err := SaveToken("   "); err == nil {
		t.Fatal("SaveToken() error = nil, want non-nil")
	}
	if called {
		t.Fatal("SaveToken() called keyringSet for empty token")
	}
}

func TestRemoveTokenIgnoresMissingItem(t *testing.T) {
	origDelete := keyringDelete
	defer func() { keyringDelete = origDelete }()

	keyringDelete = func(service, user string) error {
		return keyring.ErrNotFound
	}
	if err := RemoveToken(); err != nil {
		t.Fatalf("RemoveToken() unexpected error: %v", err)
	}

	keyringDelete = func(service, user string) error {
		return errors.New("locked")
	}
	if err := RemoveToken(); err == nil {
		t.Fatal("RemoveToken() error = nil, want non-nil")
	}
}

func TestDBKeyUsesSeparateAccount(t *testing.T) {
	t.Setenv("MONTHLENS_KEYCHAIN_SERVICE", "svc")

	origSet := keyringSet
	defer func() { keyringSet = origSet }()

	var gotUser string
	keyringSet = func(service, user, secret string) error {
		gotUser = user
		return nil
	}
	if err := SaveDBKey("k"); err != nil {
		t.Fatalf("SaveDBKey() unexpected error: %v", err)
	}
	if gotUser != defaultDBKeyUser {
		t.Fatalf("SaveDBKey() account = %q, want %q", gotUser, defaultDBKeyUser)
	}
}
