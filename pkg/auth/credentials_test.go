package auth

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zalando/go-keyring"
	"twitterwipe/pkg/config"
)

func testCredentials(name string) *Credentials {
	return &Credentials{
		Name:           name,
		ConsumerKey:    "consumer_key_123456",
		ConsumerSecret: "consumer_secret_123456",
		AccessToken:    "access_token_123456",
		AccessSecret:   "access_secret_123456",
	}
}

func TestCredentialManager(t *testing.T) {
	manager, mockStore := NewMockManager()

	creds := testCredentials("")
	if err := manager.Store(creds); err != nil {
		t.Fatalf("Failed to store credentials: %v", err)
	}
	if creds.Name != DefaultName {
		t.Errorf("Expected empty name to become %q, got %q", DefaultName, creds.Name)
	}
	if creds.LastModified.IsZero() {
		t.Error("Expected LastModified to be set")
	}

	retrieved, err := manager.Retrieve("")
	if err != nil {
		t.Fatalf("Failed to retrieve credentials: %v", err)
	}
	if retrieved.AccessSecret != creds.AccessSecret {
		t.Errorf("AccessSecret mismatch: got %s, want %s", retrieved.AccessSecret, creds.AccessSecret)
	}

	list, err := manager.List()
	if err != nil {
		t.Fatalf("Failed to list credentials: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 entry, got %d", len(list))
	}

	if err := manager.Delete(DefaultName); err != nil {
		t.Errorf("Failed to delete credentials: %v", err)
	}
	if _, err := manager.Retrieve(DefaultName); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected ErrCredentialsNotFound after delete, got %v", err)
	}
	if mockStore.Count() != 0 {
		t.Errorf("Expected 0 entries after deletion, got %d", mockStore.Count())
	}
	if err := manager.Delete(DefaultName); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected ErrCredentialsNotFound deleting twice, got %v", err)
	}
}

func TestManagerStoreRejectsIncomplete(t *testing.T) {
	manager, mockStore := NewMockManager()

	err := manager.Store(&Credentials{Name: "partial", ConsumerKey: "ck"})
	if err == nil {
		t.Fatal("Expected error storing incomplete credentials")
	}
	for _, name := range []string{config.EnvConsumerSecret, config.EnvAccessToken, config.EnvAccessSecret} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("Expected %s in error, got %v", name, err)
		}
	}
	if mockStore.Count() != 0 {
		t.Error("Incomplete credentials should not be stored")
	}
}

func TestManagerFallsBackToNextStore(t *testing.T) {
	broken := NewMockStore()
	broken.StoreError = errors.New("keychain locked")
	working := NewMockStore()

	manager := NewManagerWithStores(broken, working)
	if err := manager.Store(testCredentials("work")); err != nil {
		t.Fatalf("Expected fallback store to accept credentials: %v", err)
	}
	if !working.Exists("work") {
		t.Error("Expected credentials in fallback store")
	}
}

func TestApplyToKeepsExplicitValues(t *testing.T) {
	tc := config.TwitterConfig{ConsumerKey: "from-env"}
	testCredentials("x").ApplyTo(&tc)

	if tc.ConsumerKey != "from-env" {
		t.Errorf("Explicit value overwritten: %s", tc.ConsumerKey)
	}
	if tc.AccessSecret != "access_secret_123456" {
		t.Errorf("Missing value not filled: %q", tc.AccessSecret)
	}
}

func TestSanitize(t *testing.T) {
	creds := testCredentials("x")
	sanitized := Sanitize(creds)

	if sanitized.ConsumerSecret == creds.ConsumerSecret || sanitized.AccessSecret == creds.AccessSecret {
		t.Error("Secrets should be masked")
	}
	if sanitized.AccessToken != "acce...3456" {
		t.Errorf("Unexpected mask: %s", sanitized.AccessToken)
	}
	if maskString("short") != "********" {
		t.Errorf("Short values should be fully masked")
	}
}

func TestEncryptedFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStoreWithPassphrase(path, "test_passphrase_123")
	if err != nil {
		t.Fatalf("Failed to create encrypted store: %v", err)
	}

	if err := store.Store(testCredentials("alice")); err != nil {
		t.Fatalf("Failed to store: %v", err)
	}
	if err := store.Store(testCredentials("bob")); err != nil {
		t.Fatalf("Failed to store: %v", err)
	}

	retrieved, err := store.Retrieve("alice")
	if err != nil {
		t.Fatalf("Failed to retrieve: %v", err)
	}
	if retrieved.AccessToken != "access_token_123456" {
		t.Errorf("AccessToken mismatch after encryption/decryption")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(content, []byte("access_secret_123456")) || bytes.Contains(content, []byte("consumer_key_123456")) {
		t.Error("File contains plaintext credentials")
	}

	list, err := store.List()
	if err != nil || len(list) != 2 || list[0].Name != "alice" {
		t.Errorf("Unexpected list result: %v %v", list, err)
	}

	other, _ := NewEncryptedFileStoreWithPassphrase(path, "wrong")
	if _, err := other.Retrieve("alice"); err == nil {
		t.Error("Expected wrong passphrase to fail")
	}

	if err := store.Delete("alice"); err != nil {
		t.Errorf("Failed to delete: %v", err)
	}
	if err := store.Delete("bob"); err != nil {
		t.Errorf("Failed to delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected file to be removed with the last entry")
	}
}

func TestEncryptedFileStorePassphraseFromEnv(t *testing.T) {
	t.Setenv(PassphraseEnv, "env_passphrase")
	path := filepath.Join(t.TempDir(), "credentials.enc")

	store, err := NewEncryptedFileStore(path)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if store.passphrase != "env_passphrase" {
		t.Errorf("Expected passphrase from environment")
	}
}

func TestEnvironmentStore(t *testing.T) {
	t.Setenv(config.EnvConsumerKey, "ck")
	t.Setenv(config.EnvConsumerSecret, "cs")
	t.Setenv(config.EnvAccessToken, "at")
	t.Setenv(config.EnvAccessSecret, "")

	store := NewEnvironmentStore()
	if _, err := store.Retrieve(""); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected incomplete environment to be not found, got %v", err)
	}

	t.Setenv(config.EnvAccessSecret, "as")
	creds, err := store.Retrieve("")
	if err != nil {
		t.Fatalf("Failed to retrieve from environment: %v", err)
	}
	if creds.Name != DefaultName || creds.AccessSecret != "as" {
		t.Errorf("Unexpected credentials: %+v", creds)
	}

	if err := store.Store(creds); err != ErrStoreUnavailable {
		t.Error("Expected ErrStoreUnavailable for environment store")
	}
}

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()

	store, err := NewKeyringStore()
	if err != nil {
		t.Fatalf("Failed to create keyring store: %v", err)
	}

	if err := store.Store(testCredentials("personal")); err != nil {
		t.Fatalf("Failed to store: %v", err)
	}
	if err := store.Store(testCredentials("work")); err != nil {
		t.Fatalf("Failed to store: %v", err)
	}
	if !store.Exists("personal") {
		t.Error("Expected credentials to exist")
	}

	list, err := store.List()
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(list))
	}

	if err := store.Delete("personal"); err != nil {
		t.Errorf("Failed to delete: %v", err)
	}
	if err := store.Delete("personal"); !errors.Is(err, ErrCredentialsNotFound) {
		t.Errorf("Expected ErrCredentialsNotFound, got %v", err)
	}

	list, _ = store.List()
	if len(list) != 1 || list[0].Name != "work" {
		t.Errorf("Unexpected entries after delete: %v", list)
	}
}

func TestShowCredentialGuide(t *testing.T) {
	var buf bytes.Buffer
	ShowCredentialGuide(&buf)

	for _, name := range []string{config.EnvConsumerKey, config.EnvConsumerSecret, config.EnvAccessToken, config.EnvAccessSecret} {
		if !strings.Contains(buf.String(), name) {
			t.Errorf("Guide does not mention %s", name)
		}
	}
}
