package auth

import (
	"os"
	"time"

	"twitterwipe/pkg/config"
)

// EnvironmentStore reads the TWITTER_* variables. It is read-only and
// only ever holds a complete credential set.
type EnvironmentStore struct{}

// NewEnvironmentStore creates a new environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(creds *Credentials) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(name string) (*Credentials, error) {
	creds := &Credentials{
		Name:           name,
		ConsumerKey:    os.Getenv(config.EnvConsumerKey),
		ConsumerSecret: os.Getenv(config.EnvConsumerSecret),
		AccessToken:    os.Getenv(config.EnvAccessToken),
		AccessSecret:   os.Getenv(config.EnvAccessSecret),
		LastModified:   time.Now(),
	}
	if creds.Validate() != nil {
		return nil, ErrCredentialsNotFound
	}
	if creds.Name == "" {
		creds.Name = DefaultName
	}
	return creds, nil
}

// List returns a single entry if all variables are set
func (e *EnvironmentStore) List() ([]*Credentials, error) {
	creds, err := e.Retrieve("environment")
	if err != nil {
		return []*Credentials{}, nil
	}
	return []*Credentials{creds}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials exist
func (e *EnvironmentStore) Exists(name string) bool {
	_, err := e.Retrieve(name)
	return err == nil
}
