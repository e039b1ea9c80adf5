package auth

import (
	"os"
	"time"
)

// TokenEnvVars are read in order; LOGGER_SLACK_BOT is the legacy name
var TokenEnvVars = []string{"WALLGRAB_SLACK_TOKEN", "LOGGER_SLACK_BOT"}

// EnvironmentStore reads a single read-only token from the environment
type EnvironmentStore struct{}

func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

func (e *EnvironmentStore) token() string {
	for _, key := range TokenEnvVars {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(cred *Credential) error {
	return ErrStoreUnavailable
}

// Retrieve returns the environment token under any requested name
func (e *EnvironmentStore) Retrieve(name string) (*Credential, error) {
	token := e.token()
	if token == "" {
		return nil, ErrCredentialsNotFound
	}
	if name == "" {
		name = DefaultName
	}
	return &Credential{Name: name, Token: token, LastModified: time.Now()}, nil
}

func (e *EnvironmentStore) List() ([]*Credential, error) {
	cred, err := e.Retrieve("")
	if err != nil {
		return []*Credential{}, nil
	}
	return []*Credential{cred}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(name string) error {
	return ErrStoreUnavailable
}

func (e *EnvironmentStore) Exists(name string) bool {
	return e.token() != ""
}
