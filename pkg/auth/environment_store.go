package auth

import (
	"os"
	"time"
)

// EnvironmentStore implements CredentialStore over INSTALYTICS_* environment
// variables. It is read-only and always the last fallback.
type EnvironmentStore struct{}

// NewEnvironmentStore creates an environment-based credential store
func NewEnvironmentStore() *EnvironmentStore {
	return &EnvironmentStore{}
}

// Store is not supported for environment variables
func (e *EnvironmentStore) Store(account *Account) error {
	return ErrStoreUnavailable
}

// Retrieve gets credentials from environment variables
func (e *EnvironmentStore) Retrieve(username string) (*Account, error) {
	sessionID := os.Getenv("INSTALYTICS_SESSION_ID")
	csrfToken := os.Getenv("INSTALYTICS_CSRF_TOKEN")
	userAgent := os.Getenv("INSTALYTICS_USER_AGENT")

	if sessionID == "" || csrfToken == "" {
		return nil, ErrCredentialsNotFound
	}

	// The environment carries no username
	if username == "" {
		username = "default"
	}

	return &Account{
		Username:     username,
		SessionID:    sessionID,
		CSRFToken:    csrfToken,
		UserAgent:    userAgent,
		LastModified: time.Now(),
	}, nil
}

// List returns the single environment account if configured
func (e *EnvironmentStore) List() ([]*Account, error) {
	account, err := e.Retrieve("")
	if err != nil {
		return []*Account{}, nil
	}
	return []*Account{account}, nil
}

// Delete is not supported for environment variables
func (e *EnvironmentStore) Delete(username string) error {
	return ErrStoreUnavailable
}

// Exists checks if environment credentials are set
func (e *EnvironmentStore) Exists(username string) bool {
	return os.Getenv("INSTALYTICS_SESSION_ID") != "" && os.Getenv("INSTALYTICS_CSRF_TOKEN") != ""
}
