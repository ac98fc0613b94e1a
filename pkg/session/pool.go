package session

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"instalytics/pkg/auth"
	"instalytics/pkg/logger"
)

// maxConsecutiveFailures deactivates a session once reached
const maxConsecutiveFailures = 5

// ErrNoActiveSessions is returned when every session is deactivated or the
// pool is empty.
var ErrNoActiveSessions = errors.New("no active sessions in pool")

// Session is one set of Instagram cookies with its health counters
type Session struct {
	Name                string    `json:"name"`
	SessionID           string    `json:"session_id"`
	CSRFToken           string    `json:"csrf_token"`
	UserAgent           string    `json:"user_agent,omitempty"`
	SuccessCount        int       `json:"success_count"`
	FailureCount        int       `json:"failure_count"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	LastUsed            time.Time `json:"last_used"`
	Active              bool      `json:"active"`
}

// Pool manages a set of sessions with rotation and failure tracking.
// State persists to a JSON file, optionally encrypted at rest.
type Pool struct {
	path       string
	passphrase string
	sessions   map[string]*Session
	mu         sync.Mutex
	logger     logger.Logger
}

// poolFile is the on-disk layout. When encrypted, Sessions is empty and
// Salt/Encrypted carry the sealed payload.
type poolFile struct {
	Sessions  []*Session `json:"sessions,omitempty"`
	Salt      string     `json:"salt,omitempty"`
	Encrypted string     `json:"encrypted,omitempty"`
}

// NewPool loads or creates a session pool at the given path. A non-empty
// passphrase enables at-rest encryption via the auth package primitives.
func NewPool(path, passphrase string, log logger.Logger) (*Pool, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	p := &Pool{
		path:       path,
		passphrase: passphrase,
		sessions:   make(map[string]*Session),
		logger:     log,
	}

	if err := p.load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load session pool: %w", err)
	}

	return p, nil
}

// Add inserts or replaces a session and persists the pool
func (p *Pool) Add(s *Session) error {
	if s == nil || s.Name == "" || s.SessionID == "" {
		return errors.New("session name and session ID are required")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s.Active = true
	s.ConsecutiveFailures = 0
	p.sessions[s.Name] = s

	p.logger.InfoWithFields("session added to pool", map[string]interface{}{
		"session": s.Name,
		"total":   len(p.sessions),
	})

	return p.save()
}

// Remove deletes a session and persists the pool
func (p *Pool) Remove(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.sessions[name]; !ok {
		return fmt.Errorf("session %q not found", name)
	}
	delete(p.sessions, name)

	return p.save()
}

// Next returns the best available session: fewest total failures first,
// least recently used as the tie breaker. The returned session's LastUsed
// is updated and persisted.
func (p *Pool) Next() (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var active []*Session
	for _, s := range p.sessions {
		if s.Active {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		return nil, ErrNoActiveSessions
	}

	sort.Slice(active, func(i, j int) bool {
		if active[i].FailureCount != active[j].FailureCount {
			return active[i].FailureCount < active[j].FailureCount
		}
		return active[i].LastUsed.Before(active[j].LastUsed)
	})

	chosen := active[0]
	chosen.LastUsed = time.Now().UTC()

	if err := p.save(); err != nil {
		return nil, err
	}

	out := *chosen
	return &out, nil
}

// RecordSuccess marks a successful request: the session reactivates, its
// consecutive-failure streak resets and the total failure count decays.
func (p *Pool) RecordSuccess(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sessions[name]
	if !ok {
		return fmt.Errorf("session %q not found", name)
	}

	s.SuccessCount++
	s.ConsecutiveFailures = 0
	s.Active = true
	if s.FailureCount > 0 {
		s.FailureCount--
	}

	return p.save()
}

// RecordFailure marks a failed request; hitting the consecutive-failure
// limit deactivates the session.
func (p *Pool) RecordFailure(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sessions[name]
	if !ok {
		return fmt.Errorf("session %q not found", name)
	}

	s.FailureCount++
	s.ConsecutiveFailures++

	if s.ConsecutiveFailures >= maxConsecutiveFailures {
		s.Active = false
		p.logger.WarnWithFields("session deactivated after repeated failures", map[string]interface{}{
			"session":              s.Name,
			"consecutive_failures": s.ConsecutiveFailures,
		})
	}

	return p.save()
}

// List returns copies of all sessions, sorted by name
func (p *Pool) List() []*Session {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]*Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		copied := *s
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// FromAccount builds a pool session from stored credentials
func FromAccount(account *auth.Account) *Session {
	return &Session{
		Name:      account.Username,
		SessionID: account.SessionID,
		CSRFToken: account.CSRFToken,
		UserAgent: account.UserAgent,
		Active:    true,
	}
}

// load reads the pool file, decrypting if a passphrase is set
func (p *Pool) load() error {
	content, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}

	var file poolFile
	if err := json.Unmarshal(content, &file); err != nil {
		return fmt.Errorf("failed to parse pool file: %w", err)
	}

	sessions := file.Sessions
	if file.Encrypted != "" {
		if p.passphrase == "" {
			return errors.New("pool file is encrypted but no passphrase is set")
		}

		salt, err := base64.StdEncoding.DecodeString(file.Salt)
		if err != nil {
			return fmt.Errorf("failed to decode salt: %w", err)
		}
		sealed, err := base64.StdEncoding.DecodeString(file.Encrypted)
		if err != nil {
			return fmt.Errorf("failed to decode payload: %w", err)
		}

		plaintext, err := auth.Decrypt(sealed, auth.DeriveKey(p.passphrase, salt))
		if err != nil {
			return fmt.Errorf("failed to decrypt pool: %w", err)
		}
		if err := json.Unmarshal(plaintext, &sessions); err != nil {
			return fmt.Errorf("failed to parse sessions: %w", err)
		}
	}

	for _, s := range sessions {
		p.sessions[s.Name] = s
	}
	return nil
}

// save writes the pool file atomically, caller holds the lock
func (p *Pool) save() error {
	sessions := make([]*Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		sessions = append(sessions, s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].Name < sessions[j].Name })

	var file poolFile
	if p.passphrase != "" {
		plaintext, err := json.Marshal(sessions)
		if err != nil {
			return fmt.Errorf("failed to marshal sessions: %w", err)
		}

		salt, err := auth.NewSalt()
		if err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}

		sealed, err := auth.Encrypt(plaintext, auth.DeriveKey(p.passphrase, salt))
		if err != nil {
			return fmt.Errorf("failed to encrypt sessions: %w", err)
		}

		file.Salt = base64.StdEncoding.EncodeToString(salt)
		file.Encrypted = base64.StdEncoding.EncodeToString(sealed)
	} else {
		file.Sessions = sessions
	}

	content, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal pool file: %w", err)
	}

	dir := filepath.Dir(p.path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create pool directory: %w", err)
		}
	}

	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, content, 0600); err != nil {
		return fmt.Errorf("failed to write pool file: %w", err)
	}

	return os.Rename(tmp, p.path)
}
