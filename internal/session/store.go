package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/qaiserfcc/cloud-pos-cli/internal/api"
	"github.com/qaiserfcc/cloud-pos-cli/internal/models"
)

const sessionFileName = "session.json"

// sessionFile is the on-disk document. All five values live in one file so
// Clear can remove them in a single atomic write.
type sessionFile struct {
	Version      int          `json:"version"`
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	TenantID     string       `json:"tenant_id,omitempty"`
	StoreID      string       `json:"store_id,omitempty"`
	User         *models.User `json:"user,omitempty"`
}

// Store persists the session credentials and tenant/store context on the
// local filesystem. It performs no validation of token contents; that is
// the server's job.
type Store struct {
	mu   sync.Mutex
	path string
}

var _ api.CredentialSource = (*Store)(nil)

// NewStore creates a session store rooted at baseDir.
// If baseDir is empty, uses ~/.cloudpos/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".cloudpos")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}

	store := &Store{path: filepath.Join(baseDir, sessionFileName)}

	log.Debug().Str("path", store.path).Msg("session store initialized")

	return store, nil
}

// AccessToken returns the stored access token, or "" when absent.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().AccessToken
}

// RefreshToken returns the stored refresh token, or "" when absent.
func (s *Store) RefreshToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().RefreshToken
}

// TenantID returns the active tenant context, or "" when absent.
func (s *Store) TenantID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().TenantID
}

// StoreID returns the active store context, or "" when absent.
func (s *Store) StoreID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().StoreID
}

// User returns the cached user profile, or nil when absent.
func (s *Store) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().User
}

// SetTokens stores both tokens in one write.
func (s *Store) SetTokens(accessToken, refreshToken string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	doc.AccessToken = accessToken
	doc.RefreshToken = refreshToken
	if err := s.save(doc); err != nil {
		return err
	}

	log.Debug().
		Str("access_token", api.TokenFingerprint(accessToken)).
		Str("refresh_token", api.TokenFingerprint(refreshToken)).
		Msg("tokens stored")

	return nil
}

// SetUser stores the cached user profile.
func (s *Store) SetUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	doc.User = user
	return s.save(doc)
}

// SetTenantID switches the active tenant. The store selection is cleared
// in the same write, so no reader can observe the new tenant paired with
// a stale store.
func (s *Store) SetTenantID(tenantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	if doc.TenantID != tenantID {
		doc.StoreID = ""
	}
	doc.TenantID = tenantID
	if err := s.save(doc); err != nil {
		return err
	}

	log.Debug().Str("tenant_id", tenantID).Msg("tenant context updated")

	return nil
}

// SetStoreID switches the active store. An empty ID clears the selection.
func (s *Store) SetStoreID(storeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	doc.StoreID = storeID
	if err := s.save(doc); err != nil {
		return err
	}

	log.Debug().Str("store_id", storeID).Msg("store context updated")

	return nil
}

// Clear removes tokens, context, and the cached user in one atomic write.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.save(&sessionFile{Version: 1}); err != nil {
		return err
	}

	log.Debug().Msg("session store cleared")

	return nil
}

// load reads the session document. A missing or unreadable file behaves as
// an empty session; a corrupt file is logged and treated the same way.
func (s *Store) load() *sessionFile {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("path", s.path).Msg("failed to read session file")
		}
		return &sessionFile{Version: 1}
	}

	var doc sessionFile
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("failed to parse session file")
		return &sessionFile{Version: 1}
	}
	if doc.Version == 0 {
		doc.Version = 1
	}

	return &doc
}

// save writes the session document atomically via a temp file rename.
func (s *Store) save(doc *sessionFile) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}
