package session

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/geokey/geoadmin/internal/models"
)

// Manager manages the server history: which backends the console has
// talked to, and when. Session tokens are held by the SecretStore, never
// in the YAML file.
type Manager struct {
	path    string
	history []models.ServerHistoryEntry
	secrets *SecretStore
}

// NewManager creates a new server history manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "server_history.yaml")

	m := &Manager{
		path:    path,
		history: []models.ServerHistoryEntry{},
		secrets: NewSecretStore(),
	}

	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load server history: %w", err)
		}
	}

	return m, nil
}

// Load loads server history from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read server history file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.history); err != nil {
		return fmt.Errorf("failed to parse server history: %w", err)
	}

	return nil
}

// Save writes server history to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.history)
	if err != nil {
		return fmt.Errorf("failed to marshal server history: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600, the file names servers and accounts.
	if err := os.WriteFile(m.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write server history file: %w", err)
	}

	return nil
}

// Add adds or refreshes a server in history. The session token, when
// given, goes to the secret store.
func (m *Manager) Add(cfg models.ServerConfig, sessionToken string) error {
	if sessionToken != "" && m.secrets != nil {
		if err := m.secrets.Save(cfg.BaseURL, cfg.Username, sessionToken); err != nil {
			return fmt.Errorf("failed to store session token: %w", err)
		}
	}

	now := time.Now()
	for i, e := range m.history {
		if e.BaseURL == cfg.BaseURL && e.Username == cfg.Username {
			m.history[i].LastUsed = now
			m.history[i].UsageCount++
			m.history[i].CSRFCookie = cfg.CSRFCookie
			if cfg.Name != "" {
				m.history[i].Name = cfg.Name
			}
			return m.Save()
		}
	}

	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("%s (%s)", cfg.BaseURL, cfg.Username)
	}

	m.history = append(m.history, models.ServerHistoryEntry{
		ID:         uuid.New().String(),
		Name:       name,
		BaseURL:    cfg.BaseURL,
		Username:   cfg.Username,
		CSRFCookie: cfg.CSRFCookie,
		LastUsed:   now,
		UsageCount: 1,
		CreatedAt:  now,
	})
	return m.Save()
}

// Remove deletes a server from history along with its stored token
func (m *Manager) Remove(id string) error {
	for i, e := range m.history {
		if e.ID == id {
			if m.secrets != nil {
				// Best effort, the keyring entry may not exist.
				_ = m.secrets.Delete(e.BaseURL, e.Username)
			}
			m.history = append(m.history[:i], m.history[i+1:]...)
			return m.Save()
		}
	}
	return fmt.Errorf("server with ID '%s' was not found", id)
}

// GetAll returns all history entries, most recently used first
func (m *Manager) GetAll() []models.ServerHistoryEntry {
	sorted := make([]models.ServerHistoryEntry, len(m.history))
	copy(sorted, m.history)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})
	return sorted
}

// SessionToken retrieves the stored session token for an entry
func (m *Manager) SessionToken(entry models.ServerHistoryEntry) (string, error) {
	if m.secrets == nil {
		return "", fmt.Errorf("no secret store available")
	}
	return m.secrets.Get(entry.BaseURL, entry.Username)
}
