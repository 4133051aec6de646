package models

import (
	"time"
)

// ServerConfig represents a GeoKey server connection configuration
type ServerConfig struct {
	Name       string `yaml:"name"`
	BaseURL    string `yaml:"base_url"`
	Username   string `yaml:"username"`
	CSRFCookie string `yaml:"csrf_cookie"`
}

// ServerHistoryEntry represents a saved server from history
type ServerHistoryEntry struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"` // User-friendly name (auto-generated or custom)
	BaseURL string `yaml:"base_url"`
	// Note: the session token is NOT stored here, it lives in the keyring
	Username   string    `yaml:"username"`
	CSRFCookie string    `yaml:"csrf_cookie"`
	LastUsed   time.Time `yaml:"last_used"`
	UsageCount int       `yaml:"usage_count"`
	CreatedAt  time.Time `yaml:"created_at"`
}

// ToServerConfig converts a history entry to a ServerConfig
func (e *ServerHistoryEntry) ToServerConfig() ServerConfig {
	return ServerConfig{
		Name:       e.Name,
		BaseURL:    e.BaseURL,
		Username:   e.Username,
		CSRFCookie: e.CSRFCookie,
	}
}

// SavedFilter is a named, persisted filter expression
type SavedFilter struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Expression  string    `yaml:"expression" json:"expression"`
	Server      string    `yaml:"server" json:"server"`
	ProjectID   int       `yaml:"project_id" json:"project_id"`
	Tags        []string  `yaml:"tags" json:"tags"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
	LastUsed    time.Time `yaml:"last_used" json:"last_used"`
	UsageCount  int       `yaml:"usage_count" json:"usage_count"`
}
