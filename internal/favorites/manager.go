package favorites

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/geokey/geoadmin/internal/models"
)

// Manager manages saved filter expressions
type Manager struct {
	path  string
	saved []models.SavedFilter
}

// NewManager creates a new saved-filter manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "saved_filters.yaml")

	m := &Manager{
		path:  path,
		saved: []models.SavedFilter{},
	}

	// Load existing entries if the file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load saved filters: %w", err)
		}
	}

	return m, nil
}

// Load loads saved filters from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read saved filters file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.saved); err != nil {
		return fmt.Errorf("failed to parse saved filters: %w", err)
	}

	return nil
}

// Save writes saved filters to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.saved)
	if err != nil {
		return fmt.Errorf("failed to marshal saved filters: %w", err)
	}

	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write saved filters file: %w", err)
	}

	return nil
}

// Add adds a new saved filter
func (m *Manager) Add(name, description, expression, server string, projectID int, tags []string) (*models.SavedFilter, error) {
	name = strings.TrimSpace(name)
	expression = strings.TrimSpace(expression)

	if name == "" {
		return nil, fmt.Errorf("filter name cannot be empty")
	}
	if expression == "" {
		return nil, fmt.Errorf("filter expression cannot be empty")
	}

	// Names are case-insensitive and must be unique.
	for _, f := range m.saved {
		if strings.EqualFold(f.Name, name) {
			return nil, fmt.Errorf("a saved filter with the name '%s' already exists (names are case-insensitive)", name)
		}
	}

	saved := models.SavedFilter{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Expression:  expression,
		Server:      server,
		ProjectID:   projectID,
		Tags:        tags,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	m.saved = append(m.saved, saved)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save filter: %w", err)
	}

	return &saved, nil
}

// Update updates an existing saved filter
func (m *Manager) Update(id string, name, description, expression string, tags []string) error {
	name = strings.TrimSpace(name)
	expression = strings.TrimSpace(expression)

	if name == "" {
		return fmt.Errorf("filter name cannot be empty")
	}
	if expression == "" {
		return fmt.Errorf("filter expression cannot be empty")
	}

	for _, f := range m.saved {
		if f.ID != id && strings.EqualFold(f.Name, name) {
			return fmt.Errorf("a saved filter with the name '%s' already exists (names are case-insensitive)", name)
		}
	}

	for i, f := range m.saved {
		if f.ID == id {
			m.saved[i].Name = name
			m.saved[i].Description = strings.TrimSpace(description)
			m.saved[i].Expression = expression
			m.saved[i].Tags = tags
			m.saved[i].UpdatedAt = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save filter: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("saved filter with ID '%s' was not found", id)
}

// Delete deletes a saved filter by ID
func (m *Manager) Delete(id string) error {
	for i, f := range m.saved {
		if f.ID == id {
			m.saved = append(m.saved[:i], m.saved[i+1:]...)
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save filters after deletion: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("saved filter with ID '%s' was not found", id)
}

// Get returns a saved filter by ID
func (m *Manager) Get(id string) (*models.SavedFilter, error) {
	for _, f := range m.saved {
		if f.ID == id {
			return &f, nil
		}
	}
	return nil, fmt.Errorf("saved filter with ID '%s' was not found", id)
}

// GetAll returns all saved filters
func (m *Manager) GetAll() []models.SavedFilter {
	return m.saved
}

// Search searches saved filters by name, description, or tags
func (m *Manager) Search(query string) []models.SavedFilter {
	if query == "" {
		return m.saved
	}

	query = strings.ToLower(query)
	var results []models.SavedFilter

	for _, f := range m.saved {
		if strings.Contains(strings.ToLower(f.Name), query) {
			results = append(results, f)
			continue
		}
		if strings.Contains(strings.ToLower(f.Description), query) {
			results = append(results, f)
			continue
		}
		for _, tag := range f.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				results = append(results, f)
				break
			}
		}
	}

	return results
}

// RecordUsage updates usage statistics for a saved filter
func (m *Manager) RecordUsage(id string) error {
	for i, f := range m.saved {
		if f.ID == id {
			m.saved[i].UsageCount++
			m.saved[i].LastUsed = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save usage statistics: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("saved filter with ID '%s' was not found", id)
}

// GetRecent returns the most recently used saved filters
func (m *Manager) GetRecent(limit int) []models.SavedFilter {
	sorted := make([]models.SavedFilter, len(m.saved))
	copy(sorted, m.saved)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}
