package session

import (
	"testing"

	"github.com/zalando/go-keyring"

	"github.com/geokey/geoadmin/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	keyring.MockInit()
	m, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	return m
}

func TestAddRecordsServer(t *testing.T) {
	m := newTestManager(t)

	err := m.Add(models.ServerConfig{
		BaseURL:    "https://geokey.example.org",
		Username:   "carlos",
		CSRFCookie: "csrftoken",
	}, "")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	all := m.GetAll()
	if len(all) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(all))
	}
	e := all[0]
	if e.ID == "" {
		t.Error("expected a generated ID")
	}
	if e.BaseURL != "https://geokey.example.org" || e.CSRFCookie != "csrftoken" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.UsageCount != 1 {
		t.Errorf("expected usage count 1, got %d", e.UsageCount)
	}
}

func TestAddBumpsUsageForKnownServer(t *testing.T) {
	m := newTestManager(t)
	cfg := models.ServerConfig{BaseURL: "https://geokey.example.org", Username: "carlos"}

	if err := m.Add(cfg, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := m.Add(cfg, ""); err != nil {
		t.Fatalf("second Add failed: %v", err)
	}

	all := m.GetAll()
	if len(all) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(all))
	}
	if all[0].UsageCount != 2 {
		t.Errorf("expected usage count 2, got %d", all[0].UsageCount)
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	m := newTestManager(t)
	cfg := models.ServerConfig{BaseURL: "https://geokey.example.org", Username: "carlos"}

	if err := m.Add(cfg, "session-token-value"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	entry := m.GetAll()[0]
	token, err := m.SessionToken(entry)
	if err != nil {
		t.Fatalf("SessionToken failed: %v", err)
	}
	if token != "session-token-value" {
		t.Errorf("expected stored token, got %q", token)
	}
}

func TestRemoveDeletesEntry(t *testing.T) {
	m := newTestManager(t)

	if err := m.Add(models.ServerConfig{BaseURL: "https://geokey.example.org"}, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	id := m.GetAll()[0].ID

	if err := m.Remove(id); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if len(m.GetAll()) != 0 {
		t.Error("expected empty history after removal")
	}
	if err := m.Remove(id); err == nil {
		t.Error("expected error removing an unknown ID")
	}
}

func TestPersistsAcrossReload(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()

	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if err := m.Add(models.ServerConfig{BaseURL: "https://geokey.example.org"}, ""); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	reloaded, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager reload failed: %v", err)
	}
	all := reloaded.GetAll()
	if len(all) != 1 {
		t.Fatalf("expected 1 entry after reload, got %d", len(all))
	}
	if all[0].BaseURL != "https://geokey.example.org" {
		t.Errorf("unexpected entry after reload: %+v", all[0])
	}
}
