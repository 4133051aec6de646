package history

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAddAndGetRecent(t *testing.T) {
	store := newTestStore(t)

	err := store.Add(Entry{
		ServerName:  "https://geokey.example.org",
		ProjectID:   3,
		UserGroupID: 2,
		Expression:  `{"1":{"count":{"minval":5}}}`,
		Duration:    120 * time.Millisecond,
		Success:     true,
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	entries, err := store.GetRecent(10)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	e := entries[0]
	if e.ProjectID != 3 || e.UserGroupID != 2 {
		t.Errorf("unexpected target: project %d, group %d", e.ProjectID, e.UserGroupID)
	}
	if e.Duration != 120*time.Millisecond {
		t.Errorf("expected 120ms duration, got %v", e.Duration)
	}
	if !e.Success {
		t.Error("expected success flag to survive the round trip")
	}
}

func TestGetRecentLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		err := store.Add(Entry{
			ServerName: "server",
			Expression: "{}",
			Success:    true,
		})
		if err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	entries, err := store.GetRecent(3)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 entries, got %d", len(entries))
	}
}

func TestSearchMatchesExpressionText(t *testing.T) {
	store := newTestStore(t)

	expressions := []string{
		`{"1":{"count":{"minval":5}}}`,
		`{"2":{}}`,
		"",
	}
	for _, expr := range expressions {
		if err := store.Add(Entry{ServerName: "server", Expression: expr, Success: true}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	entries, err := store.Search("minval", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 match, got %d", len(entries))
	}
	if entries[0].Expression != expressions[0] {
		t.Errorf("unexpected match: %q", entries[0].Expression)
	}
}

func TestRecordsFailedSubmissions(t *testing.T) {
	store := newTestStore(t)

	err := store.Add(Entry{
		ServerName:   "server",
		Expression:   "{}",
		Success:      false,
		ErrorMessage: "API error 403",
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	entries, err := store.GetRecent(1)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if entries[0].Success {
		t.Error("expected failure flag")
	}
	if entries[0].ErrorMessage != "API error 403" {
		t.Errorf("expected error message, got %q", entries[0].ErrorMessage)
	}
}

func TestPruneKeepsMostRecent(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 10; i++ {
		if err := store.Add(Entry{ServerName: "server", Expression: "{}", Success: true}); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	if err := store.Prune(4); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}

	entries, err := store.GetRecent(100)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("expected 4 entries after prune, got %d", len(entries))
	}
}
