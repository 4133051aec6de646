package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/geokey/geoadmin/internal/models"
)

func testFilters() []models.SavedFilter {
	return []models.SavedFilter{
		{
			ID:          "test-1",
			Name:        "Tree surveys 2024",
			Description: "Constraints with commas, quotes \"and\" special chars",
			Expression:  `{"1":{"count":{"minval":"3"}}}`,
			Tags:        []string{"trees", "2024"},
			Server:      "production",
			ProjectID:   3,
			CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			UpdatedAt:   time.Date(2024, 1, 2, 12, 0, 0, 0, time.UTC),
			LastUsed:    time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC),
			UsageCount:  5,
		},
		{
			ID:         "test-2",
			Name:       "Benches",
			Expression: `{"2":{}}`,
			Tags:       []string{"benches"},
			Server:     "production",
			ProjectID:  3,
			CreatedAt:  time.Date(2024, 1, 1, 13, 0, 0, 0, time.UTC),
			UpdatedAt:  time.Date(2024, 1, 2, 13, 0, 0, 0, time.UTC),
			UsageCount: 2,
		},
	}
}

func TestExportToCSV(t *testing.T) {
	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "test.csv")

	if err := ExportToCSV(testFilters(), csvPath); err != nil {
		t.Fatalf("ExportToCSV failed: %v", err)
	}

	file, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) != 3 { // header + 2 rows
		t.Fatalf("Expected 3 records, got %d", len(records))
	}

	expectedHeader := []string{"Name", "Description", "Expression", "Tags", "Server", "Project", "Created", "Updated", "Last Used", "Usage Count"}
	if !slicesEqual(records[0], expectedHeader) {
		t.Errorf("Header mismatch.\nExpected: %v\nGot: %v", expectedHeader, records[0])
	}

	row1 := records[1]
	if row1[0] != "Tree surveys 2024" {
		t.Errorf("Expected name 'Tree surveys 2024', got '%s'", row1[0])
	}
	if row1[2] != `{"1":{"count":{"minval":"3"}}}` {
		t.Errorf("Expected raw expression, got '%s'", row1[2])
	}
	if row1[3] != "trees, 2024" {
		t.Errorf("Expected tags 'trees, 2024', got '%s'", row1[3])
	}
	if row1[9] != "5" {
		t.Errorf("Expected usage count '5', got '%s'", row1[9])
	}

	// The second filter was never used.
	if records[2][8] != "" {
		t.Errorf("Expected empty last-used for unused filter, got '%s'", records[2][8])
	}
}

func TestExportToJSON(t *testing.T) {
	tmpDir := t.TempDir()
	jsonPath := filepath.Join(tmpDir, "test.json")

	if err := ExportToJSON(testFilters()[:1], jsonPath); err != nil {
		t.Fatalf("ExportToJSON failed: %v", err)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("Failed to read JSON: %v", err)
	}

	var parsed []models.SavedFilter
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Failed to parse JSON: %v", err)
	}

	if len(parsed) != 1 {
		t.Fatalf("Expected 1 filter, got %d", len(parsed))
	}
	if parsed[0].Expression != `{"1":{"count":{"minval":"3"}}}` {
		t.Errorf("Expression round-trip failed, got '%s'", parsed[0].Expression)
	}

	// Output is pretty-printed.
	if !strings.Contains(string(data), "\n") || !strings.Contains(string(data), "  ") {
		t.Error("JSON should be pretty-printed and indented")
	}
}

func TestExportMembersToCSV(t *testing.T) {
	group := &models.UserGroup{
		ID:   2,
		Name: "Editors",
		Users: []models.User{
			{ID: 11, DisplayName: "Oliver"},
			{ID: 12, DisplayName: "Maria"},
		},
	}

	tmpDir := t.TempDir()
	csvPath := filepath.Join(tmpDir, "members.csv")

	if err := ExportMembersToCSV(group, csvPath); err != nil {
		t.Fatalf("ExportMembersToCSV failed: %v", err)
	}

	file, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[1][1] != "Oliver" || records[2][1] != "Maria" {
		t.Errorf("Member rows mismatch: %v", records)
	}
}

func TestExportEmptyFilters(t *testing.T) {
	tmpDir := t.TempDir()

	csvPath := filepath.Join(tmpDir, "empty.csv")
	if err := ExportToCSV([]models.SavedFilter{}, csvPath); err != nil {
		t.Fatalf("ExportToCSV with empty list failed: %v", err)
	}

	file, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("Failed to open CSV: %v", err)
	}
	defer func() { _ = file.Close() }()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) != 1 { // Only header
		t.Errorf("Expected 1 record (header), got %d", len(records))
	}
}

// Helper function to compare slices
func slicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
