package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/geokey/geoadmin/internal/models"
	"github.com/geokey/geoadmin/internal/ui/theme"
)

func testCategories() []models.Category {
	return []models.Category{
		{
			ID:   1,
			Name: "Trees",
			Fields: []models.Field{
				{ID: 9, Key: "count", Name: "Count", Type: models.NumericField},
			},
		},
		{ID: 2, Name: "Benches"},
	}
}

func TestFilterBuilderToggleCategory(t *testing.T) {
	fb := NewFilterBuilder(theme.DefaultTheme(), testRegistry(t))
	fb.SetCategories(testCategories())

	if fb.Expression() != "{}" {
		t.Errorf("Fresh builder grants no categories, got '%s'", fb.Expression())
	}

	_, cmd := fb.Update(tea.KeyMsg{Type: tea.KeySpace})
	if cmd == nil {
		t.Fatal("Toggling a category should report a change")
	}
	msg, ok := cmd().(ExpressionChangedMsg)
	if !ok {
		t.Fatalf("Expected ExpressionChangedMsg, got %T", cmd())
	}
	if msg.Expression != `{"1":{}}` {
		t.Errorf("Expected '{\"1\":{}}', got '%s'", msg.Expression)
	}

	// Toggling back off drops the category again.
	_, cmd = fb.Update(tea.KeyMsg{Type: tea.KeySpace})
	msg = cmd().(ExpressionChangedMsg)
	if msg.Expression != "{}" {
		t.Errorf("Expected '{}', got '%s'", msg.Expression)
	}
}

func TestFilterBuilderAllDataToggle(t *testing.T) {
	fb := NewFilterBuilder(theme.DefaultTheme(), testRegistry(t))
	fb.SetCategories(testCategories())

	_, cmd := fb.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}})
	if cmd == nil {
		t.Fatal("Toggling all-data mode should report a change")
	}
	msg := cmd().(ExpressionChangedMsg)
	if msg.Expression != "" {
		t.Errorf("All-data mode should produce an empty expression, got '%s'", msg.Expression)
	}
	if !fb.AllData() {
		t.Error("Builder should be in all-data mode")
	}
}

func TestFilterBuilderRejectsBadNumericBound(t *testing.T) {
	if problem := checkValue(models.NumericField, "abc", "", ""); problem == "" {
		t.Error("Non-numeric bound should be rejected")
	}
	if problem := checkValue(models.NumericField, "3", "", ""); problem != "" {
		t.Errorf("Numeric bound should pass, got '%s'", problem)
	}
	if problem := checkValue(models.DateField, "2014-13-45", "", ""); problem == "" {
		t.Error("Impossible date should be rejected")
	}
	if problem := checkValue(models.DateField, "2014-01-01", "", ""); problem != "" {
		t.Errorf("Valid date should pass, got '%s'", problem)
	}
	if problem := checkValue(models.TextField, "anything", "", ""); problem != "" {
		t.Errorf("Text reference has no format, got '%s'", problem)
	}
	if problem := checkValue(models.NumericField, "", "", ""); problem != "" {
		t.Errorf("Empty bound means unbounded, got '%s'", problem)
	}
}

func TestFilterBuilderEnforcesPropagatedBounds(t *testing.T) {
	if problem := checkValue(models.NumericField, "5", "10", ""); problem == "" {
		t.Error("Max below the entered min should be rejected")
	}
	if problem := checkValue(models.NumericField, "15", "10", ""); problem != "" {
		t.Errorf("Max above the entered min should pass, got '%s'", problem)
	}
	if problem := checkValue(models.DateField, "2014-06-01", "", "2014-01-01"); problem == "" {
		t.Error("Min above the propagated ceiling should be rejected")
	}
}

func TestFilterBuilderFieldPickerUsesTemplate(t *testing.T) {
	fb := NewFilterBuilder(theme.DefaultTheme(), testRegistry(t))
	fb.SetCategories(testCategories())

	fb.Update(tea.KeyMsg{Type: tea.KeySpace})
	fb.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}})

	view := fb.View()
	if !strings.Contains(view, "Select a field of Trees to filter on:") {
		t.Errorf("Expected the picker prompt in the view, got:\n%s", view)
	}
	if !strings.Contains(view, "created_at - Created (DateCreated)") {
		t.Errorf("Expected the created-date row in the view, got:\n%s", view)
	}
	if !strings.Contains(view, "count - Count (NumericField)") {
		t.Errorf("Expected the field row in the view, got:\n%s", view)
	}
}
