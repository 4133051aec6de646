package components

import (
	"strings"
	"testing"

	"github.com/geokey/geoadmin/internal/ui/theme"
)

func TestJSONPreviewEmptyExpressionShowsPlaceholder(t *testing.T) {
	jp := NewJSONPreview(theme.DefaultTheme())

	if err := jp.SetExpression(""); err != nil {
		t.Fatalf("SetExpression failed: %v", err)
	}
	if jp.Expression() != "" {
		t.Errorf("Expected empty raw expression, got %q", jp.Expression())
	}
	if !strings.Contains(jp.View(), "All data included") {
		t.Errorf("Expected placeholder, got %q", jp.View())
	}
}

func TestJSONPreviewPrettyPrints(t *testing.T) {
	jp := NewJSONPreview(theme.DefaultTheme())

	expr := `{"1":{"count":{"minval":5}}}`
	if err := jp.SetExpression(expr); err != nil {
		t.Fatalf("SetExpression failed: %v", err)
	}
	if jp.Expression() != expr {
		t.Errorf("Expected raw expression to be kept, got %q", jp.Expression())
	}
	out := jp.View()
	if !strings.Contains(out, "minval") {
		t.Errorf("Expected formatted output, got %q", out)
	}
	if !strings.Contains(out, "\n") {
		t.Error("Expected multi-line output")
	}
}

func TestJSONPreviewRejectsInvalidJSON(t *testing.T) {
	jp := NewJSONPreview(theme.DefaultTheme())

	if err := jp.SetExpression(`{"1":`); err == nil {
		t.Error("Expected an error for invalid JSON")
	}
}

func TestJSONPreviewScrollClamps(t *testing.T) {
	jp := NewJSONPreview(theme.DefaultTheme())

	if err := jp.SetExpression(`{"1":{"count":{"minval":5,"maxval":9}}}`); err != nil {
		t.Fatalf("SetExpression failed: %v", err)
	}

	jp.ScrollUp()
	if jp.offset != 0 {
		t.Errorf("ScrollUp at top should clamp, offset %d", jp.offset)
	}

	for i := 0; i < 100; i++ {
		jp.ScrollDown()
	}
	lines := strings.Count(jp.formatted, "\n") + 1
	if jp.offset != lines-1 {
		t.Errorf("ScrollDown should clamp at %d, got %d", lines-1, jp.offset)
	}

	if err := jp.SetExpression(`{"2":{}}`); err != nil {
		t.Fatalf("SetExpression failed: %v", err)
	}
	if jp.offset != 0 {
		t.Error("SetExpression should reset the scroll offset")
	}
}
