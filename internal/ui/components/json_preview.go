package components

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/geokey/geoadmin/internal/ui/theme"
)

// JSONPreview renders a filter expression as pretty-printed JSON
type JSONPreview struct {
	Width  int
	Height int
	Theme  theme.Theme

	raw       string
	formatted string
	offset    int
}

// NewJSONPreview creates a JSON preview pane
func NewJSONPreview(th theme.Theme) *JSONPreview {
	return &JSONPreview{
		Width:  60,
		Height: 20,
		Theme:  th,
	}
}

// SetExpression sets the expression to display. An empty expression
// means all data is included and renders a placeholder instead.
func (jp *JSONPreview) SetExpression(expr string) error {
	jp.raw = expr
	jp.offset = 0

	if expr == "" {
		jp.formatted = ""
		return nil
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(expr), &parsed); err != nil {
		return fmt.Errorf("invalid expression: %w", err)
	}
	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format expression: %w", err)
	}
	jp.formatted = string(pretty)
	return nil
}

// Expression returns the raw expression string
func (jp *JSONPreview) Expression() string {
	return jp.raw
}

// ScrollUp moves the view up one line
func (jp *JSONPreview) ScrollUp() {
	if jp.offset > 0 {
		jp.offset--
	}
}

// ScrollDown moves the view down one line
func (jp *JSONPreview) ScrollDown() {
	lines := strings.Count(jp.formatted, "\n") + 1
	if jp.offset < lines-1 {
		jp.offset++
	}
}

// View renders the preview pane
func (jp *JSONPreview) View() string {
	if jp.formatted == "" {
		placeholder := lipgloss.NewStyle().
			Foreground(jp.Theme.ListMuted).
			Italic(true).
			Padding(0, 1)
		return placeholder.Render("All data included, no filter applied")
	}

	lines := strings.Split(jp.formatted, "\n")
	if jp.offset > len(lines)-1 {
		jp.offset = len(lines) - 1
	}
	lines = lines[jp.offset:]
	if jp.Height > 0 && len(lines) > jp.Height {
		lines = lines[:jp.Height]
		lines = append(lines, "...")
	}

	for i, line := range lines {
		lines[i] = jp.colorize(line)
	}

	style := lipgloss.NewStyle().Padding(0, 1)
	return style.Render(strings.Join(lines, "\n"))
}

func (jp *JSONPreview) colorize(line string) string {
	keyStyle := lipgloss.NewStyle().Foreground(jp.Theme.JSONKey)
	strStyle := lipgloss.NewStyle().Foreground(jp.Theme.JSONString)
	numStyle := lipgloss.NewStyle().Foreground(jp.Theme.JSONNumber)
	boolStyle := lipgloss.NewStyle().Foreground(jp.Theme.JSONBoolean)
	nullStyle := lipgloss.NewStyle().Foreground(jp.Theme.JSONNull)

	idx := strings.Index(line, "\": ")
	if idx < 0 {
		return line
	}

	key := line[:idx+1]
	value := strings.TrimSuffix(line[idx+3:], ",")
	suffix := ""
	if strings.HasSuffix(line, ",") {
		suffix = ","
	}

	var rendered string
	switch {
	case strings.HasPrefix(value, "\""):
		rendered = strStyle.Render(value)
	case value == "true" || value == "false":
		rendered = boolStyle.Render(value)
	case value == "null":
		rendered = nullStyle.Render(value)
	case value == "{" || value == "[":
		rendered = value
	default:
		rendered = numStyle.Render(value)
	}

	return keyStyle.Render(key) + ": " + rendered + suffix
}
