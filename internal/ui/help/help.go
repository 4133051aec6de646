package help

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key         string
	Description string
}

// GetGlobalKeys returns global key bindings
func GetGlobalKeys() []KeyBinding {
	return []KeyBinding{
		{"?", "Toggle help"},
		{"q, Ctrl+C", "Quit application"},
		{"Esc/Enter", "Dismiss error"},
		{"Tab", "Switch panel focus"},
		{"1", "Filter builder view"},
		{"2", "Lookup values view"},
		{"3", "User group view"},
		{"4", "Category field overview"},
		{"Shift+P", "Toggle project public/private"},
		{"Shift+A", "Toggle category active/inactive"},
		{"r, F5", "Refresh current view"},
		{"Shift+E", "Export group members to CSV"},
		{"Shift+X", "Export saved filters to CSV and JSON"},
	}
}

// GetFilterKeys returns filter builder key bindings
func GetFilterKeys() []KeyBinding {
	return []KeyBinding{
		{"Space", "Enable/disable category"},
		{"a", "Add constraint to category"},
		{"e", "Edit constraint value"},
		{"d", "Remove constraint"},
		{"t", "Toggle all-data mode"},
		{"c", "Copy expression to clipboard"},
		{"s", "Submit filter to server"},
		{"Ctrl+S", "Save filter locally"},
		{"PgUp/PgDn", "Scroll JSON preview"},
	}
}

// GetLookupKeys returns lookup value key bindings
func GetLookupKeys() []KeyBinding {
	return []KeyBinding{
		{"n", "Add new value"},
		{"e", "Edit value label"},
		{"y", "Edit value symbol"},
		{"d", "Remove value"},
		{"Enter", "Confirm input"},
	}
}

// GetNavigationKeys returns navigation key bindings
func GetNavigationKeys() []KeyBinding {
	return []KeyBinding{
		{"↑/k", "Move up"},
		{"↓/j", "Move down"},
		{"←/h", "Collapse or move left"},
		{"→/l", "Expand or move right"},
		{"Enter", "Select item"},
		{"Backspace", "Go to parent"},
	}
}

// Render creates the help view
func Render(width, height int, theme lipgloss.Style) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("62")).
		Padding(1, 0)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("75")).
		Padding(0, 0, 0, 2)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render("geoadmin - Keyboard Shortcuts"))
	b.WriteString("\n\n")

	// Global keys
	b.WriteString(sectionStyle.Render("Global"))
	b.WriteString("\n")
	for _, kb := range GetGlobalKeys() {
		b.WriteString("  ")
		b.WriteString(keyStyle.Render(kb.Key))
		b.WriteString(descStyle.Render(kb.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Navigation keys
	b.WriteString(sectionStyle.Render("Navigation"))
	b.WriteString("\n")
	for _, kb := range GetNavigationKeys() {
		b.WriteString("  ")
		b.WriteString(keyStyle.Render(kb.Key))
		b.WriteString(descStyle.Render(kb.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Filter builder keys
	b.WriteString(sectionStyle.Render("Filter Builder"))
	b.WriteString("\n")
	for _, kb := range GetFilterKeys() {
		b.WriteString("  ")
		b.WriteString(keyStyle.Render(kb.Key))
		b.WriteString(descStyle.Render(kb.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Lookup value keys
	b.WriteString(sectionStyle.Render("Lookup Values"))
	b.WriteString("\n")
	for _, kb := range GetLookupKeys() {
		b.WriteString("  ")
		b.WriteString(keyStyle.Render(kb.Key))
		b.WriteString(descStyle.Render(kb.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(lipgloss.NewStyle().Faint(true).Render("Press '?' or Esc to close help"))

	// Wrap in a box
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(width - 4).
		Height(height - 4)

	return boxStyle.Render(b.String())
}
