package theme

import "github.com/charmbracelet/lipgloss"

// DefaultTheme returns the default dark theme
func DefaultTheme() Theme {
	return Theme{
		Name: "default",

		// Background colors
		Background: lipgloss.Color("235"),
		Foreground: lipgloss.Color("252"),

		// UI elements
		Border:        lipgloss.Color("240"),
		BorderFocused: lipgloss.Color("62"),
		Selection:     lipgloss.Color("237"),
		Cursor:        lipgloss.Color("248"),

		// Status colors
		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("220"),
		Error:   lipgloss.Color("196"),
		Info:    lipgloss.Color("75"),

		// List colors
		ListHeader:   lipgloss.Color("62"),
		ListSelected: lipgloss.Color("237"),
		ListMuted:    lipgloss.Color("244"),

		// Filter rule colors
		CategoryEnabled:  lipgloss.Color("42"),
		CategoryDisabled: lipgloss.Color("244"),
		ConstraintKey:    lipgloss.Color("117"),
		ConstraintValue:  lipgloss.Color("180"),

		// JSON preview colors
		JSONKey:     lipgloss.Color("117"),
		JSONString:  lipgloss.Color("180"),
		JSONNumber:  lipgloss.Color("150"),
		JSONBoolean: lipgloss.Color("75"),
		JSONNull:    lipgloss.Color("244"),
	}
}
