package theme

import "github.com/charmbracelet/lipgloss"

// CatppuccinMochaTheme returns the Catppuccin Mocha theme
// A soothing pastel theme for cozy TUIs
// Based on: https://github.com/catppuccin/catppuccin
func CatppuccinMochaTheme() Theme {
	return Theme{
		Name: "catppuccin-mocha",

		// Background colors
		Background: lipgloss.Color("#1e1e2e"), // Base
		Foreground: lipgloss.Color("#cdd6f4"), // Text

		// UI elements
		Border:        lipgloss.Color("#45475a"), // Surface1
		BorderFocused: lipgloss.Color("#89b4fa"), // Blue
		Selection:     lipgloss.Color("#313244"), // Surface0
		Cursor:        lipgloss.Color("#f5e0dc"), // Rosewater

		// Status colors
		Success: lipgloss.Color("#a6e3a1"), // Green
		Warning: lipgloss.Color("#f9e2af"), // Yellow
		Error:   lipgloss.Color("#f38ba8"), // Red
		Info:    lipgloss.Color("#89dceb"), // Sky

		// List colors
		ListHeader:   lipgloss.Color("#89b4fa"), // Blue
		ListSelected: lipgloss.Color("#313244"), // Surface0
		ListMuted:    lipgloss.Color("#6c7086"), // Overlay0

		// Filter rule colors
		CategoryEnabled:  lipgloss.Color("#a6e3a1"), // Green
		CategoryDisabled: lipgloss.Color("#6c7086"), // Overlay0
		ConstraintKey:    lipgloss.Color("#89b4fa"), // Blue
		ConstraintValue:  lipgloss.Color("#a6e3a1"), // Green

		// JSON preview colors
		JSONKey:     lipgloss.Color("#89b4fa"), // Blue
		JSONString:  lipgloss.Color("#a6e3a1"), // Green
		JSONNumber:  lipgloss.Color("#fab387"), // Peach
		JSONBoolean: lipgloss.Color("#f9e2af"), // Yellow
		JSONNull:    lipgloss.Color("#6c7086"), // Overlay0
	}
}
