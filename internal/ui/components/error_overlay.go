package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/geokey/geoadmin/internal/ui/theme"
)

// ErrorOverlay displays a blocking error dialog
type ErrorOverlay struct {
	Theme theme.Theme
	Width int

	title   string
	message string
}

// NewErrorOverlay creates an error overlay
func NewErrorOverlay(th theme.Theme) *ErrorOverlay {
	return &ErrorOverlay{
		Theme: th,
		Width: 60,
	}
}

// SetError sets the error to display
func (eo *ErrorOverlay) SetError(title, message string) {
	eo.title = title
	eo.message = message
}

// View renders the overlay
func (eo *ErrorOverlay) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(eo.Theme.Error).
		Bold(true).
		Padding(0, 1)

	messageStyle := lipgloss.NewStyle().
		Foreground(eo.Theme.Foreground).
		Padding(1, 1)

	hintStyle := lipgloss.NewStyle().
		Foreground(eo.Theme.ListMuted).
		Italic(true).
		Padding(0, 1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(eo.title))
	b.WriteString("\n")
	b.WriteString(messageStyle.Render(eo.message))
	b.WriteString("\n")
	b.WriteString(hintStyle.Render("Press Esc or Enter to dismiss"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(eo.Theme.Error).
		Background(eo.Theme.Background).
		Padding(1, 2).
		Width(eo.Width)

	return boxStyle.Render(b.String())
}
