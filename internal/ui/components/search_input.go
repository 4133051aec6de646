package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/geokey/geoadmin/internal/ui/theme"
)

// QueryMsg is sent when a type-ahead lookup should be executed
type QueryMsg struct {
	Query string
	Seq   int
}

// ClearResultsMsg is sent when the query drops below the minimum length
type ClearResultsMsg struct{}

// CloseSearchMsg is sent when the search input should be closed
type CloseSearchMsg struct{}

// SearchInput provides a type-ahead search box. Each issued query carries
// a sequence number so responses that arrive out of order can be dropped.
type SearchInput struct {
	Input     textinput.Model
	MinLength int
	Theme     theme.Theme
	Width     int
	Visible   bool

	lastQuery string
	seq       int
	inFlight  int
}

// NewSearchInput creates a new search input
func NewSearchInput(th theme.Theme, minLength int) *SearchInput {
	ti := textinput.New()
	ti.Placeholder = "Type to find users..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 40
	ti.Cursor.Style = lipgloss.NewStyle().Foreground(th.Cursor)

	if minLength <= 0 {
		minLength = 2
	}

	return &SearchInput{
		Input:     ti,
		MinLength: minLength,
		Theme:     th,
	}
}

// Reset clears the search input and discards any pending responses
func (s *SearchInput) Reset() {
	s.Input.SetValue("")
	s.lastQuery = ""
	s.seq++
	s.inFlight = 0
}

// Seq returns the sequence number of the most recent query
func (s *SearchInput) Seq() int {
	return s.seq
}

// Loading reports whether any lookup is still in flight
func (s *SearchInput) Loading() bool {
	return s.inFlight > 0
}

// Accept records a finished lookup and reports whether its result is
// still current. Results for superseded queries must be discarded.
func (s *SearchInput) Accept(seq int) bool {
	if s.inFlight > 0 {
		s.inFlight--
	}
	return seq == s.seq
}

// Update handles messages
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return s, func() tea.Msg {
			return CloseSearchMsg{}
		}
	}

	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)

	query := s.Input.Value()
	if query == s.lastQuery {
		return s, cmd
	}
	s.lastQuery = query

	if len(query) < s.MinLength {
		s.seq++
		s.inFlight = 0
		return s, tea.Batch(cmd, func() tea.Msg {
			return ClearResultsMsg{}
		})
	}

	s.seq++
	s.inFlight++
	seq := s.seq
	return s, tea.Batch(cmd, func() tea.Msg {
		return QueryMsg{Query: query, Seq: seq}
	})
}

// View renders the search input
func (s *SearchInput) View() string {
	indicator := " "
	if s.Loading() {
		indicator = "…"
	}

	indicatorStyle := lipgloss.NewStyle().
		Foreground(s.Theme.Info).
		Bold(true)

	inputWidth := s.Width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.Input.Width = inputWidth

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Theme.BorderFocused).
		Padding(0, 1).
		Width(s.Width)

	helpStyle := lipgloss.NewStyle().
		Foreground(s.Theme.ListMuted).
		Italic(true)

	content := s.Input.View() + " " + indicatorStyle.Render(indicator)
	helpText := helpStyle.Render("Enter: add selected │ Esc: close")

	return boxStyle.Render(content + "\n" + helpText)
}
