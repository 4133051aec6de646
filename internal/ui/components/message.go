package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/geokey/geoadmin/internal/ui/theme"
)

// MessageLevel classifies a flash message
type MessageLevel int

const (
	MessageSuccess MessageLevel = iota
	MessageError
	MessageInfo
)

// MessageExpiredMsg is sent when a flash message should be dismissed
type MessageExpiredMsg struct {
	Anchor string
	Seq    int
}

// Message displays a transient status banner. Showing a new message
// bumps the sequence number so a pending expiry for an older message
// cannot dismiss the new one. The anchor tells expiries apart when
// several banners are on screen.
type Message struct {
	Theme    theme.Theme
	Anchor   string
	Duration time.Duration
	Width    int

	text  string
	level MessageLevel
	seq   int
}

// NewMessage creates a flash message banner
func NewMessage(th theme.Theme, anchor string, duration time.Duration) *Message {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return &Message{
		Theme:    th,
		Anchor:   anchor,
		Duration: duration,
	}
}

// Show displays a message and schedules its dismissal
func (m *Message) Show(text string, level MessageLevel) tea.Cmd {
	m.text = text
	m.level = level
	m.seq++
	seq := m.seq
	anchor := m.Anchor
	return tea.Tick(m.Duration, func(time.Time) tea.Msg {
		return MessageExpiredMsg{Anchor: anchor, Seq: seq}
	})
}

// Expire dismisses the message if the expiry is still current
func (m *Message) Expire(msg MessageExpiredMsg) {
	if msg.Anchor == m.Anchor && msg.Seq == m.seq {
		m.text = ""
	}
}

// Dismiss clears the message immediately
func (m *Message) Dismiss() {
	m.text = ""
	m.seq++
}

// Active reports whether a message is currently shown
func (m *Message) Active() bool {
	return m.text != ""
}

// View renders the message banner
func (m *Message) View() string {
	if m.text == "" {
		return ""
	}

	var color lipgloss.Color
	switch m.level {
	case MessageSuccess:
		color = m.Theme.Success
	case MessageError:
		color = m.Theme.Error
	default:
		color = m.Theme.Info
	}

	style := lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Padding(0, 1)
	if m.Width > 0 {
		style = style.Width(m.Width)
	}

	return style.Render(m.text)
}
