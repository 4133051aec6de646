package components

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/geokey/geoadmin/internal/models"
	"github.com/geokey/geoadmin/internal/templates"
	"github.com/geokey/geoadmin/internal/ui/theme"
)

// LookupMode represents the panel mode
type LookupMode int

const (
	LookupModeList LookupMode = iota
	LookupModeAdd
	LookupModeEditLabel
	LookupModeEditSymbol
)

// AddLookupValueMsg is sent when a new value should be created
type AddLookupValueMsg struct {
	Name string
}

// RenameLookupValueMsg is sent when a value's label should change
type RenameLookupValueMsg struct {
	ID   int
	Name string
}

// SetLookupSymbolMsg is sent when a value's symbol should change
type SetLookupSymbolMsg struct {
	ID     int
	Symbol string
}

// RemoveLookupValueMsg is sent when a value should be removed
type RemoveLookupValueMsg struct {
	ID int
}

// LookupPanel manages the lookup values of a field. While a request is
// in flight the panel is locked so the same edit cannot be sent twice.
// The value list is re-rendered from the template registry after every
// mutation.
type LookupPanel struct {
	Width  int
	Height int
	Theme  theme.Theme

	FieldName string

	registry *templates.Registry

	mode     LookupMode
	values   []models.LookupValue
	selected int
	offset   int
	busy     bool

	input string
}

// NewLookupPanel creates a lookup value panel
func NewLookupPanel(th theme.Theme, reg *templates.Registry) *LookupPanel {
	return &LookupPanel{
		Width:    60,
		Height:   25,
		Theme:    th,
		registry: reg,
		mode:     LookupModeList,
		values:   []models.LookupValue{},
	}
}

// SetValues replaces the whole value list. The server returns the full
// list after a create, so additions come through here.
func (lp *LookupPanel) SetValues(values []models.LookupValue) {
	lp.values = values
	if lp.selected >= len(values) {
		lp.selected = len(values) - 1
	}
	if lp.selected < 0 {
		lp.selected = 0
	}
	lp.busy = false
	lp.mode = LookupModeList
	lp.input = ""
}

// UpdateValue applies an edit to a single value in place
func (lp *LookupPanel) UpdateValue(updated models.LookupValue) {
	for i, v := range lp.values {
		if v.ID == updated.ID {
			lp.values[i] = updated
			break
		}
	}
	lp.busy = false
	lp.mode = LookupModeList
	lp.input = ""
}

// DropValue removes a single value from the list
func (lp *LookupPanel) DropValue(id int) {
	for i, v := range lp.values {
		if v.ID == id {
			lp.values = append(lp.values[:i], lp.values[i+1:]...)
			break
		}
	}
	if lp.selected >= len(lp.values) && lp.selected > 0 {
		lp.selected--
	}
	lp.busy = false
}

// Unlock re-enables input after a failed request
func (lp *LookupPanel) Unlock() {
	lp.busy = false
}

// Busy reports whether a request is in flight
func (lp *LookupPanel) Busy() bool {
	return lp.busy
}

// Editing reports whether the panel is capturing text input
func (lp *LookupPanel) Editing() bool {
	return lp.mode != LookupModeList
}

// Values returns the current value list
func (lp *LookupPanel) Values() []models.LookupValue {
	return lp.values
}

// Update handles keyboard input
func (lp *LookupPanel) Update(msg tea.KeyMsg) (*LookupPanel, tea.Cmd) {
	if lp.mode == LookupModeList {
		return lp.handleListMode(msg)
	}
	return lp.handleInputMode(msg)
}

func (lp *LookupPanel) handleListMode(msg tea.KeyMsg) (*LookupPanel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if lp.selected > 0 {
			lp.selected--
			if lp.selected < lp.offset {
				lp.offset = lp.selected
			}
		}
	case "down", "j":
		if lp.selected < len(lp.values)-1 {
			lp.selected++
			visibleHeight := lp.Height - 6
			if lp.selected >= lp.offset+visibleHeight {
				lp.offset = lp.selected - visibleHeight + 1
			}
		}
	case "n", "a":
		if !lp.busy {
			lp.mode = LookupModeAdd
			lp.input = ""
		}
	case "e":
		if !lp.busy && lp.selected < len(lp.values) {
			lp.mode = LookupModeEditLabel
			lp.input = lp.values[lp.selected].Name
		}
	case "y":
		if !lp.busy && lp.selected < len(lp.values) {
			lp.mode = LookupModeEditSymbol
			lp.input = lp.values[lp.selected].Symbol
		}
	case "d", "x":
		if !lp.busy && lp.selected < len(lp.values) {
			lp.busy = true
			id := lp.values[lp.selected].ID
			return lp, func() tea.Msg {
				return RemoveLookupValueMsg{ID: id}
			}
		}
	}
	return lp, nil
}

func (lp *LookupPanel) handleInputMode(msg tea.KeyMsg) (*LookupPanel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		lp.mode = LookupModeList
		lp.input = ""
	case "backspace":
		if len(lp.input) > 0 {
			lp.input = lp.input[:len(lp.input)-1]
		}
	case "enter":
		return lp.confirmInput()
	default:
		if len(msg.String()) == 1 {
			lp.input += msg.String()
		}
	}
	return lp, nil
}

// confirmInput issues the request for the open form. The form stays
// open until the response arrives, so a failed edit can be retried
// without retyping.
func (lp *LookupPanel) confirmInput() (*LookupPanel, tea.Cmd) {
	if lp.busy {
		return lp, nil
	}

	text := strings.TrimSpace(lp.input)

	switch lp.mode {
	case LookupModeAdd:
		if text != "" {
			lp.busy = true
			return lp, func() tea.Msg {
				return AddLookupValueMsg{Name: text}
			}
		}
	case LookupModeEditLabel:
		if text != "" && lp.selected < len(lp.values) {
			lp.busy = true
			id := lp.values[lp.selected].ID
			return lp, func() tea.Msg {
				return RenameLookupValueMsg{ID: id, Name: text}
			}
		}
	case LookupModeEditSymbol:
		if lp.selected < len(lp.values) {
			lp.busy = true
			id := lp.values[lp.selected].ID
			return lp, func() tea.Msg {
				return SetLookupSymbolMsg{ID: id, Symbol: text}
			}
		}
	}

	lp.mode = LookupModeList
	lp.input = ""
	return lp, nil
}

// View renders the panel
func (lp *LookupPanel) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(lp.Theme.Foreground).
		Background(lp.Theme.Info).
		Padding(0, 1).
		Bold(true)
	title := "Lookup Values"
	if lp.FieldName != "" {
		title += " - " + lp.FieldName
	}
	if lp.busy {
		title += " (saving...)"
	}
	sections = append(sections, titleStyle.Render(title))

	instrStyle := lipgloss.NewStyle().
		Foreground(lp.Theme.ListMuted).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Navigate  n: Add  e: Edit  y: Symbol  d: Delete"))

	if len(lp.values) == 0 {
		sections = append(sections, "\nNo lookup values yet. Press 'n' to add one.")
	} else {
		sections = append(sections, "")
		lines := renderLines(lp.registry, "lookupvalues", models.Field{
			Name:         lp.FieldName,
			LookupValues: lp.values,
		})

		visibleStart := lp.offset
		visibleEnd := lp.offset + lp.Height - 6
		if visibleEnd > len(lines) {
			visibleEnd = len(lines)
		}

		for i := visibleStart; i < visibleEnd; i++ {
			style := lipgloss.NewStyle().Padding(0, 1)
			if i == lp.selected {
				style = style.Background(lp.Theme.Selection).Foreground(lp.Theme.Foreground)
			}
			sections = append(sections, style.Render(lines[i]))
		}
	}

	if lp.mode != LookupModeList {
		prompt := "New value: "
		switch lp.mode {
		case LookupModeEditLabel:
			prompt = "Label: "
		case LookupModeEditSymbol:
			prompt = "Symbol: "
		}
		inputStyle := lipgloss.NewStyle().
			Foreground(lp.Theme.Foreground).
			Padding(0, 1)
		sections = append(sections, "", inputStyle.Render(prompt+lp.input+"█"))
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lp.Theme.Border).
		Width(lp.Width).
		Height(lp.Height).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}
