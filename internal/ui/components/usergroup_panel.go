package components

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/geokey/geoadmin/internal/models"
	"github.com/geokey/geoadmin/internal/templates"
	"github.com/geokey/geoadmin/internal/ui/theme"
)

// AddUserToGroupMsg is sent when a user should join the group
type AddUserToGroupMsg struct {
	UserID int
}

// RemoveUserFromGroupMsg is sent when a member should be removed
type RemoveUserFromGroupMsg struct {
	UserID int
}

// UserGroupPanel manages the members of a user group. Searching for
// users to add goes through a type-ahead input whose stale responses
// are dropped by sequence number.
type UserGroupPanel struct {
	Width  int
	Height int
	Theme  theme.Theme

	Group  *models.UserGroup
	Search *SearchInput

	registry   *templates.Registry
	results    []models.User
	searched   bool
	selected   int
	searchSel  int
	searchMode bool
	busy       bool
}

// NewUserGroupPanel creates a user group panel
func NewUserGroupPanel(th theme.Theme, reg *templates.Registry, minQueryLength int) *UserGroupPanel {
	return &UserGroupPanel{
		Width:    60,
		Height:   25,
		Theme:    th,
		Search:   NewSearchInput(th, minQueryLength),
		registry: reg,
	}
}

// SetGroup sets the group being managed
func (up *UserGroupPanel) SetGroup(group *models.UserGroup) {
	up.Group = group
	up.selected = 0
	up.busy = false
}

// SetMembers replaces the member list. Adding a user returns the full
// group from the server, so additions come through here.
func (up *UserGroupPanel) SetMembers(users []models.User) {
	up.busy = false
	if up.Group == nil {
		return
	}
	up.Group.Users = users
	if up.selected >= len(users) && up.selected > 0 {
		up.selected--
	}
}

// DropMember removes a single user from the member list
func (up *UserGroupPanel) DropMember(userID int) {
	if up.Group == nil {
		return
	}
	for i, u := range up.Group.Users {
		if u.ID == userID {
			up.Group.Users = append(up.Group.Users[:i], up.Group.Users[i+1:]...)
			break
		}
	}
	if up.selected >= len(up.Group.Users) && up.selected > 0 {
		up.selected--
	}
	up.busy = false
}

// SetResults delivers a type-ahead response. Responses for superseded
// queries are discarded.
func (up *UserGroupPanel) SetResults(seq int, users []models.User) {
	if !up.Search.Accept(seq) {
		return
	}
	up.results = users
	up.searched = true
	up.searchSel = 0
}

// SearchFailed settles a failed type-ahead request. The in-flight
// counter is released but the current results stay on screen.
func (up *UserGroupPanel) SearchFailed(seq int) {
	up.Search.Accept(seq)
}

// ClearResults empties the result list
func (up *UserGroupPanel) ClearResults() {
	up.results = nil
	up.searched = false
	up.searchSel = 0
}

// Unlock re-enables input after a failed request
func (up *UserGroupPanel) Unlock() {
	up.busy = false
}

// Busy reports whether a request is in flight
func (up *UserGroupPanel) Busy() bool {
	return up.busy
}

// InSearch reports whether the type-ahead input has focus
func (up *UserGroupPanel) InSearch() bool {
	return up.searchMode
}

// Update handles messages
func (up *UserGroupPanel) Update(msg tea.Msg) (*UserGroupPanel, tea.Cmd) {
	if up.searchMode {
		return up.updateSearch(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return up, nil
	}

	switch key.String() {
	case "up", "k":
		if up.selected > 0 {
			up.selected--
		}
	case "down", "j":
		if up.Group != nil && up.selected < len(up.Group.Users)-1 {
			up.selected++
		}
	case "/", "a", "n":
		up.searchMode = true
		up.Search.Reset()
		up.ClearResults()
	case "d", "x":
		if !up.busy && up.Group != nil && up.selected < len(up.Group.Users) {
			up.busy = true
			id := up.Group.Users[up.selected].ID
			return up, func() tea.Msg {
				return RemoveUserFromGroupMsg{UserID: id}
			}
		}
	}
	return up, nil
}

func (up *UserGroupPanel) updateSearch(msg tea.Msg) (*UserGroupPanel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			up.searchMode = false
			up.Search.Reset()
			up.ClearResults()
			return up, nil
		case "up":
			if up.searchSel > 0 {
				up.searchSel--
			}
			return up, nil
		case "down":
			if up.searchSel < len(up.results)-1 {
				up.searchSel++
			}
			return up, nil
		case "enter":
			if !up.busy && up.searchSel < len(up.results) {
				up.busy = true
				id := up.results[up.searchSel].ID
				up.searchMode = false
				up.Search.Reset()
				up.ClearResults()
				return up, func() tea.Msg {
					return AddUserToGroupMsg{UserID: id}
				}
			}
			return up, nil
		}
	}

	var cmd tea.Cmd
	up.Search, cmd = up.Search.Update(msg)
	return up, cmd
}

// View renders the panel
func (up *UserGroupPanel) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(up.Theme.Foreground).
		Background(up.Theme.Info).
		Padding(0, 1).
		Bold(true)
	title := "Group Members"
	if up.Group != nil {
		title += " - " + up.Group.Name + " (" + strconv.Itoa(len(up.Group.Users)) + ")"
	}
	if up.busy {
		title += " (saving...)"
	}
	sections = append(sections, titleStyle.Render(title))

	instrStyle := lipgloss.NewStyle().
		Foreground(up.Theme.ListMuted).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("↑↓: Navigate  a: Add user  d: Remove"))

	mutedStyle := lipgloss.NewStyle().
		Foreground(up.Theme.ListMuted).
		Italic(true).
		Padding(0, 1)

	var group models.UserGroup
	if up.Group != nil {
		group = *up.Group
	}
	memberLines := renderLines(up.registry, "usergroupusers", group)
	sections = append(sections, "")
	if len(group.Users) == 0 {
		for _, line := range memberLines {
			sections = append(sections, mutedStyle.Render(line))
		}
	} else {
		for i, line := range memberLines {
			style := lipgloss.NewStyle().Padding(0, 1)
			if i == up.selected && !up.searchMode {
				style = style.Background(up.Theme.Selection).Foreground(up.Theme.Foreground)
			}
			sections = append(sections, style.Render(line))
		}
	}

	if up.searchMode {
		up.Search.Width = up.Width - 4
		sections = append(sections, "", up.Search.View())

		if up.searched {
			resultLines := renderLines(up.registry, "userstypeaway", up.results)
			if len(up.results) == 0 {
				for _, line := range resultLines {
					sections = append(sections, mutedStyle.Render(line))
				}
			} else {
				headerStyle := lipgloss.NewStyle().
					Foreground(up.Theme.ListHeader).
					Padding(0, 1)
				for i, line := range resultLines {
					if i == 0 {
						sections = append(sections, headerStyle.Render(line))
						continue
					}
					style := lipgloss.NewStyle().Padding(0, 1)
					if i-1 == up.searchSel {
						style = style.Background(up.Theme.Selection).Foreground(up.Theme.Foreground)
					}
					sections = append(sections, style.Render(line))
				}
			}
		}
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(up.Theme.Border).
		Width(up.Width).
		Height(up.Height).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}
