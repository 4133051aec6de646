package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/geokey/geoadmin/internal/api"
	"github.com/geokey/geoadmin/internal/config"
	"github.com/geokey/geoadmin/internal/export"
	"github.com/geokey/geoadmin/internal/favorites"
	"github.com/geokey/geoadmin/internal/history"
	"github.com/geokey/geoadmin/internal/models"
	"github.com/geokey/geoadmin/internal/templates"
	"github.com/geokey/geoadmin/internal/ui/components"
	"github.com/geokey/geoadmin/internal/ui/help"
	"github.com/geokey/geoadmin/internal/ui/theme"
)

// rightView identifies the active right-hand panel
type rightView int

const (
	viewFilter rightView = iota
	viewLookup
	viewGroup
	viewSummary
)

// App is the main application model
type App struct {
	state  models.AppState
	config *config.Config
	theme  theme.Theme
	client *api.Client

	leftPanel  components.Panel
	rightPanel components.Panel

	filterBuilder *components.FilterBuilder
	jsonPreview   *components.JSONPreview
	lookupPanel   *components.LookupPanel
	groupPanel    *components.UserGroupPanel
	flash         *components.Message
	inlineFlash   *components.Message

	history   *history.Store
	favorites *favorites.Manager
	templates *templates.Registry
	configDir string

	summary string

	view     rightView
	groupID  int
	selected int // category index in the left panel

	// Lookup field binding
	lookupFieldIdx int

	showError    bool
	errorOverlay *components.ErrorOverlay
}

// ErrorMsg is sent when an error occurs
type ErrorMsg struct {
	Title   string
	Message string
}

// ProjectLoadedMsg is sent when the project has been fetched
type ProjectLoadedMsg struct {
	Project *models.Project
	Err     error
}

// CategoryLoadedMsg is sent when a category's fields have been fetched
type CategoryLoadedMsg struct {
	Category *models.Category
	Err      error
}

// GroupLoadedMsg is sent when the user group has been fetched
type GroupLoadedMsg struct {
	Group *models.UserGroup
	Err   error
}

// UserSearchResultMsg carries a type-ahead response
type UserSearchResultMsg struct {
	Seq   int
	Users []models.User
	Err   error
}

// LookupValuesMsg carries the full value list after a create
type LookupValuesMsg struct {
	Values []models.LookupValue
	Err    error
}

// LookupValueUpdatedMsg confirms a label edit
type LookupValueUpdatedMsg struct {
	Value models.LookupValue
	Err   error
}

// LookupValueDeletedMsg confirms a removal
type LookupValueDeletedMsg struct {
	ID  int
	Err error
}

// MemberAddedMsg carries the full group after a member was added
type MemberAddedMsg struct {
	Group *models.UserGroup
	Err   error
}

// MemberRemovedMsg confirms a member removal
type MemberRemovedMsg struct {
	UserID int
	Err    error
}

// ProjectUpdatedMsg confirms a project settings change
type ProjectUpdatedMsg struct {
	Project *models.Project
	Err     error
}

// CategoryStatusMsg confirms a category status change
type CategoryStatusMsg struct {
	Category *models.Category
	Err      error
}

// FilterSubmittedMsg reports the outcome of a filter submission
type FilterSubmittedMsg struct {
	Expression string
	Duration   time.Duration
	Err        error
}

// New creates a new App instance
func New(cfg *config.Config, client *api.Client, groupID int) *App {
	state := models.NewAppState()

	themeName := "default"
	if cfg != nil && cfg.UI.Theme != "" {
		themeName = cfg.UI.Theme
	}
	th := theme.GetTheme(themeName)

	if cfg != nil && cfg.UI.PanelWidthRatio > 0 && cfg.UI.PanelWidthRatio < 100 {
		state.LeftPanelWidth = cfg.UI.PanelWidthRatio
	}

	flashDuration := 5 * time.Second
	inlineDuration := 2 * time.Second
	minQuery := 2
	if cfg != nil {
		if cfg.UI.FlashDuration > 0 {
			flashDuration = time.Duration(cfg.UI.FlashDuration) * time.Second
		}
		if cfg.UI.InlineFlashDuration > 0 {
			inlineDuration = time.Duration(cfg.UI.InlineFlashDuration) * time.Second
		}
		if cfg.Search.MinQueryLength > 0 {
			minQuery = cfg.Search.MinQueryLength
		}
	}

	// A parse failure surfaces as an error line in the component views.
	reg, _ := templates.New()

	app := &App{
		state:         state,
		config:        cfg,
		theme:         th,
		client:        client,
		groupID:       groupID,
		templates:     reg,
		filterBuilder: components.NewFilterBuilder(th, reg),
		jsonPreview:   components.NewJSONPreview(th),
		lookupPanel:   components.NewLookupPanel(th, reg),
		groupPanel:    components.NewUserGroupPanel(th, reg, minQuery),
		flash:         components.NewMessage(th, "status", flashDuration),
		inlineFlash:   components.NewMessage(th, "inline", inlineDuration),
		errorOverlay:  components.NewErrorOverlay(th),
		leftPanel: components.Panel{
			Title:   "Categories",
			Content: "Loading project...",
			Theme:   th,
			Focused: true,
		},
		rightPanel: components.Panel{
			Title: "Filter",
			Theme: th,
		},
	}

	if dir, err := config.GetConfigPath(); err == nil {
		if err := os.MkdirAll(dir, 0o755); err == nil {
			app.configDir = dir
			if cfg != nil && cfg.History.Enabled && cfg.History.Persist {
				if store, err := history.NewStore(filepath.Join(dir, "history.db")); err == nil {
					app.history = store
				}
			}
			if mgr, err := favorites.NewManager(dir); err == nil {
				app.favorites = mgr
			}
		}
	}

	app.updatePanelDimensions()
	return app
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.loadProject()}
	if a.groupID > 0 {
		cmds = append(cmds, a.loadGroup())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		a.ShowError(msg.Title, msg.Message)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.WindowSizeMsg:
		a.state.Width = msg.Width
		a.state.Height = msg.Height
		a.updatePanelDimensions()
		return a, nil

	case components.MessageExpiredMsg:
		a.flash.Expire(msg)
		a.inlineFlash.Expire(msg)
		return a, nil

	case ProjectLoadedMsg:
		if msg.Err != nil {
			a.ShowError("Server Error", fmt.Sprintf("Failed to load project:\n\n%v", msg.Err))
			return a, nil
		}
		a.state.CurrentProject = msg.Project
		a.filterBuilder.SetCategories(msg.Project.Categories)
		if err := a.jsonPreview.SetExpression(a.filterBuilder.Expression()); err != nil {
			a.ShowError("Internal Error", err.Error())
		}
		return a, nil

	case CategoryLoadedMsg:
		if msg.Err != nil {
			a.ShowError("Server Error", fmt.Sprintf("Failed to load category:\n\n%v", msg.Err))
			return a, nil
		}
		a.state.CurrentCategory = msg.Category
		a.filterBuilder.SetCategoryFields(msg.Category.ID, msg.Category.Fields)
		a.bindLookupField(0)
		a.renderSummary()
		return a, nil

	case GroupLoadedMsg:
		if msg.Err != nil {
			a.ShowError("Server Error", fmt.Sprintf("Failed to load user group:\n\n%v", msg.Err))
			return a, nil
		}
		a.state.CurrentUserGroup = msg.Group
		a.groupPanel.SetGroup(msg.Group)
		return a, nil

	case ProjectUpdatedMsg:
		if msg.Err != nil {
			a.ShowError("Server Error", fmt.Sprintf("Failed to update project:\n\n%v", msg.Err))
			return a, nil
		}
		if p := a.state.CurrentProject; p != nil {
			p.IsPrivate = msg.Project.IsPrivate
			p.Status = msg.Project.Status
		}
		visibility := "public"
		if msg.Project.IsPrivate {
			visibility = "private"
		}
		return a, a.flash.Show("Project is now "+visibility, components.MessageSuccess)

	case CategoryStatusMsg:
		if msg.Err != nil {
			a.ShowError("Server Error", fmt.Sprintf("Failed to update category:\n\n%v", msg.Err))
			return a, nil
		}
		if p := a.state.CurrentProject; p != nil {
			for i := range p.Categories {
				if p.Categories[i].ID == msg.Category.ID {
					p.Categories[i].Status = msg.Category.Status
					break
				}
			}
		}
		return a, a.flash.Show("Category is now "+msg.Category.Status, components.MessageSuccess)

	case components.QueryMsg:
		return a, a.searchUsers(msg.Query, msg.Seq)

	case components.ClearResultsMsg:
		a.groupPanel.ClearResults()
		return a, nil

	case UserSearchResultMsg:
		if msg.Err != nil {
			// Keep the previous results, the user is still typing.
			a.groupPanel.SearchFailed(msg.Seq)
			return a, nil
		}
		a.groupPanel.SetResults(msg.Seq, msg.Users)
		return a, nil

	case components.AddUserToGroupMsg:
		return a, a.addMember(msg.UserID)

	case components.RemoveUserFromGroupMsg:
		return a, a.removeMember(msg.UserID)

	case MemberAddedMsg:
		if msg.Err != nil {
			a.groupPanel.Unlock()
			a.ShowError("Server Error", fmt.Sprintf("Failed to add user:\n\n%v", msg.Err))
			return a, nil
		}
		a.groupPanel.SetMembers(msg.Group.Users)
		return a, a.flash.Show("User added to group", components.MessageSuccess)

	case MemberRemovedMsg:
		if msg.Err != nil {
			a.groupPanel.Unlock()
			a.ShowError("Server Error", fmt.Sprintf("Failed to remove user:\n\n%v", msg.Err))
			return a, nil
		}
		a.groupPanel.DropMember(msg.UserID)
		return a, a.flash.Show("User removed from group", components.MessageSuccess)

	case components.AddLookupValueMsg:
		return a, a.addLookupValue(msg.Name)

	case components.RenameLookupValueMsg:
		return a, a.renameLookupValue(msg.ID, msg.Name)

	case components.SetLookupSymbolMsg:
		return a, a.uploadLookupSymbol(msg.ID, msg.Symbol)

	case components.RemoveLookupValueMsg:
		return a, a.deleteLookupValue(msg.ID)

	case LookupValuesMsg:
		if msg.Err != nil {
			a.lookupPanel.Unlock()
			a.ShowError("Server Error", fmt.Sprintf("Failed to save lookup value:\n\n%v", msg.Err))
			return a, nil
		}
		a.lookupPanel.SetValues(msg.Values)
		return a, a.flash.Show("Lookup value added", components.MessageSuccess)

	case LookupValueUpdatedMsg:
		if msg.Err != nil {
			a.lookupPanel.Unlock()
			a.ShowError("Server Error", fmt.Sprintf("Failed to update lookup value:\n\n%v", msg.Err))
			return a, nil
		}
		a.lookupPanel.UpdateValue(msg.Value)
		return a, a.flash.Show("Lookup value updated", components.MessageSuccess)

	case LookupValueDeletedMsg:
		if msg.Err != nil {
			a.lookupPanel.Unlock()
			a.ShowError("Server Error", fmt.Sprintf("Failed to remove lookup value:\n\n%v", msg.Err))
			return a, nil
		}
		a.lookupPanel.DropValue(msg.ID)
		return a, a.flash.Show("Lookup value removed", components.MessageSuccess)

	case components.ExpressionChangedMsg:
		if err := a.jsonPreview.SetExpression(msg.Expression); err != nil {
			a.ShowError("Internal Error", err.Error())
		}
		return a, nil

	case components.ExpressionCopiedMsg:
		return a, a.inlineFlash.Show("Expression copied to clipboard", components.MessageInfo)

	case components.SubmitFilterMsg:
		return a, a.submitFilter(msg.Expression)

	case FilterSubmittedMsg:
		a.recordSubmission(msg)
		if msg.Err != nil {
			a.ShowError("Server Error", fmt.Sprintf("Failed to submit filter:\n\n%v", msg.Err))
			return a, nil
		}
		return a, a.flash.Show("Filter saved on server", components.MessageSuccess)

	case components.CloseFilterBuilderMsg, components.CloseSearchMsg:
		return a, nil
	}

	// Unhandled messages may still matter to the focused panel, for
	// example text input blinks.
	if a.view == viewGroup && a.state.FocusedPanel == models.RightPanel {
		var cmd tea.Cmd
		a.groupPanel, cmd = a.groupPanel.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.showError {
		switch msg.String() {
		case "esc", "enter":
			a.DismissError()
		case "q", "ctrl+c":
			return a, tea.Quit
		}
		return a, nil
	}

	// Text entry panels consume printable keys first.
	typing := a.state.FocusedPanel == models.RightPanel &&
		((a.view == viewGroup && a.groupPanel.InSearch()) ||
			(a.view == viewLookup && a.lookupPanel.Editing()) ||
			(a.view == viewFilter && a.filterBuilder.Editing()))

	if !typing {
		switch msg.String() {
		case "q", "ctrl+c":
			if a.state.ViewMode == models.HelpMode {
				a.state.ViewMode = models.NormalMode
				return a, nil
			}
			return a, tea.Quit
		case "?":
			if a.state.ViewMode == models.HelpMode {
				a.state.ViewMode = models.NormalMode
			} else {
				a.state.ViewMode = models.HelpMode
			}
			return a, nil
		case "tab":
			if a.state.ViewMode == models.NormalMode {
				if a.state.FocusedPanel == models.LeftPanel {
					a.state.FocusedPanel = models.RightPanel
				} else {
					a.state.FocusedPanel = models.LeftPanel
				}
				a.updatePanelFocus()
			}
			return a, nil
		case "1":
			a.view = viewFilter
			a.rightPanel.Title = "Filter"
			return a, nil
		case "2":
			a.view = viewLookup
			a.rightPanel.Title = "Lookup Values"
			return a, nil
		case "3":
			a.view = viewGroup
			a.rightPanel.Title = "User Group"
			return a, nil
		case "4":
			a.view = viewSummary
			a.rightPanel.Title = "Category Fields"
			return a, nil
		case "r", "f5":
			return a, a.refresh()
		case "ctrl+s":
			return a, a.saveFavorite()
		case "E":
			return a, a.exportMembers()
		case "X":
			return a, a.exportSavedFilters()
		case "esc":
			if a.state.ViewMode == models.NormalMode && (a.flash.Active() || a.inlineFlash.Active()) {
				a.flash.Dismiss()
				a.inlineFlash.Dismiss()
				return a, nil
			}
		}
	}

	if a.state.ViewMode == models.HelpMode {
		if msg.String() == "esc" {
			a.state.ViewMode = models.NormalMode
		}
		return a, nil
	}

	if a.state.FocusedPanel == models.LeftPanel {
		return a.handleLeftPanelKey(msg)
	}

	switch a.view {
	case viewFilter:
		switch msg.String() {
		case "pgup":
			a.jsonPreview.ScrollUp()
			return a, nil
		case "pgdown":
			a.jsonPreview.ScrollDown()
			return a, nil
		}
		var cmd tea.Cmd
		a.filterBuilder, cmd = a.filterBuilder.Update(msg)
		return a, cmd
	case viewLookup:
		if msg.String() == "f" && !a.lookupPanel.Editing() {
			a.bindLookupField(a.lookupFieldIdx + 1)
			return a, nil
		}
		var cmd tea.Cmd
		a.lookupPanel, cmd = a.lookupPanel.Update(msg)
		return a, cmd
	case viewGroup:
		var cmd tea.Cmd
		a.groupPanel, cmd = a.groupPanel.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleLeftPanelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	project := a.state.CurrentProject
	if project == nil {
		return a, nil
	}
	switch msg.String() {
	case "up", "k":
		if a.selected > 0 {
			a.selected--
		}
	case "down", "j":
		if a.selected < len(project.Categories)-1 {
			a.selected++
		}
	case "enter":
		if a.selected < len(project.Categories) {
			return a, a.loadCategory(project.Categories[a.selected].ID)
		}
	case "P":
		return a, a.toggleProjectPrivate()
	case "A":
		if a.selected < len(project.Categories) {
			return a, a.toggleCategoryStatus(&project.Categories[a.selected])
		}
	}
	return a, nil
}

// toggleProjectPrivate flips the project between public and private
func (a *App) toggleProjectPrivate() tea.Cmd {
	project := a.state.CurrentProject
	if project == nil {
		return nil
	}
	private := !project.IsPrivate
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()
		updated, err := a.client.SetProjectPrivate(ctx, a.projectID(), private)
		return ProjectUpdatedMsg{Project: updated, Err: err}
	}
}

// toggleCategoryStatus flips a category between active and inactive
func (a *App) toggleCategoryStatus(cat *models.Category) tea.Cmd {
	status := "inactive"
	if cat.Status == "inactive" {
		status = "active"
	}
	catID := cat.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()
		updated, err := a.client.UpdateCategoryStatus(ctx, a.projectID(), catID, status)
		return CategoryStatusMsg{Category: updated, Err: err}
	}
}

// bindLookupField points the lookup panel at the n-th lookup-type field
// of the current category, wrapping around.
func (a *App) bindLookupField(idx int) {
	cat := a.state.CurrentCategory
	if cat == nil {
		return
	}
	var lookupFields []models.Field
	for _, f := range cat.Fields {
		if f.Type == models.LookupField || f.Type == models.MultipleLookupField {
			lookupFields = append(lookupFields, f)
		}
	}
	if len(lookupFields) == 0 {
		a.lookupFieldIdx = 0
		a.lookupPanel.FieldName = ""
		a.lookupPanel.SetValues(nil)
		return
	}
	a.lookupFieldIdx = idx % len(lookupFields)
	f := lookupFields[a.lookupFieldIdx]
	a.lookupPanel.FieldName = f.Name
	a.lookupPanel.SetValues(f.LookupValues)
}

// boundLookupField returns the field the lookup panel is editing
func (a *App) boundLookupField() *models.Field {
	cat := a.state.CurrentCategory
	if cat == nil {
		return nil
	}
	idx := 0
	for i := range cat.Fields {
		f := &cat.Fields[i]
		if f.Type == models.LookupField || f.Type == models.MultipleLookupField {
			if idx == a.lookupFieldIdx {
				return f
			}
			idx++
		}
	}
	return nil
}

// View implements tea.Model
func (a *App) View() string {
	if a.showError {
		return lipgloss.Place(
			a.state.Width, a.state.Height,
			lipgloss.Center, lipgloss.Center,
			a.errorOverlay.View(),
		)
	}

	if a.state.ViewMode == models.HelpMode {
		return help.Render(a.state.Width, a.state.Height, lipgloss.NewStyle())
	}

	return a.renderNormalView()
}

func (a *App) renderNormalView() string {
	topBarLeft := "geoadmin"
	if p := a.state.CurrentProject; p != nil {
		topBarLeft += " - " + p.Name
	}
	topBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.BorderFocused).
		Foreground(lipgloss.Color("230")).
		Padding(0, 2).
		Render(a.formatStatusBar(topBarLeft, "? Help"))

	bottomBarLeft := "[tab] Switch panel | [1-3] Views | [q] Quit"
	bottomBarRight := ""
	if a.flash.Active() {
		bottomBarRight = a.flash.View()
	}
	bottomBar := lipgloss.NewStyle().
		Width(a.state.Width).
		Background(a.theme.Selection).
		Foreground(a.theme.Foreground).
		Padding(0, 2).
		Render(a.formatStatusBar(bottomBarLeft, bottomBarRight))

	a.leftPanel.Content = a.renderCategoryList()

	switch a.view {
	case viewFilter:
		a.filterBuilder.Width = a.rightPanel.Width - 2
		a.filterBuilder.Height = a.rightPanel.Height - 12
		a.jsonPreview.Width = a.rightPanel.Width - 2
		a.jsonPreview.Height = 8
		content := a.filterBuilder.View() + "\n" + a.jsonPreview.View()
		if a.inlineFlash.Active() {
			content += "\n" + a.inlineFlash.View()
		}
		a.rightPanel.Content = content
	case viewLookup:
		a.lookupPanel.Width = a.rightPanel.Width - 2
		a.lookupPanel.Height = a.rightPanel.Height - 2
		a.rightPanel.Content = a.lookupPanel.View()
	case viewGroup:
		a.groupPanel.Width = a.rightPanel.Width - 2
		a.groupPanel.Height = a.rightPanel.Height - 2
		a.rightPanel.Content = a.groupPanel.View()
	case viewSummary:
		if a.summary == "" {
			a.rightPanel.Content = "Select a category to see its fields."
		} else {
			a.rightPanel.Content = a.summary
		}
	}

	panels := lipgloss.JoinHorizontal(
		lipgloss.Top,
		a.leftPanel.View(),
		a.rightPanel.View(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topBar,
		panels,
		bottomBar,
	)
}

func (a *App) renderCategoryList() string {
	project := a.state.CurrentProject
	if project == nil {
		return "Loading project..."
	}
	if len(project.Categories) == 0 {
		return "No categories in this project."
	}

	var out string
	for i, cat := range project.Categories {
		line := cat.Name
		style := lipgloss.NewStyle().Padding(0, 1)
		if i == a.selected && a.state.FocusedPanel == models.LeftPanel {
			style = style.Background(a.theme.Selection)
		}
		out += style.Render(line) + "\n"
	}
	return out
}

func (a *App) updatePanelDimensions() {
	if a.state.Width <= 0 || a.state.Height <= 0 {
		return
	}

	contentHeight := a.state.Height - 2
	if contentHeight < 5 {
		contentHeight = 5
	}

	leftWidth := (a.state.Width * a.state.LeftPanelWidth) / 100
	if leftWidth < 20 {
		leftWidth = 20
	}

	rightWidth := a.state.Width - leftWidth - 4
	if rightWidth < 20 {
		rightWidth = 20
		leftWidth = a.state.Width - rightWidth - 4
	}

	a.leftPanel.Width = leftWidth
	a.leftPanel.Height = contentHeight
	a.rightPanel.Width = rightWidth
	a.rightPanel.Height = contentHeight
}

func (a *App) updatePanelFocus() {
	a.leftPanel.Focused = a.state.FocusedPanel == models.LeftPanel
	a.rightPanel.Focused = a.state.FocusedPanel == models.RightPanel
}

func (a *App) formatStatusBar(left, right string) string {
	availableWidth := a.state.Width - 4
	if availableWidth < 0 {
		availableWidth = 0
	}

	leftLen := len(left)
	rightLen := len(right)

	if leftLen+rightLen > availableWidth {
		if availableWidth > rightLen {
			return left[:availableWidth-rightLen] + right
		}
		return left[:availableWidth]
	}

	spacing := availableWidth - leftLen - rightLen
	if spacing < 0 {
		spacing = 0
	}

	return left + lipgloss.NewStyle().Width(spacing).Render("") + right
}

func (a *App) timeout() time.Duration {
	if a.config != nil && a.config.Server.Timeout > 0 {
		return time.Duration(a.config.Server.Timeout) * time.Second
	}
	return 30 * time.Second
}

func (a *App) projectID() int {
	if a.config != nil {
		return a.config.Server.ProjectID
	}
	return 0
}

func (a *App) loadProject() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()
		project, err := a.client.GetProject(ctx, a.projectID())
		return ProjectLoadedMsg{Project: project, Err: err}
	}
}

func (a *App) loadCategory(categoryID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()
		cat, err := a.client.GetCategory(ctx, a.projectID(), categoryID)
		return CategoryLoadedMsg{Category: cat, Err: err}
	}
}

func (a *App) loadGroup() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()
		group, err := a.client.GetUserGroup(ctx, a.projectID(), a.groupID)
		return GroupLoadedMsg{Group: group, Err: err}
	}
}

func (a *App) refresh() tea.Cmd {
	cmds := []tea.Cmd{a.loadProject()}
	if a.groupID > 0 {
		cmds = append(cmds, a.loadGroup())
	}
	if cat := a.state.CurrentCategory; cat != nil {
		cmds = append(cmds, a.loadCategory(cat.ID))
	}
	return tea.Batch(cmds...)
}

func (a *App) searchUsers(query string, seq int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()
		users, err := a.client.SearchUsers(ctx, query)
		return UserSearchResultMsg{Seq: seq, Users: users, Err: err}
	}
}

func (a *App) addMember(userID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()
		group, err := a.client.AddGroupMember(ctx, a.projectID(), a.groupID, userID)
		return MemberAddedMsg{Group: group, Err: err}
	}
}

func (a *App) removeMember(userID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()
		err := a.client.RemoveGroupMember(ctx, a.projectID(), a.groupID, userID)
		return MemberRemovedMsg{UserID: userID, Err: err}
	}
}

func (a *App) addLookupValue(name string) tea.Cmd {
	field := a.boundLookupField()
	cat := a.state.CurrentCategory
	if field == nil || cat == nil {
		return func() tea.Msg {
			return LookupValuesMsg{Err: fmt.Errorf("no lookup field selected")}
		}
	}
	fieldID := field.ID
	catID := cat.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()
		updated, err := a.client.AddLookupValue(ctx, a.projectID(), catID, fieldID, name)
		if err != nil {
			return LookupValuesMsg{Err: err}
		}
		return LookupValuesMsg{Values: updated.LookupValues}
	}
}

func (a *App) renameLookupValue(valueID int, name string) tea.Cmd {
	field := a.boundLookupField()
	cat := a.state.CurrentCategory
	if field == nil || cat == nil {
		return func() tea.Msg {
			return LookupValueUpdatedMsg{Err: fmt.Errorf("no lookup field selected")}
		}
	}
	fieldID := field.ID
	catID := cat.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()
		err := a.client.UpdateLookupValue(ctx, a.projectID(), catID, fieldID, valueID, name)
		return LookupValueUpdatedMsg{Value: models.LookupValue{ID: valueID, Name: name}, Err: err}
	}
}

func (a *App) uploadLookupSymbol(valueID int, path string) tea.Cmd {
	field := a.boundLookupField()
	cat := a.state.CurrentCategory
	if field == nil || cat == nil {
		return func() tea.Msg {
			return LookupValueUpdatedMsg{Err: fmt.Errorf("no lookup field selected")}
		}
	}
	fieldID := field.ID
	catID := cat.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()

		if path == "" {
			value, err := a.client.UploadLookupSymbol(ctx, a.projectID(), catID, fieldID, valueID, "", nil, true)
			if err != nil {
				return LookupValueUpdatedMsg{Err: err}
			}
			return LookupValueUpdatedMsg{Value: *value}
		}

		file, err := os.Open(path)
		if err != nil {
			return LookupValueUpdatedMsg{Err: fmt.Errorf("failed to open symbol file: %w", err)}
		}
		defer func() { _ = file.Close() }()

		value, err := a.client.UploadLookupSymbol(ctx, a.projectID(), catID, fieldID, valueID, filepath.Base(path), file, false)
		if err != nil {
			return LookupValueUpdatedMsg{Err: err}
		}
		return LookupValueUpdatedMsg{Value: *value}
	}
}

func (a *App) deleteLookupValue(valueID int) tea.Cmd {
	field := a.boundLookupField()
	cat := a.state.CurrentCategory
	if field == nil || cat == nil {
		return func() tea.Msg {
			return LookupValueDeletedMsg{Err: fmt.Errorf("no lookup field selected")}
		}
	}
	fieldID := field.ID
	catID := cat.ID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()
		err := a.client.DeleteLookupValue(ctx, a.projectID(), catID, fieldID, valueID)
		return LookupValueDeletedMsg{ID: valueID, Err: err}
	}
}

func (a *App) submitFilter(expression string) tea.Cmd {
	if a.groupID <= 0 {
		return func() tea.Msg {
			return FilterSubmittedMsg{Expression: expression, Err: fmt.Errorf("no user group selected")}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout())
		defer cancel()
		start := time.Now()
		_, err := a.client.UpdateGroupFilters(ctx, a.projectID(), a.groupID, expression)
		return FilterSubmittedMsg{
			Expression: expression,
			Duration:   time.Since(start),
			Err:        err,
		}
	}
}

// renderSummary builds the field overview for the current category
func (a *App) renderSummary() {
	a.summary = ""
	if a.templates == nil || a.state.CurrentCategory == nil {
		return
	}
	out, err := a.templates.Render("fields", a.state.CurrentCategory)
	if err != nil {
		a.summary = "Failed to render field overview: " + err.Error()
		return
	}
	a.summary = out
}

// saveFavorite stores the current expression in the local filter library
func (a *App) saveFavorite() tea.Cmd {
	if a.favorites == nil {
		return a.flash.Show("No config directory available", components.MessageError)
	}
	expr := a.filterBuilder.Expression()
	serverName := ""
	if a.config != nil {
		serverName = a.config.Server.BaseURL
	}
	name := "Filter " + time.Now().Format("2006-01-02 15:04:05")
	if _, err := a.favorites.Add(name, "", expr, serverName, a.projectID(), nil); err != nil {
		return a.flash.Show("Failed to save filter: "+err.Error(), components.MessageError)
	}
	return a.flash.Show("Filter saved as \""+name+"\"", components.MessageSuccess)
}

// exportMembers writes the current group's member list to a CSV file
func (a *App) exportMembers() tea.Cmd {
	group := a.state.CurrentUserGroup
	if group == nil {
		return a.flash.Show("No user group loaded", components.MessageError)
	}
	if a.configDir == "" {
		return a.flash.Show("No config directory available", components.MessageError)
	}
	path := filepath.Join(a.configDir, fmt.Sprintf("group-%d-members.csv", group.ID))
	if err := export.ExportMembersToCSV(group, path); err != nil {
		return a.flash.Show("Export failed: "+err.Error(), components.MessageError)
	}
	return a.flash.Show("Members exported to "+path, components.MessageSuccess)
}

// exportSavedFilters writes the local filter library to CSV and JSON files
func (a *App) exportSavedFilters() tea.Cmd {
	if a.favorites == nil || a.configDir == "" {
		return a.flash.Show("No config directory available", components.MessageError)
	}
	saved := a.favorites.GetAll()
	if len(saved) == 0 {
		return a.flash.Show("No saved filters to export", components.MessageError)
	}
	csvPath := filepath.Join(a.configDir, "saved-filters.csv")
	if err := export.ExportToCSV(saved, csvPath); err != nil {
		return a.flash.Show("Export failed: "+err.Error(), components.MessageError)
	}
	jsonPath := filepath.Join(a.configDir, "saved-filters.json")
	if err := export.ExportToJSON(saved, jsonPath); err != nil {
		return a.flash.Show("Export failed: "+err.Error(), components.MessageError)
	}
	return a.flash.Show(fmt.Sprintf("Exported %d filters to %s", len(saved), a.configDir), components.MessageSuccess)
}

func (a *App) recordSubmission(msg FilterSubmittedMsg) {
	if a.history == nil {
		return
	}
	serverName := ""
	if a.config != nil {
		serverName = a.config.Server.BaseURL
	}
	entry := history.Entry{
		ServerName:  serverName,
		ProjectID:   a.projectID(),
		UserGroupID: a.groupID,
		Expression:  msg.Expression,
		SubmittedAt: time.Now(),
		Duration:    msg.Duration,
		Success:     msg.Err == nil,
	}
	if msg.Err != nil {
		entry.ErrorMessage = msg.Err.Error()
	}
	_ = a.history.Add(entry)
	if a.config != nil && a.config.History.MaxEntries > 0 {
		_ = a.history.Prune(a.config.History.MaxEntries)
	}
}

// Close releases resources held by the app
func (a *App) Close() {
	if a.history != nil {
		_ = a.history.Close()
	}
}

// ShowError displays an error overlay with the given title and message
func (a *App) ShowError(title, message string) {
	a.errorOverlay.SetError(title, message)
	a.showError = true
}

// DismissError hides the error overlay
func (a *App) DismissError() {
	a.showError = false
}
