package components

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/geokey/geoadmin/internal/filter"
	"github.com/geokey/geoadmin/internal/models"
	"github.com/geokey/geoadmin/internal/templates"
	"github.com/geokey/geoadmin/internal/ui/theme"
	"github.com/geokey/geoadmin/internal/validate"
)

// SubmitFilterMsg is sent when the expression should be sent to the server
type SubmitFilterMsg struct {
	Expression string
}

// ExpressionCopiedMsg is sent after the expression was copied to the clipboard
type ExpressionCopiedMsg struct{}

// ExpressionChangedMsg is sent whenever the expression is recomputed
type ExpressionChangedMsg struct {
	Expression string
}

// CloseFilterBuilderMsg is sent when the filter builder should close
type CloseFilterBuilderMsg struct{}

// row is one visible line in the builder: a category header or a
// constraint beneath an enabled category.
type row struct {
	rule       *models.CategoryRule
	constraint *models.Constraint
}

// FilterBuilder provides an interactive UI for building filter
// expressions from category and field constraints.
type FilterBuilder struct {
	Width  int
	Height int
	Theme  theme.Theme

	builder    *filter.Builder
	categories []models.Category
	registry   *templates.Registry

	rows         []row
	currentIndex int

	editMode        string // "", "field", "min", "max", "reference"
	fieldIndex      int
	candidates      []models.Field
	pickerName      string
	editKey         string
	valueInput      string
	minBuffer       string
	validationError string

	expression string
}

// NewFilterBuilder creates a new filter builder
func NewFilterBuilder(th theme.Theme, reg *templates.Registry) *FilterBuilder {
	return &FilterBuilder{
		Width:    80,
		Height:   30,
		Theme:    th,
		builder:  filter.NewBuilder(),
		registry: reg,
	}
}

// SetCategories loads the project's categories into the builder
func (fb *FilterBuilder) SetCategories(categories []models.Category) {
	fb.categories = categories
	fb.builder.SetCategories(categories)
	fb.currentIndex = 0
	fb.recompute()
}

// SetCategoryFields fills in the field list of a lazily loaded category
func (fb *FilterBuilder) SetCategoryFields(categoryID int, fields []models.Field) {
	for i := range fb.categories {
		if fb.categories[i].ID == categoryID {
			fb.categories[i].Fields = fields
			break
		}
	}
}

// Expression returns the current expression string
func (fb *FilterBuilder) Expression() string {
	return fb.expression
}

// AllData reports whether the expression matches everything
func (fb *FilterBuilder) AllData() bool {
	return fb.builder.AllData()
}

// Editing reports whether the builder is capturing text input
func (fb *FilterBuilder) Editing() bool {
	return fb.editMode != ""
}

func (fb *FilterBuilder) recompute() {
	fb.rebuildRows()
	expr, err := fb.builder.Recompute()
	if err != nil {
		fb.validationError = err.Error()
		return
	}
	fb.validationError = ""
	fb.expression = expr
}

func (fb *FilterBuilder) rebuildRows() {
	fb.rows = fb.rows[:0]
	for _, rule := range fb.builder.Rules() {
		fb.rows = append(fb.rows, row{rule: rule})
		if !rule.Enabled {
			continue
		}
		for _, c := range rule.Constraints {
			fb.rows = append(fb.rows, row{rule: rule, constraint: c})
		}
	}
	if fb.currentIndex >= len(fb.rows) && fb.currentIndex > 0 {
		fb.currentIndex = len(fb.rows) - 1
	}
}

func (fb *FilterBuilder) current() (row, bool) {
	if fb.currentIndex < len(fb.rows) {
		return fb.rows[fb.currentIndex], true
	}
	return row{}, false
}

// Update handles keyboard input
func (fb *FilterBuilder) Update(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch fb.editMode {
	case "":
		return fb.handleNavigationMode(msg)
	case "field":
		return fb.handleFieldMode(msg)
	default:
		return fb.handleValueMode(msg)
	}
}

func (fb *FilterBuilder) handleNavigationMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if fb.currentIndex > 0 {
			fb.currentIndex--
		}
	case "down", "j":
		if fb.currentIndex < len(fb.rows)-1 {
			fb.currentIndex++
		}
	case " ", "space":
		if r, ok := fb.current(); ok && r.constraint == nil {
			fb.builder.EnableCategory(r.rule.CategoryID, !r.rule.Enabled)
			fb.recompute()
			return fb, fb.changed()
		}
	case "t":
		fb.builder.SetAllData(!fb.builder.AllData())
		fb.recompute()
		return fb, fb.changed()
	case "a", "n":
		if r, ok := fb.current(); ok && r.rule.Enabled {
			fb.beginFieldSelection(r.rule)
		}
	case "e":
		if r, ok := fb.current(); ok && r.constraint != nil {
			fb.beginValueEdit(r.constraint)
		}
	case "d", "x":
		if r, ok := fb.current(); ok && r.constraint != nil {
			fb.builder.RemoveConstraint(r.rule.CategoryID, r.constraint.Key)
			fb.recompute()
			return fb, fb.changed()
		}
	case "c":
		if err := clipboard.WriteAll(fb.expression); err == nil {
			return fb, func() tea.Msg {
				return ExpressionCopiedMsg{}
			}
		}
	case "s", "enter":
		if fb.validationError != "" {
			return fb, nil
		}
		expr := fb.expression
		return fb, func() tea.Msg {
			return SubmitFilterMsg{Expression: expr}
		}
	case "esc":
		return fb, func() tea.Msg {
			return CloseFilterBuilderMsg{}
		}
	}
	return fb, nil
}

func (fb *FilterBuilder) beginFieldSelection(rule *models.CategoryRule) {
	fb.candidates = fb.candidates[:0]
	fb.candidates = append(fb.candidates, models.Field{
		Key:  filter.CreatedAtKey,
		Name: "Created date",
		Type: models.DateCreated,
	})
	for _, cat := range fb.categories {
		if cat.ID != rule.CategoryID {
			continue
		}
		for _, f := range cat.Fields {
			if f.Type.IsKnown() && rule.Constraint(f.Key) == nil {
				fb.candidates = append(fb.candidates, f)
			}
		}
	}
	fb.pickerName = rule.Name
	fb.editMode = "field"
	fb.fieldIndex = 0
}

func (fb *FilterBuilder) handleFieldMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fb.editMode = ""
	case "up", "k":
		if fb.fieldIndex > 0 {
			fb.fieldIndex--
		}
	case "down", "j":
		if fb.fieldIndex < len(fb.candidates)-1 {
			fb.fieldIndex++
		}
	case "enter":
		if fb.fieldIndex >= len(fb.candidates) {
			return fb, nil
		}
		r, ok := fb.current()
		if !ok {
			return fb, nil
		}
		f := fb.candidates[fb.fieldIndex]

		var c *models.Constraint
		var err error
		if f.Key == filter.CreatedAtKey {
			c, err = fb.builder.AddCreatedConstraint(r.rule.CategoryID)
		} else {
			c, err = fb.builder.AddConstraint(r.rule.CategoryID, f)
		}
		if err != nil {
			fb.validationError = err.Error()
			fb.editMode = ""
			return fb, nil
		}
		fb.editMode = ""
		fb.recompute()
		fb.beginValueEdit(c)
		return fb, fb.changed()
	}
	return fb, nil
}

func (fb *FilterBuilder) beginValueEdit(c *models.Constraint) {
	fb.editKey = c.Key
	if c.Type.IsRange() || c.Type == models.DateCreated {
		fb.editMode = "min"
		fb.valueInput = c.Min
	} else {
		fb.editMode = "reference"
		fb.valueInput = c.Reference
	}
}

func (fb *FilterBuilder) handleValueMode(msg tea.KeyMsg) (*FilterBuilder, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fb.editMode = ""
		fb.valueInput = ""
	case "backspace":
		if len(fb.valueInput) > 0 {
			fb.valueInput = fb.valueInput[:len(fb.valueInput)-1]
		}
	case "enter":
		return fb.commitValue()
	default:
		if len(msg.String()) == 1 {
			fb.valueInput += msg.String()
		}
	}
	return fb, nil
}

func (fb *FilterBuilder) commitValue() (*FilterBuilder, tea.Cmd) {
	r, ok := fb.current()
	if !ok {
		fb.editMode = ""
		return fb, nil
	}
	c := r.rule.Constraint(fb.editKey)
	if c == nil {
		fb.editMode = ""
		return fb, nil
	}

	value := strings.TrimSpace(fb.valueInput)
	var floor, ceil string
	switch fb.editMode {
	case "min":
		ceil = c.MinCeil
	case "max":
		floor = fb.minBuffer
	}
	if problem := checkValue(c.Type, value, floor, ceil); problem != "" {
		fb.validationError = problem
		return fb, nil
	}

	switch fb.editMode {
	case "min":
		fb.minBuffer = value
		fb.editMode = "max"
		fb.valueInput = c.Max
		return fb, nil
	case "max":
		c.SetMin(fb.minBuffer)
		c.SetMax(value)
	case "reference":
		c.Reference = value
	}

	fb.editMode = ""
	fb.valueInput = ""
	fb.recompute()
	return fb, fb.changed()
}

// checkValue validates an entered bound or reference against the field's
// type and the propagated bound of the paired input. Empty values are
// always allowed, they mean unbounded.
func checkValue(t models.FieldType, value, min, max string) string {
	if value == "" {
		return ""
	}

	var kind validate.Kind
	switch t {
	case models.NumericField:
		kind = validate.Number
	case models.DateField, models.DateCreated:
		kind = validate.Date
	case models.DateTimeField:
		kind = validate.DateTime
	case models.TimeField:
		kind = validate.Time
	default:
		return ""
	}

	form := validate.Form{Fields: []validate.Field{
		{Name: "value", Kind: kind, Value: value, Min: min, Max: max},
	}}
	if problems := form.Validate(); len(problems) > 0 {
		return problems[0].Message
	}
	return ""
}

func (fb *FilterBuilder) changed() tea.Cmd {
	expr := fb.expression
	return func() tea.Msg {
		return ExpressionChangedMsg{Expression: expr}
	}
}

// View renders the filter builder
func (fb *FilterBuilder) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(fb.Theme.Foreground).
		Background(fb.Theme.Info).
		Padding(0, 1).
		Bold(true)
	title := "Filter Builder"
	if fb.builder.AllData() {
		title += " (all data)"
	}
	sections = append(sections, titleStyle.Render(title))

	instrStyle := lipgloss.NewStyle().
		Foreground(fb.Theme.ListMuted).
		Padding(0, 1)
	sections = append(sections, instrStyle.Render("Space: toggle category  a: Add constraint  e: Edit  d: Delete  t: All data  c: Copy  s: Submit"))

	switch fb.editMode {
	case "field":
		sections = append(sections, "", fb.renderFieldPicker())
	case "min", "max", "reference":
		sections = append(sections, "", fb.renderValueInput())
	default:
		sections = append(sections, "", fb.renderRows())
	}

	if fb.validationError != "" {
		errStyle := lipgloss.NewStyle().
			Foreground(fb.Theme.Warning).
			Padding(0, 1)
		sections = append(sections, "", errStyle.Render("Invalid value: "+fb.validationError))
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fb.Theme.Border).
		Width(fb.Width).
		Height(fb.Height).
		Padding(1)

	return containerStyle.Render(strings.Join(sections, "\n"))
}

func (fb *FilterBuilder) renderRows() string {
	if len(fb.rows) == 0 {
		muted := lipgloss.NewStyle().
			Foreground(fb.Theme.ListMuted).
			Italic(true).
			Padding(0, 1)
		return muted.Render("No categories loaded.")
	}

	enabledStyle := lipgloss.NewStyle().Foreground(fb.Theme.CategoryEnabled)
	disabledStyle := lipgloss.NewStyle().Foreground(fb.Theme.CategoryDisabled)
	keyStyle := lipgloss.NewStyle().Foreground(fb.Theme.ConstraintKey)
	valStyle := lipgloss.NewStyle().Foreground(fb.Theme.ConstraintValue)

	var lines []string
	for i, r := range fb.rows {
		var line string
		if r.constraint == nil {
			marker := "[ ]"
			style := disabledStyle
			if r.rule.Enabled {
				marker = "[x]"
				style = enabledStyle
			}
			line = marker + " " + style.Render(r.rule.Name)
		} else {
			line = "    " + keyStyle.Render(r.constraint.Key) + " " + valStyle.Render(describeConstraint(r.constraint))
		}

		rowStyle := lipgloss.NewStyle().Padding(0, 1)
		if i == fb.currentIndex {
			rowStyle = rowStyle.Background(fb.Theme.Selection)
		}
		lines = append(lines, rowStyle.Render(line))
	}
	return strings.Join(lines, "\n")
}

func describeConstraint(c *models.Constraint) string {
	if c.Type.IsRange() || c.Type == models.DateCreated {
		switch {
		case c.Min != "" && c.Max != "":
			return fmt.Sprintf("between %s and %s", c.Min, c.Max)
		case c.Min != "":
			return "at least " + c.Min
		case c.Max != "":
			return "at most " + c.Max
		}
		return "(no bounds)"
	}
	if c.Reference == "" {
		return "(no value)"
	}
	return "= " + c.Reference
}

// renderFieldPicker shows the field list for the category being
// edited. Line zero of the template output is the prompt, every line
// after it lines up with one candidate.
func (fb *FilterBuilder) renderFieldPicker() string {
	rendered := renderLines(fb.registry, "fieldselect", models.Category{
		Name:   fb.pickerName,
		Fields: fb.candidates[1:],
	})
	var lines []string
	for i, line := range rendered {
		if i == 0 {
			lines = append(lines, lipgloss.NewStyle().Bold(true).Padding(0, 1).Render(line))
			continue
		}
		style := lipgloss.NewStyle().Padding(0, 1)
		if i-1 == fb.fieldIndex {
			style = style.Background(fb.Theme.Selection)
		}
		lines = append(lines, style.Render(line))
	}
	return strings.Join(lines, "\n")
}

func (fb *FilterBuilder) renderValueInput() string {
	prompt := "Value: "
	switch fb.editMode {
	case "min":
		prompt = "Minimum (empty for none): "
	case "max":
		prompt = "Maximum (empty for none): "
	}
	inputStyle := lipgloss.NewStyle().
		Foreground(fb.Theme.Foreground).
		Padding(0, 1)
	return inputStyle.Render(prompt + fb.valueInput + "█")
}
