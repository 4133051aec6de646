package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the input type of a form field, mirroring the HTML
// input types the admin console uses
type Kind string

const (
	Text     Kind = "text"
	Email    Kind = "email"
	URL      Kind = "url"
	Number   Kind = "number"
	Date     Kind = "date"
	DateTime Kind = "datetime"
	Time     Kind = "time"
	Password Kind = "password"
	TextArea Kind = "textarea"
)

// Field is one form field with its constraint attributes
type Field struct {
	Name     string
	Kind     Kind
	Value    string
	Required bool

	// Min and Max bound number and date/time fields, as raw strings
	// in the field's own format.
	Min string
	Max string

	// Pattern is an optional regular expression the value must match.
	Pattern string

	// MaxLength caps textarea length; zero means unbounded.
	MaxLength int

	// MinLength is the minimum password length; zero means unbounded.
	MinLength int

	// Confirms names the peer field this one must equal, used for
	// password confirmation.
	Confirms string
}

// Problem is one validation failure with its help text
type Problem struct {
	Field   string
	Message string
}

// Form is a set of fields validated together
type Form struct {
	Fields []Field
}

// Valid reports whether the form has no problems
func (f *Form) Valid() bool {
	return len(f.Validate()) == 0
}

// Validate checks every field and returns the help texts to display.
// An empty result means the form may be submitted.
func (f *Form) Validate() []Problem {
	var problems []Problem
	for i := range f.Fields {
		problems = append(problems, f.checkField(&f.Fields[i])...)
	}
	return problems
}

func (f *Form) checkField(field *Field) []Problem {
	var problems []Problem
	fail := func(msg string) {
		problems = append(problems, Problem{Field: field.Name, Message: msg})
	}

	if field.Value == "" {
		if field.Required {
			fail("This field is required.")
		}
		return problems
	}

	switch field.Kind {
	case Email:
		if msg := checkEmail(field.Value); msg != "" {
			fail(msg)
		}
	case URL:
		if msg := checkURL(field.Value); msg != "" {
			fail(msg)
		}
	case Number:
		problems = append(problems, checkNumber(field)...)
	case Date, DateTime, Time:
		problems = append(problems, checkDate(field)...)
	case TextArea:
		if field.MaxLength > 0 && len(field.Value) > field.MaxLength {
			fail("You exceeded the maximum valid length.")
		}
	case Password:
		if field.MinLength > 0 && len(field.Value) < field.MinLength {
			fail(fmt.Sprintf("The password must be at least %d characters long.", field.MinLength))
		}
		if field.Confirms != "" {
			if peer := f.field(field.Confirms); peer != nil && peer.Value != field.Value {
				fail("The passwords do not match. Please check your input.")
			}
		}
	}

	if field.Pattern != "" {
		re, err := regexp.Compile(field.Pattern)
		if err == nil && !re.MatchString(field.Value) {
			fail("The value entered does not match the required format.")
		}
	}

	return problems
}

func (f *Form) field(name string) *Field {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			return &f.Fields[i]
		}
	}
	return nil
}

// checkEmail rejects addresses whose host part has no top-level domain,
// e.g. user@host. Full address validation is the backend's job.
func checkEmail(value string) string {
	parts := strings.Split(value, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "The email address entered is not valid. Please check your input."
	}
	if !strings.Contains(parts[1], ".") {
		return "You forgot to add a top level domain to the address. Please check your input."
	}
	return ""
}

// checkURL applies the console's host-format heuristic: after stripping
// the scheme, the host must contain a dot unless it is localhost
func checkURL(value string) string {
	url := strings.Join(strings.Fields(value), "")
	host := strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "http://")
	parts := strings.FieldsFunc(host, func(r rune) bool {
		return r == '/' || r == '?' || r == '#'
	})
	if len(parts) == 0 {
		// A bare scheme like "http://" leaves no host at all.
		return "The URL you entered is not valid. Did you mean http://localhost/ ?"
	}
	host = parts[0]
	if !strings.Contains(host, ".") && !strings.Contains(host, "localhost") {
		return "The URL you entered is not valid. Did you mean http://localhost/ ?"
	}
	return ""
}

func checkNumber(field *Field) []Problem {
	var problems []Problem
	fail := func(msg string) {
		problems = append(problems, Problem{Field: field.Name, Message: msg})
	}

	val, err := strconv.ParseFloat(field.Value, 64)
	if err != nil {
		fail("The value entered is not a number. Please check your input.")
		return problems
	}
	if field.Min != "" {
		if min, err := strconv.ParseFloat(field.Min, 64); err == nil && val < min {
			fail("The entered value must be greater than " + field.Min + ".")
		}
	}
	if field.Max != "" {
		if max, err := strconv.ParseFloat(field.Max, 64); err == nil && val > max {
			fail("The entered value must be lower than " + field.Max + ".")
		}
	}
	return problems
}

var dateLayouts = map[Kind][]string{
	Date:     {"2006-01-02"},
	DateTime: {"2006-01-02 15:04", "2006-01-02T15:04", "2006-01-02 15:04:05"},
	Time:     {"15:04", "15:04:05"},
}

// parseDate parses a timestamp the way the console's date pickers format
// them; single-digit hours after the date are tolerated
func parseDate(kind Kind, value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if kind == DateTime {
		// Pad "2014-06-01 9:30" to "2014-06-01 09:30".
		if i := strings.IndexAny(value, " T"); i > 0 {
			rest := value[i+1:]
			if j := strings.Index(rest, ":"); j == 1 {
				value = value[:i+1] + "0" + rest
			}
		}
	}
	for _, layout := range dateLayouts[kind] {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func checkDate(field *Field) []Problem {
	var problems []Problem
	fail := func(msg string) {
		problems = append(problems, Problem{Field: field.Name, Message: msg})
	}

	val, ok := parseDate(field.Kind, field.Value)
	if !ok {
		fail("The date entered could not be validated. Please check the entry.")
		return problems
	}
	if field.Min != "" {
		if min, ok := parseDate(field.Kind, field.Min); ok && !val.After(min) {
			fail("The entered date must be greater than " + field.Min + ".")
		}
	}
	if field.Max != "" {
		if max, ok := parseDate(field.Kind, field.Max); ok && !val.Before(max) {
			fail("The entered date must be lower than " + field.Max + ".")
		}
	}
	return problems
}
